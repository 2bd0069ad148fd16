package selectors

import (
	"errors"
	"testing"

	"github.com/aretw0/arbor/pkg/build"
	"github.com/aretw0/arbor/pkg/config"
	"github.com/aretw0/arbor/pkg/tagging"
)

type denseArgs struct {
	Units int `default:"8"`
	DType any `arbor:"dtype"`
}

func newDense(a denseArgs) denseArgs { return a }

type dropoutArgs struct {
	Rate float64 `arbor:"rate" default:"0.5"`
}

func newDropout(a dropoutArgs) float64 { return a.Rate }

type modelArgs struct {
	Layers []any `arbor:"layers"`
}

func newModel(a modelArgs) []any { return a.Layers }

func mustConfig(t *testing.T, target any, positional ...any) *config.Node {
	t.Helper()
	n, err := config.New(target, positional...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return n
}

func collect(s *Selection) []config.Buildable {
	var out []config.Buildable
	for n := range s.Nodes() {
		out = append(out, n)
	}
	return out
}

func TestSelectByTarget(t *testing.T) {
	root := mustConfig(t, newModel)
	first := mustConfig(t, newDense, 16)
	second := mustConfig(t, newDense, 32)
	_ = root.Set("layers", []any{first, mustConfig(t, newDropout), second})

	got := collect(Select(root, newDense))
	if len(got) != 2 {
		t.Fatalf("matched %d nodes, want 2", len(got))
	}
	if got[0] != config.Buildable(first) || got[1] != config.Buildable(second) {
		t.Error("selection should yield the dense nodes in traversal order")
	}

	if n := collect(Select(root, newModel)); len(n) != 1 {
		t.Errorf("root itself should match its own target: %d", len(n))
	}
}

func TestSelectionReflectsLiveMutations(t *testing.T) {
	root := mustConfig(t, newModel)
	_ = root.Set("layers", []any{mustConfig(t, newDense)})

	sel := Select(root, newDense)
	if got := len(collect(sel)); got != 1 {
		t.Fatalf("initial match count = %d, want 1", got)
	}

	_ = root.Set("layers", []any{mustConfig(t, newDense), mustConfig(t, newDense)})
	if got := len(collect(sel)); got != 2 {
		t.Errorf("selection must re-traverse: %d matches after mutation, want 2", got)
	}
}

func TestSelectTagIsHierarchyAware(t *testing.T) {
	dtype := tagging.New("dtype", "Numeric dtype.")
	activation := dtype.Refine("activation_dtype", "Dtype for activations.")
	other := tagging.New("dtype", "Redeclared.")

	root := mustConfig(t, newModel)
	_ = root.Set("layers", []any{
		tagging.Tagged(activation),
		tagging.Tagged(dtype),
		tagging.Tagged(other),
	})

	if got := len(collect(SelectTag(root, dtype))); got != 2 {
		t.Errorf("parent tag should match itself and refinements: %d, want 2", got)
	}
	if got := len(collect(SelectTag(root, activation))); got != 1 {
		t.Errorf("refinement should match only itself: %d, want 1", got)
	}
}

func TestSelectionSetThenBuild(t *testing.T) {
	dtype := tagging.New("dtype", "Numeric dtype.")
	leafA := tagging.TaggedWithDefault("float32", dtype)
	leafB := tagging.Tagged(dtype)

	inner := mustConfig(t, newDense)
	_ = inner.Set("dtype", leafB)
	root := mustConfig(t, newModel)
	_ = root.Set("layers", []any{leafA, inner})

	if err := SelectTag(root, dtype).Set(map[string]any{tagging.ValueParameter: "bfloat16"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := build.Build(root)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	layers := got.([]any)
	if layers[0] != "bfloat16" {
		t.Errorf("defaulted leaf = %v, want override bfloat16", layers[0])
	}
	if layers[1].(denseArgs).DType != "bfloat16" {
		t.Errorf("nested leaf = %v, want override bfloat16", layers[1].(denseArgs).DType)
	}
}

func TestSelectionSetIsNotTransactional(t *testing.T) {
	tag := tagging.New("rate", "Dropout rate.")
	first := tagging.Tagged(tag)
	second := tagging.Tagged(tag)
	root := mustConfig(t, newModel)
	_ = root.Set("layers", []any{first, second})

	err := SelectTag(root, tag).Set(map[string]any{
		tagging.ValueParameter: 0.1,
		"zz_bad":               true,
	})
	var unknown *config.UnknownParameterError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want UnknownParameterError", err)
	}

	// Names apply in sorted order, so the first node's valid key landed
	// before the rejection; the second node was never reached.
	if _, ok := first.Resolved(); !ok {
		t.Error("mutation before the failure should be retained")
	}
	if _, ok := second.Resolved(); ok {
		t.Error("nodes after the failure should be untouched")
	}
}

func TestSelectionGet(t *testing.T) {
	root := mustConfig(t, newModel)
	set := mustConfig(t, newDropout)
	_ = set.Set("rate", 0.9)
	unset := mustConfig(t, newDense)
	_ = root.Set("layers", []any{set, unset, mustConfig(t, newDropout)})

	var values []any
	var errs []error
	for v, err := range Select(root, newDropout).Get("rate") {
		values = append(values, v)
		errs = append(errs, err)
	}
	if len(values) != 2 {
		t.Fatalf("Get yielded %d pairs, want 2", len(values))
	}
	if errs[0] != nil || values[0] != 0.9 {
		t.Errorf("first = %v, %v; want 0.9", values[0], errs[0])
	}
	// The second dropout falls back to its declared default.
	if errs[1] != nil || values[1] != 0.5 {
		t.Errorf("second = %v, %v; want default 0.5", values[1], errs[1])
	}
}

func TestSelectionGetStops(t *testing.T) {
	root := mustConfig(t, newModel)
	_ = root.Set("layers", []any{mustConfig(t, newDropout), mustConfig(t, newDropout)})

	count := 0
	for range Select(root, newDropout).Get("rate") {
		count++
		break
	}
	if count != 1 {
		t.Errorf("early break yielded %d, want 1", count)
	}
}
