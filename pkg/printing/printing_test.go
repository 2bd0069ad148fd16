package printing

import (
	"strings"
	"testing"

	"github.com/aretw0/arbor/pkg/config"
	"github.com/aretw0/arbor/pkg/tagging"
)

type denseArgs struct {
	Units int `default:"8"`
	DType any `arbor:"dtype"`
}

func newDense(a denseArgs) denseArgs { return a }

type modelArgs struct {
	Layers []any `arbor:"layers"`
	Head   any   `arbor:"head"`
	Name   string `arbor:"name"`
}

func newModel(a modelArgs) modelArgs { return a }

func mustConfig(t *testing.T, target any, positional ...any) *config.Node {
	t.Helper()
	n, err := config.New(target, positional...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return n
}

func TestFlatten(t *testing.T) {
	dtype := tagging.New("dtype", "Numeric dtype.")
	dense := mustConfig(t, newDense, 16)
	_ = dense.Set("dtype", tagging.TaggedWithDefault("float32", dtype))

	root := mustConfig(t, newModel)
	_ = root.Set("name", "baseline")
	_ = root.Set("layers", []any{dense})

	got := Flatten(root)
	want := []string{
		`<root>: <config newModel>`,
		`<root>.layers[0]: <config newDense>`,
		`<root>.layers[0].dtype = #dtype (default: "float32")`,
		`<root>.layers[0].units = 16`,
		`<root>.name = "baseline"`,
	}
	if len(got) != len(want) {
		t.Fatalf("Flatten() = %q, want %d lines", got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFlattenSharedNodeBackReference(t *testing.T) {
	shared := mustConfig(t, newDense, 4)
	root := mustConfig(t, newModel)
	_ = root.Set("head", shared)
	_ = root.Set("layers", []any{shared})

	got := Text(root)
	if !strings.Contains(got, "<root>.layers[0] = &<root>.head") {
		t.Errorf("shared node should print a back-reference:\n%s", got)
	}
	if strings.Count(got, "<config newDense>") != 1 {
		t.Errorf("shared node should expand once:\n%s", got)
	}
}

func TestFlattenTaggedStates(t *testing.T) {
	tag := tagging.New("rate", "Dropout rate.")

	unset := mustConfig(t, newModel)
	_ = unset.Set("head", tagging.Tagged(tag))
	if got := Text(unset); !strings.Contains(got, "#rate (unset)") {
		t.Errorf("unset tagged value rendering:\n%s", got)
	}

	set := mustConfig(t, newModel)
	tv := tagging.TaggedWithDefault(0.5, tag)
	_ = tv.Set(tagging.ValueParameter, 0.9)
	_ = set.Set("head", tv)
	if got := Text(set); !strings.Contains(got, "#rate 0.9") {
		t.Errorf("override rendering:\n%s", got)
	}
}

func TestMarkdown(t *testing.T) {
	dtype := tagging.New("dtype", "Numeric dtype.")
	root := mustConfig(t, newModel)
	_ = root.Set("head", tagging.Tagged(dtype))

	got := Markdown(root)
	if !strings.HasPrefix(got, "# <config newModel>") {
		t.Errorf("missing title:\n%s", got)
	}
	if !strings.Contains(got, "```") {
		t.Error("flattened dump should sit in a code fence")
	}
	if !strings.Contains(got, "- #dtype: Numeric dtype.") {
		t.Errorf("tag documentation missing:\n%s", got)
	}
}
