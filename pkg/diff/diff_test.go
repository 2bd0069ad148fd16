package diff

import (
	"testing"

	"github.com/aretw0/arbor/pkg/config"
)

type denseArgs struct {
	Units      int    `default:"8"`
	Activation string `arbor:"activation"`
}

func newDense(a denseArgs) denseArgs { return a }

type dropoutArgs struct {
	Rate float64 `arbor:"rate"`
}

func newDropout(a dropoutArgs) float64 { return a.Rate }

type modelArgs struct {
	Layers []any `arbor:"layers"`
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

func TestIdenticalGraphsHaveNoChanges(t *testing.T) {
	mk := func() *config.Node {
		root := mustConfig(t, newModel)
		_ = root.Set("layers", []any{mustConfig(t, newDense, 16)})
		return root
	}
	if changes := Graphs(mk(), mk()); len(changes) != 0 {
		t.Errorf("changes = %v, want none", changes)
	}
}

func TestValueChanges(t *testing.T) {
	old := mustConfig(t, newModel)
	_ = old.Set("name", "baseline")
	_ = old.Set("layers", []any{1, 2})

	new := mustConfig(t, newModel)
	_ = new.Set("layers", []any{1, 3, 4})

	changes := Graphs(old, new)
	if len(changes) != 3 {
		t.Fatalf("changes = %v, want 3", changes)
	}

	if changes[0].Path.String() != "<root>.layers[1]" || changes[0].Op != OpSet || changes[0].New != 3 {
		t.Errorf("unexpected change: %v", changes[0])
	}
	if changes[1].Path.String() != "<root>.layers[2]" || changes[1].Op != OpSet {
		t.Errorf("unexpected change: %v", changes[1])
	}
	if changes[2].Path.String() != "<root>.name" || changes[2].Op != OpDelete || changes[2].Old != "baseline" {
		t.Errorf("unexpected change: %v", changes[2])
	}
}

func TestNestedNodeChange(t *testing.T) {
	mk := func(units int) *config.Node {
		root := mustConfig(t, newModel)
		_ = root.Set("layers", []any{mustConfig(t, newDense, units)})
		return root
	}

	changes := Graphs(mk(8), mk(16))
	if len(changes) != 1 {
		t.Fatalf("changes = %v, want 1", changes)
	}
	c := changes[0]
	if c.Path.String() != "<root>.layers[0].units" || c.Old != 8 || c.New != 16 {
		t.Errorf("unexpected change: %v", c)
	}
}

func TestRetargetStopsDescent(t *testing.T) {
	old := mustConfig(t, newModel)
	_ = old.Set("layers", []any{mustConfig(t, newDense, 8)})
	new := mustConfig(t, newModel)
	_ = new.Set("layers", []any{mustConfig(t, newDropout)})

	changes := Graphs(old, new)
	if len(changes) != 1 || changes[0].Op != OpRetarget {
		t.Fatalf("changes = %v, want one retarget", changes)
	}
	if changes[0].Path.String() != "<root>.layers[0]" {
		t.Errorf("retarget path = %s", changes[0].Path)
	}
}

func TestKindChangeIsRetarget(t *testing.T) {
	cfg := mustConfig(t, newDense)
	part, err := config.NewPartial(newDense)
	if err != nil {
		t.Fatal(err)
	}

	changes := Graphs(cfg, part)
	if len(changes) != 1 || changes[0].Op != OpRetarget {
		t.Errorf("changes = %v, want one retarget", changes)
	}
}

func TestSharedPairComparedOnce(t *testing.T) {
	mk := func(units int) *config.Node {
		shared := mustConfig(t, newDense, units)
		root := mustConfig(t, newModel)
		_ = root.Set("layers", []any{shared, shared})
		return root
	}

	changes := Graphs(mk(8), mk(16))
	if len(changes) != 1 {
		t.Errorf("shared node should be diffed once: %v", changes)
	}
}

func TestNodeReplacedByLiteral(t *testing.T) {
	old := mustConfig(t, newModel)
	_ = old.Set("layers", []any{mustConfig(t, newDropout)})
	new := mustConfig(t, newModel)
	_ = new.Set("layers", []any{0.5})

	changes := Graphs(old, new)
	if len(changes) != 1 || changes[0].Op != OpSet || changes[0].New != 0.5 {
		t.Errorf("changes = %v, want one set to 0.5", changes)
	}
}
