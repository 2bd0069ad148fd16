package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/arbor/internal/presentation/graph"
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

func TestMermaidShapesAndEdges(t *testing.T) {
	dtype := tagging.New("dtype", "Numeric dtype.")
	dense := mustConfig(t, newDense)
	_ = dense.Set("dtype", tagging.Tagged(dtype))

	head, err := config.NewPartial(newDense)
	if err != nil {
		t.Fatal(err)
	}

	root := mustConfig(t, newModel)
	_ = root.Set("layers", []any{dense})
	_ = root.Set("head", head)

	out := graph.Mermaid(root)

	for _, want := range []string{
		"graph TD",
		`n0["newModel"]`,          // config rectangle
		`[["newDense"]]`,          // partial subroutine
		`[/"#dtype"/]`,            // tagged parallelogram
		`n0 -- "head" -->`,        // named slot edge
		`n0 -- "layers[0]" -->`,   // indexed slot edge
		`-- "dtype" -->`,          // nested edge into the tagged leaf
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMermaidSharedNodeDeclaredOnce(t *testing.T) {
	shared := mustConfig(t, newDense)
	root := mustConfig(t, newModel)
	_ = root.Set("layers", []any{shared})
	_ = root.Set("head", shared)

	out := graph.Mermaid(root)
	if strings.Count(out, `["newDense"]`) != 1 {
		t.Errorf("shared node should be declared once:\n%s", out)
	}
	if strings.Count(out, "-->") != 2 {
		t.Errorf("shared node should have two inbound edges:\n%s", out)
	}
}

func TestMermaidEscapesQuotes(t *testing.T) {
	root := mustConfig(t, newModel)
	_ = root.Set("layers", []any{map[string]any{`a"b`: mustConfig(t, newDense)}})

	out := graph.Mermaid(root)
	if strings.Contains(out, `a"b`) {
		t.Errorf("labels must not carry raw double quotes:\n%s", out)
	}
	if !strings.Contains(out, "a'b") {
		t.Errorf("quotes should be replaced with single quotes:\n%s", out)
	}
}
