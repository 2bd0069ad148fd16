package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/arbor/pkg/config"
	"github.com/aretw0/arbor/pkg/tagging"
)

// Mermaid produces a Mermaid flowchart from a configuration graph.
// It applies semantic styling:
// - Config: [Rectangle]
// - Partial: [[Subroutine]]
// - TaggedValue: [/Parallelogram/]
// Edges carry the argument slot that references the child node, so a shared
// node shows as one box with several inbound edges.
func Mermaid(root config.Buildable) string {
	r := &renderer{ids: make(map[config.Buildable]string)}
	r.decls.WriteString("graph TD\n")
	r.visit(root)
	return r.decls.String() + r.edges.String()
}

type renderer struct {
	ids   map[config.Buildable]string
	decls strings.Builder
	edges strings.Builder
}

func (r *renderer) visit(n config.Buildable) string {
	if id, ok := r.ids[n]; ok {
		return id
	}
	id := fmt.Sprintf("n%d", len(r.ids))
	r.ids[n] = id

	opener, closer := "[", "]"
	switch n.Kind() {
	case config.KindPartial:
		opener, closer = "[[", "]]"
	case config.KindTagged:
		opener, closer = "[/", "/]"
	}
	fmt.Fprintf(&r.decls, "    %s%s\"%s\"%s\n", id, opener, nodeLabel(n), closer)

	args := n.Arguments()
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.value(id, name, args[name])
	}
	return id
}

// value emits edges for every node reachable through one argument slot;
// plain values do not become graph nodes.
func (r *renderer) value(from, label string, v any) {
	switch val := v.(type) {
	case config.Buildable:
		to := r.visit(val)
		fmt.Fprintf(&r.edges, "    %s -- \"%s\" --> %s\n", from, escapeLabel(label), to)
	case []any:
		for i, elem := range val {
			r.value(from, fmt.Sprintf("%s[%d]", label, i), elem)
		}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			r.value(from, label+"."+k, val[k])
		}
	}
}

func nodeLabel(n config.Buildable) string {
	if tv, ok := n.(*tagging.TaggedValue); ok {
		names := make([]string, 0, len(tv.Tags()))
		for _, tag := range tv.Tags() {
			names = append(names, tag.String())
		}
		return escapeLabel(strings.Join(names, ", "))
	}
	return escapeLabel(n.Signature().Name())
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
