// Package printing renders configuration graphs as flattened text: one line
// per node and per plain argument value, addressed by its path from the
// root. The output is meant for humans inspecting a graph in a terminal or
// a diff, not for round-tripping (see pkg/serialization for that).
package printing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/arbor/pkg/config"
	"github.com/aretw0/arbor/pkg/tagging"
)

// Flatten returns one line per slot of the graph, in deterministic order.
// A node reached along several routes is expanded at its first route; later
// routes print a back-reference to it.
func Flatten(root config.Buildable) []string {
	p := &printer{firstRoute: make(map[config.Buildable]string)}
	p.node(nil, root)
	return p.lines
}

// Text is Flatten joined into one printable block.
func Text(root config.Buildable) string {
	return strings.Join(Flatten(root), "\n")
}

// Markdown renders a graph summary: the flattened dump in a code fence plus
// the tags reachable from the root with their documentation.
func Markdown(root config.Buildable) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %v\n\n", root)
	sb.WriteString("```\n")
	for _, line := range Flatten(root) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteString("```\n")

	var tags []*tagging.Tag
	for tag := range tagging.ListTags(root) {
		tags = append(tags, tag)
	}
	if len(tags) > 0 {
		sb.WriteString("\n## Tags\n\n")
		for _, tag := range tags {
			fmt.Fprintf(&sb, "- %s: %s\n", tag, tag.Description())
		}
	}
	return sb.String()
}

type printer struct {
	firstRoute map[config.Buildable]string
	lines      []string
}

func (p *printer) node(path config.Path, n config.Buildable) {
	if first, ok := p.firstRoute[n]; ok {
		p.lines = append(p.lines, fmt.Sprintf("%s = &%s", path, first))
		return
	}
	p.firstRoute[n] = path.String()

	if tv, ok := n.(*tagging.TaggedValue); ok {
		p.lines = append(p.lines, fmt.Sprintf("%s = %s", path, taggedLine(tv)))
		return
	}

	p.lines = append(p.lines, fmt.Sprintf("%s: %v", path, n))
	args := n.Arguments()
	for _, name := range config.ArgumentNames(n) {
		p.value(path.Child(config.Attr(name)), args[name])
	}
}

func (p *printer) value(path config.Path, v any) {
	switch val := v.(type) {
	case config.Buildable:
		p.node(path, val)
	case []any:
		for i, elem := range val {
			p.value(path.Child(config.Index(i)), elem)
		}
	case map[string]any:
		for _, k := range sortedKeys(val) {
			p.value(path.Child(config.Attr(k)), val[k])
		}
	default:
		p.lines = append(p.lines, fmt.Sprintf("%s = %s", path, formatValue(v)))
	}
}

func taggedLine(tv *tagging.TaggedValue) string {
	names := make([]string, 0, len(tv.Tags()))
	for _, tag := range tv.Tags() {
		names = append(names, tag.String())
	}
	label := strings.Join(names, ", ")

	if override, ok := tv.Arguments()[tagging.ValueParameter]; ok {
		return fmt.Sprintf("%s %s", label, formatValue(override))
	}
	if def, ok := tv.Default(); ok {
		return fmt.Sprintf("%s (default: %s)", label, formatValue(def))
	}
	return fmt.Sprintf("%s (unset)", label)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", val)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
