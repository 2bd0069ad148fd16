package config

import (
	"fmt"
	"strings"
)

// Element is one step of a path from a graph root to a value: an argument or
// mapping key (Attr) or a sequence position (Index).
type Element struct {
	Attr    string
	Index   int
	IsIndex bool
}

// Attr returns a named path element.
func Attr(name string) Element { return Element{Attr: name} }

// Index returns a sequence-position path element.
func Index(i int) Element { return Element{Index: i, IsIndex: true} }

// Path is the route from a root node to a nested value, rendered in the
// "<root>.y[1]" form used by build errors and flattened dumps.
type Path []Element

func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString("<root>")
	for _, e := range p {
		if e.IsIndex {
			fmt.Fprintf(&sb, "[%d]", e.Index)
		} else {
			sb.WriteByte('.')
			sb.WriteString(e.Attr)
		}
	}
	return sb.String()
}

// Child returns a new path extended by one element. The backing array is
// copied, so retained paths are not aliased by later extensions.
func (p Path) Child(e Element) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, e)
}
