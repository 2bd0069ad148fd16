// Package diff computes structural differences between two configuration
// graphs. Nodes are aligned by position: the walk starts at the two roots
// and descends through matching argument names and sequence indexes, so a
// change reports the path where the graphs first disagree.
package diff

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/aretw0/arbor/pkg/config"
)

// Op classifies one change.
type Op string

const (
	// OpSet reports a value that was added or replaced.
	OpSet Op = "set"
	// OpDelete reports an argument present in the old graph only.
	OpDelete Op = "delete"
	// OpRetarget reports a node whose target or kind changed; the subtree
	// below it is not compared further.
	OpRetarget Op = "retarget"
)

// Change is one difference between the old and new graph.
type Change struct {
	Path config.Path
	Op   Op
	Old  any
	New  any
}

func (c Change) String() string {
	switch c.Op {
	case OpDelete:
		return fmt.Sprintf("- %s = %v", c.Path, c.Old)
	case OpRetarget:
		return fmt.Sprintf("! %s: %v -> %v", c.Path, c.Old, c.New)
	default:
		return fmt.Sprintf("+ %s = %v", c.Path, c.New)
	}
}

// Graphs compares two graphs and returns the changes that turn old into new,
// in deterministic path order. Aligned node pairs are compared once even
// when they are shared and reachable along several routes.
func Graphs(old, new config.Buildable) []Change {
	d := &differ{seen: make(map[[2]config.Buildable]bool)}
	d.nodes(nil, old, new)
	return d.changes
}

type differ struct {
	seen    map[[2]config.Buildable]bool
	changes []Change
}

func (d *differ) nodes(path config.Path, old, new config.Buildable) {
	pair := [2]config.Buildable{old, new}
	if d.seen[pair] {
		return
	}
	d.seen[pair] = true

	if !old.CongruentTo(new) {
		d.changes = append(d.changes, Change{Path: path, Op: OpRetarget, Old: old, New: new})
		return
	}

	oldArgs, newArgs := old.Arguments(), new.Arguments()
	for _, name := range unionKeys(oldArgs, newArgs) {
		childPath := path.Child(config.Attr(name))
		oldVal, inOld := oldArgs[name]
		newVal, inNew := newArgs[name]
		switch {
		case !inNew:
			d.changes = append(d.changes, Change{Path: childPath, Op: OpDelete, Old: oldVal})
		case !inOld:
			d.changes = append(d.changes, Change{Path: childPath, Op: OpSet, New: newVal})
		default:
			d.values(childPath, oldVal, newVal)
		}
	}
}

func (d *differ) values(path config.Path, old, new any) {
	oldNode, oldIsNode := old.(config.Buildable)
	newNode, newIsNode := new.(config.Buildable)
	if oldIsNode && newIsNode {
		d.nodes(path, oldNode, newNode)
		return
	}
	if oldIsNode != newIsNode {
		d.changes = append(d.changes, Change{Path: path, Op: OpSet, Old: old, New: new})
		return
	}

	switch oldVal := old.(type) {
	case []any:
		newVal, ok := new.([]any)
		if !ok {
			d.changes = append(d.changes, Change{Path: path, Op: OpSet, Old: old, New: new})
			return
		}
		shorter := min(len(oldVal), len(newVal))
		for i := 0; i < shorter; i++ {
			d.values(path.Child(config.Index(i)), oldVal[i], newVal[i])
		}
		for i := shorter; i < len(oldVal); i++ {
			d.changes = append(d.changes, Change{Path: path.Child(config.Index(i)), Op: OpDelete, Old: oldVal[i]})
		}
		for i := shorter; i < len(newVal); i++ {
			d.changes = append(d.changes, Change{Path: path.Child(config.Index(i)), Op: OpSet, New: newVal[i]})
		}
	case map[string]any:
		newVal, ok := new.(map[string]any)
		if !ok {
			d.changes = append(d.changes, Change{Path: path, Op: OpSet, Old: old, New: new})
			return
		}
		for _, k := range unionKeys(oldVal, newVal) {
			childPath := path.Child(config.Attr(k))
			ov, inOld := oldVal[k]
			nv, inNew := newVal[k]
			switch {
			case !inNew:
				d.changes = append(d.changes, Change{Path: childPath, Op: OpDelete, Old: ov})
			case !inOld:
				d.changes = append(d.changes, Change{Path: childPath, Op: OpSet, New: nv})
			default:
				d.values(childPath, ov, nv)
			}
		}
	default:
		if !reflect.DeepEqual(old, new) {
			d.changes = append(d.changes, Change{Path: path, Op: OpSet, Old: old, New: new})
		}
	}
}

func unionKeys(a, b map[string]any) []string {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, dup := a[k]; !dup {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
