// Package history records the sequence of mutations applied to configuration
// nodes. Each entry carries a process-wide monotonically increasing sequence
// number, so changes made across several nodes can be interleaved back into a
// single timeline when debugging how a graph ended up in its current shape.
package history

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// counter sequences entries across all nodes. Atomic so nodes can be mutated
// from different goroutines without tearing the timeline.
var counter atomic.Int64

// Location is the source position that performed a mutation.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Entry is one recorded mutation. Value holds the new value; Deleted marks a
// removal (Value is nil in that case).
type Entry struct {
	Sequence int64
	Param    string
	Value    any
	Deleted  bool
	Location Location
}

func (e Entry) String() string {
	if e.Deleted {
		return fmt.Sprintf("#%d %s deleted (%s)", e.Sequence, e.Param, e.Location)
	}
	return fmt.Sprintf("#%d %s = %v (%s)", e.Sequence, e.Param, e.Value, e.Location)
}

// NewEntry records a set of param to value. skip counts stack frames above
// the caller to attribute the mutation to user code rather than library
// internals (0 means the immediate caller of NewEntry).
func NewEntry(param string, value any, skip int) Entry {
	return Entry{
		Sequence: counter.Add(1),
		Param:    param,
		Value:    value,
		Location: callerLocation(skip + 2),
	}
}

// NewDeletion records a removal of param.
func NewDeletion(param string, skip int) Entry {
	return Entry{
		Sequence: counter.Add(1),
		Param:    param,
		Deleted:  true,
		Location: callerLocation(skip + 2),
	}
}

func callerLocation(skip int) Location {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{}
	}
	return Location{File: file, Line: line}
}
