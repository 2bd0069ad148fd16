package history

import (
	"strings"
	"testing"
)

func TestSequenceIsMonotonic(t *testing.T) {
	a := NewEntry("x", 1, 0)
	b := NewEntry("y", 2, 0)
	c := NewDeletion("x", 0)

	if !(a.Sequence < b.Sequence && b.Sequence < c.Sequence) {
		t.Errorf("sequence not monotonic: %d, %d, %d", a.Sequence, b.Sequence, c.Sequence)
	}
}

func TestLocationPointsAtCaller(t *testing.T) {
	e := NewEntry("x", 1, 0)
	if !strings.HasSuffix(e.Location.File, "history_test.go") {
		t.Errorf("location = %s, want this test file", e.Location)
	}
	if e.Location.Line == 0 {
		t.Error("line number missing")
	}
}

func TestEntryString(t *testing.T) {
	set := NewEntry("rate", 0.5, 0)
	if !strings.Contains(set.String(), "rate = 0.5") {
		t.Errorf("unexpected set format: %s", set)
	}

	del := NewDeletion("rate", 0)
	if !strings.Contains(del.String(), "rate deleted") {
		t.Errorf("unexpected deletion format: %s", del)
	}
}
