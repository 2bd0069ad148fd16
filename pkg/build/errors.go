package build

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/config"
)

// ReentrantBuildError reports an attempt to start a build while another one
// is already in progress anywhere in the call chain.
type ReentrantBuildError struct{}

func (e *ReentrantBuildError) Error() string {
	return "build already in progress: nested Build calls are not allowed"
}

// CyclicReferenceError reports a node that appeared in its own ancestry
// during the traversal. Path is the route from the root to the repeated
// reference.
type CyclicReferenceError struct {
	Path config.Path
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("cyclic reference at %s", e.Path)
}

// UnsetTaggedValueError reports a tagged leaf reached at build time with
// neither an override nor a default.
type UnsetTaggedValueError struct {
	Tags []string
}

func (e *UnsetTaggedValueError) Error() string {
	return fmt.Sprintf("no value set for tagged value (tags: %s)", strings.Join(e.Tags, ", "))
}

// Error wraps the first failure encountered during a build with the path
// from the root to the failing node. Failures at the root itself are
// returned unwrapped.
type Error struct {
	Path config.Path
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("building %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// fail wraps err with the failing node's path. An *Error passes through
// untouched so the earliest failing path wins.
func fail(path config.Path, err error) error {
	if _, ok := err.(*Error); ok {
		return err
	}
	if len(path) == 0 {
		return err
	}
	return &Error{Path: path, Err: err}
}
