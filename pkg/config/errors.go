package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnset is returned (wrapped) by Get and Delete when a parameter is valid
// for the target but currently has neither an override nor a declared default.
var ErrUnset = errors.New("parameter is not set and has no default")

// UnknownParameterError reports an argument name the target does not accept.
// It is raised synchronously at the point of mutation or construction, never
// deferred to build time.
type UnknownParameterError struct {
	Name   string   // the rejected parameter name
	Target string   // printable target name
	Valid  []string // the target's declared parameter names
}

func (e *UnknownParameterError) Error() string {
	if len(e.Valid) == 0 {
		return fmt.Sprintf("unknown parameter %q for target %s (target declares no parameters)", e.Name, e.Target)
	}
	return fmt.Sprintf("unknown parameter %q for target %s (valid parameters: %s)",
		e.Name, e.Target, strings.Join(e.Valid, ", "))
}

// UnsupportedVariadicError reports an attempt to configure variadic positional
// parameters: either the target itself is a variadic function, or more
// positional arguments were supplied than the target declares names for.
type UnsupportedVariadicError struct {
	Target   string
	Variadic bool // the target declares variadic positional parameters
	Given    int  // positional arguments supplied (when Variadic is false)
	Declared int  // parameter names available for positional binding
}

func (e *UnsupportedVariadicError) Error() string {
	if e.Variadic {
		return fmt.Sprintf("target %s declares variadic positional parameters, which cannot be configured", e.Target)
	}
	return fmt.Sprintf("%d positional arguments for target %s, which declares only %d parameters; extra positional arguments are not supported",
		e.Given, e.Target, e.Declared)
}
