package introspect

import (
	"fmt"
	"reflect"
)

// Parameter describes one declared parameter of a target.
type Parameter struct {
	// Name is the external parameter name (tag override or snake_case of the
	// field name).
	Name string

	// Type is the Go type of the backing struct field.
	Type reflect.Type

	// Default holds the declared default value (parsed from the `default` tag),
	// valid only when HasDefault is true.
	Default    any
	HasDefault bool

	fieldIndex int
}

type targetKind int

const (
	funcTarget targetKind = iota
	structTarget
	syntheticTarget
)

// Signature is the introspected shape of a target: its parameter names,
// defaults, and catch-all behavior. Signatures are immutable and shared; the
// package caches one per distinct target.
type Signature struct {
	name       string
	kind       targetKind
	params     []Parameter
	byName     map[string]int
	remainIdx  int // field index of the catch-all map, -1 if none
	variadic   bool
	argsType   reflect.Type  // argument struct type (func and struct targets)
	argsIsPtr  bool          // func expects *argsType instead of argsType
	fn         reflect.Value // func targets only
	returnsErr bool
}

// Name returns a short printable name for the target, e.g. "NewOptimizer" for
// a constructor function or "Optimizer" for a struct target.
func (s *Signature) Name() string { return s.name }

// ParameterNames returns the declared parameter names in field order.
func (s *Signature) ParameterNames() []string {
	names := make([]string, len(s.params))
	for i, p := range s.params {
		names[i] = p.Name
	}
	return names
}

// Parameters returns the declared parameters in field order.
func (s *Signature) Parameters() []Parameter {
	out := make([]Parameter, len(s.params))
	copy(out, s.params)
	return out
}

// Accepts reports whether the target takes an argument with the given name,
// either as a declared parameter or through a keyword catch-all.
func (s *Signature) Accepts(name string) bool {
	if _, ok := s.byName[name]; ok {
		return true
	}
	return s.remainIdx >= 0
}

// Declares reports whether name is a declared parameter (catch-all excluded).
func (s *Signature) Declares(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// HasCatchAll reports whether the target declares a keyword catch-all
// parameter (a map[string]any field tagged `arbor:",remain"`).
func (s *Signature) HasCatchAll() bool { return s.remainIdx >= 0 }

// Variadic reports whether the target is a variadic Go function. Such targets
// cannot be configured (see the config package).
func (s *Signature) Variadic() bool { return s.variadic }

// Default returns the declared default for a parameter, if any.
func (s *Signature) Default(name string) (any, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	p := s.params[i]
	return p.Default, p.HasDefault
}

// Synthetic reports whether this signature was reconstructed from serialized
// metadata rather than introspected from a live target. Synthetic signatures
// support name validation but cannot be invoked.
func (s *Signature) Synthetic() bool { return s.kind == syntheticTarget }

// Call invokes the target with the given named arguments. Declared parameters
// are assigned to their struct fields (applying declared defaults for unset
// ones), and any remaining names go to the catch-all map. For struct targets
// the populated struct pointer is returned without any function call.
func (s *Signature) Call(args map[string]any) (any, error) {
	if s.kind == syntheticTarget {
		return nil, fmt.Errorf("target %s is synthetic and cannot be invoked", s.name)
	}

	in, err := s.populate(args)
	if err != nil {
		return nil, err
	}

	if s.kind == structTarget {
		return in.Addr().Interface(), nil
	}

	var callArgs []reflect.Value
	if s.argsType != nil {
		if s.argsIsPtr {
			callArgs = []reflect.Value{in.Addr()}
		} else {
			callArgs = []reflect.Value{in}
		}
	}

	results := s.fn.Call(callArgs)
	if s.returnsErr {
		if errVal := results[1]; !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
	}
	return results[0].Interface(), nil
}

// populate builds the argument struct value from named arguments.
func (s *Signature) populate(args map[string]any) (reflect.Value, error) {
	if s.argsType == nil {
		if len(args) > 0 {
			return reflect.Value{}, fmt.Errorf("target %s takes no arguments", s.name)
		}
		return reflect.Value{}, nil
	}

	in := reflect.New(s.argsType).Elem()
	var remain map[string]any

	for name, value := range args {
		idx, declared := s.byName[name]
		if !declared {
			if s.remainIdx < 0 {
				return reflect.Value{}, fmt.Errorf("target %s does not accept argument %q", s.name, name)
			}
			if remain == nil {
				remain = make(map[string]any)
			}
			remain[name] = value
			continue
		}
		if err := assignField(in.Field(s.params[idx].fieldIndex), name, value); err != nil {
			return reflect.Value{}, err
		}
	}

	// Fill declared defaults for parameters the caller left unset.
	for _, p := range s.params {
		if !p.HasDefault {
			continue
		}
		if _, set := args[p.Name]; set {
			continue
		}
		if err := assignField(in.Field(p.fieldIndex), p.Name, p.Default); err != nil {
			return reflect.Value{}, err
		}
	}

	if s.remainIdx >= 0 && remain != nil {
		in.Field(s.remainIdx).Set(reflect.ValueOf(remain))
	}
	return in, nil
}

func assignField(field reflect.Value, name string, value any) error {
	if value == nil {
		// Leave the zero value; nil only makes sense for nilable kinds.
		switch field.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return nil
		default:
			return fmt.Errorf("parameter %q: cannot assign nil to %s", name, field.Type())
		}
	}

	v := reflect.ValueOf(value)
	switch {
	case v.Type().AssignableTo(field.Type()):
		field.Set(v)
	case v.Type().ConvertibleTo(field.Type()) && convertSafe(v.Type(), field.Type()):
		field.Set(v.Convert(field.Type()))
	default:
		return fmt.Errorf("parameter %q: cannot assign %T to %s", name, value, field.Type())
	}
	return nil
}

// convertSafe limits automatic conversion to numeric widening-style cases;
// string <-> []byte and other surprising conversions stay rejected.
func convertSafe(from, to reflect.Type) bool {
	return isNumeric(from.Kind()) && isNumeric(to.Kind())
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
