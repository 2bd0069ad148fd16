// Package introspect inspects configuration targets: Go constructor functions
// and struct types. It answers which parameter names a target accepts, which
// have declared defaults, whether it declares a keyword catch-all, and knows
// how to invoke the target with a resolved argument map.
//
// A function target has the shape func(Args) R, func(Args) (R, error),
// func() R or func() (R, error), where Args is a struct (or pointer to
// struct) whose fields are the parameters. A struct target is the "class"
// analog: building it yields a populated pointer to the struct.
//
// Field tags drive the parameter metadata:
//
//	type optimizerArgs struct {
//		LearningRate float64        `arbor:"learning_rate" default:"0.001"`
//		Momentum     float64        // parameter name "momentum"
//		Extra        map[string]any `arbor:",remain"` // keyword catch-all
//	}
package introspect

import (
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

// cache holds one *Signature per distinct target. Keys are func pointers
// (uintptr) for function targets and reflect.Type for struct targets.
var cache sync.Map

// For introspects a target and returns its cached Signature.
func For(target any) (*Signature, error) {
	if target == nil {
		return nil, fmt.Errorf("introspect: target is nil")
	}

	t := reflect.TypeOf(target)
	var key any
	switch t.Kind() {
	case reflect.Func:
		key = reflect.ValueOf(target).Pointer()
	case reflect.Struct:
		key = t
	case reflect.Ptr:
		if t.Elem().Kind() != reflect.Struct {
			return nil, fmt.Errorf("introspect: unsupported target type %s", t)
		}
		key = t.Elem()
	default:
		return nil, fmt.Errorf("introspect: unsupported target type %s", t)
	}

	if cached, ok := cache.Load(key); ok {
		return cached.(*Signature), nil
	}

	sig, err := inspect(target, t)
	if err != nil {
		return nil, err
	}
	actual, _ := cache.LoadOrStore(key, sig)
	return actual.(*Signature), nil
}

// Synthetic builds a signature from serialized metadata: a target name, its
// parameter names, and whether it carried a keyword catch-all. Synthetic
// signatures validate argument names but cannot be invoked; they back
// detached deserialization for inspection-only tooling.
func Synthetic(name string, params []string, catchAll bool) *Signature {
	sig := &Signature{
		name:      name,
		kind:      syntheticTarget,
		byName:    make(map[string]int, len(params)),
		remainIdx: -1,
	}
	if catchAll {
		sig.remainIdx = 0
	}
	for i, p := range params {
		sig.params = append(sig.params, Parameter{Name: p})
		sig.byName[p] = i
	}
	return sig
}

// SameTarget reports whether two targets are the same callable or class:
// identical function pointers, or the same struct type. This is the identity
// used by target-based selection and by structural equality.
func SameTarget(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta.Kind() == reflect.Func && tb.Kind() == reflect.Func {
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	}
	return structType(ta) != nil && structType(ta) == structType(tb)
}

func structType(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.Struct:
		return t
	case reflect.Ptr:
		if t.Elem().Kind() == reflect.Struct {
			return t.Elem()
		}
	}
	return nil
}

func inspect(target any, t reflect.Type) (*Signature, error) {
	if t.Kind() == reflect.Func {
		return inspectFunc(target, t)
	}
	st := structType(t)
	sig := &Signature{
		name:     st.Name(),
		kind:     structTarget,
		argsType: st,
	}
	if err := inspectFields(sig, st); err != nil {
		return nil, err
	}
	return sig, nil
}

func inspectFunc(target any, t reflect.Type) (*Signature, error) {
	sig := &Signature{
		name:     funcName(target),
		kind:     funcTarget,
		fn:       reflect.ValueOf(target),
		variadic: t.IsVariadic(),
	}

	switch t.NumOut() {
	case 1:
		// Single result, no error.
	case 2:
		if !t.Out(1).Implements(errorInterface) {
			return nil, fmt.Errorf("introspect: %s: second return value must be error", sig.name)
		}
		sig.returnsErr = true
	default:
		return nil, fmt.Errorf("introspect: %s: target must return one value or (value, error)", sig.name)
	}

	if sig.variadic {
		// Variadic targets are introspectable (so construction can report a
		// precise unsupported-feature error) but carry no parameters.
		sig.byName = map[string]int{}
		sig.remainIdx = -1
		return sig, nil
	}

	switch t.NumIn() {
	case 0:
		sig.byName = map[string]int{}
		sig.remainIdx = -1
		return sig, nil
	case 1:
		in := t.In(0)
		if in.Kind() == reflect.Ptr && in.Elem().Kind() == reflect.Struct {
			sig.argsIsPtr = true
			in = in.Elem()
		}
		if in.Kind() != reflect.Struct {
			return nil, fmt.Errorf("introspect: %s: argument must be a struct, got %s", sig.name, in)
		}
		sig.argsType = in
		if err := inspectFields(sig, in); err != nil {
			return nil, err
		}
		return sig, nil
	default:
		return nil, fmt.Errorf("introspect: %s: target must take a single argument struct", sig.name)
	}
}

var errorInterface = reflect.TypeOf((*error)(nil)).Elem()

func inspectFields(sig *Signature, st reflect.Type) error {
	sig.byName = make(map[string]int)
	sig.remainIdx = -1

	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		if !field.IsExported() {
			continue
		}

		name, remain := parseTag(field)
		if remain {
			if field.Type != remainType {
				return fmt.Errorf("introspect: %s: catch-all field %s must be map[string]any", sig.name, field.Name)
			}
			if sig.remainIdx >= 0 {
				return fmt.Errorf("introspect: %s: multiple catch-all fields", sig.name)
			}
			sig.remainIdx = i
			continue
		}
		if name == "-" {
			continue
		}
		if name == "" {
			name = snakeCase(field.Name)
		}
		if _, dup := sig.byName[name]; dup {
			return fmt.Errorf("introspect: %s: duplicate parameter name %q", sig.name, name)
		}

		param := Parameter{Name: name, Type: field.Type, fieldIndex: i}
		if def, ok := field.Tag.Lookup("default"); ok {
			parsed, err := parseDefault(def, field.Type)
			if err != nil {
				return fmt.Errorf("introspect: %s: parameter %q: %w", sig.name, name, err)
			}
			param.Default = parsed
			param.HasDefault = true
		}

		sig.byName[name] = len(sig.params)
		sig.params = append(sig.params, param)
	}
	return nil
}

var remainType = reflect.TypeOf(map[string]any(nil))

func parseTag(field reflect.StructField) (name string, remain bool) {
	tag, ok := field.Tag.Lookup("arbor")
	if !ok {
		return "", false
	}
	parts := strings.Split(tag, ",")
	for _, opt := range parts[1:] {
		if opt == "remain" {
			return parts[0], true
		}
	}
	return parts[0], false
}

func parseDefault(literal string, t reflect.Type) (any, error) {
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(literal)
	case reflect.Bool:
		b, err := strconv.ParseBool(literal)
		if err != nil {
			return nil, fmt.Errorf("invalid bool default %q", literal)
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(literal, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid int default %q", literal)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(literal, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid uint default %q", literal)
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float default %q", literal)
		}
		v.SetFloat(f)
	default:
		return nil, fmt.Errorf("default tag not supported for %s", t)
	}
	return v.Interface(), nil
}

// funcName extracts a short name for a function, e.g.
// "github.com/acme/model.NewEncoder" becomes "NewEncoder".
func funcName(target any) string {
	full := runtime.FuncForPC(reflect.ValueOf(target).Pointer()).Name()
	if idx := strings.LastIndex(full, "."); idx >= 0 {
		full = full[idx+1:]
	}
	// Anonymous functions end up as "func1"-style suffixes; keep them as-is.
	return strings.TrimSuffix(full, "-fm")
}

func snakeCase(name string) string {
	var sb strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// Insert an underscore at lower->Upper boundaries and before the
			// last capital of an acronym followed by a lowercase letter.
			if i > 0 && (unicode.IsLower(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
