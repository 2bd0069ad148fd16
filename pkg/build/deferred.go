package build

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/config"
	"github.com/aretw0/arbor/pkg/introspect"
)

// Deferred is the build result of a Partial node: the target bound to its
// already-built arguments, not yet invoked.
type Deferred struct {
	sig  *introspect.Signature
	args map[string]any
}

// Call invokes the target with the stored arguments merged with overrides.
// Override names are validated against the target's signature; the stored
// arguments themselves were validated when the node was configured.
func (d *Deferred) Call(overrides map[string]any) (any, error) {
	merged := make(map[string]any, len(d.args)+len(overrides))
	for name, value := range d.args {
		merged[name] = value
	}
	for name, value := range overrides {
		if !d.sig.Accepts(name) {
			return nil, &config.UnknownParameterError{
				Name:   name,
				Target: d.sig.Name(),
				Valid:  d.sig.ParameterNames(),
			}
		}
		merged[name] = value
	}
	return invoke(d.sig, merged)
}

// Arguments returns a copy of the bound argument values.
func (d *Deferred) Arguments() map[string]any {
	out := make(map[string]any, len(d.args))
	for name, value := range d.args {
		out[name] = value
	}
	return out
}

func (d *Deferred) String() string {
	return fmt.Sprintf("<deferred %s>", d.sig.Name())
}
