package flags

import (
	"sort"

	"github.com/rs/zerolog"

	eq "github.com/clinsearch/enquiry"
)

// Registry holds the flag catalogue. It is populated once at startup and
// treated as read-only afterwards; Define must not be called once the
// registry is shared across goroutines.
type Registry struct {
	defs map[string]*Definition

	// logger receives a debug line for every dropped flag.
	logger zerolog.Logger

	// metrics, when set, counts dropped flags.
	metrics *eq.Metrics

	// observer, when set, is invoked for every dropped flag with the flag
	// name, the rejected value, and a short reason.
	observer func(flag string, value any, reason string)
}

// NewEmptyRegistry returns a registry with no definitions. Tests and embedders
// with a custom catalogue use this together with Define.
func NewEmptyRegistry() *Registry {
	return &Registry{
		defs:   make(map[string]*Definition),
		logger: zerolog.Nop(),
	}
}

// NewRegistry returns a registry loaded with the standard catalogue.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for i := range catalogue {
		r.Define(&catalogue[i])
	}
	return r
}

// SetLogger installs the logger used for drop diagnostics.
func (r *Registry) SetLogger(logger zerolog.Logger) {
	r.logger = logger
}

// SetMetrics installs the metrics sink for drop counting.
func (r *Registry) SetMetrics(m *eq.Metrics) {
	r.metrics = m
}

// SetDropObserver installs a callback invoked for every flag removed during
// validation.
func (r *Registry) SetDropObserver(fn func(flag string, value any, reason string)) {
	r.observer = fn
}

// Define adds a definition to the catalogue. It panics on an empty name or a
// duplicate, both of which indicate a programming error in catalogue setup.
func (r *Registry) Define(def *Definition) {
	if def == nil || def.Name == "" {
		panic("flags: Define requires a named definition")
	}
	if _, exists := r.defs[def.Name]; exists {
		panic("flags: duplicate flag definition: " + def.Name)
	}
	r.defs[def.Name] = def
}

// Lookup returns the definition for name, or nil if the flag is unknown.
func (r *Registry) Lookup(name string) *Definition {
	return r.defs[name]
}

// Names returns all defined flag names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of defined flags.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Validate filters a flag map in place against the catalogue. Unknown flags
// and flags with values outside their domain or rejected by their validator
// are removed; valid flags are kept untouched. Absent flags stay absent:
// validation never adds entries. The input map is returned for chaining.
func (r *Registry) Validate(set map[string]any) map[string]any {
	if set == nil {
		return nil
	}
	for name, value := range set {
		def := r.defs[name]
		if def == nil {
			r.drop(set, name, value, "unknown flag")
			continue
		}
		if ok, reason := def.allows(value); !ok {
			r.drop(set, name, value, reason)
		}
	}
	return set
}

func (r *Registry) drop(set map[string]any, name string, value any, reason string) {
	delete(set, name)
	r.logger.Debug().
		Str("flag", name).
		Interface("value", value).
		Str("reason", reason).
		Msg("dropped invalid flag")
	if r.metrics != nil {
		r.metrics.RecordFlagDrop()
	}
	if r.observer != nil {
		r.observer(name, value, reason)
	}
}

// MissingRequired returns the names of required flags absent from set, in
// sorted order. Callers decide whether an absence is worth a warning;
// Validate itself never rejects an absent flag.
func (r *Registry) MissingRequired(set map[string]any) []string {
	var missing []string
	for name, def := range r.defs {
		if !def.Required {
			continue
		}
		if _, present := set[name]; !present {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}
