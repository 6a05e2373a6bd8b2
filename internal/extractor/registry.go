package extractor

import (
	"fmt"
	"sort"
)

// Registry holds the extractor implementations the host makes available.
// It is populated once at startup and then only read.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a named implementation.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" {
		return fmt.Errorf("registering extractor: empty name")
	}
	if f == nil {
		return fmt.Errorf("registering extractor %s: nil factory", name)
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateExtractor, name)
	}
	r.factories[name] = f
	return nil
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RegisterBuiltins registers the extractors shipped with the binary.
func RegisterBuiltins(r *Registry) error {
	return r.Register(JSONParamsName, func() Extractor {
		return NewJSONParams(DefaultJSONParamsConfig())
	})
}
