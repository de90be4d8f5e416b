package resource

import (
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// FilterAttribute describes one query parameter a filter contributes.
type FilterAttribute struct {
	// Type is the declared value type ("string", "int", "bool",
	// "float", "array", "object", ...). It is mapped to a primitive
	// schema unless Schema overrides it.
	Type     string
	Required bool
	// Schema, when set, is used verbatim for the parameter.
	Schema      *openapi3.SchemaRef
	Description string
	// Style and Explode override the derived serialization hints.
	Style   string
	Explode *bool
}

// Filter contributes query parameters to collection-style operations.
type Filter interface {
	// Description maps query parameter names to their attributes.
	Description() map[string]FilterAttribute
}

// MapFilter is a Filter backed by a plain map, handy for declarative
// wiring and tests.
type MapFilter map[string]FilterAttribute

// Description implements Filter.
func (f MapFilter) Description() map[string]FilterAttribute { return f }

// SortedParameterNames returns a filter's parameter names in a stable
// order.
func SortedParameterNames(f Filter) []string {
	desc := f.Description()
	names := make([]string, 0, len(desc))
	for name := range desc {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FilterRegistry holds named filters.
type FilterRegistry struct {
	byName map[string]Filter
}

// NewFilterRegistry returns an empty registry.
func NewFilterRegistry() *FilterRegistry {
	return &FilterRegistry{byName: make(map[string]Filter)}
}

// Register adds a filter under name. Duplicate names are rejected.
func (r *FilterRegistry) Register(name string, f Filter) error {
	if name == "" {
		return fmt.Errorf("resource: register filter with empty name")
	}
	if f == nil {
		return fmt.Errorf("resource: register nil filter %q", name)
	}
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("resource: filter %q already registered", name)
	}
	r.byName[name] = f
	return nil
}

// Get returns the filter registered under name.
func (r *FilterRegistry) Get(name string) (Filter, bool) {
	f, ok := r.byName[name]
	return f, ok
}
