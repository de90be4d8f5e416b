package message

import (
	"fmt"
	"sort"
)

// Registry holds every message type an application exposes, keyed by
// message name. It is filled once during wiring and read-only
// afterwards.
type Registry struct {
	byName map[string]Message
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Message)}
}

// Register adds a message. Registering two messages under the same
// name is a wiring mistake and returns an error.
func (r *Registry) Register(m Message) error {
	if m == nil {
		return fmt.Errorf("message: register nil message")
	}
	name := m.MessageName()
	if name == "" {
		return fmt.Errorf("message: register message with empty name")
	}
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("message: %q already registered", name)
	}
	r.byName[name] = m
	return nil
}

// Get returns the message registered under name.
func (r *Registry) Get(name string) (Message, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// Names returns all registered message names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
