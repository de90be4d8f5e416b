// Package guard classifies incoming HTTP requests against the
// resource catalog: does the request target an operation whose bus
// message demands authorization? The matcher is a pure predicate used
// as a gate for access-control rules; it keeps no state between
// calls.
package guard

import (
	"net/http"

	"github.com/restbus/restbus/message"
	"github.com/restbus/restbus/resource"
)

// Matcher resolves requests to catalog bindings and tests the
// authorization-required capability of the bound message.
type Matcher struct {
	catalog *resource.Catalog
}

// NewMatcher returns a Matcher over catalog.
func NewMatcher(catalog *resource.Catalog) *Matcher {
	return &Matcher{catalog: catalog}
}

// Matches reports whether the request resolves to an operation whose
// message requires authorization. A request that resolves to nothing,
// or to an operation without a bound message, never matches.
func (m *Matcher) Matches(r *http.Request) bool {
	if m.catalog == nil || r == nil || r.URL == nil {
		return false
	}
	binding, ok := m.catalog.Match(r.Method, r.URL.Path)
	if !ok || binding.Message == nil {
		return false
	}
	_, required := binding.Message.(message.RequiresAuthorization)
	return required
}
