// Package resource describes REST-exposed entity types: their short
// names, identifiers and operations, together with the query filters
// their collection operations accept. Descriptors are plain data,
// built once during wiring; the apidoc assembler and the guard
// matcher consume them read-only.
package resource

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/restbus/restbus/message"
)

// Kind is the operation family an operation belongs to.
type Kind int

const (
	Item Kind = iota
	Collection
	Subresource
)

func (k Kind) String() string {
	switch k {
	case Item:
		return "item"
	case Collection:
		return "collection"
	case Subresource:
		return "subresource"
	default:
		return "unknown"
	}
}

// Kinds lists the operation families in assembly order. Item comes
// first so collection responses can reference item schema fragments
// already registered in the shared table.
func Kinds() []Kind { return []Kind{Item, Collection, Subresource} }

// Identifier is one component of a resource identity.
type Identifier struct {
	Name     string
	Class    string
	Property string
}

// Operation is one HTTP-verb-bound action on a resource.
type Operation struct {
	Name   string
	Kind   Kind
	Method string
	// Path overrides the derived route. It is normalized before use:
	// a leading slash is enforced, any query suffix is stripped, and a
	// trailing ".{_format}" placeholder is removed.
	Path string
	// Identifiers overrides the resource-level identifier list.
	Identifiers []Identifier
	// CompositeIdentifier collapses multiple identifiers into a single
	// synthetic "id". Defaults to true when unset.
	CompositeIdentifier *bool
	// Status overrides the method-derived success status.
	Status int
	// RequestFormats and ResponseFormats map a format name to its MIME
	// types. Empty means the assembler-wide defaults apply.
	RequestFormats  map[string][]string
	ResponseFormats map[string][]string
	// Message is the bus message backing this operation.
	Message message.Message
	// Filters names the registered filters contributing query
	// parameters to this (collection-style) operation.
	Filters []string
	// Context is the open OpenAPI override bag: tags, summary,
	// description, operationId, parameters, security, deprecated,
	// callbacks and vendor extensions prefixed "x-".
	Context map[string]any
	// SubresourceOf names the owning resource of a subresource
	// operation; SubresourceCollection marks it as returning a
	// collection.
	SubresourceOf         string
	SubresourceCollection bool
}

// Composite reports whether multiple identifiers collapse to one.
func (o Operation) Composite() bool {
	if o.CompositeIdentifier == nil {
		return true
	}
	return *o.CompositeIdentifier
}

// Resource describes one REST-exposed entity type.
type Resource struct {
	ShortName         string
	Class             string
	Description       string
	DeprecationReason string
	// Schema is the JSON Schema of the resource representation, used
	// to derive generic response bodies.
	Schema      *openapi3.SchemaRef
	Identifiers []Identifier
	Operations  []Operation
}

// OperationsOf returns the operations of one kind, in declaration
// order.
func (r *Resource) OperationsOf(kind Kind) []Operation {
	var out []Operation
	for _, op := range r.Operations {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// HasItemOperations reports whether any item operation is declared.
func (r *Resource) HasItemOperations() bool {
	return len(r.OperationsOf(Item)) > 0
}

// RouteName returns the path segment derived from the short name:
// dash-cased and naively pluralized ("Book" becomes "books",
// "OrderLine" becomes "order-lines").
func RouteName(shortName string) string {
	dashed := dashCase(shortName)
	if strings.HasSuffix(dashed, "s") {
		return dashed
	}
	return dashed + "s"
}

func dashCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
