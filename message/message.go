// Package message defines the contracts a bus message (command, query
// or event) implements to take part in REST exposition and OpenAPI
// documentation. Everything here is declarative: a message describes
// its payload schema and, optionally, its responses, examples and
// property documentation through small capability interfaces. A type
// that does not implement a capability simply gets the default
// behavior for that facet.
package message

import "github.com/getkin/kin-openapi/openapi3"

// Kind classifies a message on the bus.
type Kind string

const (
	KindCommand Kind = "command"
	KindQuery   Kind = "query"
	KindEvent   Kind = "event"
)

// Message is the minimal contract: a stable, unique name.
type Message interface {
	MessageName() string
}

// HasKind reports which side of the bus a message belongs to. Purely
// informational; the document assembler does not branch on it.
type HasKind interface {
	Message
	MessageKind() Kind
}

// HasPayloadSchema exposes the JSON Schema of the message payload as
// an openapi3 fragment. The returned ref may carry a concrete Value,
// a $ref into a shared definition table, or both.
type HasPayloadSchema interface {
	Message
	PayloadSchema() *openapi3.SchemaRef
}

// Response describes one declared response of a message. A nil Schema
// means the body is derived generically from the resource schema.
type Response struct {
	Description string
	Schema      *openapi3.SchemaRef
}

// HasResponses lets a message declare its own status-code to response
// mapping. defaultStatus is the success status the operation resolved
// to, so implementations can key their default entry on it. An empty
// map is treated the same as not implementing the interface.
type HasResponses interface {
	Message
	Responses(defaultStatus int) map[string]Response
}

// HasExamples exposes example values keyed by payload property name.
type HasExamples interface {
	Message
	Examples() map[string]any
}

// HasDefaults exposes default values keyed by payload property name.
type HasDefaults interface {
	Message
	Defaults() map[string]any
}

// PropertyDoc carries the hand-written documentation of one payload
// property. Deprecated with an empty DeprecationNote yields the
// literal reason "deprecated".
type PropertyDoc struct {
	Description     string
	Example         any
	Deprecated      bool
	DeprecationNote string
}

// HasPropertyDocs exposes per-property documentation keyed by payload
// property name.
type HasPropertyDocs interface {
	Message
	PropertyDocs() map[string]PropertyDoc
}

// RequiresAuthorization marks a message whose operations must pass
// access control before dispatch. The method is a no-op marker; it
// exists so the capability is declared explicitly rather than
// inferred.
type RequiresAuthorization interface {
	Message
	AuthorizationRequired()
}
