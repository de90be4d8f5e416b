// Package metadata enriches per-property metadata of schema-aware
// messages. The factory decorates an upstream producer: baseline
// metadata comes from upstream, then each facet (default, description,
// example, deprecation) is resolved from the message's declared
// schema and capability interfaces. A message that does not describe
// its payload schema passes through untouched, and a missing facet
// simply stays absent.
package metadata

import (
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/restbus/restbus/message"
)

// PropertyMetadata is the enriched description of one payload
// property.
type PropertyMetadata struct {
	Description  string
	Example      any
	Default      any
	Required     bool
	Readable     bool
	Writable     bool
	ReadableLink bool
	// Deprecated carries the deprecation reason; empty means the
	// property is not deprecated.
	Deprecated string
	Schema     *openapi3.SchemaRef
}

// Factory produces property metadata for a message payload property.
type Factory interface {
	Create(msg message.Message, property string, opts ...Option) (PropertyMetadata, error)
}

type options struct {
	method string
}

// Option adjusts metadata creation.
type Option func(*options)

// WithMethod records the HTTP method of the operation the metadata is
// built for. PATCH operations get an extra note on nullable
// properties.
func WithMethod(method string) Option {
	return func(o *options) { o.method = strings.ToUpper(method) }
}

// patchNullableNote is appended to the description of nullable
// properties on PATCH operations.
const patchNullableNote = "Omitting this field leaves it unused."

// deprecatedDefaultReason is used when a property is marked deprecated
// without a note.
const deprecatedDefaultReason = "deprecated"

// SchemaPropertyFactory enriches upstream metadata from a message's
// payload schema and capability interfaces.
type SchemaPropertyFactory struct {
	upstream Factory
}

// NewSchemaPropertyFactory wraps upstream; a nil upstream yields empty
// baseline metadata.
func NewSchemaPropertyFactory(upstream Factory) *SchemaPropertyFactory {
	return &SchemaPropertyFactory{upstream: upstream}
}

// Create implements Factory.
func (f *SchemaPropertyFactory) Create(msg message.Message, property string, opts ...Option) (PropertyMetadata, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	name := lowerCamel(property)

	var md PropertyMetadata
	if f.upstream != nil {
		base, err := f.upstream.Create(msg, name, opts...)
		if err != nil {
			return PropertyMetadata{}, err
		}
		md = base
	}

	schemaMsg, ok := msg.(message.HasPayloadSchema)
	if !ok {
		// Non-schema-aware messages are untouched.
		return md, nil
	}
	payload := schemaMsg.PayloadSchema()
	if payload == nil || payload.Value == nil {
		return md, nil
	}

	prop := payload.Value.Properties[name]
	if prop != nil {
		md.Schema = prop
	}

	md = withDefault(md, msg, name)
	md = withDescription(md, msg, prop, name, o.method == http.MethodPatch)
	md = withExample(md, msg, prop, name)
	md = withDeprecation(md, msg, name)

	md.Required = containsString(payload.Value.Required, name)
	md.Readable = true
	md.Writable = true
	md.ReadableLink = true
	return md, nil
}

func withDefault(md PropertyMetadata, msg message.Message, name string) PropertyMetadata {
	defaults, ok := msg.(message.HasDefaults)
	if !ok {
		return md
	}
	if v, found := defaults.Defaults()[name]; found {
		md.Default = v
	}
	return md
}

func withDescription(md PropertyMetadata, msg message.Message, prop *openapi3.SchemaRef, name string, patch bool) PropertyMetadata {
	desc := ""
	if prop != nil && prop.Value != nil {
		desc = prop.Value.Description
	}
	if desc == "" {
		if docs, ok := msg.(message.HasPropertyDocs); ok {
			desc = docs.PropertyDocs()[name].Description
		}
	}
	if patch && prop != nil && prop.Value != nil && prop.Value.Nullable {
		if desc != "" {
			desc += "\n\n"
		}
		desc += patchNullableNote
	}
	if desc != "" {
		md.Description = desc
	}
	return md
}

func withExample(md PropertyMetadata, msg message.Message, prop *openapi3.SchemaRef, name string) PropertyMetadata {
	if examples, ok := msg.(message.HasExamples); ok {
		if v, found := examples.Examples()[name]; found {
			md.Example = unwrapValue(v)
			return md
		}
	}
	if docs, ok := msg.(message.HasPropertyDocs); ok {
		if v := docs.PropertyDocs()[name].Example; v != nil {
			md.Example = unwrapValue(v)
			return md
		}
	}
	if prop != nil && prop.Value != nil && prop.Value.Example != nil {
		md.Example = prop.Value.Example
	}
	return md
}

func withDeprecation(md PropertyMetadata, msg message.Message, name string) PropertyMetadata {
	docs, ok := msg.(message.HasPropertyDocs)
	if !ok {
		return md
	}
	doc, found := docs.PropertyDocs()[name]
	if !found || !doc.Deprecated {
		return md
	}
	if doc.DeprecationNote != "" {
		md.Deprecated = doc.DeprecationNote
	} else {
		md.Deprecated = deprecatedDefaultReason
	}
	return md
}

// valuer is implemented by value objects wrapping a raw example.
type valuer interface {
	Value() any
}

func unwrapValue(v any) any {
	if w, ok := v.(valuer); ok {
		return w.Value()
	}
	return v
}

// lowerCamel normalizes snake_case or exported casing to lowerCamel:
// "title_name" and "TitleName" both become "titleName".
func lowerCamel(s string) string {
	if s == "" {
		return s
	}
	parts := strings.Split(s, "_")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		if b.Len() == 0 {
			b.WriteString(strings.ToLower(part[:1]) + part[1:])
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	return b.String()
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
