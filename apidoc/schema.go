package apidoc

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/restbus/restbus/message"
	"github.com/restbus/restbus/resource"
)

// SchemaBuilder returns the schema fragment of a (resource, operation,
// format) triple, plus any named definitions to merge into the shared
// schema table. A nil ref means the format has no schema and is
// omitted from the emitted content.
type SchemaBuilder interface {
	BuildOutput(res *resource.Resource, op resource.Operation, format string) (*openapi3.SchemaRef, openapi3.Schemas, error)
	BuildInput(res *resource.Resource, op resource.Operation, format string) (*openapi3.SchemaRef, openapi3.Schemas, error)
}

// messageSchemaBuilder is the default SchemaBuilder: output schemas
// come from the resource representation, input schemas from the bound
// message's declared payload schema.
type messageSchemaBuilder struct{}

func (messageSchemaBuilder) BuildOutput(res *resource.Resource, op resource.Operation, format string) (*openapi3.SchemaRef, openapi3.Schemas, error) {
	if res.Schema == nil {
		return nil, nil, nil
	}
	name := definitionName(res.ShortName, format)
	defs := openapi3.Schemas{name: res.Schema}
	// The ref carries the registered value too, so the document
	// resolves without a separate loading pass.
	itemRef := openapi3.NewSchemaRef(componentRef(name), res.Schema.Value)
	if op.Kind == resource.Collection || op.SubresourceCollection {
		return openapi3.NewSchemaRef("", &openapi3.Schema{
			Type:  "array",
			Items: itemRef,
		}), defs, nil
	}
	return itemRef, defs, nil
}

func (messageSchemaBuilder) BuildInput(res *resource.Resource, op resource.Operation, format string) (*openapi3.SchemaRef, openapi3.Schemas, error) {
	msg, ok := op.Message.(message.HasPayloadSchema)
	if !ok {
		return nil, nil, nil
	}
	payload := msg.PayloadSchema()
	if payload == nil {
		return nil, nil, nil
	}
	name := definitionName(msg.MessageName(), format)
	defs := openapi3.Schemas{name: payload}
	return openapi3.NewSchemaRef(componentRef(name), payload.Value), defs, nil
}

func definitionName(base, format string) string {
	if format == "" || format == "json" {
		return base
	}
	return base + "." + format
}

func componentRef(name string) string {
	return "#/components/schemas/" + name
}
