// Package catalogfile loads a declarative YAML description of an API
// (resources, operations, messages, filters and document
// configuration) into the runtime descriptors the assembler and the
// CLI commands consume. Applications embedding the library build their
// catalog in code instead; the file form exists for the diagnostic
// CLI.
package catalogfile

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/restbus/restbus/apidoc"
	"github.com/restbus/restbus/message"
	"github.com/restbus/restbus/resource"
)

// Bundle is everything a catalog file declares.
type Bundle struct {
	Catalog  *resource.Catalog
	Filters  *resource.FilterRegistry
	Messages *message.Registry
	Config   apidoc.Config
	Formats  map[string][]string
}

type file struct {
	apidoc.Config `yaml:",inline"`

	Formats   map[string][]string                  `yaml:"formats"`
	Resources []resourceSpec                       `yaml:"resources"`
	Filters   map[string]map[string]filterAttrSpec `yaml:"filters"`
}

type resourceSpec struct {
	ShortName         string           `yaml:"short_name"`
	Class             string           `yaml:"class"`
	Description       string           `yaml:"description"`
	DeprecationReason string           `yaml:"deprecation_reason"`
	Schema            map[string]any   `yaml:"schema"`
	Identifiers       []identifierSpec `yaml:"identifiers"`
	Operations        []operationSpec  `yaml:"operations"`
}

type identifierSpec struct {
	Name     string `yaml:"name"`
	Class    string `yaml:"class"`
	Property string `yaml:"property"`
}

type operationSpec struct {
	Name                  string                  `yaml:"name"`
	Kind                  string                  `yaml:"kind"`
	Method                string                  `yaml:"method"`
	Path                  string                  `yaml:"path"`
	Status                int                     `yaml:"status"`
	Message               string                  `yaml:"message"`
	Authorization         bool                    `yaml:"authorization"`
	Payload               map[string]any          `yaml:"payload"`
	Responses             map[string]responseSpec `yaml:"responses"`
	Filters               []string                `yaml:"filters"`
	Context               map[string]any          `yaml:"context"`
	Identifiers           []identifierSpec        `yaml:"identifiers"`
	CompositeIdentifier   *bool                   `yaml:"composite_identifier"`
	SubresourceOf         string                  `yaml:"subresource_of"`
	SubresourceCollection bool                    `yaml:"subresource_collection"`
}

type responseSpec struct {
	Description string         `yaml:"description"`
	Schema      map[string]any `yaml:"schema"`
}

type filterAttrSpec struct {
	Type        string         `yaml:"type"`
	Required    bool           `yaml:"required"`
	Description string         `yaml:"description"`
	Style       string         `yaml:"style"`
	Explode     *bool          `yaml:"explode"`
	Schema      map[string]any `yaml:"schema"`
}

// Load reads and resolves a catalog file.
func Load(path string) (*Bundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalogfile: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse resolves catalog file bytes.
func Parse(raw []byte) (*Bundle, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("catalogfile: parse: %w", err)
	}

	bundle := &Bundle{
		Catalog:  resource.NewCatalog(),
		Filters:  resource.NewFilterRegistry(),
		Messages: message.NewRegistry(),
		Config:   f.Config,
		Formats:  f.Formats,
	}

	for name, attrs := range f.Filters {
		filter, err := buildFilter(attrs)
		if err != nil {
			return nil, fmt.Errorf("catalogfile: filter %q: %w", name, err)
		}
		if err := bundle.Filters.Register(name, filter); err != nil {
			return nil, fmt.Errorf("catalogfile: %w", err)
		}
	}

	for _, spec := range f.Resources {
		res, err := buildResource(spec, bundle.Messages)
		if err != nil {
			return nil, fmt.Errorf("catalogfile: resource %q: %w", spec.ShortName, err)
		}
		if err := bundle.Catalog.Add(res); err != nil {
			return nil, fmt.Errorf("catalogfile: %w", err)
		}
	}

	return bundle, nil
}

func buildResource(spec resourceSpec, messages *message.Registry) (*resource.Resource, error) {
	res := &resource.Resource{
		ShortName:         spec.ShortName,
		Class:             spec.Class,
		Description:       spec.Description,
		DeprecationReason: spec.DeprecationReason,
		Identifiers:       identifiers(spec.Identifiers),
	}
	if spec.Schema != nil {
		ref, err := schemaRef(spec.Schema)
		if err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
		res.Schema = ref
	}

	for _, opSpec := range spec.Operations {
		op, err := buildOperation(opSpec, messages)
		if err != nil {
			return nil, fmt.Errorf("operation %q: %w", opSpec.Name, err)
		}
		res.Operations = append(res.Operations, op)
	}
	return res, nil
}

func buildOperation(spec operationSpec, messages *message.Registry) (resource.Operation, error) {
	kind, err := parseKind(spec.Kind)
	if err != nil {
		return resource.Operation{}, err
	}

	op := resource.Operation{
		Name:                  spec.Name,
		Kind:                  kind,
		Method:                spec.Method,
		Path:                  spec.Path,
		Status:                spec.Status,
		Filters:               spec.Filters,
		Context:               spec.Context,
		Identifiers:           identifiers(spec.Identifiers),
		CompositeIdentifier:   spec.CompositeIdentifier,
		SubresourceOf:         spec.SubresourceOf,
		SubresourceCollection: spec.SubresourceCollection,
	}

	if spec.Message != "" {
		if existing, ok := messages.Get(spec.Message); ok {
			// Later references may reuse an already declared message
			// but must not redefine it.
			if spec.Payload != nil || spec.Responses != nil || spec.Authorization {
				return resource.Operation{}, fmt.Errorf("message %q declared twice", spec.Message)
			}
			op.Message = existing
			return op, nil
		}
		msg, err := buildMessage(spec)
		if err != nil {
			return resource.Operation{}, err
		}
		if err := messages.Register(msg); err != nil {
			return resource.Operation{}, err
		}
		op.Message = msg
	}
	return op, nil
}

func buildMessage(spec operationSpec) (message.Message, error) {
	decl := declaredMessage{name: spec.Message}

	if spec.Payload != nil {
		ref, err := schemaRef(spec.Payload)
		if err != nil {
			return nil, fmt.Errorf("message %q payload: %w", spec.Message, err)
		}
		decl.payload = ref
	}

	for code, r := range spec.Responses {
		if _, err := strconv.Atoi(code); err != nil {
			return nil, fmt.Errorf("message %q: response status %q is not numeric", spec.Message, code)
		}
		resp := message.Response{Description: r.Description}
		if r.Schema != nil {
			ref, err := schemaRef(r.Schema)
			if err != nil {
				return nil, fmt.Errorf("message %q response %s: %w", spec.Message, code, err)
			}
			resp.Schema = ref
		}
		if decl.responses == nil {
			decl.responses = map[string]message.Response{}
		}
		decl.responses[code] = resp
	}

	if spec.Authorization {
		return authorizedMessage{decl}, nil
	}
	return decl, nil
}

func identifiers(specs []identifierSpec) []resource.Identifier {
	if len(specs) == 0 {
		return nil
	}
	out := make([]resource.Identifier, 0, len(specs))
	for _, s := range specs {
		out = append(out, resource.Identifier{Name: s.Name, Class: s.Class, Property: s.Property})
	}
	return out
}

func buildFilter(attrs map[string]filterAttrSpec) (resource.Filter, error) {
	out := resource.MapFilter{}
	for name, a := range attrs {
		attr := resource.FilterAttribute{
			Type:        a.Type,
			Required:    a.Required,
			Description: a.Description,
			Style:       a.Style,
			Explode:     a.Explode,
		}
		if a.Schema != nil {
			ref, err := schemaRef(a.Schema)
			if err != nil {
				return nil, fmt.Errorf("parameter %q schema: %w", name, err)
			}
			attr.Schema = ref
		}
		out[name] = attr
	}
	return out, nil
}

func parseKind(s string) (resource.Kind, error) {
	switch s {
	case "item", "":
		return resource.Item, nil
	case "collection":
		return resource.Collection, nil
	case "subresource":
		return resource.Subresource, nil
	default:
		return 0, fmt.Errorf("unknown operation kind %q (item, collection or subresource)", s)
	}
}

// schemaRef converts a decoded YAML mapping into an openapi3 fragment
// by round-tripping through JSON, so $ref entries and nested schemas
// resolve the same way they would in a document.
func schemaRef(m map[string]any) (*openapi3.SchemaRef, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var ref openapi3.SchemaRef
	if err := ref.UnmarshalJSON(raw); err != nil {
		return nil, err
	}
	return &ref, nil
}

// declaredMessage is a message synthesized from a catalog file entry.
type declaredMessage struct {
	name      string
	payload   *openapi3.SchemaRef
	responses map[string]message.Response
}

func (m declaredMessage) MessageName() string { return m.name }

func (m declaredMessage) PayloadSchema() *openapi3.SchemaRef { return m.payload }

func (m declaredMessage) Responses(int) map[string]message.Response { return m.responses }

// authorizedMessage additionally carries the authorization-required
// marker.
type authorizedMessage struct {
	declaredMessage
}

func (authorizedMessage) AuthorizationRequired() {}
