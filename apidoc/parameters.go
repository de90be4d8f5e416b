package apidoc

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/restbus/restbus/resource"
)

// operationParameters assembles the ordered parameter list of one
// operation. Precedence (earlier wins on a (name, in) clash):
// explicit context overrides, identifier path parameters, pagination
// parameters, filter-derived query parameters.
func (a *Assembler) operationParameters(res *resource.Resource, op resource.Operation, method string, ids []resource.Identifier) openapi3.Parameters {
	var params []*openapi3.Parameter

	params = append(params, contextParameters(op.Context)...)

	switch op.Kind {
	case resource.Item:
		params = append(params, identifierParameters(ids, res.ShortName)...)
	case resource.Collection:
		if method == http.MethodGet {
			params = append(params, a.paginationParameters()...)
			params = append(params, a.filterParameters(op.Filters)...)
		}
	case resource.Subresource:
		owner := op.SubresourceOf
		if owner == "" {
			owner = res.ShortName
		}
		params = append(params, identifierParameters(ids, owner)...)
		if op.SubresourceCollection {
			params = append(params, a.paginationParameters()...)
			params = append(params, a.filterParameters(op.Filters)...)
		}
	}

	return dedupeParameters(params)
}

// contextParameters extracts explicit parameter overrides from the
// openapi context bag.
func contextParameters(bag map[string]any) []*openapi3.Parameter {
	if bag == nil {
		return nil
	}
	switch v := bag["parameters"].(type) {
	case []*openapi3.Parameter:
		return v
	case openapi3.Parameters:
		out := make([]*openapi3.Parameter, 0, len(v))
		for _, ref := range v {
			if ref != nil && ref.Value != nil {
				out = append(out, ref.Value)
			}
		}
		return out
	default:
		return nil
	}
}

func identifierParameters(ids []resource.Identifier, shortName string) []*openapi3.Parameter {
	out := make([]*openapi3.Parameter, 0, len(ids))
	for _, id := range ids {
		out = append(out, &openapi3.Parameter{
			Name:        id.Name,
			In:          openapi3.ParameterInPath,
			Description: fmt.Sprintf("%s identifier", shortName),
			Required:    true,
			Schema:      openapi3.NewSchemaRef("", openapi3.NewStringSchema()),
		})
	}
	return out
}

func (a *Assembler) paginationParameters() []*openapi3.Parameter {
	var out []*openapi3.Parameter
	p := a.cfg.Pagination

	if p.Enabled {
		pageSchema := openapi3.NewIntegerSchema()
		pageSchema.Default = 1
		out = append(out, &openapi3.Parameter{
			Name:            p.PageParameterName,
			In:              openapi3.ParameterInQuery,
			Description:     "The collection page number",
			AllowEmptyValue: true,
			Schema:          openapi3.NewSchemaRef("", pageSchema),
		})
	}
	if p.ClientItemsPerPage {
		perPageSchema := openapi3.NewIntegerSchema()
		perPageSchema.Min = openapi3.Float64Ptr(0)
		if p.MaximumItemsPerPage > 0 {
			perPageSchema.Max = openapi3.Float64Ptr(float64(p.MaximumItemsPerPage))
		}
		out = append(out, &openapi3.Parameter{
			Name:            p.ItemsPerPageParameterName,
			In:              openapi3.ParameterInQuery,
			Description:     "The number of items per page",
			AllowEmptyValue: true,
			Schema:          openapi3.NewSchemaRef("", perPageSchema),
		})
	}
	if p.ClientEnabled {
		out = append(out, &openapi3.Parameter{
			Name:            p.EnabledParameterName,
			In:              openapi3.ParameterInQuery,
			Description:     "Enable or disable pagination",
			AllowEmptyValue: true,
			Schema:          openapi3.NewSchemaRef("", openapi3.NewBoolSchema()),
		})
	}
	return out
}

// filterParameters derives query parameters from the named filters.
// Unknown filter names are skipped: a missing filter is a wiring gap,
// not a reason to fail document assembly.
func (a *Assembler) filterParameters(names []string) []*openapi3.Parameter {
	var out []*openapi3.Parameter
	for _, name := range names {
		f, ok := a.filters.Get(name)
		if !ok {
			a.logger.Debug("skipping unknown filter", zap.String("filter", name))
			continue
		}
		desc := f.Description()
		for _, paramName := range resource.SortedParameterNames(f) {
			out = append(out, filterParameter(paramName, desc[paramName]))
		}
	}
	return out
}

func filterParameter(name string, attr resource.FilterAttribute) *openapi3.Parameter {
	schema := attr.Schema
	if schema == nil {
		schema = openapi3.NewSchemaRef("", primitiveSchema(attr.Type))
	}

	schemaType := ""
	if schema.Value != nil {
		schemaType = schema.Value.Type
	}

	style := attr.Style
	if style == "" {
		declared := strings.ToLower(attr.Type)
		if schemaType == "array" && (declared == "array" || declared == "object") {
			style = "deepObject"
		} else {
			style = "form"
		}
	}

	explode := attr.Explode
	if explode == nil {
		explode = openapi3.BoolPtr(schemaType == "array")
	}

	return &openapi3.Parameter{
		Name:        name,
		In:          openapi3.ParameterInQuery,
		Description: attr.Description,
		Required:    attr.Required,
		Schema:      schema,
		Style:       style,
		Explode:     explode,
	}
}

// primitiveSchema maps a declared filter value type onto a JSON
// schema; anything unrecognized falls back to string.
func primitiveSchema(declared string) *openapi3.Schema {
	switch strings.ToLower(declared) {
	case "int", "integer":
		return openapi3.NewIntegerSchema()
	case "float", "double", "number":
		return &openapi3.Schema{Type: "number"}
	case "bool", "boolean":
		return openapi3.NewBoolSchema()
	case "array":
		return &openapi3.Schema{
			Type:  "array",
			Items: openapi3.NewSchemaRef("", openapi3.NewStringSchema()),
		}
	case "date", "datetime":
		s := openapi3.NewStringSchema()
		s.Format = "date-time"
		return s
	default:
		return openapi3.NewStringSchema()
	}
}

// dedupeParameters drops parameters whose (name, in) pair was already
// registered; the first wins.
func dedupeParameters(params []*openapi3.Parameter) openapi3.Parameters {
	seen := make(map[string]struct{}, len(params))
	out := make(openapi3.Parameters, 0, len(params))
	for _, p := range params {
		if p == nil {
			continue
		}
		key := p.In + ":" + p.Name
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, &openapi3.ParameterRef{Value: p})
	}
	return out
}
