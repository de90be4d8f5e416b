package apidoc

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/restbus/restbus/message"
	"github.com/restbus/restbus/resource"
)

// successStatus resolves the success status of an operation: explicit
// override first, then POST 201, DELETE 204, else 200.
func successStatus(method string, op resource.Operation) int {
	if op.Status != 0 {
		return op.Status
	}
	switch method {
	case http.MethodPost:
		return 201
	case http.MethodDelete:
		return 204
	default:
		return 200
	}
}

// operationResponses derives the responses map. A message declaring
// its own status mapping wins entirely; otherwise a generic set is
// synthesized from the method and operation kind. The returned map is
// never empty.
func (a *Assembler) operationResponses(res *resource.Resource, op resource.Operation, method string, status int, outputContent openapi3.Content) openapi3.Responses {
	if msg, ok := op.Message.(message.HasResponses); ok {
		declared := msg.Responses(status)
		if len(declared) > 0 {
			return a.declaredResponses(declared, outputContent)
		}
		// A message declaring zero responses falls back to the
		// generic synthesis rather than emitting an empty map.
	}
	return a.genericResponses(res, op, method, status, outputContent)
}

func (a *Assembler) declaredResponses(declared map[string]message.Response, outputContent openapi3.Content) openapi3.Responses {
	codes := make([]string, 0, len(declared))
	for code := range declared {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	responses := openapi3.Responses{}
	for _, code := range codes {
		r := declared[code]
		desc := r.Description
		if desc == "" {
			if n, err := strconv.Atoi(code); err == nil {
				desc = http.StatusText(n)
			}
		}
		resp := &openapi3.Response{Description: strPtr(desc)}
		switch {
		case r.Schema != nil:
			resp.Content = contentWithSchemaRef(outputContent, r.Schema)
		case code != "204":
			// Null descriptor: derive the body generically from the
			// resource schema.
			resp.Content = outputContent
		}
		responses[code] = &openapi3.ResponseRef{Value: resp}
	}
	return responses
}

func (a *Assembler) genericResponses(res *resource.Resource, op resource.Operation, method string, status int, outputContent openapi3.Content) openapi3.Responses {
	responses := openapi3.Responses{}
	short := res.ShortName

	success := &openapi3.Response{}
	switch method {
	case http.MethodGet:
		if op.Kind == resource.Collection || op.SubresourceCollection {
			success.Description = strPtr(fmt.Sprintf("%s collection response", short))
		} else {
			success.Description = strPtr(fmt.Sprintf("%s resource response", short))
		}
		success.Content = outputContent
	case http.MethodPost:
		success.Description = strPtr(fmt.Sprintf("%s resource created", short))
		success.Content = outputContent
		responses["400"] = &openapi3.ResponseRef{Value: &openapi3.Response{Description: strPtr("Invalid input")}}
	case http.MethodPut, http.MethodPatch:
		success.Description = strPtr(fmt.Sprintf("%s resource updated", short))
		success.Content = outputContent
		responses["400"] = &openapi3.ResponseRef{Value: &openapi3.Response{Description: strPtr("Invalid input")}}
	case http.MethodDelete:
		success.Description = strPtr(fmt.Sprintf("%s resource deleted", short))
	default:
		success.Description = strPtr(fmt.Sprintf("%s response", short))
		success.Content = outputContent
	}
	responses[strconv.Itoa(status)] = &openapi3.ResponseRef{Value: success}

	if op.Kind == resource.Item {
		responses["404"] = &openapi3.ResponseRef{Value: &openapi3.Response{Description: strPtr("Resource not found")}}
	}
	return responses
}

// contentWithSchemaRef rebuilds a content map keyed like base but
// carrying ref as the schema for every MIME type. With no base the
// schema is attached to application/json.
func contentWithSchemaRef(base openapi3.Content, ref *openapi3.SchemaRef) openapi3.Content {
	content := openapi3.Content{}
	if len(base) == 0 {
		content["application/json"] = &openapi3.MediaType{Schema: ref}
		return content
	}
	for mime := range base {
		content[mime] = &openapi3.MediaType{Schema: ref}
	}
	return content
}

func strPtr(s string) *string { return &s }
