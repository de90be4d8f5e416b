package apidoc

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/restbus/restbus/resource"
)

// supportedMethods is the HTTP method set the document format
// recognizes; operations outside it are skipped without error.
var supportedMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodOptions: {},
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// Assembler builds OpenAPI v3 documents from a resource catalog. It
// holds no per-document state: every Assemble call starts from an
// empty document and a fresh schema table.
type Assembler struct {
	catalog *resource.Catalog
	filters *resource.FilterRegistry
	cfg     Config
	schemas SchemaBuilder
	paths   PathResolver
	formats map[string][]string
	logger  *zap.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithSchemaBuilder replaces the default message-backed schema
// builder.
func WithSchemaBuilder(b SchemaBuilder) Option {
	return func(a *Assembler) {
		if b != nil {
			a.schemas = b
		}
	}
}

// WithPathResolver replaces the default route derivation strategy.
func WithPathResolver(r PathResolver) Option {
	return func(a *Assembler) {
		if r != nil {
			a.paths = r
		}
	}
}

// WithLogger sets the logger; the default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithFormats sets the default format-name to MIME-type mapping
// applied when an operation declares none.
func WithFormats(formats map[string][]string) Option {
	return func(a *Assembler) {
		if len(formats) > 0 {
			a.formats = formats
		}
	}
}

// New validates the configuration and returns an Assembler. A broken
// security configuration is fatal here, before any document is built.
func New(catalog *resource.Catalog, filters *resource.FilterRegistry, cfg Config, opts ...Option) (*Assembler, error) {
	if catalog == nil {
		return nil, fmt.Errorf("apidoc: nil catalog")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if filters == nil {
		filters = resource.NewFilterRegistry()
	}
	a := &Assembler{
		catalog: catalog,
		filters: filters,
		cfg:     cfg,
		schemas: messageSchemaBuilder{},
		formats: map[string][]string{"json": {"application/json"}},
		logger:  zap.NewNop(),
	}
	a.paths = catalogPathResolver{catalog: catalog}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Assemble builds the document. It is a pure function of the catalog
// and configuration: identical inputs yield structurally identical
// documents.
func (a *Assembler) Assemble(ctx context.Context) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       a.cfg.Title,
			Description: a.cfg.Description,
			Version:     a.cfg.Version,
		},
		Paths:      openapi3.Paths{},
		Components: &openapi3.Components{Schemas: openapi3.Schemas{}},
	}
	if c := a.cfg.Contact; c != nil {
		doc.Info.Contact = &openapi3.Contact{Name: c.Name, URL: c.URL, Email: c.Email}
	}
	if l := a.cfg.License; l != nil {
		doc.Info.License = &openapi3.License{Name: l.Name, URL: l.URL}
	}
	for _, s := range a.cfg.Servers {
		doc.Servers = append(doc.Servers, &openapi3.Server{URL: s.URL, Description: s.Description})
	}
	for _, t := range a.cfg.Tags {
		doc.Tags = append(doc.Tags, &openapi3.Tag{Name: t.Name, Description: t.Description})
	}

	for _, res := range a.catalog.Resources() {
		for _, kind := range resource.Kinds() {
			for _, op := range res.OperationsOf(kind) {
				if err := a.addOperation(doc, res, op); err != nil {
					return nil, err
				}
			}
		}
	}

	schemes, requirements, err := buildSecuritySchemes(a.cfg)
	if err != nil {
		return nil, err
	}
	if len(schemes) > 0 {
		doc.Components.SecuritySchemes = schemes
		doc.Security = requirements
	}

	return doc, nil
}

func (a *Assembler) addOperation(doc *openapi3.T, res *resource.Resource, op resource.Operation) error {
	method := strings.ToUpper(strings.TrimSpace(op.Method))
	if _, ok := supportedMethods[method]; !ok {
		a.logger.Debug("skipping operation with unsupported method",
			zap.String("resource", res.ShortName),
			zap.String("operation", op.Name),
			zap.String("method", op.Method))
		return nil
	}

	ids := a.catalog.ResolveIdentifiers(res, op)
	path := resource.NormalizePath(a.paths.Resolve(res, op))
	status := successStatus(method, op)

	outputContent, err := a.outputContent(doc, res, op)
	if err != nil {
		return err
	}

	opObj := openapi3.NewOperation()
	opObj.OperationID = defaultOperationID(res, op)
	opObj.Tags = operationTags(res, op)
	opObj.Responses = a.operationResponses(res, op, method, status, outputContent)
	opObj.Parameters = a.operationParameters(res, op, method, ids)
	if res.DeprecationReason != "" {
		opObj.Deprecated = true
	}

	if mutating(method) {
		body, err := a.requestBody(doc, res, op, method)
		if err != nil {
			return err
		}
		if body != nil {
			opObj.RequestBody = &openapi3.RequestBodyRef{Value: body}
		}
	}

	applyContext(opObj, op.Context)

	item := doc.Paths[path]
	if item == nil {
		item = &openapi3.PathItem{}
		doc.Paths[path] = item
	}
	item.SetOperation(method, opObj)
	return nil
}

// outputContent builds the response content per MIME format and
// merges the produced definitions into the shared schema table.
func (a *Assembler) outputContent(doc *openapi3.T, res *resource.Resource, op resource.Operation) (openapi3.Content, error) {
	formats := op.ResponseFormats
	if len(formats) == 0 {
		formats = a.formats
	}

	content := openapi3.Content{}
	for _, format := range sortedKeys(formats) {
		ref, defs, err := a.schemas.BuildOutput(res, op, format)
		if err != nil {
			return nil, fmt.Errorf("apidoc: output schema for %s %s (%s): %w", res.ShortName, op.Name, format, err)
		}
		mergeDefinitions(doc, defs)
		if ref == nil {
			continue
		}
		for _, mime := range formats[format] {
			content[mime] = &openapi3.MediaType{Schema: ref}
		}
	}
	if len(content) == 0 {
		return nil, nil
	}
	return content, nil
}

// requestBody builds the request body for mutating methods. Formats
// whose input schema is empty are omitted; with no non-empty schema at
// all, no body is attached.
func (a *Assembler) requestBody(doc *openapi3.T, res *resource.Resource, op resource.Operation, method string) (*openapi3.RequestBody, error) {
	formats := op.RequestFormats
	if len(formats) == 0 {
		formats = a.formats
	}

	content := openapi3.Content{}
	for _, format := range sortedKeys(formats) {
		ref, defs, err := a.schemas.BuildInput(res, op, format)
		if err != nil {
			return nil, fmt.Errorf("apidoc: input schema for %s %s (%s): %w", res.ShortName, op.Name, format, err)
		}
		mergeDefinitions(doc, defs)
		if ref == nil {
			continue
		}
		for _, mime := range formats[format] {
			content[mime] = &openapi3.MediaType{Schema: ref}
		}
	}
	if len(content) == 0 {
		return nil, nil
	}

	desc := fmt.Sprintf("The updated %s resource", res.ShortName)
	if method == http.MethodPost {
		desc = fmt.Sprintf("The new %s resource", res.ShortName)
	}
	return &openapi3.RequestBody{Description: desc, Required: true, Content: content}, nil
}

// mergeDefinitions writes fragments into the shared schema table.
// Writes are overwrite-by-name: re-registering the same name is
// harmless.
func mergeDefinitions(doc *openapi3.T, defs openapi3.Schemas) {
	for name, ref := range defs {
		doc.Components.Schemas[name] = ref
	}
}

// defaultOperationID is lowercase(operationName) + ShortName + Kind,
// e.g. "getBookItem".
func defaultOperationID(res *resource.Resource, op resource.Operation) string {
	return strings.ToLower(op.Name) + res.ShortName + capitalize(op.Kind.String())
}

// operationTags defaults to the resource short name; subresource
// operations carry the related short names instead.
func operationTags(res *resource.Resource, op resource.Operation) []string {
	if op.Kind == resource.Subresource && op.SubresourceOf != "" && op.SubresourceOf != res.ShortName {
		return []string{op.SubresourceOf, res.ShortName}
	}
	return []string{res.ShortName}
}

// applyContext applies the per-operation openapi context overrides:
// the documented keys plus every vendor extension prefixed "x-"
// (case-insensitive).
func applyContext(o *openapi3.Operation, bag map[string]any) {
	if len(bag) == 0 {
		return
	}
	if v, ok := bag["summary"].(string); ok {
		o.Summary = v
	}
	if v, ok := bag["description"].(string); ok {
		o.Description = v
	}
	if v, ok := bag["operationId"].(string); ok {
		o.OperationID = v
	}
	if v, ok := bag["deprecated"].(bool); ok {
		o.Deprecated = v
	}
	if tags := contextTags(bag["tags"]); tags != nil {
		o.Tags = tags
	}
	if v, ok := bag["security"].(openapi3.SecurityRequirements); ok {
		o.Security = &v
	}
	if v, ok := bag["callbacks"].(openapi3.Callbacks); ok {
		o.Callbacks = v
	}

	ext := map[string]interface{}{}
	for key, value := range bag {
		if len(key) >= 2 && strings.HasPrefix(strings.ToLower(key), "x-") {
			ext[key] = value
		}
	}
	if len(ext) > 0 {
		o.Extensions = ext
	}
}

func contextTags(v any) []string {
	switch tags := v.(type) {
	case []string:
		return tags
	case []any:
		out := make([]string, 0, len(tags))
		for _, t := range tags {
			if s, ok := t.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return nil
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
