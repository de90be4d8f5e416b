package resource

import (
	"fmt"
	"strings"

	"github.com/restbus/restbus/message"
)

// Catalog is the ordered set of resources an application exposes.
type Catalog struct {
	resources []*Resource
	byName    map[string]*Resource
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byName: make(map[string]*Resource)}
}

// Add appends a resource. Short names must be unique.
func (c *Catalog) Add(r *Resource) error {
	if r == nil {
		return fmt.Errorf("resource: add nil resource")
	}
	if strings.TrimSpace(r.ShortName) == "" {
		return fmt.Errorf("resource: add resource with empty short name")
	}
	if _, dup := c.byName[r.ShortName]; dup {
		return fmt.Errorf("resource: %q already in catalog", r.ShortName)
	}
	c.resources = append(c.resources, r)
	c.byName[r.ShortName] = r
	return nil
}

// Resources returns the resources in declaration order.
func (c *Catalog) Resources() []*Resource { return c.resources }

// Lookup returns the resource registered under shortName.
func (c *Catalog) Lookup(shortName string) (*Resource, bool) {
	r, ok := c.byName[shortName]
	return r, ok
}

// ResolveIdentifiers returns the effective identifier list of an
// operation: a collection operation on a resource with no item
// operations has none; otherwise the operation-level list wins, then
// the resource-level list (the owning resource's for subresources),
// then a single derived "id". When two or more identifiers remain and
// the composite flag holds, they collapse to one synthetic "id".
func (c *Catalog) ResolveIdentifiers(r *Resource, op Operation) []Identifier {
	if op.Kind == Collection && !r.HasItemOperations() {
		return nil
	}

	ids := op.Identifiers
	if len(ids) == 0 {
		if op.Kind == Subresource && op.SubresourceOf != "" {
			if owner, ok := c.Lookup(op.SubresourceOf); ok {
				ids = owner.Identifiers
			}
		} else {
			ids = r.Identifiers
		}
	}
	if len(ids) == 0 {
		ids = []Identifier{{Name: "id", Class: r.Class, Property: "id"}}
	}
	if len(ids) >= 2 && op.Composite() {
		ids = []Identifier{{Name: "id", Class: r.Class, Property: "id"}}
	}
	return ids
}

// OperationPath returns the normalized route of an operation. An
// explicit path always wins; otherwise the route is derived from the
// short names and the resolved identifiers.
func (c *Catalog) OperationPath(r *Resource, op Operation) string {
	if p := strings.TrimSpace(op.Path); p != "" {
		return NormalizePath(p)
	}

	ids := c.ResolveIdentifiers(r, op)
	switch op.Kind {
	case Collection:
		return "/" + RouteName(r.ShortName)
	case Item:
		return "/" + RouteName(r.ShortName) + identifierSegments(ids)
	case Subresource:
		owner := op.SubresourceOf
		if owner == "" {
			owner = r.ShortName
		}
		child := dashCase(r.ShortName)
		if op.SubresourceCollection {
			child = RouteName(r.ShortName)
		}
		return "/" + RouteName(owner) + identifierSegments(ids) + "/" + child
	default:
		return "/" + RouteName(r.ShortName)
	}
}

func identifierSegments(ids []Identifier) string {
	var b strings.Builder
	for _, id := range ids {
		b.WriteString("/{")
		b.WriteString(id.Name)
		b.WriteString("}")
	}
	return b.String()
}

// NormalizePath enforces a leading slash, strips any query suffix and
// removes a trailing ".{_format}" placeholder.
func NormalizePath(p string) string {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimSuffix(p, ".{_format}")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Binding resolves one incoming (method, path) pair to the operation
// and message serving it.
type Binding struct {
	Resource  *Resource
	Operation Operation
	Message   message.Message
}

// Match resolves a request method and path against the catalog's
// routes. Path templates match segment-wise: a "{name}" segment
// accepts any non-empty value. The first declared route wins.
func (c *Catalog) Match(method, path string) (*Binding, bool) {
	method = strings.ToUpper(strings.TrimSpace(method))
	segs := splitPath(path)
	for _, r := range c.resources {
		for _, kind := range Kinds() {
			for _, op := range r.OperationsOf(kind) {
				if !strings.EqualFold(op.Method, method) {
					continue
				}
				if segmentsMatch(splitPath(c.OperationPath(r, op)), segs) {
					return &Binding{Resource: r, Operation: op, Message: op.Message}, true
				}
			}
		}
	}
	return nil, false
}

func splitPath(p string) []string {
	p = strings.Trim(NormalizePath(p), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func segmentsMatch(tmpl, actual []string) bool {
	if len(tmpl) != len(actual) {
		return false
	}
	for i, t := range tmpl {
		if strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}") {
			if actual[i] == "" {
				return false
			}
			continue
		}
		if t != actual[i] {
			return false
		}
	}
	return true
}
