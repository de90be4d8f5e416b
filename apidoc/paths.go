package apidoc

import "github.com/restbus/restbus/resource"

// PathResolver turns a (resource, operation) pair into a route. The
// returned path is normalized by the assembler before use.
type PathResolver interface {
	Resolve(res *resource.Resource, op resource.Operation) string
}

// catalogPathResolver is the default strategy: explicit operation
// paths win, otherwise routes derive from the resource short names.
type catalogPathResolver struct {
	catalog *resource.Catalog
}

func (r catalogPathResolver) Resolve(res *resource.Resource, op resource.Operation) string {
	return r.catalog.OperationPath(res, op)
}
