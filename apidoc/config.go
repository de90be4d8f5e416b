// Package apidoc assembles an OpenAPI v3 document from a resource
// catalog, a filter registry and a declarative configuration. One
// Assemble call walks the catalog, emits a path item per operation,
// and accumulates shared schema definitions; the resulting document is
// an in-memory openapi3.T the host serializes however it likes.
package apidoc

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// OAuth flow names accepted by Config.
const (
	FlowImplicit          = "implicit"
	FlowPassword          = "password"
	FlowClientCredentials = "clientCredentials"
	FlowAuthorizationCode = "authorizationCode"
)

// Contact mirrors the OpenAPI info.contact object.
type Contact struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
	Email string `yaml:"email"`
}

// License mirrors the OpenAPI info.license object.
type License struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Server is one entry of the document's servers list.
type Server struct {
	URL         string `yaml:"url" validate:"required"`
	Description string `yaml:"description"`
}

// Tag is one entry of the document's top-level tags list.
type Tag struct {
	Name        string `yaml:"name" validate:"required"`
	Description string `yaml:"description"`
}

// Pagination configures the query parameters emitted for collection
// GET operations.
type Pagination struct {
	// Enabled emits the page-number parameter.
	Enabled           bool   `yaml:"enabled"`
	PageParameterName string `yaml:"page_parameter_name"`
	// ClientItemsPerPage emits the items-per-page parameter, bounded
	// below by zero and above by MaximumItemsPerPage when positive.
	ClientItemsPerPage        bool   `yaml:"client_items_per_page"`
	ItemsPerPageParameterName string `yaml:"items_per_page_parameter_name"`
	MaximumItemsPerPage       int    `yaml:"maximum_items_per_page"`
	// ClientEnabled emits the boolean toggle letting clients disable
	// pagination altogether.
	ClientEnabled        bool   `yaml:"client_enabled"`
	EnabledParameterName string `yaml:"enabled_parameter_name"`
}

// OAuth configures the single oauth2 security scheme. Exactly one
// flow is carried; an unknown flow name is a fatal configuration
// error at document-build time.
type OAuth struct {
	Flow             string            `yaml:"flow" validate:"omitempty,oneof=implicit password clientCredentials authorizationCode"`
	TokenURL         string            `yaml:"token_url"`
	AuthorizationURL string            `yaml:"authorization_url"`
	RefreshURL       string            `yaml:"refresh_url"`
	Scopes           map[string]string `yaml:"scopes"`
}

// APIKey configures one apiKey security scheme.
type APIKey struct {
	Name        string `yaml:"name" validate:"required"`
	In          string `yaml:"in" validate:"oneof=query header cookie"`
	Description string `yaml:"description"`
}

// Config is the document-level configuration: display options,
// pagination behavior and security schemes.
type Config struct {
	Title       string `yaml:"title" validate:"required"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`

	Contact *Contact `yaml:"contact"`
	License *License `yaml:"license"`

	Servers []Server `yaml:"servers" validate:"dive"`
	Tags    []Tag    `yaml:"tags" validate:"dive"`

	Pagination Pagination `yaml:"pagination"`

	OAuth   *OAuth            `yaml:"oauth"`
	APIKeys map[string]APIKey `yaml:"api_keys" validate:"dive"`
}

var configValidator = validator.New()

// Validate checks the configuration and fills parameter-name
// defaults. It fails fast: a broken security configuration must never
// produce a document.
func (c *Config) Validate() error {
	c.applyDefaults()
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("apidoc: invalid configuration: %w", err)
	}
	if c.OAuth != nil && c.OAuth.Flow == "" {
		return fmt.Errorf("apidoc: invalid configuration: oauth flow is required (one of %s, %s, %s, %s)",
			FlowImplicit, FlowPassword, FlowClientCredentials, FlowAuthorizationCode)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = "0.0.0"
	}
	if c.Pagination.PageParameterName == "" {
		c.Pagination.PageParameterName = "page"
	}
	if c.Pagination.ItemsPerPageParameterName == "" {
		c.Pagination.ItemsPerPageParameterName = "itemsPerPage"
	}
	if c.Pagination.EnabledParameterName == "" {
		c.Pagination.EnabledParameterName = "pagination"
	}
}
