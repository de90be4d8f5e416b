package apidoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restbus/restbus/resource"
)

func TestSecuritySchemes(t *testing.T) {
	t.Run("oauth flows", func(t *testing.T) {
		for _, flow := range []string{FlowImplicit, FlowPassword, FlowClientCredentials, FlowAuthorizationCode} {
			cfg := Config{Title: "Library", OAuth: &OAuth{
				Flow:             flow,
				TokenURL:         "https://auth.example.com/token",
				AuthorizationURL: "https://auth.example.com/authorize",
				Scopes:           map[string]string{"books:read": "Read the catalog"},
			}}
			doc := assemble(t, bookCatalog(t), nil, cfg)

			ref := doc.Components.SecuritySchemes["oauth"]
			require.NotNilf(t, ref, "flow %s", flow)
			scheme := ref.Value
			assert.Equal(t, "oauth2", scheme.Type)
			require.NotNil(t, scheme.Flows)

			switch flow {
			case FlowImplicit:
				assert.NotNil(t, scheme.Flows.Implicit)
			case FlowPassword:
				assert.NotNil(t, scheme.Flows.Password)
			case FlowClientCredentials:
				assert.NotNil(t, scheme.Flows.ClientCredentials)
			case FlowAuthorizationCode:
				assert.NotNil(t, scheme.Flows.AuthorizationCode)
			}
		}
	})

	t.Run("api keys sorted into schemes and requirements", func(t *testing.T) {
		cfg := Config{Title: "Library", APIKeys: map[string]APIKey{
			"header_key": {Name: "X-Api-Key", In: "header"},
			"query_key":  {Name: "key", In: "query"},
		}}
		doc := assemble(t, bookCatalog(t), nil, cfg)

		require.Contains(t, doc.Components.SecuritySchemes, "header_key")
		require.Contains(t, doc.Components.SecuritySchemes, "query_key")
		assert.Equal(t, "apiKey", doc.Components.SecuritySchemes["header_key"].Value.Type)
		assert.Equal(t, "X-Api-Key", doc.Components.SecuritySchemes["header_key"].Value.Name)
		require.Len(t, doc.Security, 2)
	})

	t.Run("invalid oauth flow is fatal", func(t *testing.T) {
		cfg := Config{Title: "Library", OAuth: &OAuth{Flow: "magic"}}
		_, err := New(resource.NewCatalog(), nil, cfg)
		require.Error(t, err)
	})

	t.Run("missing oauth flow is fatal", func(t *testing.T) {
		cfg := Config{Title: "Library", OAuth: &OAuth{TokenURL: "https://auth.example.com/token"}}
		_, err := New(resource.NewCatalog(), nil, cfg)
		require.Error(t, err)
	})

	t.Run("invalid api key location is fatal", func(t *testing.T) {
		cfg := Config{Title: "Library", APIKeys: map[string]APIKey{
			"bad": {Name: "key", In: "path"},
		}}
		_, err := New(resource.NewCatalog(), nil, cfg)
		require.Error(t, err)
	})

	t.Run("no schemes means no security section", func(t *testing.T) {
		doc := assemble(t, bookCatalog(t), nil, Config{Title: "Library"})
		assert.Empty(t, doc.Components.SecuritySchemes)
		assert.Empty(t, doc.Security)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("title required", func(t *testing.T) {
		cfg := Config{}
		assert.Error(t, cfg.Validate())
	})

	t.Run("pagination parameter name defaults", func(t *testing.T) {
		cfg := Config{Title: "Library"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "page", cfg.Pagination.PageParameterName)
		assert.Equal(t, "itemsPerPage", cfg.Pagination.ItemsPerPageParameterName)
		assert.Equal(t, "pagination", cfg.Pagination.EnabledParameterName)
	})
}
