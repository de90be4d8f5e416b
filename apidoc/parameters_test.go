package apidoc

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restbus/restbus/resource"
)

func TestFilterParameter(t *testing.T) {
	t.Run("scalar types map to primitive schemas", func(t *testing.T) {
		cases := map[string]string{
			"string":  "string",
			"int":     "integer",
			"integer": "integer",
			"float":   "number",
			"bool":    "boolean",
			"mystery": "string",
		}
		for declared, want := range cases {
			p := filterParameter("q", resource.FilterAttribute{Type: declared})
			assert.Equalf(t, want, p.Schema.Value.Type, "declared type %q", declared)
		}
	})

	t.Run("scalar filters use form style without explode", func(t *testing.T) {
		p := filterParameter("title", resource.FilterAttribute{Type: "string"})
		assert.Equal(t, "form", p.Style)
		require.NotNil(t, p.Explode)
		assert.False(t, *p.Explode)
	})

	t.Run("array filters explode with deepObject style", func(t *testing.T) {
		p := filterParameter("tags[]", resource.FilterAttribute{Type: "array"})
		assert.Equal(t, "array", p.Schema.Value.Type)
		assert.Equal(t, "deepObject", p.Style)
		require.NotNil(t, p.Explode)
		assert.True(t, *p.Explode)
	})

	t.Run("explicit schema override wins", func(t *testing.T) {
		override := openapi3.NewSchemaRef("", openapi3.NewIntegerSchema())
		p := filterParameter("year", resource.FilterAttribute{Type: "string", Schema: override})
		assert.Equal(t, "integer", p.Schema.Value.Type)
		assert.Equal(t, "form", p.Style)
	})

	t.Run("style and explode overrides win", func(t *testing.T) {
		p := filterParameter("q", resource.FilterAttribute{
			Type:    "array",
			Style:   "form",
			Explode: openapi3.BoolPtr(false),
		})
		assert.Equal(t, "form", p.Style)
		assert.False(t, *p.Explode)
	})

	t.Run("date type carries the date-time format", func(t *testing.T) {
		p := filterParameter("since", resource.FilterAttribute{Type: "date"})
		assert.Equal(t, "string", p.Schema.Value.Type)
		assert.Equal(t, "date-time", p.Schema.Value.Format)
	})

	t.Run("required and description pass through", func(t *testing.T) {
		p := filterParameter("title", resource.FilterAttribute{
			Type:        "string",
			Required:    true,
			Description: "Filter by title",
		})
		assert.True(t, p.Required)
		assert.Equal(t, "Filter by title", p.Description)
	})
}

func TestUnknownFilterSkipped(t *testing.T) {
	c := resource.NewCatalog()
	require.NoError(t, c.Add(&resource.Resource{
		ShortName: "Book",
		Operations: []resource.Operation{
			{Name: "get", Kind: resource.Collection, Method: "GET", Filters: []string{"nope"}},
		},
	}))
	doc := assemble(t, c, resource.NewFilterRegistry(), Config{Title: "Library"})
	assert.Empty(t, doc.Paths["/books"].Get.Parameters)
}

func TestDedupeParameters(t *testing.T) {
	a := &openapi3.Parameter{Name: "page", In: "query"}
	b := &openapi3.Parameter{Name: "page", In: "query", Description: "later duplicate"}
	c := &openapi3.Parameter{Name: "page", In: "path"}

	out := dedupeParameters([]*openapi3.Parameter{a, b, c, nil})
	require.Len(t, out, 2)
	assert.Same(t, a, out[0].Value)
	assert.Same(t, c, out[1].Value)
}
