package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func bookResource() *Resource {
	return &Resource{
		ShortName: "Book",
		Class:     "Book",
		Operations: []Operation{
			{Name: "get", Kind: Item, Method: "GET"},
			{Name: "put", Kind: Item, Method: "PUT"},
			{Name: "get", Kind: Collection, Method: "GET"},
			{Name: "post", Kind: Collection, Method: "POST"},
		},
	}
}

func TestCatalogAdd(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Add(bookResource()))

	t.Run("duplicate short name rejected", func(t *testing.T) {
		assert.Error(t, c.Add(bookResource()))
	})

	t.Run("lookup", func(t *testing.T) {
		r, ok := c.Lookup("Book")
		require.True(t, ok)
		assert.Equal(t, "Book", r.ShortName)

		_, ok = c.Lookup("Author")
		assert.False(t, ok)
	})

	t.Run("declaration order kept", func(t *testing.T) {
		c := NewCatalog()
		require.NoError(t, c.Add(&Resource{ShortName: "Zebra"}))
		require.NoError(t, c.Add(&Resource{ShortName: "Author"}))
		names := []string{}
		for _, r := range c.Resources() {
			names = append(names, r.ShortName)
		}
		assert.Equal(t, []string{"Zebra", "Author"}, names)
	})
}

func TestResolveIdentifiers(t *testing.T) {
	c := NewCatalog()
	book := bookResource()
	require.NoError(t, c.Add(book))

	t.Run("default id derived", func(t *testing.T) {
		ids := c.ResolveIdentifiers(book, book.Operations[0])
		require.Len(t, ids, 1)
		assert.Equal(t, "id", ids[0].Name)
	})

	t.Run("composite identifiers collapse to id", func(t *testing.T) {
		op := Operation{Name: "get", Kind: Item, Method: "GET", Identifiers: []Identifier{
			{Name: "isbn"}, {Name: "edition"},
		}}
		ids := c.ResolveIdentifiers(book, op)
		require.Len(t, ids, 1)
		assert.Equal(t, "id", ids[0].Name)
	})

	t.Run("composite disabled keeps all identifiers", func(t *testing.T) {
		op := Operation{Name: "get", Kind: Item, Method: "GET",
			CompositeIdentifier: boolPtr(false),
			Identifiers:         []Identifier{{Name: "isbn"}, {Name: "edition"}},
		}
		ids := c.ResolveIdentifiers(book, op)
		require.Len(t, ids, 2)
		assert.Equal(t, "isbn", ids[0].Name)
		assert.Equal(t, "edition", ids[1].Name)
	})

	t.Run("collection without item operations has none", func(t *testing.T) {
		c := NewCatalog()
		res := &Resource{ShortName: "Stat", Operations: []Operation{
			{Name: "get", Kind: Collection, Method: "GET"},
		}}
		require.NoError(t, c.Add(res))
		assert.Empty(t, c.ResolveIdentifiers(res, res.Operations[0]))
	})

	t.Run("subresource falls back to owner identifiers", func(t *testing.T) {
		c := NewCatalog()
		owner := &Resource{ShortName: "Author", Identifiers: []Identifier{{Name: "authorId"}}}
		require.NoError(t, c.Add(owner))
		child := &Resource{ShortName: "Book", Operations: []Operation{
			{Name: "books_get_subresource", Kind: Subresource, Method: "GET", SubresourceOf: "Author", SubresourceCollection: true},
			{Name: "get", Kind: Item, Method: "GET"},
		}}
		require.NoError(t, c.Add(child))
		ids := c.ResolveIdentifiers(child, child.Operations[0])
		require.Len(t, ids, 1)
		assert.Equal(t, "authorId", ids[0].Name)
	})
}

func TestOperationPath(t *testing.T) {
	c := NewCatalog()
	book := bookResource()
	require.NoError(t, c.Add(book))

	t.Run("derived paths", func(t *testing.T) {
		assert.Equal(t, "/books/{id}", c.OperationPath(book, book.Operations[0]))
		assert.Equal(t, "/books", c.OperationPath(book, book.Operations[2]))
	})

	t.Run("explicit path wins and is normalized", func(t *testing.T) {
		op := Operation{Name: "get", Kind: Item, Method: "GET", Path: "items/{id}.{_format}?order=asc"}
		assert.Equal(t, "/items/{id}", c.OperationPath(book, op))
	})

	t.Run("subresource path", func(t *testing.T) {
		c := NewCatalog()
		require.NoError(t, c.Add(&Resource{ShortName: "Author", Identifiers: []Identifier{{Name: "id"}}}))
		child := &Resource{ShortName: "Book", Operations: []Operation{
			{Name: "books_get_subresource", Kind: Subresource, Method: "GET", SubresourceOf: "Author", SubresourceCollection: true},
		}}
		require.NoError(t, c.Add(child))
		assert.Equal(t, "/authors/{id}/books", c.OperationPath(child, child.Operations[0]))
	})
}

func TestCatalogMatch(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Add(bookResource()))

	t.Run("item route", func(t *testing.T) {
		b, ok := c.Match("GET", "/books/42")
		require.True(t, ok)
		assert.Equal(t, "Book", b.Resource.ShortName)
		assert.Equal(t, Item, b.Operation.Kind)
	})

	t.Run("collection route", func(t *testing.T) {
		b, ok := c.Match("post", "/books")
		require.True(t, ok)
		assert.Equal(t, Collection, b.Operation.Kind)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := c.Match("GET", "/authors/42")
		assert.False(t, ok)
		_, ok = c.Match("DELETE", "/books/42")
		assert.False(t, ok)
	})
}

func TestRouteName(t *testing.T) {
	assert.Equal(t, "books", RouteName("Book"))
	assert.Equal(t, "order-lines", RouteName("OrderLine"))
	assert.Equal(t, "news", RouteName("News"))
}
