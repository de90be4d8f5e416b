package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restbus/restbus/resource"
)

type listBooks struct{}

func (listBooks) MessageName() string { return "ListBooks" }

type removeBook struct{}

func (removeBook) MessageName() string { return "RemoveBook" }
func (removeBook) AuthorizationRequired() {}

func testCatalog(t *testing.T) *resource.Catalog {
	t.Helper()
	c := resource.NewCatalog()
	require.NoError(t, c.Add(&resource.Resource{
		ShortName: "Book",
		Operations: []resource.Operation{
			{Name: "get", Kind: resource.Item, Method: "GET", Message: listBooks{}},
			{Name: "delete", Kind: resource.Item, Method: "DELETE", Message: removeBook{}},
			{Name: "get", Kind: resource.Collection, Method: "GET"},
		},
	}))
	return c
}

func TestMatcher(t *testing.T) {
	m := NewMatcher(testCatalog(t))

	t.Run("message with the marker matches", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/books/42", nil)
		assert.True(t, m.Matches(req))
	})

	t.Run("message without the marker does not match", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books/42", nil)
		assert.False(t, m.Matches(req))
	})

	t.Run("operation without a message does not match", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		assert.False(t, m.Matches(req))
	})

	t.Run("unresolvable request does not match", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/authors/42", nil)
		assert.False(t, m.Matches(req))
	})
}

func TestRequireAuthorization(t *testing.T) {
	m := NewMatcher(testCatalog(t))
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("denied request gets 403", func(t *testing.T) {
		handler := RequireAuthorization(m, func(*http.Request) bool { return false })(next)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/books/42", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("authorized request passes", func(t *testing.T) {
		handler := RequireAuthorization(m, func(*http.Request) bool { return true })(next)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/books/42", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("unmatched request never consults the authorizer", func(t *testing.T) {
		handler := RequireAuthorization(m, func(*http.Request) bool {
			t.Fatal("authorizer called for an unmatched request")
			return false
		})(next)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books/42", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
