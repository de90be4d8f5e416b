package guard

import "net/http"

// Authorizer decides whether a request that matched the
// authorization-required predicate may proceed.
type Authorizer func(*http.Request) bool

// RequireAuthorization wraps a handler so that requests targeting an
// authorization-required message are checked against authorize first.
// Denied requests get a 403; everything else passes through.
func RequireAuthorization(m *Matcher, authorize Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.Matches(r) && (authorize == nil || !authorize(r)) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
