package middleware

import (
	"context"
	"net/http"

	"github.com/cratedrop/service/internal/identity"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

// IdentityKey is the context key for the resolved identity.
const IdentityKey contextKey = "identity"

// Identify resolves the request's bearer token and session cookie into an
// identity and stores it on the context. It never rejects a request; callers
// without a usable credential continue as anonymous.
func Identify(resolver *identity.Resolver, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who := resolver.Resolve(r.Context(), identity.FromRequest(r, cookieName))
			ctx := context.WithValue(r.Context(), IdentityKey, who)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom returns the identity stored by Identify, or identity.Anonymous.
func IdentityFrom(ctx context.Context) identity.Identity {
	if who, ok := ctx.Value(IdentityKey).(identity.Identity); ok {
		return who
	}
	return identity.Anonymous
}
