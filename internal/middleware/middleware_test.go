package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/cratedrop/service/internal/identity"
	"github.com/cratedrop/service/internal/logger"
)

func TestIdentifyNeverRejects(t *testing.T) {
	t.Parallel()

	resolver := identity.NewResolver(identity.BearerStrategy(identity.VerifierFunc(
		func(_ context.Context, token string) (string, error) {
			if token == "good" {
				return "u1", nil
			}
			return "", identity.ErrInvalidCredential
		},
	)))

	var seen identity.Identity
	h := Identify(resolver, "session")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IdentityFrom(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	for header, want := range map[string]identity.Identity{
		"Bearer good":   {Subject: "u1"},
		"Bearer forged": identity.Anonymous,
		"":              identity.Anonymous,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, want, seen, header)
	}
}

func TestIdentityFromEmptyContext(t *testing.T) {
	t.Parallel()
	assert.True(t, IdentityFrom(context.Background()).IsAnonymous())
}

func TestLoggerInstallsRequestLogger(t *testing.T) {
	t.Parallel()

	var installed bool
	h := chiMiddleware.RequestID(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		installed = logger.Ctx(r.Context()) != logger.Ctx(context.Background())
		w.WriteHeader(http.StatusAccepted)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, installed)
}
