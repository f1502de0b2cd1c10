// Package identity turns request credentials into a resolved identity.
//
// Resolution never fails: each credential source is tried in order and the
// first verified subject wins. Anything that cannot be verified is treated as
// "this credential does not apply" and the request proceeds as anonymous.
package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/cratedrop/service/internal/logger"
)

// ErrInvalidCredential is returned by verifiers for malformed, expired or
// forged tokens.
var ErrInvalidCredential = errors.New("invalid credential")

// Identity is either a verified subject or the anonymous sentinel.
type Identity struct {
	Subject string
}

// Anonymous is the identity of a request without a usable credential.
var Anonymous = Identity{}

// IsAnonymous reports whether no credential was verified.
func (i Identity) IsAnonymous() bool {
	return i.Subject == ""
}

func (i Identity) String() string {
	if i.IsAnonymous() {
		return "anonymous"
	}
	return i.Subject
}

// Credentials is the raw credential material carried by a request.
type Credentials struct {
	Bearer  string
	Session string
}

// FromRequest extracts the bearer token from the Authorization header and the
// session token from the named cookie. Missing or malformed values are left empty.
func FromRequest(r *http.Request, cookieName string) Credentials {
	var creds Credentials

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		creds.Bearer = strings.TrimSpace(parts[1])
	}

	if c, err := r.Cookie(cookieName); err == nil {
		creds.Session = c.Value
	}
	return creds
}

// Verifier checks a token and returns its subject.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(ctx context.Context, token string) (string, error)

// Verify calls f.
func (f VerifierFunc) Verify(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}

// Strategy pairs a credential source with the verifier that understands it.
type Strategy struct {
	Name     string
	Extract  func(Credentials) string
	Verifier Verifier
}

// BearerStrategy verifies the Authorization bearer token.
func BearerStrategy(v Verifier) Strategy {
	return Strategy{
		Name:     "bearer",
		Extract:  func(c Credentials) string { return c.Bearer },
		Verifier: v,
	}
}

// SessionStrategy verifies the session cookie.
func SessionStrategy(v Verifier) Strategy {
	return Strategy{
		Name:     "session",
		Extract:  func(c Credentials) string { return c.Session },
		Verifier: v,
	}
}

// Resolver tries its strategies in order until one verifies.
type Resolver struct {
	strategies []Strategy
}

// NewResolver creates a Resolver. Precedence is the argument order.
func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// Resolve returns the first verified identity, or Anonymous.
func (r *Resolver) Resolve(ctx context.Context, creds Credentials) Identity {
	for _, s := range r.strategies {
		token := s.Extract(creds)
		if token == "" || s.Verifier == nil {
			continue
		}
		if ctx.Err() != nil {
			return Anonymous
		}

		subject, err := s.Verifier.Verify(ctx, token)
		if err != nil || subject == "" {
			logger.Ctx(ctx).Debug().Err(err).Str("source", s.Name).Msg("credential rejected")
			continue
		}
		return Identity{Subject: subject}
	}
	return Anonymous
}
