// Package auth exchanges bearer tokens for session cookies.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cratedrop/service/internal/identity"
)

// ErrUnauthenticated is returned when the presented bearer token does not verify.
var ErrUnauthenticated = errors.New("valid bearer token required")

// Session is a freshly minted session token.
type Session struct {
	Subject   string
	Token     string
	ExpiresAt time.Time
}

// Service contains the business logic for session issuance.
type Service struct {
	bearer identity.Verifier
	issuer *identity.SessionIssuer
	now    func() time.Time
}

// NewService creates a new auth Service.
func NewService(bearer identity.Verifier, issuer *identity.SessionIssuer) *Service {
	return &Service{bearer: bearer, issuer: issuer, now: time.Now}
}

// CreateSession verifies bearerToken and issues a session token for its subject.
func (s *Service) CreateSession(ctx context.Context, bearerToken string) (*Session, error) {
	if bearerToken == "" {
		return nil, ErrUnauthenticated
	}

	subject, err := s.bearer.Verify(ctx, bearerToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	expiresAt := s.now().Add(s.issuer.TTL())
	token, err := s.issuer.Issue(subject)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	return &Session{Subject: subject, Token: token, ExpiresAt: expiresAt}, nil
}
