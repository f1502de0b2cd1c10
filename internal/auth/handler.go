package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/cratedrop/service/internal/identity"
	"github.com/cratedrop/service/internal/logger"
	"github.com/cratedrop/service/internal/response"
)

// Handler holds HTTP handlers for auth endpoints.
type Handler struct {
	svc        *Service
	cookieName string
	secure     bool
}

// NewHandler creates a new auth Handler. secure marks cookies HTTPS-only.
func NewHandler(svc *Service, cookieName string, secure bool) *Handler {
	return &Handler{svc: svc, cookieName: cookieName, secure: secure}
}

type sessionData struct {
	Subject   string `json:"subject"   example:"e7eedc79-0707-4fe4-8734-526b7ef13a7b"`
	ExpiresAt string `json:"expiresAt" example:"2026-11-02T14:48:34Z"`
}

// CreateSession godoc
//
//	@Summary		Create session
//	@Description	Exchange a valid Bearer token for a session cookie, so browsers can fetch crates without an Authorization header.
//	@Tags			auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=sessionData}
//	@Failure		401	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/auth/session [post]
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	creds := identity.FromRequest(r, h.cookieName)

	sess, err := h.svc.CreateSession(r.Context(), creds.Bearer)
	if errors.Is(err, ErrUnauthenticated) {
		response.Unauthorized(w, "invalid or expired token")
		return
	}
	if err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("session issuance failed")
		response.InternalError(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(h.svc.issuer.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	response.OK(w, sessionData{
		Subject:   sess.Subject,
		ExpiresAt: sess.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// DeleteSession godoc
//
//	@Summary		Delete session
//	@Description	Clear the session cookie.
//	@Tags			auth
//	@Success		204
//	@Router			/auth/session [delete]
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	response.NoContent(w)
}
