package crate

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cratedrop/service/internal/logger"
	"github.com/cratedrop/service/internal/metrics"
	"github.com/cratedrop/service/internal/middleware"
	"github.com/cratedrop/service/internal/response"
)

// maxUnlockBody caps the unlock request body.
const maxUnlockBody = 4 << 10

// Handler holds HTTP handlers for crate retrieval.
type Handler struct {
	svc *Service
}

// NewHandler creates a new crate Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the crate endpoints. The identity middleware must run first.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}", h.Get)
	r.Post("/{id}/unlock", h.Unlock)
}

type unlockRequest struct {
	Password string `json:"password" example:"hunter2"`
}

// Get godoc
//
//	@Summary		Download a crate
//	@Description	Streams the crate body when the caller owns it, it is public without a password, or the caller is on its sharing list. Credentials are optional: a Bearer token is tried first, then the session cookie.
//	@Tags			crates
//	@Produce		octet-stream
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Crate ID"
//	@Success		200	{file}		binary
//	@Failure		401	{object}	response.Envelope	"passwordRequired is true"
//	@Failure		403	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		410	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/crates/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	content, err := h.svc.Open(r.Context(), id, middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeContent(w, r, content)
}

// Unlock godoc
//
//	@Summary		Download a password-protected crate
//	@Description	Same as GET /crates/{id}, but a matching password lifts the password challenge of a public crate.
//	@Tags			crates
//	@Accept			json
//	@Produce		octet-stream
//	@Security		BearerAuth
//	@Param			id		path		string			true	"Crate ID"
//	@Param			request	body		unlockRequest	true	"Crate password"
//	@Success		200		{file}		binary
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope	"passwordRequired is true"
//	@Failure		403		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		410		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/crates/{id}/unlock [post]
func (h *Handler) Unlock(w http.ResponseWriter, r *http.Request) {
	var req unlockRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUnlockBody)).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	id := chi.URLParam(r, "id")
	content, err := h.svc.Unlock(r.Context(), id, middleware.IdentityFrom(r.Context()), req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeContent(w, r, content)
}

// writeError maps pipeline errors to responses. Denials never carry content.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "crate not found")
	case errors.Is(err, ErrExpired):
		response.Gone(w, "crate has expired")
	case errors.Is(err, ErrWrongPassword):
		response.PasswordRequired(w, "invalid password")
	case errors.Is(err, ErrPasswordRequired):
		response.PasswordRequired(w, "this crate is password protected")
	case errors.Is(err, ErrForbidden):
		response.Forbidden(w, "you do not have permission to access this crate")
	default:
		logger.Ctx(r.Context()).Error().Err(err).Str("crate_id", chi.URLParam(r, "id")).Msg("crate retrieval failed")
		response.InternalError(w)
	}
}

func writeContent(w http.ResponseWriter, r *http.Request, content *Content) {
	defer content.Body.Close()

	c := content.Crate
	mimeType := c.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", ContentDisposition(c.Title))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if content.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(content.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	n, err := io.Copy(w, content.Body)
	metrics.BytesServed.Add(float64(n))
	if err != nil {
		// Headers are gone; all we can do is log.
		metrics.RetrievalFailures.WithLabelValues("stream").Inc()
		logger.Ctx(r.Context()).Warn().Err(err).Str("crate_id", c.ID).Int64("bytes", n).Msg("crate stream interrupted")
	}
}

// ContentDisposition frames title for inline display.
func ContentDisposition(title string) string {
	return `inline; filename="` + url.PathEscape(title) + `"`
}
