package crate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cratedrop/service/internal/identity"
	"github.com/cratedrop/service/internal/logger"
	"github.com/cratedrop/service/internal/metrics"
)

// DownloadRecorder receives a fire-and-forget notice for every served crate.
type DownloadRecorder interface {
	CrateDownloaded(ctx context.Context, crateID, subject string)
}

// Service runs the read pipeline: metadata lookup, expiration check,
// authorization, then content retrieval. Each stage can end the request.
type Service struct {
	meta    MetadataStore
	content ContentFetcher
	events  DownloadRecorder
	now     func() time.Time
}

// NewService creates a new crate Service.
func NewService(meta MetadataStore, content ContentFetcher, events DownloadRecorder) *Service {
	return &Service{meta: meta, content: content, events: events, now: time.Now}
}

// Open returns the crate body when who may read it. Denials are reported as
// ErrNotFound, ErrExpired, ErrPasswordRequired or ErrForbidden; anything else
// is an unexpected failure.
func (s *Service) Open(ctx context.Context, id string, who identity.Identity) (*Content, error) {
	c, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.release(ctx, c, who, s.decide(ctx, c, who))
}

// Unlock is Open for a requester presenting the crate password. A matching
// password only lifts the password challenge of a public crate.
func (s *Service) Unlock(ctx context.Context, id string, who identity.Identity, password string) (*Content, error) {
	c, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	d := s.decide(ctx, c, who)
	if d == DenyPasswordRequired {
		if !c.CheckPassword(password) {
			return nil, ErrWrongPassword
		}
		d = Allow
	}
	return s.release(ctx, c, who, d)
}

func (s *Service) lookup(ctx context.Context, id string) (*Crate, error) {
	c, err := s.meta.GetByID(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		metrics.RetrievalFailures.WithLabelValues("metadata").Inc()
		return nil, fmt.Errorf("lookup crate %s: %w", id, err)
	}
	return c, err
}

func (s *Service) decide(ctx context.Context, c *Crate, who identity.Identity) Decision {
	d := Evaluate(who, c, s.now())
	metrics.AccessDecisions.WithLabelValues(d.String()).Inc()
	logger.Ctx(ctx).Debug().
		Str("crate_id", c.ID).
		Str("identity", who.String()).
		Stringer("decision", d).
		Msg("access decision")
	return d
}

func (s *Service) release(ctx context.Context, c *Crate, who identity.Identity, d Decision) (*Content, error) {
	if err := d.Err(); err != nil {
		return nil, err
	}

	content, err := s.content.Fetch(ctx, c.ID)
	if err != nil {
		metrics.RetrievalFailures.WithLabelValues("content").Inc()
		return nil, fmt.Errorf("fetch crate %s: %w", c.ID, err)
	}

	if s.events != nil {
		s.events.CrateDownloaded(ctx, c.ID, who.Subject)
	}
	return content, nil
}
