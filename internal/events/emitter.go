// Package events records crate downloads without ever blocking or failing
// the read path.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cratedrop/service/internal/logger"
	"github.com/cratedrop/service/internal/metrics"
)

// KindDownloaded is the event kind of a served crate.
const KindDownloaded = "crate.downloaded"

// Event is one download record.
type Event struct {
	ID         uuid.UUID
	Kind       string
	CrateID    string
	Subject    string // empty for anonymous requesters
	OccurredAt time.Time
}

// Sink persists events.
type Sink interface {
	Record(ctx context.Context, ev Event) error
}

// Emitter hands events to a Sink in the background.
//
// Each event runs on a context detached from the request, bounded by the
// configured timeout. Failures are logged and counted, never returned.
type Emitter struct {
	sink    Sink
	timeout time.Duration
	now     func() time.Time

	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewEmitter creates an emitter. A nil sink drops every event.
func NewEmitter(sink Sink, timeout time.Duration) *Emitter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Emitter{sink: sink, timeout: timeout, now: time.Now}
}

// NoopEmitter returns an emitter that drops all events.
func NoopEmitter() *Emitter {
	return NewEmitter(nil, 0)
}

// CrateDownloaded records that crateID was served to subject.
func (e *Emitter) CrateDownloaded(ctx context.Context, crateID, subject string) {
	e.emit(ctx, Event{
		ID:         uuid.New(),
		Kind:       KindDownloaded,
		CrateID:    crateID,
		Subject:    subject,
		OccurredAt: e.now().UTC(),
	})
}

func (e *Emitter) emit(ctx context.Context, ev Event) {
	e.mu.Lock()
	if e.sink == nil || e.closed {
		e.mu.Unlock()
		metrics.Events.WithLabelValues("dropped").Inc()
		return
	}
	e.wg.Add(1)
	e.mu.Unlock()

	log := logger.Ctx(ctx).With().
		Str("event", ev.Kind).
		Str("crate_id", ev.CrateID).
		Str("event_id", ev.ID.String()).
		Logger()
	detached := context.WithoutCancel(ctx)

	go func() {
		defer e.wg.Done()

		ctx, cancel := context.WithTimeout(detached, e.timeout)
		defer cancel()

		if err := e.sink.Record(ctx, ev); err != nil {
			metrics.Events.WithLabelValues("failed").Inc()
			log.Warn().Err(err).Msg("failed to record event")
			return
		}
		metrics.Events.WithLabelValues("recorded").Inc()
		log.Debug().Msg("recorded event")
	}()
}

// Close stops accepting events and waits for in-flight ones.
func (e *Emitter) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.wg.Wait()
}
