package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type memorySink struct {
	mu     sync.Mutex
	events []Event
	err    error
	block  chan struct{}
}

func (s *memorySink) Record(ctx context.Context, ev Event) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *memorySink) recorded() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func TestEmitterRecordsDownload(t *testing.T) {
	t.Parallel()

	sink := &memorySink{}
	emitter := NewEmitter(sink, time.Second)

	emitter.CrateDownloaded(context.Background(), "c1", "u1")
	emitter.Close()

	events := sink.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, KindDownloaded, events[0].Kind)
	assert.Equal(t, "c1", events[0].CrateID)
	assert.Equal(t, "u1", events[0].Subject)
	assert.NotZero(t, events[0].ID)
	assert.False(t, events[0].OccurredAt.IsZero())
}

func TestEmitterSurvivesRequestCancellation(t *testing.T) {
	t.Parallel()

	sink := &memorySink{block: make(chan struct{})}
	emitter := NewEmitter(sink, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	emitter.CrateDownloaded(ctx, "c1", "")
	cancel()
	close(sink.block)
	emitter.Close()

	assert.Len(t, sink.recorded(), 1)
}

func TestEmitterSwallowsSinkFailure(t *testing.T) {
	t.Parallel()

	sink := &memorySink{err: errors.New("database is down")}
	emitter := NewEmitter(sink, time.Second)

	assert.NotPanics(t, func() {
		emitter.CrateDownloaded(context.Background(), "c1", "u1")
	})
	emitter.Close()
	assert.Empty(t, sink.recorded())
}

func TestEmitterTimeout(t *testing.T) {
	t.Parallel()

	sink := &memorySink{block: make(chan struct{})}
	emitter := NewEmitter(sink, 10*time.Millisecond)

	start := time.Now()
	emitter.CrateDownloaded(context.Background(), "c1", "u1")
	emitter.Close()

	assert.Less(t, time.Since(start), time.Second)
	assert.Empty(t, sink.recorded())
}

func TestNoopAndClosedEmitterDrop(t *testing.T) {
	t.Parallel()

	NoopEmitter().CrateDownloaded(context.Background(), "c1", "u1")

	sink := &memorySink{}
	emitter := NewEmitter(sink, time.Second)
	emitter.Close()
	emitter.CrateDownloaded(context.Background(), "c1", "u1")
	assert.Empty(t, sink.recorded())
}
