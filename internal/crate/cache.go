package crate

import (
	"context"
	"errors"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"

	"github.com/cratedrop/service/internal/logger"
	"github.com/cratedrop/service/internal/metrics"
)

const cacheKeyPrefix = "crate:meta:"

// Expiry is computed from CreatedAt, so keep full precision.
var cacheEncMode = func() cbor.EncMode {
	em, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// cacheEntry is the cached form of a Crate. It carries the fields the JSON
// form hides, so it has its own tags.
type cacheEntry struct {
	ID                string    `cbor:"1,keyasint"`
	OwnerID           string    `cbor:"2,keyasint"`
	CreatedAt         time.Time `cbor:"3,keyasint"`
	TTLDays           int       `cbor:"4,keyasint"`
	MimeType          string    `cbor:"5,keyasint"`
	Title             string    `cbor:"6,keyasint"`
	BlobKey           string    `cbor:"7,keyasint"`
	SizeBytes         int64     `cbor:"8,keyasint"`
	Public            bool      `cbor:"9,keyasint"`
	PasswordProtected bool      `cbor:"10,keyasint"`
	SharedWith        []string  `cbor:"11,keyasint"`
	PasswordHash      string    `cbor:"12,keyasint"`
}

func toCacheEntry(c *Crate) cacheEntry {
	return cacheEntry{
		ID:                c.ID,
		OwnerID:           c.OwnerID,
		CreatedAt:         c.CreatedAt,
		TTLDays:           c.TTLDays,
		MimeType:          c.MimeType,
		Title:             c.Title,
		BlobKey:           c.BlobKey,
		SizeBytes:         c.SizeBytes,
		Public:            c.Shared.Public,
		PasswordProtected: c.Shared.PasswordProtected,
		SharedWith:        c.Shared.SharedWith,
		PasswordHash:      c.PasswordHash,
	}
}

func (e cacheEntry) crate() *Crate {
	return &Crate{
		ID:        e.ID,
		OwnerID:   e.OwnerID,
		CreatedAt: e.CreatedAt,
		TTLDays:   e.TTLDays,
		MimeType:  e.MimeType,
		Title:     e.Title,
		BlobKey:   e.BlobKey,
		SizeBytes: e.SizeBytes,
		Shared: Sharing{
			Public:            e.Public,
			PasswordProtected: e.PasswordProtected,
			SharedWith:        e.SharedWith,
		},
		PasswordHash: e.PasswordHash,
	}
}

// CachedStore is a Redis read-through cache in front of a MetadataStore.
// Redis failures fall through to the backing store; misses are not cached.
type CachedStore struct {
	next   MetadataStore
	client *redis.Client
	ttl    time.Duration
}

// NewCachedStore wraps next with a cache whose entries live for ttl.
func NewCachedStore(next MetadataStore, client *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{next: next, client: client, ttl: ttl}
}

// GetByID returns the cached record or loads it from the backing store.
func (s *CachedStore) GetByID(ctx context.Context, id string) (*Crate, error) {
	key := cacheKeyPrefix + id

	raw, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var e cacheEntry
		if err := cbor.Unmarshal(raw, &e); err == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return e.crate(), nil
		}
		metrics.CacheLookups.WithLabelValues("error").Inc()
		logger.Ctx(ctx).Warn().Err(err).Str("crate_id", id).Msg("discarding undecodable cache entry")
	case errors.Is(err, redis.Nil):
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		logger.Ctx(ctx).Warn().Err(err).Str("crate_id", id).Msg("metadata cache unavailable")
	}

	c, err := s.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := cacheEncMode.Marshal(toCacheEntry(c)); err == nil {
		if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("crate_id", id).Msg("failed to populate metadata cache")
		}
	}
	return c, nil
}
