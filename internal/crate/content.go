package crate

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cratedrop/service/internal/storage"
)

// Content is an open crate body together with its canonical record.
// Callers must close Body.
type Content struct {
	Crate *Crate
	Body  io.ReadCloser
	Size  int64
}

// ContentFetcher retrieves crate bytes. It is only called after access was granted.
type ContentFetcher interface {
	Fetch(ctx context.Context, id string) (*Content, error)
}

// ContentStore fetches bodies from object storage, re-reading the canonical
// metadata record from the uncached store first.
type ContentStore struct {
	meta  MetadataStore
	blobs storage.Storage
}

// NewContentStore creates a ContentStore.
func NewContentStore(meta MetadataStore, blobs storage.Storage) *ContentStore {
	return &ContentStore{meta: meta, blobs: blobs}
}

// Fetch opens the crate body. Every failure, including a record or object that
// vanished after authorization, wraps ErrUpstream.
func (s *ContentStore) Fetch(ctx context.Context, id string) (*Content, error) {
	c, err := s.meta.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: crate %s vanished before content read", ErrUpstream, id)
		}
		return nil, fmt.Errorf("%w: reload metadata: %v", ErrUpstream, err)
	}

	body, info, err := s.blobs.Open(ctx, c.BlobKey)
	if err != nil {
		return nil, fmt.Errorf("%w: open blob %q: %v", ErrUpstream, c.BlobKey, err)
	}

	size := info.Size
	if size <= 0 {
		size = c.SizeBytes
	}
	return &Content{Crate: c, Body: body, Size: size}, nil
}
