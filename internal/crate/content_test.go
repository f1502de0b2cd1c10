package crate

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cratedrop/service/internal/storage"
)

type memoryStorage map[string]string

func (m memoryStorage) Open(_ context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	body, ok := m[key]
	if !ok {
		return nil, storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return io.NopCloser(strings.NewReader(body)), storage.ObjectInfo{Size: int64(len(body))}, nil
}

func TestContentStoreFetch(t *testing.T) {
	t.Parallel()

	meta := &fakeMeta{crates: map[string]*Crate{"c1": newCrate("c1", true, false)}}
	store := NewContentStore(meta, memoryStorage{"crates/c1": "hello"})

	content, err := store.Fetch(context.Background(), "c1")
	require.NoError(t, err)
	defer content.Body.Close()

	body, err := io.ReadAll(content.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, int64(5), content.Size)
	assert.Equal(t, "c1", content.Crate.ID)
}

func TestContentStoreFailuresAreUpstream(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	vanished := NewContentStore(&fakeMeta{crates: map[string]*Crate{}}, memoryStorage{})
	_, err := vanished.Fetch(ctx, "c1")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.False(t, errors.Is(err, ErrNotFound), "a vanished record must not read as 404")

	missingBlob := NewContentStore(&fakeMeta{crates: map[string]*Crate{"c1": newCrate("c1", true, false)}}, memoryStorage{})
	_, err = missingBlob.Fetch(ctx, "c1")
	assert.ErrorIs(t, err, ErrUpstream)

	down := NewContentStore(&fakeMeta{err: errors.New("timeout")}, memoryStorage{})
	_, err = down.Fetch(ctx, "c1")
	assert.ErrorIs(t, err, ErrUpstream)
}
