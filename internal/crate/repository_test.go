package crate

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cratedrop/service/internal/db"
)

// testPool connects to TEST_DATABASE_URL, skipping when it is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, db.Migrate(url))

	pool, err := db.Connect(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestRepositoryGetByID(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	id := "repo-test-" + time.Now().Format("150405.000000000")
	created := time.Now().UTC().Truncate(time.Microsecond)
	_, err := pool.Exec(ctx,
		`INSERT INTO crates (id, owner_id, created_at, ttl_days, mime_type, title, blob_key, size_bytes,
		                     is_public, password_protected, shared_with)
		 VALUES ($1, 'u1', $2, 7, 'image/png', 'cat.png', $3, 42, true, false, $4)`,
		id, created, "crates/"+id, []string{"u2", "u3"},
	)
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = pool.Exec(ctx, `DELETE FROM crates WHERE id = $1`, id) })

	repo := NewRepository(pool)

	c, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.OwnerID)
	assert.True(t, created.Equal(c.CreatedAt))
	assert.Equal(t, 7, c.TTLDays)
	assert.Equal(t, "image/png", c.MimeType)
	assert.Equal(t, "cat.png", c.Title)
	assert.Equal(t, int64(42), c.SizeBytes)
	assert.Equal(t, Sharing{Public: true, SharedWith: []string{"u2", "u3"}}, c.Shared)
	assert.Empty(t, c.PasswordHash)

	_, err = repo.GetByID(ctx, id+"-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
