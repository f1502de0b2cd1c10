package events

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cratedrop/service/internal/db"
)

func TestPostgresSinkRecord(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, db.Migrate(url))

	ctx := context.Background()
	pool, err := db.Connect(ctx, url)
	require.NoError(t, err)
	defer pool.Close()

	crateID := "sink-test-" + uuid.NewString()
	_, err = pool.Exec(ctx, `INSERT INTO crates (id, blob_key) VALUES ($1, $1)`, crateID)
	require.NoError(t, err)
	defer func() {
		_, _ = pool.Exec(ctx, `DELETE FROM crate_events WHERE crate_id = $1`, crateID)
		_, _ = pool.Exec(ctx, `DELETE FROM crates WHERE id = $1`, crateID)
	}()

	sink := NewPostgresSink(pool)
	for _, subject := range []string{"u1", ""} {
		require.NoError(t, sink.Record(ctx, Event{
			ID:         uuid.New(),
			Kind:       KindDownloaded,
			CrateID:    crateID,
			Subject:    subject,
			OccurredAt: time.Now().UTC(),
		}))
	}

	var downloads int64
	require.NoError(t, pool.QueryRow(ctx, `SELECT download_count FROM crates WHERE id = $1`, crateID).Scan(&downloads))
	assert.Equal(t, int64(2), downloads)

	var anonymous int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM crate_events WHERE crate_id = $1 AND subject IS NULL`, crateID,
	).Scan(&anonymous))
	assert.Equal(t, 1, anonymous)
}
