package crate

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// MetadataStore looks up crate records.
type MetadataStore interface {
	GetByID(ctx context.Context, id string) (*Crate, error)
}

// querier is the subset of *pgxpool.Pool the repository needs.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository reads crate metadata from PostgreSQL.
type Repository struct {
	db querier
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db querier) *Repository {
	return &Repository{db: db}
}

// GetByID fetches a crate by id.
func (r *Repository) GetByID(ctx context.Context, id string) (*Crate, error) {
	c := &Crate{}
	err := r.db.QueryRow(ctx,
		`SELECT id, owner_id, created_at, ttl_days, mime_type, title, blob_key, size_bytes,
		        is_public, password_protected, COALESCE(password_hash, ''), shared_with, download_count
		 FROM crates WHERE id = $1`,
		id,
	).Scan(
		&c.ID, &c.OwnerID, &c.CreatedAt, &c.TTLDays, &c.MimeType, &c.Title, &c.BlobKey, &c.SizeBytes,
		&c.Shared.Public, &c.Shared.PasswordProtected, &c.PasswordHash, &c.Shared.SharedWith, &c.DownloadCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get crate by id: %w", err)
	}
	return c, nil
}
