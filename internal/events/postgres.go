package events

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresSink bumps the crate's download counter and appends to crate_events.
type PostgresSink struct {
	db beginner
}

// NewPostgresSink creates a sink over a pgx pool.
func NewPostgresSink(db beginner) *PostgresSink {
	return &PostgresSink{db: db}
}

// Record writes ev in one transaction.
func (s *PostgresSink) Record(ctx context.Context, ev Event) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx,
		`UPDATE crates SET download_count = download_count + 1 WHERE id = $1`,
		ev.CrateID,
	); err != nil {
		return fmt.Errorf("increment download count: %w", err)
	}

	var subject *string
	if ev.Subject != "" {
		subject = &ev.Subject
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO crate_events (id, crate_id, kind, subject, occurred_at) VALUES ($1, $2, $3, $4, $5)`,
		ev.ID, ev.CrateID, ev.Kind, subject, ev.OccurredAt,
	); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return tx.Commit(ctx)
}
