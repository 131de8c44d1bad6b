package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dfryer1193/pressroom/blog/domain"
)

var _ domain.SyncOutbox = (*SQLiteSyncOutbox)(nil)

// SQLiteSyncOutbox persists cross-store slug propagations that failed after
// the content store had already committed, so the repair worker can retry
// them instead of leaving the interaction store stale.
type SQLiteSyncOutbox struct {
	db *sql.DB
}

func NewSyncOutbox(db *sql.DB) *SQLiteSyncOutbox {
	return &SQLiteSyncOutbox{
		db: db,
	}
}

const enqueueSyncQuery = `
	INSERT INTO pending_syncs (old_slug, new_slug, title) VALUES (?, ?, ?)
`

func (o *SQLiteSyncOutbox) Enqueue(ctx context.Context, p *domain.PendingSync) error {
	if p == nil {
		return fmt.Errorf("pending sync cannot be nil")
	}

	res, err := o.db.ExecContext(ctx, enqueueSyncQuery, p.OldSlug, p.NewSlug, p.Title)
	if err != nil {
		return fmt.Errorf("failed to enqueue pending sync: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		p.ID = id
	}

	return nil
}

const listPendingQuery = `
	SELECT id, old_slug, new_slug, title, attempts, created_at
	FROM pending_syncs
	ORDER BY created_at ASC
	LIMIT ?
`

func (o *SQLiteSyncOutbox) ListPending(ctx context.Context, limit int) ([]*domain.PendingSync, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := o.db.QueryContext(ctx, listPendingQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending syncs: %w", err)
	}
	defer rows.Close()

	pending := make([]*domain.PendingSync, 0)
	for rows.Next() {
		var p domain.PendingSync
		var createdAt sql.NullTime
		if err := rows.Scan(&p.ID, &p.OldSlug, &p.NewSlug, &p.Title, &p.Attempts, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending sync row: %w", err)
		}
		if createdAt.Valid {
			p.CreatedAt = createdAt.Time
		}
		pending = append(pending, &p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending sync rows: %w", err)
	}

	return pending, nil
}

const deletePendingQuery = `
	DELETE FROM pending_syncs WHERE id = ?
`

func (o *SQLiteSyncOutbox) Delete(ctx context.Context, id int64) error {
	if _, err := o.db.ExecContext(ctx, deletePendingQuery, id); err != nil {
		return fmt.Errorf("failed to delete pending sync: %w", err)
	}

	return nil
}

const recordAttemptQuery = `
	UPDATE pending_syncs SET attempts = attempts + 1 WHERE id = ?
`

func (o *SQLiteSyncOutbox) RecordAttempt(ctx context.Context, id int64) error {
	if _, err := o.db.ExecContext(ctx, recordAttemptQuery, id); err != nil {
		return fmt.Errorf("failed to record sync attempt: %w", err)
	}

	return nil
}
