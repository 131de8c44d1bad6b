package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dfryer1193/pressroom/blog/domain"
	"github.com/dfryer1193/pressroom/shared/db"
)

var _ domain.InteractionRepository = (*SQLiteInteractionRepository)(nil)

// SQLiteInteractionRepository implements domain.InteractionRepository over
// the liked and saved tables.
type SQLiteInteractionRepository struct {
	db *sql.DB
}

// NewInteractionRepository creates a new SQLiteInteractionRepository from a standard sql.DB
func NewInteractionRepository(db *sql.DB) *SQLiteInteractionRepository {
	return &SQLiteInteractionRepository{
		db: db,
	}
}

// tableFor maps a kind to its table name. Table names cannot travel as query
// parameters, so the mapping is a closed switch rather than string splicing.
func tableFor(kind domain.InteractionKind) (string, error) {
	switch kind {
	case domain.KindLiked:
		return "liked", nil
	case domain.KindSaved:
		return "saved", nil
	default:
		return "", fmt.Errorf("unknown interaction kind: %q", kind)
	}
}

const getInteractionQuery = `
	SELECT id, userid, slug, title FROM %s WHERE userid = ? AND slug = ?
`

// Get retrieves the row for (userID, slug), or (nil, nil) if none exists.
func (r *SQLiteInteractionRepository) Get(ctx context.Context, kind domain.InteractionKind, userID string, slug string) (*domain.Interaction, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var row domain.Interaction
	err = r.db.QueryRowContext(ctx, fmt.Sprintf(getInteractionQuery, table), userID, slug).Scan(
		&row.ID,
		&row.UserID,
		&row.Slug,
		&row.Title,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get %s row: %w", table, err)
	}

	return &row, nil
}

const insertInteractionQuery = `
	INSERT INTO %s (userid, slug, title) VALUES (?, ?, ?)
`

func (r *SQLiteInteractionRepository) Insert(ctx context.Context, kind domain.InteractionKind, in *domain.Interaction) error {
	if in == nil {
		return fmt.Errorf("interaction cannot be nil")
	}

	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, fmt.Sprintf(insertInteractionQuery, table), in.UserID, in.Slug, in.Title)
	if err != nil {
		return fmt.Errorf("failed to insert %s row: %w", table, err)
	}

	if id, err := res.LastInsertId(); err == nil {
		in.ID = id
	}

	return nil
}

const deleteInteractionQuery = `
	DELETE FROM %s WHERE id = ?
`

func (r *SQLiteInteractionRepository) Delete(ctx context.Context, kind domain.InteractionKind, id int64) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, fmt.Sprintf(deleteInteractionQuery, table), id); err != nil {
		return fmt.Errorf("failed to delete %s row: %w", table, err)
	}

	return nil
}

const countBySlugQuery = `
	SELECT COUNT(*) FROM %s WHERE slug = ?
`

func (r *SQLiteInteractionRepository) CountBySlug(ctx context.Context, kind domain.InteractionKind, slug string) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, fmt.Sprintf(countBySlugQuery, table), slug).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s rows: %w", table, err)
	}

	return count, nil
}

const updateSlugRefsQuery = `
	UPDATE %s SET slug = ?, title = ? WHERE slug = ?
`

// UpdateSlugRefs rewrites the denormalized slug/title on every row still
// referencing oldSlug. Both tables move in one transaction so a partial
// propagation cannot leave liked and saved disagreeing with each other.
func (r *SQLiteInteractionRepository) UpdateSlugRefs(ctx context.Context, oldSlug string, newSlug string, title string) error {
	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)

		for _, table := range []string{"liked", "saved"} {
			_, err := executor.ExecContext(txCtx, fmt.Sprintf(updateSlugRefsQuery, table), newSlug, title, oldSlug)
			if err != nil {
				return fmt.Errorf("failed to update %s slug refs: %w", table, err)
			}
		}

		return nil
	})
}

const deleteBySlugQuery = `
	DELETE FROM %s WHERE slug = ?
`

// DeleteBySlug removes every liked and saved row for a deleted post.
func (r *SQLiteInteractionRepository) DeleteBySlug(ctx context.Context, slug string) error {
	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)

		for _, table := range []string{"liked", "saved"} {
			if _, err := executor.ExecContext(txCtx, fmt.Sprintf(deleteBySlugQuery, table), slug); err != nil {
				return fmt.Errorf("failed to delete %s rows: %w", table, err)
			}
		}

		return nil
	})
}
