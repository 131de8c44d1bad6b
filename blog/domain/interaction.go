package domain

import (
	"context"
	"time"
)

// InteractionKind selects which per-user interaction table a record lives in.
type InteractionKind string

const (
	KindLiked InteractionKind = "liked"
	KindSaved InteractionKind = "saved"
)

// Valid reports whether k names a known interaction table.
func (k InteractionKind) Valid() bool {
	return k == KindLiked || k == KindSaved
}

// Interaction is one per-user like/save row. Slug and Title are denormalized
// copies of the post's current values, keyed by slug rather than post ID, so
// a slug-changing edit must propagate here explicitly.
type Interaction struct {
	ID     int64
	UserID string
	Slug   string
	Title  string
}

type InteractionRepository interface {
	// Get returns the row for (user, slug), or (nil, nil) if none exists.
	Get(ctx context.Context, kind InteractionKind, userID string, slug string) (*Interaction, error)
	Insert(ctx context.Context, kind InteractionKind, in *Interaction) error
	Delete(ctx context.Context, kind InteractionKind, id int64) error
	CountBySlug(ctx context.Context, kind InteractionKind, slug string) (int64, error)

	// UpdateSlugRefs rewrites the denormalized slug/title on every liked and
	// saved row still pointing at oldSlug. Both tables move in one local
	// transaction.
	UpdateSlugRefs(ctx context.Context, oldSlug string, newSlug string, title string) error

	// DeleteBySlug removes all liked and saved rows for a deleted post.
	DeleteBySlug(ctx context.Context, slug string) error
}

// PendingSync records a cross-store propagation that failed after the content
// store had already committed a slug change. Rows are retried by the repair
// worker until they succeed.
type PendingSync struct {
	ID        int64
	OldSlug   string
	NewSlug   string
	Title     string
	Attempts  int
	CreatedAt time.Time
}

type SyncOutbox interface {
	Enqueue(ctx context.Context, p *PendingSync) error
	ListPending(ctx context.Context, limit int) ([]*PendingSync, error)
	Delete(ctx context.Context, id int64) error
	RecordAttempt(ctx context.Context, id int64) error
}
