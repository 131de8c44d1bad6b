package persistence

import (
	"context"
	"testing"

	"github.com/dfryer1193/pressroom/blog/domain"
)

func TestSyncOutbox_EnqueueAndList(t *testing.T) {
	outbox := NewSyncOutbox(setupTestDB(t))
	ctx := context.Background()

	p := &domain.PendingSync{OldSlug: "old", NewSlug: "new", Title: "New"}
	if err := outbox.Enqueue(ctx, p); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if p.ID == 0 {
		t.Error("Enqueue did not populate the row ID")
	}

	pending, err := outbox.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d rows, want 1", len(pending))
	}

	got := pending[0]
	if got.ID != p.ID || got.OldSlug != "old" || got.NewSlug != "new" || got.Title != "New" {
		t.Errorf("pending row = %+v, want the enqueued sync", got)
	}
	if got.Attempts != 0 {
		t.Errorf("attempts = %d, want 0 on a fresh row", got.Attempts)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at was not populated")
	}
}

func TestSyncOutbox_ListPending_Limit(t *testing.T) {
	outbox := NewSyncOutbox(setupTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := outbox.Enqueue(ctx, &domain.PendingSync{OldSlug: "old", NewSlug: "new", Title: "New"}); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	pending, err := outbox.ListPending(ctx, 3)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 3 {
		t.Errorf("pending = %d rows, want 3", len(pending))
	}

	// A non-positive limit falls back to the default batch size.
	pending, err = outbox.ListPending(ctx, 0)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 5 {
		t.Errorf("pending = %d rows, want all 5 under the default limit", len(pending))
	}
}

func TestSyncOutbox_Delete(t *testing.T) {
	outbox := NewSyncOutbox(setupTestDB(t))
	ctx := context.Background()

	p := &domain.PendingSync{OldSlug: "old", NewSlug: "new", Title: "New"}
	if err := outbox.Enqueue(ctx, p); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	if err := outbox.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	pending, err := outbox.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending = %d rows after delete, want 0", len(pending))
	}
}

func TestSyncOutbox_RecordAttempt(t *testing.T) {
	outbox := NewSyncOutbox(setupTestDB(t))
	ctx := context.Background()

	p := &domain.PendingSync{OldSlug: "old", NewSlug: "new", Title: "New"}
	if err := outbox.Enqueue(ctx, p); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	if err := outbox.RecordAttempt(ctx, p.ID); err != nil {
		t.Fatalf("RecordAttempt failed: %v", err)
	}
	if err := outbox.RecordAttempt(ctx, p.ID); err != nil {
		t.Fatalf("RecordAttempt failed: %v", err)
	}

	pending, err := outbox.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d rows, want 1", len(pending))
	}
	if pending[0].Attempts != 2 {
		t.Errorf("attempts = %d, want 2", pending[0].Attempts)
	}
}
