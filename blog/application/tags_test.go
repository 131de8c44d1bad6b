package application

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/dfryer1193/pressroom/blog/domain"
)

func sorted(items []string) []string {
	out := append([]string(nil), items...)
	sort.Strings(out)
	return out
}

func TestTagReconciler_Resolve_CaseInsensitive(t *testing.T) {
	store := newFakeContentStore()
	store.tags = []domain.TagRef{
		{Name: "AI", Slug: "ai"},
		{Name: "Tools", Slug: "tools"},
	}

	reconciler := NewTagReconciler(store, 0)

	resolved, unmatched, err := reconciler.Resolve(context.Background(), []string{"ai", "NewTag"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if len(resolved) != 1 || resolved[0] != "ai" {
		t.Errorf("resolved = %v, want [ai]", resolved)
	}
	if len(unmatched) != 1 || unmatched[0] != "NewTag" {
		t.Errorf("unmatched = %v, want [NewTag]", unmatched)
	}

	// Arbitrary casing still resolves; nothing gets re-provisioned.
	resolved, unmatched, err = reconciler.Resolve(context.Background(), []string{"tOoLs"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(resolved) != 1 || resolved[0] != "tools" {
		t.Errorf("resolved = %v, want [tools]", resolved)
	}
	if len(unmatched) != 0 {
		t.Errorf("unmatched = %v, want none", unmatched)
	}
}

func TestTagReconciler_Resolve_EmptyRequest(t *testing.T) {
	store := newFakeContentStore()
	reconciler := NewTagReconciler(store, 0)

	resolved, unmatched, err := reconciler.Resolve(context.Background(), []string{"", "   "})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(resolved) != 0 || len(unmatched) != 0 {
		t.Errorf("expected empty result, got resolved=%v unmatched=%v", resolved, unmatched)
	}
}

func TestTagReconciler_Resolve_QueryError(t *testing.T) {
	store := newFakeContentStore()
	store.tagsByNameErr = errors.New("upstream unavailable")

	reconciler := NewTagReconciler(store, 0)

	_, _, err := reconciler.Resolve(context.Background(), []string{"ai"})
	if err == nil {
		t.Fatal("Expected error from Resolve")
	}
}

func TestTagReconciler_Provision(t *testing.T) {
	store := newFakeContentStore()
	reconciler := NewTagReconciler(store, 0)

	provisioned := reconciler.Provision(context.Background(), []string{"New Tag", "Another"})

	want := []string{"another", "new-tag"}
	if got := sorted(provisioned); len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("provisioned = %v, want %v", got, want)
	}
	if len(store.createdTags) != 2 {
		t.Errorf("createdTags = %v, want 2 tags", store.createdTags)
	}
	if len(store.publishedTags) != 2 {
		t.Errorf("publishedTags = %v, want 2 tags", store.publishedTags)
	}
}

func TestTagReconciler_Provision_CreateFailureSkipsTag(t *testing.T) {
	store := newFakeContentStore()
	store.createTagErr["Broken"] = errors.New("create failed")

	reconciler := NewTagReconciler(store, 0)

	provisioned := reconciler.Provision(context.Background(), []string{"Broken", "Fine"})

	if len(provisioned) != 1 || provisioned[0] != "fine" {
		t.Errorf("provisioned = %v, want [fine]", provisioned)
	}
}

func TestTagReconciler_Provision_PublishFailureDropsTag(t *testing.T) {
	store := newFakeContentStore()
	store.publishTagErr["stuck"] = errors.New("publish failed")

	reconciler := NewTagReconciler(store, 0)

	provisioned := reconciler.Provision(context.Background(), []string{"Stuck", "Fine"})

	// The tag was created but never published, so it must not reach the post.
	if len(provisioned) != 1 || provisioned[0] != "fine" {
		t.Errorf("provisioned = %v, want [fine]", provisioned)
	}
	if len(store.createdTags) != 2 {
		t.Errorf("createdTags = %v, want both creates attempted", store.createdTags)
	}
}

func TestTagReconciler_Reconcile(t *testing.T) {
	store := newFakeContentStore()
	store.tags = []domain.TagRef{
		{Name: "AI", Slug: "ai"},
	}

	reconciler := NewTagReconciler(store, 0)

	slugs, err := reconciler.Reconcile(context.Background(), []string{"AI", "Fresh Tag"})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	want := []string{"ai", "fresh-tag"}
	if got := sorted(slugs); len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Reconcile = %v, want %v", got, want)
	}
}
