package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/dfryer1193/pressroom/blog/domain"
)

// fakeContentStore is an in-memory stand-in for the CMS boundary. Mutations
// are recorded so tests can assert on the exact call sequence, and individual
// operations can be made to fail.
type fakeContentStore struct {
	authors map[string]*domain.Author // keyed by email
	posts   map[string]*domain.Post   // keyed by slug
	tags    []domain.TagRef

	createdPosts     []domain.CreatePostInput
	updatedPosts     []domain.UpdatePostInput
	publishedPosts   []string
	unpublishedPosts []string
	deletedPosts     []string
	createdTags      []string
	publishedTags    []string
	createdAuthors   []*domain.Author
	publishedAuthors []string
	relatedPublishes int

	tagsByNameErr  error
	createTagErr   map[string]error
	publishTagErr  map[string]error
	createPostErr  error
	updatePostErr  error
	publishPostErr error
	deletePostErr  error
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{
		authors:       make(map[string]*domain.Author),
		posts:         make(map[string]*domain.Post),
		createTagErr:  make(map[string]error),
		publishTagErr: make(map[string]error),
	}
}

func (f *fakeContentStore) PostBySlug(_ context.Context, slug string) (*domain.Post, error) {
	return f.posts[slug], nil
}

func (f *fakeContentStore) AuthorByEmail(_ context.Context, email string) (*domain.Author, error) {
	return f.authors[email], nil
}

func (f *fakeContentStore) TagsByName(_ context.Context, names []string) ([]domain.TagRef, error) {
	if f.tagsByNameErr != nil {
		return nil, f.tagsByNameErr
	}

	// Names match case-insensitively, per the ContentStore contract.
	requested := make(map[string]bool, len(names))
	for _, name := range names {
		requested[strings.ToLower(name)] = true
	}

	var matched []domain.TagRef
	for _, tag := range f.tags {
		if requested[strings.ToLower(tag.Name)] {
			matched = append(matched, tag)
		}
	}
	return matched, nil
}

func (f *fakeContentStore) CreatePost(_ context.Context, in domain.CreatePostInput) (string, error) {
	if f.createPostErr != nil {
		return "", f.createPostErr
	}
	f.createdPosts = append(f.createdPosts, in)
	return fmt.Sprintf("post-%d", len(f.createdPosts)), nil
}

func (f *fakeContentStore) UpdatePost(_ context.Context, in domain.UpdatePostInput) error {
	if f.updatePostErr != nil {
		return f.updatePostErr
	}
	f.updatedPosts = append(f.updatedPosts, in)
	return nil
}

func (f *fakeContentStore) PublishPost(_ context.Context, id string) error {
	if f.publishPostErr != nil {
		return f.publishPostErr
	}
	f.publishedPosts = append(f.publishedPosts, id)
	return nil
}

func (f *fakeContentStore) UnpublishPost(_ context.Context, id string) error {
	f.unpublishedPosts = append(f.unpublishedPosts, id)
	return nil
}

func (f *fakeContentStore) DeletePost(_ context.Context, id string) error {
	if f.deletePostErr != nil {
		return f.deletePostErr
	}
	f.deletedPosts = append(f.deletedPosts, id)
	return nil
}

func (f *fakeContentStore) CreateTag(_ context.Context, name string, slug string) (string, error) {
	if err := f.createTagErr[name]; err != nil {
		return "", err
	}
	f.createdTags = append(f.createdTags, slug)
	return slug, nil
}

func (f *fakeContentStore) PublishTag(_ context.Context, slug string) error {
	if err := f.publishTagErr[slug]; err != nil {
		return err
	}
	f.publishedTags = append(f.publishedTags, slug)
	return nil
}

func (f *fakeContentStore) CreateAuthor(_ context.Context, a *domain.Author) (string, error) {
	f.createdAuthors = append(f.createdAuthors, a)
	return fmt.Sprintf("author-%d", len(f.createdAuthors)), nil
}

func (f *fakeContentStore) PublishAuthor(_ context.Context, slug string) error {
	f.publishedAuthors = append(f.publishedAuthors, slug)
	return nil
}

func (f *fakeContentStore) PublishRelated(_ context.Context, _ string, _ []string) error {
	f.relatedPublishes++
	return nil
}

// fakeInteractionRepo records cross-store sync calls.
type fakeInteractionRepo struct {
	syncs           []syncCall
	deletedSlugs    []string
	updateSlugsErr  error
	deleteBySlugErr error
}

type syncCall struct {
	oldSlug string
	newSlug string
	title   string
}

func (f *fakeInteractionRepo) Get(context.Context, domain.InteractionKind, string, string) (*domain.Interaction, error) {
	return nil, nil
}

func (f *fakeInteractionRepo) Insert(context.Context, domain.InteractionKind, *domain.Interaction) error {
	return nil
}

func (f *fakeInteractionRepo) Delete(context.Context, domain.InteractionKind, int64) error {
	return nil
}

func (f *fakeInteractionRepo) CountBySlug(context.Context, domain.InteractionKind, string) (int64, error) {
	return 0, nil
}

func (f *fakeInteractionRepo) UpdateSlugRefs(_ context.Context, oldSlug, newSlug, title string) error {
	if f.updateSlugsErr != nil {
		return f.updateSlugsErr
	}
	f.syncs = append(f.syncs, syncCall{oldSlug: oldSlug, newSlug: newSlug, title: title})
	return nil
}

func (f *fakeInteractionRepo) DeleteBySlug(_ context.Context, slug string) error {
	if f.deleteBySlugErr != nil {
		return f.deleteBySlugErr
	}
	f.deletedSlugs = append(f.deletedSlugs, slug)
	return nil
}

// fakeOutbox records enqueued pending syncs.
type fakeOutbox struct {
	pending    []*domain.PendingSync
	deletedIDs []int64
	attempts   map[int64]int
	nextID     int64
}

func newFakeOutbox() *fakeOutbox {
	return &fakeOutbox{attempts: make(map[int64]int)}
}

func (f *fakeOutbox) Enqueue(_ context.Context, p *domain.PendingSync) error {
	f.nextID++
	p.ID = f.nextID
	f.pending = append(f.pending, p)
	return nil
}

func (f *fakeOutbox) ListPending(_ context.Context, limit int) ([]*domain.PendingSync, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutbox) Delete(_ context.Context, id int64) error {
	f.deletedIDs = append(f.deletedIDs, id)
	remaining := f.pending[:0]
	for _, p := range f.pending {
		if p.ID != id {
			remaining = append(remaining, p)
		}
	}
	f.pending = remaining
	return nil
}

func (f *fakeOutbox) RecordAttempt(_ context.Context, id int64) error {
	f.attempts[id]++
	return nil
}
