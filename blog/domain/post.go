package domain

import (
	"context"
	"time"
)

// Post is a blog post as the content store sees it.
// The canonical copy lives in the CMS; this service only reads and writes it
// through the mutation API and never owns it.
type Post struct {
	ID       string
	Slug     string
	Title    string
	Content  string
	AuthorID string
	TagSlugs []string
	Date     time.Time
}

// TagRef names an existing tag in the content store.
type TagRef struct {
	Name string
	Slug string
}

// Author is resolved by email lookup. Registration happens through a separate
// flow; the publish workflow never creates authors implicitly.
type Author struct {
	ID    string
	Email string
	Name  string
	Title string
	Bio   string
	Slug  string
}

// CreatePostInput carries the fields for the create-and-connect mutation.
type CreatePostInput struct {
	Title    string
	Content  string
	Slug     string
	AuthorID string
	TagSlugs []string
	Date     time.Time
}

// UpdatePostInput carries the fields for the update mutation, including the
// tag connect/disconnect deltas computed against the post's current tag set.
type UpdatePostInput struct {
	ID                 string
	Title              string
	Slug               string
	Content            string
	AuthorID           string
	ConnectTagSlugs    []string
	DisconnectTagSlugs []string
}

// ContentStore is the query/mutation boundary of the headless CMS.
// Lookups return (nil, nil) when the record does not exist; errors are
// reserved for transport and upstream failures.
type ContentStore interface {
	PostBySlug(ctx context.Context, slug string) (*Post, error)
	AuthorByEmail(ctx context.Context, email string) (*Author, error)

	// TagsByName returns every tag whose display name matches one of the
	// requested names, compared case-insensitively. A requested name absent
	// from the result has no tag under any casing.
	TagsByName(ctx context.Context, names []string) ([]TagRef, error)

	CreatePost(ctx context.Context, in CreatePostInput) (string, error)
	UpdatePost(ctx context.Context, in UpdatePostInput) error
	PublishPost(ctx context.Context, id string) error
	UnpublishPost(ctx context.Context, id string) error
	DeletePost(ctx context.Context, id string) error

	CreateTag(ctx context.Context, name string, slug string) (string, error)
	PublishTag(ctx context.Context, slug string) error

	CreateAuthor(ctx context.Context, a *Author) (string, error)
	PublishAuthor(ctx context.Context, slug string) error

	// PublishRelated publishes the author and any connected tags so a newly
	// created post does not reference draft-stage content.
	PublishRelated(ctx context.Context, authorID string, tagSlugs []string) error
}
