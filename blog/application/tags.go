package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dfryer1193/mjolnir/utils/set"
	"github.com/dfryer1193/pressroom/blog/domain"
	"github.com/rs/zerolog/log"
)

// TagReconciler resolves requested tag names against the content store and
// provisions any that do not exist yet.
type TagReconciler struct {
	store        domain.ContentStore
	publishDelay time.Duration
}

// NewTagReconciler creates a reconciler. publishDelay is the pause between
// creating a tag and publishing it; the content store indexes new documents
// asynchronously and an immediate publish can miss the fresh tag. This is a
// race mitigation, not a guarantee.
func NewTagReconciler(store domain.ContentStore, publishDelay time.Duration) *TagReconciler {
	return &TagReconciler{
		store:        store,
		publishDelay: publishDelay,
	}
}

// Resolve matches requested names case-insensitively against existing tags.
// It returns the slugs of matched tags and the names with no match. The check
// is best-effort against concurrent writers; no locking is attempted.
func (r *TagReconciler) Resolve(ctx context.Context, names []string) (resolved []string, unmatched []string, err error) {
	requested := set.New[string]()
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			requested.Add(trimmed)
		}
	}

	unique := requested.Items()
	if len(unique) == 0 {
		return nil, nil, nil
	}

	existing, err := r.store.TagsByName(ctx, unique)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch existing tags: %w", err)
	}

	slugByName := make(map[string]string, len(existing))
	for _, tag := range existing {
		slugByName[strings.ToLower(tag.Name)] = tag.Slug
	}

	resolvedSet := set.New[string]()
	for _, name := range unique {
		if slug, ok := slugByName[strings.ToLower(name)]; ok {
			resolvedSet.Add(slug)
		} else {
			unmatched = append(unmatched, name)
		}
	}

	return resolvedSet.Items(), unmatched, nil
}

// Provision creates and publishes a tag for each missing name, sequentially.
// Failures are non-fatal: a tag that cannot be created, or that is created
// but cannot be published, is logged and dropped so the post simply goes out
// without it. Returns the slugs of tags that were both created and published.
func (r *TagReconciler) Provision(ctx context.Context, names []string) []string {
	provisioned := make([]string, 0, len(names))

	for _, name := range names {
		slug := Slugify(name)
		if slug == "" {
			log.Warn().Str("tag", name).Msg("Skipping tag with empty slug")
			continue
		}

		createdSlug, err := r.store.CreateTag(ctx, name, slug)
		if err != nil {
			log.Error().Err(err).Str("tag", name).Msg("Failed to create tag")
			continue
		}

		if err := r.waitForIndexing(ctx); err != nil {
			return provisioned
		}

		if err := r.store.PublishTag(ctx, createdSlug); err != nil {
			// The tag exists but stays in draft; leave it out of this post.
			log.Error().Err(err).Str("tag", name).Str("slug", createdSlug).Msg("Failed to publish tag")
			continue
		}

		provisioned = append(provisioned, createdSlug)
	}

	return provisioned
}

// Reconcile runs Resolve then Provision and returns the combined slug set
// that the post mutation should connect.
func (r *TagReconciler) Reconcile(ctx context.Context, names []string) ([]string, error) {
	resolved, unmatched, err := r.Resolve(ctx, names)
	if err != nil {
		return nil, err
	}

	return append(resolved, r.Provision(ctx, unmatched)...), nil
}

func (r *TagReconciler) waitForIndexing(ctx context.Context) error {
	if r.publishDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(r.publishDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
