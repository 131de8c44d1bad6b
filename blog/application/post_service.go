package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dfryer1193/mjolnir/utils/set"
	"github.com/dfryer1193/pressroom/blog/domain"
	"github.com/rs/zerolog/log"
)

// PostService runs the multi-step publish workflow against the content store
// and keeps the interaction store's denormalized slug copies in step.
//
// The workflow is a sequence of dependent remote calls with no transaction
// boundary: an early failure aborts before the content store is touched, but
// a late failure leaves already-applied side effects in place (created tags,
// a created-but-unpublished draft). There is no compensating rollback.
type PostService struct {
	content      domain.ContentStore
	interactions domain.InteractionRepository
	outbox       domain.SyncOutbox
	tags         *TagReconciler

	repairInterval time.Duration

	// Service lifecycle context - cancelled when Close() is called
	ctx    context.Context
	cancel context.CancelFunc
	wg     *sync.WaitGroup
}

// CreatePostRequest carries the fields of the write-a-blog form.
type CreatePostRequest struct {
	Title       string
	Content     string
	AuthorEmail string
	Tags        []string
}

// UpdatePostRequest carries the fields of an edit. The author is already
// resolved to an ID; only creation looks authors up by email.
type UpdatePostRequest struct {
	OldSlug  string
	Title    string
	Content  string
	AuthorID string
	Tags     []string
}

// RegisterAuthorRequest carries the fields of the author registration form.
type RegisterAuthorRequest struct {
	Name  string
	Email string
	Title string
	Bio   string
	Slug  string
}

func NewPostService(
	content domain.ContentStore,
	interactions domain.InteractionRepository,
	outbox domain.SyncOutbox,
	tags *TagReconciler,
	repairInterval time.Duration,
) *PostService {
	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	s := &PostService{
		content:        content,
		interactions:   interactions,
		outbox:         outbox,
		tags:           tags,
		repairInterval: repairInterval,
		ctx:            ctx,
		cancel:         cancel,
		wg:             &wg,
	}

	if s.outbox != nil && s.repairInterval > 0 {
		s.wg.Add(1)
		go s.runRepairLoop()
	}

	return s
}

// Close gracefully shuts down the PostService by cancelling the repair worker
func (s *PostService) Close() error {
	s.cancel()
	s.wg.Wait()

	return nil
}

// Create looks the author up by email, reconciles tags, then issues the
// create mutation followed by the publish mutations. The post is only
// reachable at its slug once the final publish succeeds; if publish fails the
// post stays behind as an unpublished draft.
func (s *PostService) Create(ctx context.Context, req CreatePostRequest) (string, error) {
	author, err := s.content.AuthorByEmail(ctx, req.AuthorEmail)
	if err != nil {
		return "", fmt.Errorf("failed to look up author %s: %w", req.AuthorEmail, err)
	}
	if author == nil {
		return "", domain.ErrAuthorNotFound
	}

	slug := Slugify(req.Title)
	if slug == "" {
		return "", domain.ErrInvalidTitle
	}

	tagSlugs, err := s.tags.Reconcile(ctx, req.Tags)
	if err != nil {
		return "", err
	}

	id, err := s.content.CreatePost(ctx, domain.CreatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		Slug:     slug,
		AuthorID: author.ID,
		TagSlugs: tagSlugs,
		Date:     time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create post: %w", err)
	}

	// Draft-stage author or tags would leave holes in the rendered post, but
	// neither is worth failing the whole publish over.
	if err := s.content.PublishRelated(ctx, author.ID, tagSlugs); err != nil {
		log.Error().Err(err).Str("authorID", author.ID).Msg("Failed to publish related content")
	}

	if err := s.content.PublishPost(ctx, id); err != nil {
		return "", fmt.Errorf("failed to publish post %s: %w", id, err)
	}

	return slug, nil
}

// Update recomputes the slug from the new title, reconciles tags, diffs them
// against the post's currently connected set, and issues the update and
// publish mutations. A slug change then propagates to the interaction store.
func (s *PostService) Update(ctx context.Context, req UpdatePostRequest) (string, error) {
	post, err := s.content.PostBySlug(ctx, req.OldSlug)
	if err != nil {
		return "", fmt.Errorf("failed to look up post %s: %w", req.OldSlug, err)
	}
	if post == nil {
		return "", domain.ErrPostNotFound
	}

	newSlug := Slugify(req.Title)
	if newSlug == "" {
		return "", domain.ErrInvalidTitle
	}

	resolved, err := s.tags.Reconcile(ctx, req.Tags)
	if err != nil {
		return "", err
	}

	toConnect, toDisconnect := tagDelta(post.TagSlugs, resolved)

	err = s.content.UpdatePost(ctx, domain.UpdatePostInput{
		ID:                 post.ID,
		Title:              req.Title,
		Slug:               newSlug,
		Content:            req.Content,
		AuthorID:           req.AuthorID,
		ConnectTagSlugs:    toConnect,
		DisconnectTagSlugs: toDisconnect,
	})
	if err != nil {
		return "", fmt.Errorf("failed to update post %s: %w", post.ID, err)
	}

	if err := s.content.PublishPost(ctx, post.ID); err != nil {
		return "", fmt.Errorf("failed to publish post %s: %w", post.ID, err)
	}

	if newSlug != req.OldSlug {
		s.syncSlugChange(ctx, req.OldSlug, newSlug, req.Title)
	}

	return newSlug, nil
}

// Delete unpublishes then deletes the post, and best-effort removes its
// like/save rows. The post is gone from the content store even if the
// interaction cleanup fails.
func (s *PostService) Delete(ctx context.Context, slug string) error {
	post, err := s.content.PostBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("failed to look up post %s: %w", slug, err)
	}
	if post == nil {
		return domain.ErrPostNotFound
	}

	if err := s.content.UnpublishPost(ctx, post.ID); err != nil {
		return fmt.Errorf("failed to unpublish post %s: %w", post.ID, err)
	}

	if err := s.content.DeletePost(ctx, post.ID); err != nil {
		return fmt.Errorf("failed to delete post %s: %w", post.ID, err)
	}

	if err := s.interactions.DeleteBySlug(ctx, slug); err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("Failed to clean up interaction rows")
	}

	return nil
}

// RegisterAuthor creates and publishes an author record. This is a
// passthrough to the content store; identity itself lives with the external
// auth provider.
func (s *PostService) RegisterAuthor(ctx context.Context, req RegisterAuthorRequest) error {
	_, err := s.content.CreateAuthor(ctx, &domain.Author{
		Name:  req.Name,
		Email: req.Email,
		Title: req.Title,
		Bio:   req.Bio,
		Slug:  req.Slug,
	})
	if err != nil {
		return fmt.Errorf("failed to create author: %w", err)
	}

	if err := s.content.PublishAuthor(ctx, req.Slug); err != nil {
		return fmt.Errorf("failed to publish author %s: %w", req.Slug, err)
	}

	return nil
}

// syncSlugChange propagates a rename to the interaction store. The content
// store update is already committed, so failure here cannot roll it back;
// instead the propagation is parked in the outbox for the repair worker.
func (s *PostService) syncSlugChange(ctx context.Context, oldSlug, newSlug, title string) {
	err := s.interactions.UpdateSlugRefs(ctx, oldSlug, newSlug, title)
	if err == nil {
		return
	}

	log.Error().Err(err).Str("oldSlug", oldSlug).Str("newSlug", newSlug).Msg("Failed to sync slug change to interaction store")

	if s.outbox == nil {
		return
	}

	if err := s.outbox.Enqueue(ctx, &domain.PendingSync{
		OldSlug: oldSlug,
		NewSlug: newSlug,
		Title:   title,
	}); err != nil {
		log.Error().Err(err).Str("oldSlug", oldSlug).Msg("Failed to enqueue pending sync")
	}
}

const repairBatchSize = 50

func (s *PostService) runRepairLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.repairInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.repairPendingSyncs()
		}
	}
}

// repairPendingSyncs retries parked slug propagations. Each row is retried
// until it succeeds; the underlying update is idempotent, so replaying a
// propagation that partially applied is safe.
func (s *PostService) repairPendingSyncs() {
	pending, err := s.outbox.ListPending(s.ctx, repairBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list pending syncs")
		return
	}

	for _, p := range pending {
		if err := s.interactions.UpdateSlugRefs(s.ctx, p.OldSlug, p.NewSlug, p.Title); err != nil {
			log.Error().Err(err).Int64("id", p.ID).Str("oldSlug", p.OldSlug).Msg("Pending sync retry failed")
			if err := s.outbox.RecordAttempt(s.ctx, p.ID); err != nil {
				log.Error().Err(err).Int64("id", p.ID).Msg("Failed to record sync attempt")
			}
			continue
		}

		if err := s.outbox.Delete(s.ctx, p.ID); err != nil {
			log.Error().Err(err).Int64("id", p.ID).Msg("Failed to remove repaired sync")
		}
	}
}

// tagDelta computes the connect/disconnect sets for an update:
// toConnect = resolved - current, toDisconnect = current - resolved.
func tagDelta(current, resolved []string) (toConnect, toDisconnect []string) {
	connect := set.New[string]()
	for _, slug := range resolved {
		connect.Add(slug)
	}
	for _, slug := range current {
		connect.Remove(slug)
	}

	disconnect := set.New[string]()
	for _, slug := range current {
		disconnect.Add(slug)
	}
	for _, slug := range resolved {
		disconnect.Remove(slug)
	}

	return connect.Items(), disconnect.Items()
}
