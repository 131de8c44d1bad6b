package application

import (
	"context"
	"fmt"

	"github.com/dfryer1193/pressroom/blog/domain"
)

// InteractionService manages per-user like/save marks.
//
// SetMarked is the primitive: it drives the row toward a desired state and is
// safe to retry. Toggle is a convenience for the flip-shaped HTTP contract;
// a duplicate delivery of a toggle flips state again, which is why new
// callers should prefer SetMarked.
type InteractionService struct {
	repo domain.InteractionRepository
}

func NewInteractionService(repo domain.InteractionRepository) *InteractionService {
	return &InteractionService{repo: repo}
}

// Status reports whether the user has marked the post.
func (s *InteractionService) Status(ctx context.Context, kind domain.InteractionKind, userID, slug string) (bool, error) {
	existing, err := s.repo.Get(ctx, kind, userID, slug)
	if err != nil {
		return false, fmt.Errorf("failed to get %s status: %w", kind, err)
	}
	return existing != nil, nil
}

// Count returns how many users have marked the post.
func (s *InteractionService) Count(ctx context.Context, kind domain.InteractionKind, slug string) (int64, error) {
	count, err := s.repo.CountBySlug(ctx, kind, slug)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s rows: %w", kind, err)
	}
	return count, nil
}

// SetMarked moves the (user, post) mark to the desired state. Already-marked
// and already-unmarked are no-ops, so repeated delivery is harmless.
func (s *InteractionService) SetMarked(ctx context.Context, kind domain.InteractionKind, userID, slug, title string, desired bool) (bool, error) {
	existing, err := s.repo.Get(ctx, kind, userID, slug)
	if err != nil {
		return false, fmt.Errorf("failed to get existing %s row: %w", kind, err)
	}

	switch {
	case desired && existing == nil:
		err = s.repo.Insert(ctx, kind, &domain.Interaction{
			UserID: userID,
			Slug:   slug,
			Title:  title,
		})
		if err != nil {
			return false, fmt.Errorf("failed to insert %s row: %w", kind, err)
		}
	case !desired && existing != nil:
		if err := s.repo.Delete(ctx, kind, existing.ID); err != nil {
			return false, fmt.Errorf("failed to delete %s row: %w", kind, err)
		}
	}

	return desired, nil
}

// Toggle flips the mark and returns the new state.
func (s *InteractionService) Toggle(ctx context.Context, kind domain.InteractionKind, userID, slug, title string) (bool, error) {
	existing, err := s.repo.Get(ctx, kind, userID, slug)
	if err != nil {
		return false, fmt.Errorf("failed to get existing %s row: %w", kind, err)
	}

	return s.SetMarked(ctx, kind, userID, slug, title, existing == nil)
}
