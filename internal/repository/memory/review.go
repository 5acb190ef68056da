// Package memory implements the review repository on an in-process store
// guarded by a read-write mutex. Reads return copies so callers never hold
// references into the store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "github.com/MustMe0430/Must-Me-app-sub000/pkg/errors"

	"github.com/MustMe0430/Must-Me-app-sub000/internal/domain"
	"github.com/MustMe0430/Must-Me-app-sub000/internal/repository"
)

// ReviewRepository stores reviews grouped by product with a secondary index
// by review id.
type ReviewRepository struct {
	mu        sync.RWMutex
	byProduct map[string][]*domain.Review
	byID      map[string]*domain.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{
		byProduct: make(map[string][]*domain.Review),
		byID:      make(map[string]*domain.Review),
	}
}

// Create inserts a new review. The stored value is a copy of the argument.
func (r *ReviewRepository) Create(_ context.Context, review *domain.Review) error {
	if review.ID == "" {
		return apperrors.InvalidInput("review id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[review.ID]; exists {
		return apperrors.InvalidInput("review id already exists")
	}

	stored := *review
	r.byProduct[stored.ProductID] = append(r.byProduct[stored.ProductID], &stored)
	r.byID[stored.ID] = &stored
	return nil
}

// GetByID retrieves a review by id.
func (r *ReviewRepository) GetByID(_ context.Context, id string) (*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound("review", id)
	}
	found := *stored
	return &found, nil
}

// ListByProduct returns one page of visible reviews for a product, filtered
// and sorted, plus the total matching count.
func (r *ReviewRepository) ListByProduct(_ context.Context, productID string, filter repository.ReviewFilter) ([]domain.Review, int, error) {
	r.mu.RLock()
	matched := r.visibleByProduct(productID)
	r.mu.RUnlock()

	if filter.Rating != nil {
		filtered := matched[:0]
		for _, review := range matched {
			if review.Rating == *filter.Rating {
				filtered = append(filtered, review)
			}
		}
		matched = filtered
	}

	sortReviews(matched, filter.SortBy)
	total := len(matched)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = total
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// AllByProduct returns every visible review for a product.
func (r *ReviewRepository) AllByProduct(_ context.Context, productID string) ([]domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.visibleByProduct(productID), nil
}

// IncrementLikes adds one to the like counter.
func (r *ReviewRepository) IncrementLikes(_ context.Context, id string) (*domain.Review, error) {
	return r.increment(id, func(review *domain.Review) { review.Likes++ })
}

// IncrementHelpful adds one to the helpful counter.
func (r *ReviewRepository) IncrementHelpful(_ context.Context, id string) (*domain.Review, error) {
	return r.increment(id, func(review *domain.Review) { review.Helpful++ })
}

func (r *ReviewRepository) increment(id string, apply func(*domain.Review)) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound("review", id)
	}
	apply(stored)
	stored.UpdatedAt = time.Now().UTC()
	updated := *stored
	return &updated, nil
}

// visibleByProduct copies visible reviews for a product. Callers must hold
// at least a read lock.
func (r *ReviewRepository) visibleByProduct(productID string) []domain.Review {
	stored := r.byProduct[productID]
	out := make([]domain.Review, 0, len(stored))
	for _, review := range stored {
		if !review.Visible {
			continue
		}
		out = append(out, *review)
	}
	return out
}

func sortReviews(reviews []domain.Review, sortBy string) {
	switch sortBy {
	case domain.SortOldest:
		sort.SliceStable(reviews, func(i, j int) bool {
			return reviews[i].CreatedAt.Before(reviews[j].CreatedAt)
		})
	case domain.SortRatingHigh:
		sort.SliceStable(reviews, func(i, j int) bool {
			if reviews[i].Rating != reviews[j].Rating {
				return reviews[i].Rating > reviews[j].Rating
			}
			return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
		})
	case domain.SortRatingLow:
		sort.SliceStable(reviews, func(i, j int) bool {
			if reviews[i].Rating != reviews[j].Rating {
				return reviews[i].Rating < reviews[j].Rating
			}
			return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
		})
	case domain.SortHelpful:
		sort.SliceStable(reviews, func(i, j int) bool {
			if reviews[i].Helpful != reviews[j].Helpful {
				return reviews[i].Helpful > reviews[j].Helpful
			}
			return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
		})
	default: // newest first
		sort.SliceStable(reviews, func(i, j int) bool {
			return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
		})
	}
}
