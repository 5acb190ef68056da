package repository

import (
	"context"

	"github.com/MustMe0430/Must-Me-app-sub000/internal/domain"
)

// ReviewFilter defines filter and pagination criteria for listing reviews.
type ReviewFilter struct {
	// Rating restricts results to one star value when non-nil.
	Rating *int
	// SortBy is one of the domain sort orders; empty means newest first.
	SortBy   string
	Page     int
	PageSize int
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	// Create inserts a new review into the store.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID retrieves a review by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// ListByProduct returns visible reviews for a product matching the given
	// filter along with the total count before pagination.
	ListByProduct(ctx context.Context, productID string, filter ReviewFilter) ([]domain.Review, int, error)

	// AllByProduct returns every visible review for a product, unsorted and
	// unpaginated, for aggregation.
	AllByProduct(ctx context.Context, productID string) ([]domain.Review, error)

	// IncrementLikes adds one to a review's like counter and returns the
	// updated review.
	IncrementLikes(ctx context.Context, id string) (*domain.Review, error)

	// IncrementHelpful adds one to a review's helpful counter and returns
	// the updated review.
	IncrementHelpful(ctx context.Context, id string) (*domain.Review, error)
}
