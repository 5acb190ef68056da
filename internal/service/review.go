package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	pkgcache "github.com/MustMe0430/Must-Me-app-sub000/pkg/cache"
	apperrors "github.com/MustMe0430/Must-Me-app-sub000/pkg/errors"
	pkglogger "github.com/MustMe0430/Must-Me-app-sub000/pkg/logger"
	pkgvalidator "github.com/MustMe0430/Must-Me-app-sub000/pkg/validator"

	"github.com/MustMe0430/Must-Me-app-sub000/internal/domain"
	"github.com/MustMe0430/Must-Me-app-sub000/internal/event"
	"github.com/MustMe0430/Must-Me-app-sub000/internal/repository"
)

// ReviewConfig holds the tunables for the review service.
type ReviewConfig struct {
	CacheTTL        time.Duration
	DefaultPageSize int
	MaxPageSize     int
	TrendWindowDays int
	TopTagsLimit    int
}

// ReviewService implements the business logic for review operations. Every
// derived read (listings, stats, trends, tags) goes through the cache; every
// mutation drops all cached entries for the affected product before
// returning, so readers never see stale aggregates after a write.
type ReviewService struct {
	repo     repository.ReviewRepository
	cache    *pkgcache.Cache
	index    *pkgcache.KeyIndex
	producer event.Publisher
	cfg      ReviewConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewReviewService creates a new review service.
func NewReviewService(repo repository.ReviewRepository, cache *pkgcache.Cache, producer event.Publisher, cfg ReviewConfig, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		repo:     repo,
		cache:    cache,
		index:    pkgcache.NewKeyIndex(),
		producer: producer,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateReviewInput holds the parameters for submitting a review.
type CreateReviewInput struct {
	ProductID      string   `validate:"required"`
	UserID         string   `validate:"required"`
	Rating         int      `validate:"required,min=1,max=5"`
	Title          string   `validate:"required,max=200"`
	Body           string   `validate:"required,max=2000"`
	ImageURLs      []string `validate:"omitempty,max=5,dive,url"`
	Tags           []string `validate:"omitempty,max=10,dive,min=1,max=30"`
	Location       string   `validate:"omitempty,max=100"`
	PurchaseSource string   `validate:"omitempty,max=100"`
}

// ListReviewsInput holds filter and pagination parameters for listing
// reviews of one product.
type ListReviewsInput struct {
	Rating   *int
	SortBy   string
	Page     int
	PageSize int
}

// CreateReview validates and stores a new review, then invalidates every
// cached entry derived from the product's review collection.
func (s *ReviewService) CreateReview(ctx context.Context, input *CreateReviewInput) (*domain.Review, error) {
	if err := pkgvalidator.Validate(input); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	review := &domain.Review{
		ID:             uuid.New().String(),
		ProductID:      input.ProductID,
		UserID:         input.UserID,
		Rating:         input.Rating,
		Title:          input.Title,
		Body:           input.Body,
		ImageURLs:      input.ImageURLs,
		Tags:           input.Tags,
		Location:       input.Location,
		PurchaseSource: input.PurchaseSource,
		Visible:        true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.index.Invalidate(s.cache, review.ProductID)

	if err := s.producer.PublishReviewCreated(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			pkglogger.ReviewID(review.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "review created",
		pkglogger.ReviewID(review.ID),
		pkglogger.ProductID(review.ProductID),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// ListReviews returns one page of visible reviews for a product.
func (s *ReviewService) ListReviews(ctx context.Context, productID string, input ListReviewsInput) (*domain.ReviewPage, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.SortBy == "" {
		input.SortBy = domain.SortNewest
	}
	if !domain.IsValidSortOrder(input.SortBy) {
		return nil, apperrors.InvalidInput("unknown sort order: " + input.SortBy)
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, apperrors.InvalidInput("rating filter must be between 1 and 5")
	}
	input.Page, input.PageSize = clampPage(input.Page, input.PageSize, s.cfg.DefaultPageSize, s.cfg.MaxPageSize)

	key := s.listCacheKey(productID, input)
	if cached, ok := s.cache.Get(key); ok {
		// A wrong-typed entry is treated as a miss, never a failure.
		if page, ok := cached.(*domain.ReviewPage); ok {
			return page, nil
		}
	}

	reviews, total, err := s.repo.ListByProduct(ctx, productID, repository.ReviewFilter{
		Rating:   input.Rating,
		SortBy:   input.SortBy,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	page := &domain.ReviewPage{
		Reviews:  reviews,
		Total:    total,
		Page:     input.Page,
		PageSize: input.PageSize,
		HasMore:  input.Page*input.PageSize < total,
	}
	s.cacheDerived(productID, key, page)
	return page, nil
}

// GetReviewStats computes aggregate rating statistics for a product.
func (s *ReviewService) GetReviewStats(ctx context.Context, productID string) (*domain.ReviewStats, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	key := s.derivedKey("stats", productID)
	if cached, ok := s.cache.Get(key); ok {
		if stats, ok := cached.(*domain.ReviewStats); ok {
			return stats, nil
		}
	}

	reviews, err := s.repo.AllByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load reviews for stats: %w", err)
	}

	stats := domain.ComputeStats(productID, reviews)
	s.cacheDerived(productID, key, stats)
	return stats, nil
}

// GetReviewTrends buckets a product's recent reviews by calendar day.
// windowDays <= 0 uses the configured default; the window is capped at a year.
func (s *ReviewService) GetReviewTrends(ctx context.Context, productID string, windowDays int) ([]domain.TrendPoint, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if windowDays <= 0 {
		windowDays = s.cfg.TrendWindowDays
	}
	if windowDays > 365 {
		windowDays = 365
	}

	key := s.derivedKey("trends", productID) + ":" + strconv.Itoa(windowDays)
	if cached, ok := s.cache.Get(key); ok {
		if trends, ok := cached.([]domain.TrendPoint); ok {
			return trends, nil
		}
	}

	reviews, err := s.repo.AllByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load reviews for trends: %w", err)
	}

	trends := domain.ComputeTrends(reviews, windowDays, s.now())
	s.cacheDerived(productID, key, trends)
	return trends, nil
}

// GetTopTags ranks the most used tags across a product's reviews.
// limit <= 0 uses the configured default; the limit is capped at 50.
func (s *ReviewService) GetTopTags(ctx context.Context, productID string, limit int) ([]domain.TagCount, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if limit <= 0 {
		limit = s.cfg.TopTagsLimit
	}
	if limit > 50 {
		limit = 50
	}

	key := s.derivedKey("tags", productID) + ":" + strconv.Itoa(limit)
	if cached, ok := s.cache.Get(key); ok {
		if tags, ok := cached.([]domain.TagCount); ok {
			return tags, nil
		}
	}

	reviews, err := s.repo.AllByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load reviews for tags: %w", err)
	}

	tags := domain.TopTags(reviews, limit)
	s.cacheDerived(productID, key, tags)
	return tags, nil
}

// LikeReview increments a review's like counter.
func (s *ReviewService) LikeReview(ctx context.Context, reviewID string) (*domain.Review, error) {
	return s.react(ctx, reviewID, s.repo.IncrementLikes, s.producer.PublishReviewLiked, "review.liked")
}

// MarkHelpful increments a review's helpful counter.
func (s *ReviewService) MarkHelpful(ctx context.Context, reviewID string) (*domain.Review, error) {
	return s.react(ctx, reviewID, s.repo.IncrementHelpful, s.producer.PublishReviewHelpful, "review.helpful")
}

func (s *ReviewService) react(
	ctx context.Context,
	reviewID string,
	increment func(context.Context, string) (*domain.Review, error),
	publish func(context.Context, *domain.Review) error,
	eventName string,
) (*domain.Review, error) {
	if reviewID == "" {
		return nil, apperrors.InvalidInput("review id is required")
	}

	review, err := increment(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("increment review counter: %w", err)
	}

	s.index.Invalidate(s.cache, review.ProductID)

	if err := publish(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish "+eventName+" event",
			pkglogger.ReviewID(review.ID),
			slog.String("error", err.Error()),
		)
	}

	return review, nil
}

// cacheDerived stores a derived value and registers its key against the
// product, so the next mutation on that product evicts it.
func (s *ReviewService) cacheDerived(productID, key string, value any) {
	s.cache.Set(key, value, s.cfg.CacheTTL)
	s.index.Add(productID, key)
}

// derivedKey builds a cache key for a value derived from a product's review
// collection. The key embeds the product's invalidation generation, so a
// read racing a mutation that finishes after the invalidation stores its
// pre-write result under a key no later read consults.
func (s *ReviewService) derivedKey(prefix, productID string) string {
	return prefix + ":" + productID + ":g" + strconv.FormatUint(s.index.Generation(productID), 10)
}

func (s *ReviewService) listCacheKey(productID string, input ListReviewsInput) string {
	rating := "all"
	if input.Rating != nil {
		rating = strconv.Itoa(*input.Rating)
	}
	return s.derivedKey("reviews", productID) +
		"|sort=" + input.SortBy +
		"|rating=" + rating +
		"|page=" + strconv.Itoa(input.Page) +
		"|size=" + strconv.Itoa(input.PageSize)
}
