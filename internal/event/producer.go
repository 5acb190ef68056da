package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/MustMe0430/Must-Me-app-sub000/pkg/kafka"
	pkglogger "github.com/MustMe0430/Must-Me-app-sub000/pkg/logger"

	"github.com/MustMe0430/Must-Me-app-sub000/internal/domain"
)

// Kafka topic constants for review domain events.
const (
	TopicReviewCreated = "mustme.review.created"
	TopicReviewLiked   = "mustme.review.liked"
	TopicReviewHelpful = "mustme.review.helpful"
)

// Aggregate type constant.
const AggregateTypeReview = "review"

// Source identifier for events originating from the review service.
const SourceReviewService = "review-service"

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ID        string   `json:"id"`
	ProductID string   `json:"product_id"`
	UserID    string   `json:"user_id"`
	Rating    int      `json:"rating"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags,omitempty"`
}

// ReviewReactionData is the payload for review.liked and review.helpful
// events.
type ReviewReactionData struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Likes     int    `json:"likes"`
	Helpful   int    `json:"helpful"`
}

// Publisher is the event surface the service layer depends on. The Kafka
// producer satisfies it; a no-op stands in when events are disabled.
type Publisher interface {
	PublishReviewCreated(ctx context.Context, review *domain.Review) error
	PublishReviewLiked(ctx context.Context, review *domain.Review) error
	PublishReviewHelpful(ctx context.Context, review *domain.Review) error
}

// Producer publishes review domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the review service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Title:     review.Title,
		Tags:      review.Tags,
	}

	event, err := pkgkafka.NewEvent(TopicReviewCreated, review.ID, AggregateTypeReview, SourceReviewService, data)
	if err != nil {
		return fmt.Errorf("create review.created event: %w", err)
	}
	event.WithCorrelationID(pkglogger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, TopicReviewCreated, event); err != nil {
		return fmt.Errorf("publish review.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.created event",
		pkglogger.ReviewID(review.ID),
		pkglogger.ProductID(review.ProductID),
	)

	return nil
}

// PublishReviewLiked publishes a review.liked event.
func (p *Producer) PublishReviewLiked(ctx context.Context, review *domain.Review) error {
	return p.publishReaction(ctx, TopicReviewLiked, review)
}

// PublishReviewHelpful publishes a review.helpful event.
func (p *Producer) PublishReviewHelpful(ctx context.Context, review *domain.Review) error {
	return p.publishReaction(ctx, TopicReviewHelpful, review)
}

func (p *Producer) publishReaction(ctx context.Context, topic string, review *domain.Review) error {
	data := ReviewReactionData{
		ID:        review.ID,
		ProductID: review.ProductID,
		Likes:     review.Likes,
		Helpful:   review.Helpful,
	}

	event, err := pkgkafka.NewEvent(topic, review.ID, AggregateTypeReview, SourceReviewService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	event.WithCorrelationID(pkglogger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published review reaction event",
		slog.String("topic", topic),
		pkglogger.ReviewID(review.ID),
	)

	return nil
}

// NoopPublisher drops every event. Used when events are disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishReviewCreated(context.Context, *domain.Review) error { return nil }
func (NoopPublisher) PublishReviewLiked(context.Context, *domain.Review) error   { return nil }
func (NoopPublisher) PublishReviewHelpful(context.Context, *domain.Review) error { return nil }
