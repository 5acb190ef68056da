package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MustMe0430/Must-Me-app-sub000/pkg/httputil"
	pkgvalidator "github.com/MustMe0430/Must-Me-app-sub000/pkg/validator"

	"github.com/MustMe0430/Must-Me-app-sub000/internal/domain"
	"github.com/MustMe0430/Must-Me-app-sub000/internal/service"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateReviewRequest is the JSON request body for submitting a review.
// The product id comes from the URL, not the body.
type CreateReviewRequest struct {
	UserID         string   `json:"user_id" validate:"required"`
	Rating         int      `json:"rating" validate:"required,min=1,max=5"`
	Title          string   `json:"title" validate:"required,max=200"`
	Body           string   `json:"body" validate:"required,max=2000"`
	ImageURLs      []string `json:"image_urls" validate:"omitempty,max=5,dive,url"`
	Tags           []string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=30"`
	Location       string   `json:"location" validate:"omitempty,max=100"`
	PurchaseSource string   `json:"purchase_source" validate:"omitempty,max=100"`
}

// CreateReview handles POST /api/v1/products/{productId}/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var req CreateReviewRequest
	if err := pkgvalidator.DecodeAndValidate(r, &req); err != nil {
		var valErr *pkgvalidator.ValidationError
		if errors.As(err, &valErr) {
			httputil.WriteValidationError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_JSON", Message: "request body must be valid JSON"},
		})
		return
	}

	review, err := h.service.CreateReview(r.Context(), &service.CreateReviewInput{
		ProductID:      productID,
		UserID:         req.UserID,
		Rating:         req.Rating,
		Title:          strings.TrimSpace(req.Title),
		Body:           strings.TrimSpace(req.Body),
		ImageURLs:      req.ImageURLs,
		Tags:           req.Tags,
		Location:       req.Location,
		PurchaseSource: req.PurchaseSource,
	})
	if err != nil {
		var valErr *pkgvalidator.ValidationError
		if errors.As(err, &valErr) {
			httputil.WriteValidationError(w, err)
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}

// ListReviews handles GET /api/v1/products/{productId}/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	q := r.URL.Query()

	input := service.ListReviewsInput{
		SortBy: q.Get("sort_by"),
	}

	if v := q.Get("rating"); v != "" {
		rating, err := strconv.Atoi(v)
		if err != nil || rating < 1 || rating > 5 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "rating must be an integer between 1 and 5"},
			})
			return
		}
		input.Rating = &rating
	}

	var ok bool
	if input.Page, ok = intParam(w, q.Get("page"), "page"); !ok {
		return
	}
	if input.PageSize, ok = intParam(w, q.Get("page_size"), "page_size"); !ok {
		return
	}

	page, err := h.service.ListReviews(r.Context(), productID, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: page})
}

// GetStats handles GET /api/v1/products/{productId}/reviews/stats
func (h *ReviewHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetReviewStats(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stats})
}

// GetTrends handles GET /api/v1/products/{productId}/reviews/trends
func (h *ReviewHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	windowDays, ok := intParam(w, r.URL.Query().Get("window_days"), "window_days")
	if !ok {
		return
	}

	trends, err := h.service.GetReviewTrends(r.Context(), chi.URLParam(r, "productId"), windowDays)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if trends == nil {
		trends = []domain.TrendPoint{}
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: trends})
}

// GetTopTags handles GET /api/v1/products/{productId}/reviews/tags
func (h *ReviewHandler) GetTopTags(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r.URL.Query().Get("limit"), "limit")
	if !ok {
		return
	}

	tags, err := h.service.GetTopTags(r.Context(), chi.URLParam(r, "productId"), limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if tags == nil {
		tags = []domain.TagCount{}
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: tags})
}

// LikeReview handles POST /api/v1/reviews/{reviewId}/like
func (h *ReviewHandler) LikeReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.service.LikeReview(r.Context(), chi.URLParam(r, "reviewId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// MarkHelpful handles POST /api/v1/reviews/{reviewId}/helpful
func (h *ReviewHandler) MarkHelpful(w http.ResponseWriter, r *http.Request) {
	review, err := h.service.MarkHelpful(r.Context(), chi.URLParam(r, "reviewId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}
