package domain

import (
	"time"
)

// Review sort orders accepted by the review listing operations.
const (
	SortNewest     = "newest"
	SortOldest     = "oldest"
	SortRatingHigh = "rating_high"
	SortRatingLow  = "rating_low"
	SortHelpful    = "helpful"
)

// ValidSortOrders returns the set of accepted review sort orders.
func ValidSortOrders() []string {
	return []string{SortNewest, SortOldest, SortRatingHigh, SortRatingLow, SortHelpful}
}

// IsValidSortOrder checks whether the given string names a review sort order.
func IsValidSortOrder(s string) bool {
	for _, v := range ValidSortOrders() {
		if s == v {
			return true
		}
	}
	return false
}

// Review represents a product review submitted by a user. The Likes and
// Helpful counters only ever increase; reviews are never hard-deleted.
type Review struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	UserID         string    `json:"user_id"`
	Rating         int       `json:"rating"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	ImageURLs      []string  `json:"image_urls,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	Location       string    `json:"location,omitempty"`
	PurchaseSource string    `json:"purchase_source,omitempty"`
	Visible        bool      `json:"visible"`
	Likes          int       `json:"likes"`
	Helpful        int       `json:"helpful"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ReviewPage is a page of reviews with pagination metadata.
type ReviewPage struct {
	Reviews  []Review `json:"reviews"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
	HasMore  bool     `json:"has_more"`
}

// ReviewStats contains aggregate rating statistics for a product. It is
// derived from the live review collection, never stored.
type ReviewStats struct {
	ProductID     string      `json:"product_id"`
	AverageRating float64     `json:"average_rating"`
	TotalReviews  int         `json:"total_reviews"`
	Distribution  map[int]int `json:"distribution"`
}

// TrendPoint is one calendar-day bucket of review activity.
type TrendPoint struct {
	Date          string  `json:"date"` // YYYY-MM-DD
	AverageRating float64 `json:"average_rating"`
	Count         int     `json:"count"`
}

// TagCount is one entry in a tag frequency ranking.
type TagCount struct {
	Tag           string  `json:"tag"`
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
}
