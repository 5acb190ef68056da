package domain

import (
	"time"
)

// Availability describes whether a product can currently be purchased.
type Availability string

const (
	AvailabilityInStock    Availability = "in_stock"
	AvailabilityOutOfStock Availability = "out_of_stock"
	AvailabilityLimited    Availability = "limited"
	AvailabilityUnknown    Availability = "unknown"
)

// ImageSet holds product image URLs grouped by size bucket. Buckets may be
// empty when the provider omits them; they are never nil after normalization.
type ImageSet struct {
	Small  []string `json:"small"`
	Medium []string `json:"medium"`
	Large  []string `json:"large"`
}

// Shop identifies the storefront selling a product.
type Shop struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Features holds provider-derived purchase feature flags.
type Features struct {
	FreeShipping   bool `json:"free_shipping"`
	CardAccepted   bool `json:"card_accepted"`
	PointsEarnable bool `json:"points_earnable"`
}

// Source records where a normalized product came from.
type Source struct {
	Origin      string    `json:"origin"`
	OriginalID  string    `json:"original_id"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// Product is the internal, normalized product model. A Product is constructed
// fresh on every successful provider normalization and never mutated in
// place; a new value replaces the cached one on refresh.
type Product struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Price        int64        `json:"price"`
	Currency     string       `json:"currency"`
	Images       ImageSet     `json:"images"`
	Shop         Shop         `json:"shop"`
	Category     string       `json:"category"`
	Rating       *float64     `json:"rating,omitempty"`
	ReviewCount  *int         `json:"review_count,omitempty"`
	ItemURL      string       `json:"item_url"`
	Availability Availability `json:"availability"`
	Features     Features     `json:"features"`
	Source       Source       `json:"source"`
}

// SearchPage is a page of normalized products with pagination metadata.
type SearchPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	HasMore  bool      `json:"has_more"`
}

// SearchQuery holds the supported provider search parameters.
type SearchQuery struct {
	Keyword  string
	Category string
	MinPrice int64
	MaxPrice int64
	Sort     string
	Page     int
	PageSize int
}
