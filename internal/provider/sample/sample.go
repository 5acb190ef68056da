// Package sample provides a small built-in catalog used in degraded mode,
// when the external product provider is not configured. It only backs product
// search and lookup; review data never falls back to samples.
package sample

import (
	"context"
	"sort"
	"strings"
	"time"

	apperrors "github.com/MustMe0430/Must-Me-app-sub000/pkg/errors"

	"github.com/MustMe0430/Must-Me-app-sub000/internal/domain"
)

// Source serves products from a fixed in-memory catalog.
type Source struct {
	products []domain.Product
}

func New() *Source {
	return &Source{products: catalog()}
}

// Search filters and paginates the sample catalog with the same query
// semantics as the real provider.
func (s *Source) Search(_ context.Context, query domain.SearchQuery) (*domain.SearchPage, error) {
	if query.Keyword == "" && query.Category == "" {
		return nil, apperrors.InvalidInput("search requires a keyword or category")
	}

	matched := make([]domain.Product, 0, len(s.products))
	keyword := strings.ToLower(query.Keyword)
	for _, p := range s.products {
		if keyword != "" &&
			!strings.Contains(strings.ToLower(p.Name), keyword) &&
			!strings.Contains(strings.ToLower(p.Description), keyword) {
			continue
		}
		if query.Category != "" && p.Category != query.Category {
			continue
		}
		if query.MinPrice > 0 && p.Price < query.MinPrice {
			continue
		}
		if query.MaxPrice > 0 && p.Price > query.MaxPrice {
			continue
		}
		matched = append(matched, p)
	}

	sortProducts(matched, query.Sort)

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = len(matched)
	}

	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	return &domain.SearchPage{
		Products: matched[start:end],
		Total:    len(matched),
		Page:     page,
		PageSize: pageSize,
		HasMore:  end < len(matched),
	}, nil
}

// GetProduct looks up a sample product by id.
func (s *Source) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	for _, p := range s.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, apperrors.NotFound("product", id)
}

func sortProducts(products []domain.Product, key string) {
	switch key {
	case "price_asc":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case "price_desc":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case "rating":
		sort.SliceStable(products, func(i, j int) bool { return ratingOf(products[i]) > ratingOf(products[j]) })
	}
}

func ratingOf(p domain.Product) float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

func sampleProduct(id, name, description, category string, price int64, rating float64, reviews int) domain.Product {
	p := domain.Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		Currency:    "JPY",
		Category:    category,
		Images: domain.ImageSet{
			Small:  []string{"https://placehold.co/128x128?text=" + id},
			Medium: []string{"https://placehold.co/300x300?text=" + id},
			Large:  []string{"https://placehold.co/600x600?text=" + id},
		},
		Shop: domain.Shop{
			ID:   "sample-shop",
			Name: "Sample Shop",
			URL:  "https://example.com/shop",
		},
		ItemURL:      "https://example.com/items/" + id,
		Availability: domain.AvailabilityInStock,
		Features: domain.Features{
			FreeShipping: true,
			CardAccepted: true,
		},
		Source: domain.Source{
			Origin:      "sample",
			OriginalID:  id,
			RefreshedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	if reviews > 0 {
		p.Rating = &rating
		p.ReviewCount = &reviews
	}
	return p
}

func catalog() []domain.Product {
	return []domain.Product{
		sampleProduct("sample:1001", "Ceramic Coffee Mug", "Hand glazed 350ml mug.", "kitchen", 1800, 4.5, 12),
		sampleProduct("sample:1002", "Wireless Earbuds", "Noise cancelling earbuds with charging case.", "electronics", 9800, 4.1, 204),
		sampleProduct("sample:1003", "Cotton T-Shirt", "Plain heavyweight cotton tee.", "fashion", 2400, 3.9, 58),
		sampleProduct("sample:1004", "Stainless Water Bottle", "Vacuum insulated 500ml bottle.", "outdoor", 3200, 4.7, 89),
		sampleProduct("sample:1005", "Desk Lamp", "LED lamp with adjustable arm.", "interior", 5600, 4.2, 33),
		sampleProduct("sample:1006", "Mechanical Keyboard", "Tenkeyless board with tactile switches.", "electronics", 14800, 4.6, 176),
		sampleProduct("sample:1007", "Green Tea Assortment", "Loose leaf sencha and genmaicha set.", "food", 2900, 4.8, 41),
		sampleProduct("sample:1008", "Yoga Mat", "6mm non-slip exercise mat.", "sports", 3900, 4.0, 0),
	}
}
