// Package provider defines the product source abstraction. The real source
// talks to the external search API; the sample source backs degraded mode.
// Both sit behind the same interface so callers select between them only
// through an explicit branch, never by mutating shared state.
package provider

import (
	"context"

	"github.com/MustMe0430/Must-Me-app-sub000/internal/domain"
)

// ProductSource searches and resolves products.
type ProductSource interface {
	// Search runs a product search and returns one page of normalized products.
	Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchPage, error)

	// GetProduct resolves a single product by its identifier. Returns a
	// NotFound error when the provider has no such item.
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}
