// Package rakuten implements the external product source against the Ichiba
// item search API, including response validation and normalization into the
// internal product model.
package rakuten

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	apperrors "github.com/MustMe0430/Must-Me-app-sub000/pkg/errors"

	"github.com/MustMe0430/Must-Me-app-sub000/internal/domain"
)

// Fetcher is the HTTP surface the client needs. Satisfied by
// httpclient.Client and httpclient.CircuitBreakerClient.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Config holds the provider endpoint settings.
type Config struct {
	BaseURL       string
	ApplicationID string
}

// Client searches the external product catalog.
type Client struct {
	cfg     Config
	fetcher Fetcher
	logger  *slog.Logger
	now     func() time.Time
}

func NewClient(cfg Config, fetcher Fetcher, logger *slog.Logger) *Client {
	return &Client{
		cfg:     cfg,
		fetcher: fetcher,
		logger:  logger.With(slog.String("component", "rakuten_client")),
		now:     time.Now,
	}
}

// sortParams maps our sort keys onto the provider's sort syntax.
var sortParams = map[string]string{
	"price_asc":  "+itemPrice",
	"price_desc": "-itemPrice",
	"rating":     "-reviewAverage",
	"reviews":    "-reviewCount",
	"newest":     "-updateTimestamp",
}

// Search runs one item search call and normalizes the result page.
func (c *Client) Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchPage, error) {
	if query.Keyword == "" && query.Category == "" {
		return nil, apperrors.InvalidInput("search requires a keyword or category")
	}

	endpoint, err := c.searchURL(query)
	if err != nil {
		return nil, err
	}

	body, err := c.fetcher.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.ErrorContext(ctx, "malformed provider response", slog.Any("error", err))
		return nil, apperrors.Provider("decode provider response", err)
	}

	refreshedAt := c.now().UTC()
	products := make([]domain.Product, 0, len(resp.Items))
	for _, env := range resp.Items {
		if env.Item.ItemCode == "" {
			c.logger.WarnContext(ctx, "skipping provider item without item code")
			continue
		}
		products = append(products, normalizeItem(env.Item, refreshedAt))
	}

	page := resp.Page
	if page < 1 {
		page = query.Page
	}
	return &domain.SearchPage{
		Products: products,
		Total:    resp.Count,
		Page:     page,
		PageSize: query.PageSize,
		HasMore:  page < resp.PageCount,
	}, nil
}

// GetProduct resolves a single item by its item code.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	endpoint, err := c.itemURL(id)
	if err != nil {
		return nil, err
	}

	body, err := c.fetcher.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.Provider("decode provider response", err)
	}
	if len(resp.Items) == 0 {
		return nil, apperrors.NotFound("product", id)
	}

	product := normalizeItem(resp.Items[0].Item, c.now().UTC())
	return &product, nil
}

func (c *Client) searchURL(query domain.SearchQuery) (string, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", apperrors.Internal(fmt.Errorf("invalid provider base url: %w", err))
	}

	q := u.Query()
	q.Set("applicationId", c.cfg.ApplicationID)
	q.Set("format", "json")
	if query.Keyword != "" {
		q.Set("keyword", query.Keyword)
	}
	if query.Category != "" {
		q.Set("genreId", query.Category)
	}
	if query.MinPrice > 0 {
		q.Set("minPrice", strconv.FormatInt(query.MinPrice, 10))
	}
	if query.MaxPrice > 0 {
		q.Set("maxPrice", strconv.FormatInt(query.MaxPrice, 10))
	}
	if sort, ok := sortParams[query.Sort]; ok {
		q.Set("sort", sort)
	}
	if query.Page > 0 {
		q.Set("page", strconv.Itoa(query.Page))
	}
	if query.PageSize > 0 {
		q.Set("hits", strconv.Itoa(query.PageSize))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) itemURL(id string) (string, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", apperrors.Internal(fmt.Errorf("invalid provider base url: %w", err))
	}

	q := u.Query()
	q.Set("applicationId", c.cfg.ApplicationID)
	q.Set("format", "json")
	q.Set("itemCode", id)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
