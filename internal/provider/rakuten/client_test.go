package rakuten

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/MustMe0430/Must-Me-app-sub000/pkg/errors"

	"github.com/MustMe0430/Must-Me-app-sub000/internal/domain"
)

type stubFetcher struct {
	lastURL string
	body    []byte
	err     error
}

func (s *stubFetcher) Get(_ context.Context, url string) ([]byte, error) {
	s.lastURL = url
	return s.body, s.err
}

func newTestClient(fetcher Fetcher) *Client {
	cfg := Config{
		BaseURL:       "https://app.rakuten.co.jp/services/api/IchibaItem/Search/20220601",
		ApplicationID: "test-app-id",
	}
	return NewClient(cfg, fetcher, slog.Default())
}

const searchFixture = `{
	"Items": [
		{"Item": {
			"itemCode": "shop:10001",
			"itemName": "Ceramic Mug",
			"itemPrice": 1500,
			"genreId": "308039",
			"availability": 1,
			"postageFlag": 0,
			"mediumImageUrls": [{"imageUrl": "https://thumbnail.image.rakuten.co.jp/@0_mall/shop/img/mug.jpg?_ex=128x128"}]
		}},
		{"Item": {
			"itemCode": "",
			"itemName": "Broken Item"
		}}
	],
	"count": 42,
	"page": 1,
	"pageCount": 5,
	"hits": 2
}`

func TestClientSearch(t *testing.T) {
	fetcher := &stubFetcher{body: []byte(searchFixture)}
	client := newTestClient(fetcher)

	page, err := client.Search(context.Background(), domain.SearchQuery{
		Keyword:  "mug",
		MinPrice: 1000,
		Sort:     "price_asc",
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)

	// Items without an item code are skipped, not surfaced as errors.
	require.Len(t, page.Products, 1)
	assert.Equal(t, "shop:10001", page.Products[0].ID)
	assert.Equal(t, "kitchen", page.Products[0].Category)
	assert.Equal(t, 42, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.True(t, page.HasMore)

	parsed, err := url.Parse(fetcher.lastURL)
	require.NoError(t, err)
	q := parsed.Query()
	assert.Equal(t, "test-app-id", q.Get("applicationId"))
	assert.Equal(t, "mug", q.Get("keyword"))
	assert.Equal(t, "1000", q.Get("minPrice"))
	assert.Equal(t, "+itemPrice", q.Get("sort"))
	assert.Equal(t, "10", q.Get("hits"))
}

func TestClientSearchRequiresCriteria(t *testing.T) {
	client := newTestClient(&stubFetcher{})

	_, err := client.Search(context.Background(), domain.SearchQuery{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestClientSearchMalformedResponse(t *testing.T) {
	fetcher := &stubFetcher{body: []byte(`{"Items": not-json`)}
	client := newTestClient(fetcher)

	_, err := client.Search(context.Background(), domain.SearchQuery{Keyword: "mug"})
	assert.ErrorIs(t, err, apperrors.ErrProvider)
}

func TestClientSearchPropagatesFetchError(t *testing.T) {
	fetchErr := errors.New("boom")
	client := newTestClient(&stubFetcher{err: fetchErr})

	_, err := client.Search(context.Background(), domain.SearchQuery{Keyword: "mug"})
	assert.ErrorIs(t, err, fetchErr)
}

func TestClientGetProduct(t *testing.T) {
	fetcher := &stubFetcher{body: []byte(searchFixture)}
	client := newTestClient(fetcher)

	p, err := client.GetProduct(context.Background(), "shop:10001")
	require.NoError(t, err)
	assert.Equal(t, "shop:10001", p.ID)

	parsed, err := url.Parse(fetcher.lastURL)
	require.NoError(t, err)
	assert.Equal(t, "shop:10001", parsed.Query().Get("itemCode"))
}

func TestClientGetProductNotFound(t *testing.T) {
	fetcher := &stubFetcher{body: []byte(`{"Items": [], "count": 0}`)}
	client := newTestClient(fetcher)

	_, err := client.GetProduct(context.Background(), "missing:1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
