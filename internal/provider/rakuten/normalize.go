package rakuten

import (
	"net/url"
	"strings"
	"time"

	"github.com/MustMe0430/Must-Me-app-sub000/internal/domain"
)

// Image size hints understood by the provider's thumbnail CDN.
const (
	sizeSmall  = "128x128"
	sizeMedium = "300x300"
	sizeLarge  = "600x600"
)

// imageHost is the thumbnail CDN that understands the _ex size hint. URLs on
// any other host are passed through untouched.
const imageHost = "thumbnail.image.rakuten.co.jp"

// genreCategories maps the provider's top-level genre IDs to our category
// slugs. Unknown genres fall back to "other".
var genreCategories = map[string]string{
	"100026": "electronics",
	"100227": "food",
	"100316": "beauty",
	"100371": "fashion",
	"100433": "books",
	"100533": "sports",
	"100804": "home",
	"101070": "toys",
	"101213": "health",
	"101240": "kids",
	"200162": "music",
	"211742": "pets",
	"215783": "outdoor",
	"216131": "shoes",
	"216129": "bags",
	"308039": "kitchen",
	"551177": "garden",
	"558885": "appliances",
	"558929": "hobby",
	"562637": "interior",
}

func categoryForGenre(genreID string) string {
	if c, ok := genreCategories[genreID]; ok {
		return c
	}
	return "other"
}

// cleanImageURLs drops blank entries, upgrades http to https, rewrites the
// CDN size hint to the requested dimensions, and de-duplicates while keeping
// order. A nil or empty input yields an empty slice, never nil.
func cleanImageURLs(refs []imageRef, size string) []string {
	out := make([]string, 0, len(refs))
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		raw := strings.TrimSpace(ref.ImageURL)
		if raw == "" {
			continue
		}
		if strings.HasPrefix(raw, "http://") {
			raw = "https://" + strings.TrimPrefix(raw, "http://")
		}
		cleaned := withSizeHint(raw, size)
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		out = append(out, cleaned)
	}
	return out
}

// withSizeHint replaces any existing _ex parameter with the given WxH value
// on URLs served by the provider's thumbnail CDN. URLs on other hosts, and
// malformed URLs, pass through untouched rather than being dropped.
func withSizeHint(raw, size string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	host := u.Hostname()
	if host != imageHost && !strings.HasSuffix(host, "."+imageHost) {
		return raw
	}
	q := u.Query()
	q.Set("_ex", size)
	u.RawQuery = q.Encode()
	return u.String()
}

func availabilityFromFlag(flag int) domain.Availability {
	switch flag {
	case 1:
		return domain.AvailabilityInStock
	case 0:
		return domain.AvailabilityOutOfStock
	default:
		return domain.AvailabilityUnknown
	}
}

// normalizeItem converts one raw provider item into a domain product.
func normalizeItem(item rawItem, refreshedAt time.Time) domain.Product {
	p := domain.Product{
		ID:          item.ItemCode,
		Name:        strings.TrimSpace(item.ItemName),
		Description: strings.TrimSpace(item.ItemCaption),
		ItemURL:     item.ItemURL,
		Price:       item.ItemPrice,
		Currency:    "JPY",
		Category:    categoryForGenre(item.GenreID),
		Images: domain.ImageSet{
			Small:  cleanImageURLs(item.SmallImageURLs, sizeSmall),
			Medium: cleanImageURLs(item.MediumImageURLs, sizeMedium),
			Large:  cleanImageURLs(item.MediumImageURLs, sizeLarge),
		},
		Shop: domain.Shop{
			ID:   item.ShopCode,
			Name: item.ShopName,
			URL:  item.ShopURL,
		},
		Availability: availabilityFromFlag(item.Availability),
		Features: domain.Features{
			FreeShipping:   item.PostageFlag == 0,
			CardAccepted:   item.CreditCardFlag == 1,
			PointsEarnable: item.PointRate > 1,
		},
		Source: domain.Source{
			Origin:      "rakuten",
			OriginalID:  item.ItemCode,
			RefreshedAt: refreshedAt,
		},
	}
	if item.ReviewCount > 0 {
		count := item.ReviewCount
		rating := item.ReviewAverage
		p.ReviewCount = &count
		p.Rating = &rating
	}
	return p
}
