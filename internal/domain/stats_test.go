package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewWithRating(rating int, createdAt time.Time) Review {
	return Review{
		ID:        fmt.Sprintf("rev-%d-%d", rating, createdAt.UnixNano()),
		ProductID: "item123",
		Rating:    rating,
		Visible:   true,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats("item123", nil)

	assert.Equal(t, "item123", stats.ProductID)
	assert.Equal(t, 0.0, stats.AverageRating)
	assert.Equal(t, 0, stats.TotalReviews)
	for r := 1; r <= 5; r++ {
		assert.Equal(t, 0, stats.Distribution[r])
	}
}

func TestComputeStats_UniformRatings(t *testing.T) {
	// n reviews all rated r yields average r and distribution[r] = n.
	now := time.Now().UTC()
	for r := 1; r <= 5; r++ {
		t.Run(fmt.Sprintf("rating_%d", r), func(t *testing.T) {
			const n = 7
			reviews := make([]Review, 0, n)
			for i := 0; i < n; i++ {
				reviews = append(reviews, reviewWithRating(r, now))
			}

			stats := ComputeStats("item123", reviews)

			assert.Equal(t, float64(r), stats.AverageRating)
			assert.Equal(t, n, stats.TotalReviews)
			for b := 1; b <= 5; b++ {
				want := 0
				if b == r {
					want = n
				}
				assert.Equal(t, want, stats.Distribution[b], "bucket %d", b)
			}
		})
	}
}

func TestComputeStats_RoundsToTwoDecimals(t *testing.T) {
	now := time.Now().UTC()
	reviews := []Review{
		reviewWithRating(5, now),
		reviewWithRating(4, now),
		reviewWithRating(4, now),
	}

	stats := ComputeStats("item123", reviews)

	// 13/3 = 4.3333... rounds to 4.33
	assert.Equal(t, 4.33, stats.AverageRating)
}

func TestComputeTrends_CalendarDayBuckets(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	reviews := []Review{
		reviewWithRating(5, now.AddDate(0, 0, -1)),                    // June 9
		reviewWithRating(3, now.AddDate(0, 0, -1).Add(2*time.Hour)),   // June 9
		reviewWithRating(4, now.AddDate(0, 0, -2)),                    // June 8
		reviewWithRating(1, now.AddDate(0, 0, -40)),                   // outside window
	}

	points := ComputeTrends(reviews, 30, now)

	require.Len(t, points, 2)
	assert.Equal(t, "2025-06-08", points[0].Date)
	assert.Equal(t, 4.0, points[0].AverageRating)
	assert.Equal(t, 1, points[0].Count)

	assert.Equal(t, "2025-06-09", points[1].Date)
	assert.Equal(t, 4.0, points[1].AverageRating)
	assert.Equal(t, 2, points[1].Count)
}

func TestComputeTrends_Empty(t *testing.T) {
	assert.Empty(t, ComputeTrends(nil, 30, time.Now()))
}

func TestTopTags(t *testing.T) {
	now := time.Now().UTC()
	mk := func(rating int, tags ...string) Review {
		r := reviewWithRating(rating, now)
		r.Tags = tags
		return r
	}

	reviews := []Review{
		mk(5, "quality", "value"),
		mk(4, "quality"),
		mk(3, "quality", "shipping"),
		mk(2, "shipping"),
		mk(5),
	}

	tags := TopTags(reviews, 2)

	require.Len(t, tags, 2)
	assert.Equal(t, "quality", tags[0].Tag)
	assert.Equal(t, 3, tags[0].Count)
	assert.Equal(t, 4.0, tags[0].AverageRating)

	assert.Equal(t, "shipping", tags[1].Tag)
	assert.Equal(t, 2, tags[1].Count)
	assert.Equal(t, 2.5, tags[1].AverageRating)
}

func TestTopTags_NoTags(t *testing.T) {
	now := time.Now().UTC()
	assert.Empty(t, TopTags([]Review{reviewWithRating(5, now)}, 10))
}

func TestIsValidSortOrder(t *testing.T) {
	for _, s := range ValidSortOrders() {
		assert.True(t, IsValidSortOrder(s), s)
	}
	assert.False(t, IsValidSortOrder("random"))
}
