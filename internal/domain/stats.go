package domain

import (
	"math"
	"sort"
	"time"
)

// round2 rounds to 2 decimal places using standard rounding.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeStats derives rating statistics from a review collection. An empty
// collection yields average 0, count 0, and an all-zero distribution.
func ComputeStats(productID string, reviews []Review) *ReviewStats {
	stats := &ReviewStats{
		ProductID:    productID,
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	if len(reviews) == 0 {
		return stats
	}

	var sum int
	for _, r := range reviews {
		sum += r.Rating
		if r.Rating >= 1 && r.Rating <= 5 {
			stats.Distribution[r.Rating]++
		}
	}

	stats.TotalReviews = len(reviews)
	stats.AverageRating = round2(float64(sum) / float64(len(reviews)))
	return stats
}

// ComputeTrends buckets reviews created within the trailing window by the
// calendar day of their recorded creation date and reports per-day average
// rating and count, ascending by date. Bucketing follows the review's
// recorded creation date, not the wall clock of the call.
func ComputeTrends(reviews []Review, windowDays int, now time.Time) []TrendPoint {
	if windowDays <= 0 {
		windowDays = 30
	}
	cutoff := now.AddDate(0, 0, -windowDays)

	type bucket struct {
		sum   int
		count int
	}
	buckets := make(map[string]*bucket)

	for _, r := range reviews {
		if r.CreatedAt.Before(cutoff) {
			continue
		}
		day := r.CreatedAt.UTC().Format("2006-01-02")
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
		}
		b.sum += r.Rating
		b.count++
	}

	points := make([]TrendPoint, 0, len(buckets))
	for day, b := range buckets {
		points = append(points, TrendPoint{
			Date:          day,
			AverageRating: round2(float64(b.sum) / float64(b.count)),
			Count:         b.count,
		})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}

// TopTags ranks tags across all reviews carrying tags by occurrence count,
// descending, truncated to limit. Each entry reports the average rating of
// the reviews bearing that tag.
func TopTags(reviews []Review, limit int) []TagCount {
	if limit <= 0 {
		limit = 10
	}

	type tally struct {
		count     int
		ratingSum int
	}
	tallies := make(map[string]*tally)
	order := make([]string, 0)

	for _, r := range reviews {
		for _, tag := range r.Tags {
			tl, ok := tallies[tag]
			if !ok {
				tl = &tally{}
				tallies[tag] = tl
				order = append(order, tag)
			}
			tl.count++
			tl.ratingSum += r.Rating
		}
	}

	counts := make([]TagCount, 0, len(tallies))
	for _, tag := range order {
		tl := tallies[tag]
		counts = append(counts, TagCount{
			Tag:           tag,
			Count:         tl.count,
			AverageRating: round2(float64(tl.ratingSum) / float64(tl.count)),
		})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}
