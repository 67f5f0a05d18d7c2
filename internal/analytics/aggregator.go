// Package analytics turns classified reviews into the chart-ready summaries
// the dashboard renders.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/sentimentiq/backend/internal/evaluation"
	"github.com/sentimentiq/backend/internal/models"
	"github.com/sentimentiq/backend/internal/sentiment"
)

const (
	MaxProducts  = 8
	MaxKeywords  = 10
	UnknownMonth = "Unknown"

	unknownMonthIndex = 99
	mixedLabel        = "Mixed"
	gaugeThreshold    = 25.0
)

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var confidenceBuckets = []struct {
	label    string
	min, max float64
}{
	{"50-60%", 0.5, 0.6},
	{"60-70%", 0.6, 0.7},
	{"70-80%", 0.7, 0.8},
	{"80-90%", 0.8, 0.9},
	{"90-100%", 0.9, 1.01},
}

// Aggregate computes the full dashboard for reviews. It is recomputed from
// scratch on every call.
func Aggregate(reviews []models.AnalyzedReview, lexicon sentiment.Lexicon) *models.DashboardData {
	distribution := Distribution(reviews)
	score, label := Gauge(distribution)

	return &models.DashboardData{
		TotalReviews:           len(reviews),
		SentimentDistribution:  distribution,
		ProductBreakdown:       ProductBreakdown(reviews),
		TrendData:              Trend(reviews),
		TopNegativeKeywords:    Keywords(reviews, models.Negative, lexicon.Negative()),
		TopPositiveKeywords:    Keywords(reviews, models.Positive, lexicon.Positive()),
		ModelMetrics:           evaluation.Simulate(reviews),
		ConfidenceDistribution: ConfidenceHistogram(reviews),
		RatingVsSentiment:      RatingVsSentiment(reviews),
		SentimentSummary:       Summaries(reviews),
		SentimentScore:         score,
		SentimentLabel:         label,
	}
}

// Distribution counts reviews per label in Positive, Neutral, Negative order.
func Distribution(reviews []models.AnalyzedReview) []models.DistributionBucket {
	var counts models.SentimentCounts
	for _, r := range reviews {
		counts.Add(r.Sentiment)
	}

	total := len(reviews)
	buckets := make([]models.DistributionBucket, 0, len(models.Sentiments))
	for _, s := range models.Sentiments {
		count := countFor(counts, s)
		buckets = append(buckets, models.DistributionBucket{
			Label:      s,
			Count:      count,
			Percentage: percentage(count, total),
		})
	}
	return buckets
}

// ProductBreakdown groups by exact product name and keeps the MaxProducts
// products with the most reviews. Ties keep first-seen order.
func ProductBreakdown(reviews []models.AnalyzedReview) []models.ProductRow {
	index := make(map[string]int)
	var rows []models.ProductRow

	for _, r := range reviews {
		i, ok := index[r.Product]
		if !ok {
			i = len(rows)
			index[r.Product] = i
			rows = append(rows, models.ProductRow{Product: r.Product})
		}
		rows[i].Add(r.Sentiment)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total() > rows[j].Total()
	})

	if len(rows) > MaxProducts {
		rows = rows[:MaxProducts]
	}
	return rows
}

// Trend buckets reviews by calendar month, Jan through Dec, with reviews whose
// date does not parse collected under UnknownMonth at the end.
func Trend(reviews []models.AnalyzedReview) []models.TrendRow {
	buckets := make(map[int]*models.TrendRow)

	for _, r := range reviews {
		idx := MonthIndex(r.Date)
		row, ok := buckets[idx]
		if !ok {
			row = &models.TrendRow{Date: monthLabel(idx)}
			buckets[idx] = row
		}
		row.Add(r.Sentiment)
	}

	indexes := make([]int, 0, len(buckets))
	for idx := range buckets {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	rows := make([]models.TrendRow, 0, len(indexes))
	for _, idx := range indexes {
		rows = append(rows, *buckets[idx])
	}
	return rows
}

// MonthIndex returns 0 for January through 11 for December, or 99 when the
// date is empty or unparsable. A value without any digit is never a date.
func MonthIndex(date string) int {
	date = strings.TrimSpace(date)
	if !strings.ContainsAny(date, "0123456789") {
		return unknownMonthIndex
	}
	t, err := dateparse.ParseIn(date, time.UTC)
	if err != nil {
		return unknownMonthIndex
	}
	return int(t.Month()) - 1
}

func monthLabel(idx int) string {
	if idx >= 0 && idx < len(monthLabels) {
		return monthLabels[idx]
	}
	return UnknownMonth
}

// Keywords counts, over reviews labelled polarity, how many review texts
// contain each cue word anywhere. Zero counts are omitted; ties keep cue order.
func Keywords(reviews []models.AnalyzedReview, polarity models.Sentiment, words []string) []models.KeywordCount {
	counts := make([]int, len(words))
	for _, r := range reviews {
		if r.Sentiment != polarity {
			continue
		}
		text := strings.ToLower(r.ReviewText)
		for i, w := range words {
			if strings.Contains(text, w) {
				counts[i]++
			}
		}
	}

	result := make([]models.KeywordCount, 0, len(words))
	for i, w := range words {
		if counts[i] > 0 {
			result = append(result, models.KeywordCount{Word: w, Count: counts[i]})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	if len(result) > MaxKeywords {
		result = result[:MaxKeywords]
	}
	return result
}

// ConfidenceHistogram buckets confidences in 10-point bands from 50% upward.
// Confidences below 0.5 are not counted.
func ConfidenceHistogram(reviews []models.AnalyzedReview) []models.ConfidenceBucket {
	result := make([]models.ConfidenceBucket, len(confidenceBuckets))
	for i, b := range confidenceBuckets {
		result[i].Range = b.label
	}

	for _, r := range reviews {
		for i, b := range confidenceBuckets {
			if r.Confidence >= b.min && r.Confidence < b.max {
				result[i].Count++
				break
			}
		}
	}
	return result
}

// RatingVsSentiment cross-tabulates star ratings 1 through 5 with sentiment.
// Ratings are rounded to the nearest star; anything outside 1..5 is skipped.
func RatingVsSentiment(reviews []models.AnalyzedReview) []models.RatingRow {
	rows := make([]models.RatingRow, 5)
	for i := range rows {
		rows[i].Rating = i + 1
	}

	for _, r := range reviews {
		star := int(math.Round(r.Rating))
		if star < 1 || star > 5 {
			continue
		}
		rows[star-1].Add(r.Sentiment)
	}
	return rows
}

// Summaries reports count, mean rating and mean confidence per sentiment.
func Summaries(reviews []models.AnalyzedReview) []models.SentimentSummary {
	type acc struct {
		count      int
		rating     float64
		confidence float64
	}
	sums := make(map[models.Sentiment]*acc, len(models.Sentiments))
	for _, s := range models.Sentiments {
		sums[s] = &acc{}
	}

	for _, r := range reviews {
		a, ok := sums[r.Sentiment]
		if !ok {
			continue
		}
		a.count++
		a.rating += r.Rating
		a.confidence += r.Confidence
	}

	result := make([]models.SentimentSummary, 0, len(models.Sentiments))
	for _, s := range models.Sentiments {
		a := sums[s]
		summary := models.SentimentSummary{Label: s, Count: a.count}
		if a.count > 0 {
			summary.AvgRating = roundTo(a.rating/float64(a.count), 1)
			summary.AvgConfidence = roundTo(a.confidence/float64(a.count), 3)
		}
		result = append(result, summary)
	}
	return result
}

// Gauge maps the positive/negative balance onto a whole number in 0..100
// (50 is balanced) and labels it Positive, Negative or Mixed.
func Gauge(distribution []models.DistributionBucket) (float64, string) {
	var pos, neg, total int
	for _, b := range distribution {
		total += b.Count
		switch b.Label {
		case models.Positive:
			pos = b.Count
		case models.Negative:
			neg = b.Count
		}
	}

	var raw float64
	if total > 0 {
		raw = float64(pos-neg) / float64(total) * 100
	}
	raw = math.Max(-100, math.Min(100, raw))

	label := mixedLabel
	switch {
	case raw > gaugeThreshold:
		label = string(models.Positive)
	case raw < -gaugeThreshold:
		label = string(models.Negative)
	}
	return math.Round((raw + 100) / 2), label
}

func countFor(c models.SentimentCounts, s models.Sentiment) int {
	switch s {
	case models.Positive:
		return c.Positive
	case models.Neutral:
		return c.Neutral
	case models.Negative:
		return c.Negative
	}
	return 0
}

func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
