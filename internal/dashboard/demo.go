package dashboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/sentimentiq/backend/internal/analytics"
	"github.com/sentimentiq/backend/internal/models"
)

const DemoSource = "demo"

// DemoData is the sample dashboard shown before the first upload. It carries
// no individual reviews.
func DemoData() *models.DashboardData {
	distribution := []models.DistributionBucket{
		{Label: models.Positive, Count: 1652, Percentage: 58},
		{Label: models.Neutral, Count: 598, Percentage: 21},
		{Label: models.Negative, Count: 597, Percentage: 21},
	}
	score, label := analytics.Gauge(distribution)

	return &models.DashboardData{
		TotalReviews:          2847,
		SentimentDistribution: distribution,
		ProductBreakdown: []models.ProductRow{
			{Product: "Wireless Earbuds Pro", SentimentCounts: counts(312, 89, 45)},
			{Product: "Smart Watch X3", SentimentCounts: counts(278, 102, 67)},
			{Product: "Laptop Stand Deluxe", SentimentCounts: counts(245, 56, 34)},
			{Product: "USB-C Hub Ultra", SentimentCounts: counts(198, 78, 112)},
			{Product: "Noise Cancelling Headset", SentimentCounts: counts(342, 67, 41)},
			{Product: "Portable Charger 20K", SentimentCounts: counts(277, 206, 298)},
		},
		TrendData: []models.TrendRow{
			{Date: "Jan", SentimentCounts: counts(120, 45, 35)},
			{Date: "Feb", SentimentCounts: counts(145, 52, 42)},
			{Date: "Mar", SentimentCounts: counts(132, 48, 55)},
			{Date: "Apr", SentimentCounts: counts(168, 61, 38)},
			{Date: "May", SentimentCounts: counts(178, 55, 44)},
			{Date: "Jun", SentimentCounts: counts(195, 63, 51)},
			{Date: "Jul", SentimentCounts: counts(210, 58, 47)},
			{Date: "Aug", SentimentCounts: counts(188, 72, 62)},
			{Date: "Sep", SentimentCounts: counts(225, 49, 39)},
			{Date: "Oct", SentimentCounts: counts(240, 55, 48)},
			{Date: "Nov", SentimentCounts: counts(262, 68, 52)},
			{Date: "Dec", SentimentCounts: counts(289, 72, 84)},
		},
		TopNegativeKeywords: []models.KeywordCount{
			{Word: "broken", Count: 87},
			{Word: "defective", Count: 72},
			{Word: "slow", Count: 65},
			{Word: "overpriced", Count: 58},
			{Word: "disappointing", Count: 52},
			{Word: "poor quality", Count: 48},
			{Word: "malfunction", Count: 41},
			{Word: "uncomfortable", Count: 38},
		},
		TopPositiveKeywords: []models.KeywordCount{
			{Word: "excellent", Count: 234},
			{Word: "amazing", Count: 198},
			{Word: "perfect", Count: 176},
			{Word: "love it", Count: 165},
			{Word: "great value", Count: 142},
			{Word: "comfortable", Count: 128},
			{Word: "fast shipping", Count: 112},
			{Word: "recommend", Count: 98},
		},
		ModelMetrics: models.ModelMetrics{
			Accuracy:  0.874,
			Precision: 0.861,
			Recall:    0.882,
			F1Score:   0.871,
			ConfusionMatrix: [][]int{
				{482, 28, 12},
				{35, 178, 19},
				{18, 22, 206},
			},
		},
		ConfidenceDistribution: []models.ConfidenceBucket{},
		RatingVsSentiment:      []models.RatingRow{},
		SentimentSummary:       []models.SentimentSummary{},
		SentimentScore:         score,
		SentimentLabel:         label,
	}
}

func DemoSnapshot() *models.Snapshot {
	return &models.Snapshot{
		ID:        uuid.New().String(),
		Source:    DemoSource,
		CreatedAt: time.Now().UTC(),
		Dashboard: DemoData(),
	}
}

func counts(positive, neutral, negative int) models.SentimentCounts {
	return models.SentimentCounts{Positive: positive, Neutral: neutral, Negative: negative}
}
