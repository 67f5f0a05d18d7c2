package models

import "time"

type Sentiment string

const (
	Positive Sentiment = "Positive"
	Neutral  Sentiment = "Neutral"
	Negative Sentiment = "Negative"
)

// Sentiments lists the labels in dashboard order.
var Sentiments = []Sentiment{Positive, Neutral, Negative}

// RawRecord maps a lowercased header name to the row's value.
type RawRecord map[string]string

type ResolvedColumns struct {
	// ReviewID is empty when the header has no id column.
	ReviewID   string `json:"review_id,omitempty"`
	ReviewText string `json:"review_text"`
	Product    string `json:"product"`
	Date       string `json:"date"`
	Rating     string `json:"rating"`
}

type AnalyzedReview struct {
	ReviewID   string    `json:"review_id"`
	Product    string    `json:"product_name"`
	ReviewText string    `json:"review_text"`
	Date       string    `json:"review_date"`
	Rating     float64   `json:"rating"`
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"`
	Backend    string    `json:"model_used,omitempty"`
}

type DistributionBucket struct {
	Label      Sentiment `json:"label"`
	Count      int       `json:"count"`
	Percentage int       `json:"percentage"`
}

// SentimentCounts is embedded by every per-group row the charts consume.
type SentimentCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

func (c *SentimentCounts) Add(s Sentiment) {
	switch s {
	case Positive:
		c.Positive++
	case Neutral:
		c.Neutral++
	case Negative:
		c.Negative++
	}
}

func (c SentimentCounts) Total() int {
	return c.Positive + c.Neutral + c.Negative
}

type ProductRow struct {
	Product string `json:"product"`
	SentimentCounts
}

type TrendRow struct {
	Date string `json:"date"`
	SentimentCounts
}

type RatingRow struct {
	Rating int `json:"rating"`
	SentimentCounts
}

type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type ConfidenceBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type SentimentSummary struct {
	Label         Sentiment `json:"label"`
	Count         int       `json:"count"`
	AvgRating     float64   `json:"avg_rating"`
	AvgConfidence float64   `json:"avg_confidence"`
}

// ModelMetrics are derived from rating/sentiment agreement. They are illustrative,
// not the evaluation of a trained model.
type ModelMetrics struct {
	Accuracy        float64 `json:"accuracy"`
	Precision       float64 `json:"precision"`
	Recall          float64 `json:"recall"`
	F1Score         float64 `json:"f1_score"`
	ConfusionMatrix [][]int `json:"confusion_matrix"`
}

type DashboardData struct {
	TotalReviews           int                  `json:"total_reviews"`
	SentimentDistribution  []DistributionBucket `json:"sentiment_distribution"`
	ProductBreakdown       []ProductRow         `json:"product_breakdown"`
	TrendData              []TrendRow           `json:"trend_data"`
	TopNegativeKeywords    []KeywordCount       `json:"top_negative_keywords"`
	TopPositiveKeywords    []KeywordCount       `json:"top_positive_keywords"`
	ModelMetrics           ModelMetrics         `json:"model_metrics"`
	ConfidenceDistribution []ConfidenceBucket   `json:"confidence_distribution"`
	RatingVsSentiment      []RatingRow          `json:"rating_vs_sentiment"`
	SentimentSummary       []SentimentSummary   `json:"sentiment_summary"`
	SentimentScore         float64              `json:"sentiment_score"`
	SentimentLabel         string               `json:"sentiment_label"`
}

// Snapshot is one complete analysis; uploads replace it, never merge into it.
type Snapshot struct {
	ID          string           `json:"id"`
	Source      string           `json:"source"`
	CreatedAt   time.Time        `json:"created_at"`
	RowsDropped int              `json:"rows_dropped"`
	Columns     ResolvedColumns  `json:"columns"`
	Dashboard   *DashboardData   `json:"dashboard"`
	Reviews     []AnalyzedReview `json:"-"`
}
