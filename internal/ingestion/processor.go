// Package ingestion parses uploaded review CSVs and runs them through
// classification and aggregation.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sentimentiq/backend/internal/analytics"
	"github.com/sentimentiq/backend/internal/metrics"
	"github.com/sentimentiq/backend/internal/models"
	"github.com/sentimentiq/backend/internal/sentiment"
	"github.com/sentimentiq/backend/pkg/logger"
)

// ErrNoValidRows means the input had no data row matching its header.
var ErrNoValidRows = errors.New("no valid rows")

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

type Processor struct {
	classifier sentiment.Classifier
	lexicon    sentiment.Lexicon
}

type Result struct {
	Reviews   []models.AnalyzedReview
	Dashboard *models.DashboardData
	Columns   models.ResolvedColumns
	Stats     ParseStats
}

// NewProcessor classifies with classifier and extracts keywords with lexicon.
func NewProcessor(classifier sentiment.Classifier, lexicon sentiment.Lexicon) *Processor {
	return &Processor{
		classifier: classifier,
		lexicon:    lexicon,
	}
}

// Process analyses one CSV end to end. Rows are classified sequentially; a
// failed run produces no partial dashboard.
func (p *Processor) Process(ctx context.Context, text string) (*Result, error) {
	start := time.Now()

	records, stats := ParseCSVStats(text)
	metrics.RowsParsed.Add(float64(stats.Accepted))
	metrics.RowsDropped.Add(float64(stats.Dropped))

	if len(records) == 0 {
		logger.Warn("CSV contained no valid rows",
			zap.Int("dropped", stats.Dropped),
			zap.Strings("columns", stats.Columns),
		)
		return nil, ErrNoValidRows
	}

	columns := ResolveColumns(stats.Columns)

	logger.Debug("Columns resolved",
		zap.String("review_text", columns.ReviewText),
		zap.String("product", columns.Product),
		zap.String("date", columns.Date),
		zap.String("rating", columns.Rating),
	)

	reviews := make([]models.AnalyzedReview, 0, len(records))
	for i, record := range records {
		review, err := p.analyze(ctx, record, columns)
		if err != nil {
			return nil, fmt.Errorf("failed to classify row %d: %w", i+1, err)
		}
		if review.ReviewID == "" {
			review.ReviewID = strconv.Itoa(i + 1)
		}
		reviews = append(reviews, review)
	}

	dashboard := analytics.Aggregate(reviews, p.lexicon)

	logger.Info("CSV processed",
		zap.Int("reviews", len(reviews)),
		zap.Int("dropped", stats.Dropped),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Result{
		Reviews:   reviews,
		Dashboard: dashboard,
		Columns:   columns,
		Stats:     stats,
	}, nil
}

func (p *Processor) analyze(ctx context.Context, record models.RawRecord, columns models.ResolvedColumns) (models.AnalyzedReview, error) {
	text := record[columns.ReviewText]

	result, err := p.classifier.Classify(ctx, text)
	if err != nil {
		return models.AnalyzedReview{}, err
	}

	var id string
	if columns.ReviewID != "" {
		id = record[columns.ReviewID]
	}

	return models.AnalyzedReview{
		ReviewID:   id,
		Product:    record[columns.Product],
		ReviewText: text,
		Date:       record[columns.Date],
		Rating:     ParseRating(record[columns.Rating]),
		Sentiment:  result.Sentiment,
		Confidence: result.Confidence,
		Backend:    result.Backend,
	}, nil
}

// ParseRating reads the leading number of s ("4.5 stars" is 4.5) and returns
// 0 when there is none.
func ParseRating(s string) float64 {
	match := leadingNumber.FindString(strings.TrimSpace(s))
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return v
}
