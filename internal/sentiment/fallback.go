package sentiment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sentimentiq/backend/internal/metrics"
	"github.com/sentimentiq/backend/pkg/logger"
)

// FallbackClassifier asks the primary backend first and answers with the
// keyword classifier when it fails. A result always comes from exactly one
// of the two.
type FallbackClassifier struct {
	primary Classifier
	local   *KeywordClassifier
}

func NewFallbackClassifier(primary Classifier, local *KeywordClassifier) *FallbackClassifier {
	return &FallbackClassifier{primary: primary, local: local}
}

func (f *FallbackClassifier) Name() string {
	return f.primary.Name() + "+" + f.local.Name()
}

func (f *FallbackClassifier) Classify(ctx context.Context, text string) (Result, error) {
	result, err := f.primary.Classify(ctx, text)
	if err == nil {
		return result, nil
	}

	logger.Warn("Primary classifier failed, using keyword classifier",
		zap.String("primary", f.primary.Name()),
		zap.Error(err),
	)
	metrics.ClassifierFallbacks.WithLabelValues(f.primary.Name()).Inc()

	return f.local.Score(text), nil
}

// Instrumented records latency and outcome metrics around a classifier.
type Instrumented struct {
	inner Classifier
}

func NewInstrumented(inner Classifier) *Instrumented {
	return &Instrumented{inner: inner}
}

func (i *Instrumented) Name() string {
	return i.inner.Name()
}

func (i *Instrumented) Classify(ctx context.Context, text string) (Result, error) {
	start := time.Now()
	result, err := i.inner.Classify(ctx, text)
	if err != nil {
		return result, err
	}

	metrics.ClassifyDuration.WithLabelValues(result.Backend).Observe(time.Since(start).Seconds())
	metrics.PredictionsTotal.WithLabelValues(result.Backend, string(result.Sentiment)).Inc()
	metrics.ConfidenceScore.Observe(result.Confidence)
	return result, nil
}
