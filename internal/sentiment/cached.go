package sentiment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sentimentiq/backend/internal/metrics"
	"github.com/sentimentiq/backend/pkg/logger"
	"github.com/sentimentiq/backend/pkg/utils"
)

// PredictionCache stores results by key. A miss is (Result{}, false, nil).
type PredictionCache interface {
	GetPrediction(ctx context.Context, key string) (Result, bool, error)
	SetPrediction(ctx context.Context, key string, result Result, ttl time.Duration) error
}

// CachedClassifier memoizes an expensive backend. Cache failures never fail
// a classification.
type CachedClassifier struct {
	inner Classifier
	cache PredictionCache
	ttl   time.Duration
}

func NewCachedClassifier(inner Classifier, cache PredictionCache, ttl time.Duration) *CachedClassifier {
	return &CachedClassifier{inner: inner, cache: cache, ttl: ttl}
}

func (c *CachedClassifier) Name() string {
	return c.inner.Name()
}

func (c *CachedClassifier) Classify(ctx context.Context, text string) (Result, error) {
	key := utils.CacheKey(c.inner.Name(), text)

	cached, ok, err := c.cache.GetPrediction(ctx, key)
	if err != nil {
		logger.Warn("Prediction cache read failed", zap.Error(err))
	}
	if ok {
		metrics.CacheHits.WithLabelValues("prediction").Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("prediction").Inc()

	result, err := c.inner.Classify(ctx, text)
	if err != nil {
		return Result{}, err
	}

	if err := c.cache.SetPrediction(ctx, key, result, c.ttl); err != nil {
		logger.Warn("Prediction cache write failed", zap.Error(err))
	}
	return result, nil
}
