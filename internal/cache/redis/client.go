package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sentimentiq/backend/internal/sentiment"
	"github.com/sentimentiq/backend/pkg/logger"
)

type Client struct {
	client *redis.Client
}

func NewClient(host string, port int, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return NewFromClient(client), nil
}

// NewFromClient wraps an existing connection without pinging it.
func NewFromClient(client *redis.Client) *Client {
	return &Client{client: client}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func predictionKey(key string) string {
	return fmt.Sprintf("prediction:%s", key)
}

func (c *Client) SetPrediction(ctx context.Context, key string, result sentiment.Result, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal prediction: %w", err)
	}

	if err := c.client.Set(ctx, predictionKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set prediction cache: %w", err)
	}

	logger.Debug("Prediction cached", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (c *Client) GetPrediction(ctx context.Context, key string) (sentiment.Result, bool, error) {
	var result sentiment.Result

	data, err := c.client.Get(ctx, predictionKey(key)).Bytes()
	if err == redis.Nil {
		return result, false, nil
	}
	if err != nil {
		return result, false, fmt.Errorf("failed to get prediction cache: %w", err)
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return result, false, fmt.Errorf("failed to unmarshal prediction: %w", err)
	}

	logger.Debug("Prediction cache hit", zap.String("key", key))
	return result, true, nil
}

// InvalidatePredictions drops every cached prediction, e.g. after the lexicon
// or the remote model changes.
func (c *Client) InvalidatePredictions(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, predictionKey("*"), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warn("Failed to delete cache key", zap.Error(err))
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to iterate cache keys: %w", err)
	}

	logger.Info("Prediction cache invalidated")
	return nil
}

const predictionFingerprintKey = "meta:prediction_fingerprint"

// SyncPredictionFingerprint clears cached predictions when fingerprint differs
// from the one stored by the previous run, then stores it. It reports whether
// the cache was cleared.
func (c *Client) SyncPredictionFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	stored, err := c.client.Get(ctx, predictionFingerprintKey).Result()
	if err != nil && err != redis.Nil {
		return false, fmt.Errorf("failed to read prediction fingerprint: %w", err)
	}
	if stored == fingerprint {
		return false, nil
	}

	if err := c.InvalidatePredictions(ctx); err != nil {
		return false, err
	}
	if err := c.client.Set(ctx, predictionFingerprintKey, fingerprint, 0).Err(); err != nil {
		return true, fmt.Errorf("failed to store prediction fingerprint: %w", err)
	}

	logger.Info("Prediction cache reset for new classifier settings", zap.String("fingerprint", fingerprint))
	return true, nil
}

func (c *Client) IncrementMetric(ctx context.Context, metricName string) error {
	return c.client.Incr(ctx, fmt.Sprintf("metric:%s", metricName)).Err()
}

func (c *Client) GetMetric(ctx context.Context, metricName string) (int64, error) {
	val, err := c.client.Get(ctx, fmt.Sprintf("metric:%s", metricName)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}
