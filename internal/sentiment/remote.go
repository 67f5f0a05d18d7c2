package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sentimentiq/backend/pkg/circuitbreaker"
	"github.com/sentimentiq/backend/pkg/logger"
	"github.com/sentimentiq/backend/pkg/retry"
)

var (
	ErrInvalidResponse = errors.New("invalid prediction response")
	ErrClientRequest   = errors.New("prediction request rejected")
)

// RemoteClassifier calls an external prediction service:
// POST {baseURL}/predict {"review_text": ...} -> {"sentiment": ..., "confidence": ...}.
type RemoteClassifier struct {
	baseURL     string
	httpClient  *http.Client
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

type RemoteOptions struct {
	Timeout     time.Duration
	MaxAttempts int
	HTTPClient  *http.Client
}

type predictRequest struct {
	ReviewText string `json:"review_text"`
}

type predictResponse struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

func NewRemoteClassifier(baseURL string, opts RemoteOptions) *RemoteClassifier {
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = 2
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	cb := circuitbreaker.NewCircuitBreaker("remote-classifier", circuitbreaker.Config{
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		IsFailure: func(err error) bool {
			return !errors.Is(err, ErrClientRequest)
		},
		Logger: logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:    opts.MaxAttempts,
		InitialDelay:   200 * time.Millisecond,
		MaxDelay:       2 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	logger.Info("Remote classifier initialized", zap.String("base_url", baseURL))

	return &RemoteClassifier{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  httpClient,
		cb:          cb,
		retryConfig: retryConfig,
	}
}

func (r *RemoteClassifier) Name() string {
	return "remote"
}

func (r *RemoteClassifier) Classify(ctx context.Context, text string) (Result, error) {
	var result Result
	err := r.cb.Execute(ctx, func() error {
		var err error
		result, err = retry.DoWithResult(ctx, r.retryConfig, func() (Result, error) {
			return r.predict(ctx, text)
		})
		return err
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to classify remotely: %w", err)
	}
	return result, nil
}

func (r *RemoteClassifier) predict(ctx context.Context, text string) (Result, error) {
	body, err := json.Marshal(predictRequest{ReviewText: text})
	if err != nil {
		return Result{}, retry.Permanent(fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return Result{}, retry.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to call prediction service: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return Result{}, retry.Permanent(fmt.Errorf("%w: status %d", ErrClientRequest, resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("prediction service returned status %d", resp.StatusCode)
	}

	var pr predictResponse
	if err := json.Unmarshal(payload, &pr); err != nil {
		return Result{}, retry.Permanent(fmt.Errorf("%w: %v", ErrInvalidResponse, err))
	}

	label, ok := ParseLabel(pr.Sentiment)
	if !ok {
		return Result{}, retry.Permanent(fmt.Errorf("%w: unknown sentiment %q", ErrInvalidResponse, pr.Sentiment))
	}
	if pr.Confidence < 0 || pr.Confidence > 1 {
		return Result{}, retry.Permanent(fmt.Errorf("%w: confidence %v out of range", ErrInvalidResponse, pr.Confidence))
	}

	return Result{Sentiment: label, Confidence: pr.Confidence, Backend: r.Name()}, nil
}
