// Package llm classifies review sentiment with a chat-completion model.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/sentimentiq/backend/internal/sentiment"
	"github.com/sentimentiq/backend/pkg/circuitbreaker"
	"github.com/sentimentiq/backend/pkg/logger"
	"github.com/sentimentiq/backend/pkg/retry"
)

var (
	ErrEmptyCompletion = errors.New("completion returned no choices")
	ErrBadVerdict      = errors.New("completion is not a sentiment verdict")
)

const systemPrompt = `You label the sentiment of e-commerce product reviews.
Answer with a single JSON object and nothing else:
{"sentiment": "Positive" | "Neutral" | "Negative", "confidence": <number between 0 and 1>}`

type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

type Options struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	// BaseURL overrides the API endpoint, e.g. for a compatible gateway.
	BaseURL string
}

type verdict struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

func NewClient(opts Options) *Client {
	clientConfig := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		clientConfig.BaseURL = opts.BaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 60
	}

	cb := circuitbreaker.NewCircuitBreaker("llm", circuitbreaker.Config{
		MaxRequests:      5,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		IsFailure: func(err error) bool {
			return !errors.Is(err, ErrBadVerdict)
		},
		Logger: logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:    3,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	logger.Info("LLM classifier initialized", zap.String("model", opts.Model))

	return &Client{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		timeout:     opts.Timeout,
		cb:          cb,
		retryConfig: retryConfig,
	}
}

func (c *Client) Name() string {
	return "openai"
}

func (c *Client) Classify(ctx context.Context, text string) (sentiment.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: text,
		},
	}

	var result sentiment.Result

	err := c.cb.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryConfig, func() error {
			resp, err := c.client.CreateChatCompletion(
				ctx,
				openai.ChatCompletionRequest{
					Model:       c.model,
					Messages:    messages,
					Temperature: c.temperature,
					MaxTokens:   c.maxTokens,
				},
			)
			if err != nil {
				return fmt.Errorf("failed to create completion: %w", err)
			}
			if len(resp.Choices) == 0 {
				return ErrEmptyCompletion
			}

			logger.Debug("LLM verdict generated",
				zap.Int("prompt_tokens", resp.Usage.PromptTokens),
				zap.Int("completion_tokens", resp.Usage.CompletionTokens),
			)

			parsed, err := parseVerdict(resp.Choices[0].Message.Content)
			if err != nil {
				return retry.Permanent(err)
			}
			parsed.Backend = c.Name()
			result = parsed
			return nil
		})
	})
	if err != nil {
		return sentiment.Result{}, err
	}

	return result, nil
}

func parseVerdict(content string) (sentiment.Result, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var v verdict
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &v); err != nil {
		return sentiment.Result{}, fmt.Errorf("%w: %v", ErrBadVerdict, err)
	}

	label, ok := sentiment.ParseLabel(v.Sentiment)
	if !ok {
		return sentiment.Result{}, fmt.Errorf("%w: unknown sentiment %q", ErrBadVerdict, v.Sentiment)
	}

	confidence := v.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return sentiment.Result{Sentiment: label, Confidence: confidence}, nil
}
