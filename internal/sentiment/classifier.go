// Package sentiment scores review text. The keyword classifier is always
// available; remote backends are wrapped so the keyword classifier answers
// whenever they fail.
package sentiment

import (
	"context"
	"strings"

	"github.com/sentimentiq/backend/internal/models"
)

const (
	neutralConfidence = 0.55
	baseConfidence    = 0.5
	confidenceSpan    = 0.4
)

type Result struct {
	Sentiment  models.Sentiment `json:"sentiment"`
	Confidence float64          `json:"confidence"`
	Backend    string           `json:"backend"`
}

type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
	Name() string
}

// KeywordClassifier counts whitespace tokens that contain a positive or a
// negative cue. A token may count toward both polarities.
type KeywordClassifier struct {
	lexicon Lexicon
}

func NewKeywordClassifier(lexicon Lexicon) *KeywordClassifier {
	return &KeywordClassifier{lexicon: lexicon}
}

func (k *KeywordClassifier) Name() string {
	return "keyword"
}

// Classify never returns an error.
func (k *KeywordClassifier) Classify(_ context.Context, text string) (Result, error) {
	return k.Score(text), nil
}

func (k *KeywordClassifier) Score(text string) Result {
	var posCount, negCount int
	for _, token := range strings.Fields(strings.ToLower(text)) {
		if containsAny(token, k.lexicon.positive) {
			posCount++
		}
		if containsAny(token, k.lexicon.negative) {
			negCount++
		}
	}

	total := posCount + negCount
	if total < 1 {
		total = 1
	}

	result := Result{Backend: k.Name()}
	switch {
	case posCount > negCount:
		result.Sentiment = models.Positive
		result.Confidence = baseConfidence + float64(posCount)/float64(total)*confidenceSpan
	case negCount > posCount:
		result.Sentiment = models.Negative
		result.Confidence = baseConfidence + float64(negCount)/float64(total)*confidenceSpan
	default:
		result.Sentiment = models.Neutral
		result.Confidence = neutralConfidence
	}
	return result
}

// ParseLabel accepts any casing of Positive, Neutral or Negative.
func ParseLabel(label string) (models.Sentiment, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "positive":
		return models.Positive, true
	case "neutral":
		return models.Neutral, true
	case "negative":
		return models.Negative, true
	}
	return "", false
}
