package sentiment

import (
	"strings"

	"github.com/sentimentiq/backend/internal/models"
)

var defaultPositive = []string{
	"great", "excellent", "amazing", "love", "perfect", "wonderful", "fantastic", "best", "awesome", "good",
	"happy", "recommend", "quality", "comfortable", "fast", "beautiful", "impressive", "reliable", "solid", "worth",
	"nice", "easy", "sturdy", "durable", "smooth", "superb", "satisfied", "pleased", "favorite", "brilliant",
}

var defaultNegative = []string{
	"bad", "terrible", "awful", "hate", "worst", "broken", "defective", "poor", "disappointing", "slow",
	"waste", "horrible", "cheap", "uncomfortable", "useless", "overpriced", "malfunction", "damaged", "refund", "never",
	"flimsy", "faulty", "junk", "annoying", "leak", "noisy", "unhappy", "fake", "stopped", "returned",
}

// Lexicon holds the cue substrings for each polarity. The zero value matches nothing.
// A Lexicon is never mutated after construction; accessors return copies.
type Lexicon struct {
	positive []string
	negative []string
}

// NewLexicon lowercases and copies the cue lists, dropping blanks.
func NewLexicon(positive, negative []string) Lexicon {
	return Lexicon{
		positive: normalizeCues(positive),
		negative: normalizeCues(negative),
	}
}

func DefaultLexicon() Lexicon {
	return NewLexicon(defaultPositive, defaultNegative)
}

func normalizeCues(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

func (l Lexicon) Positive() []string {
	return append([]string(nil), l.positive...)
}

func (l Lexicon) Negative() []string {
	return append([]string(nil), l.negative...)
}

// Words returns the cue list for a polarity; Neutral has none.
func (l Lexicon) Words(s models.Sentiment) []string {
	switch s {
	case models.Positive:
		return l.Positive()
	case models.Negative:
		return l.Negative()
	}
	return nil
}

func containsAny(token string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(token, cue) {
			return true
		}
	}
	return false
}
