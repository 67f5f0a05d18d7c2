package evaluation

import (
	"testing"

	"github.com/sentimentiq/backend/internal/models"
)

// These metrics are illustrative; the tests pin the arithmetic, not any claim
// about classifier quality.

func review(rating float64, s models.Sentiment) models.AnalyzedReview {
	return models.AnalyzedReview{Rating: rating, Sentiment: s, Confidence: 0.7}
}

func TestAgrees(t *testing.T) {
	cases := []struct {
		r    models.AnalyzedReview
		want bool
	}{
		{review(5, models.Positive), true},
		{review(4, models.Neutral), false},
		{review(3, models.Neutral), true},
		{review(3, models.Positive), false},
		{review(1, models.Negative), true},
		{review(0, models.Negative), true},
		{review(2.5, models.Negative), false},
		{review(3.5, models.Neutral), false},
	}
	for _, c := range cases {
		if got := Agrees(c.r); got != c.want {
			t.Errorf("Agrees(%.1f, %s): got %v, want %v", c.r.Rating, c.r.Sentiment, got, c.want)
		}
	}
}

func TestSimulateAllAgree(t *testing.T) {
	m := Simulate([]models.AnalyzedReview{
		review(5, models.Positive),
		review(3, models.Neutral),
		review(1, models.Negative),
		review(4, models.Positive),
	})
	if m.Accuracy != 1 {
		t.Errorf("Accuracy: got %.3f, want 1", m.Accuracy)
	}
	if m.Precision != 0.987 {
		t.Errorf("Precision: got %.3f, want 0.987", m.Precision)
	}
	if m.Recall != 1 {
		t.Errorf("Recall: got %.3f, want 1 (capped)", m.Recall)
	}
	if m.F1Score != 0.997 {
		t.Errorf("F1Score: got %.3f, want 0.997", m.F1Score)
	}
}

func TestSimulateFloors(t *testing.T) {
	m := Simulate([]models.AnalyzedReview{
		review(5, models.Negative),
		review(1, models.Positive),
		review(3, models.Positive),
	})
	if m.Accuracy != 0.5 {
		t.Errorf("Accuracy: got %.3f, want floor 0.5", m.Accuracy)
	}
	if m.Precision != 0.487 {
		t.Errorf("Precision: got %.3f, want 0.487", m.Precision)
	}
	if m.Recall != 0.52 {
		t.Errorf("Recall: got %.3f, want floor 0.52", m.Recall)
	}
	if m.F1Score != 0.497 {
		t.Errorf("F1Score: got %.3f, want 0.497", m.F1Score)
	}
}

func TestSimulateEmpty(t *testing.T) {
	m := Simulate(nil)
	if m.Accuracy != 0.5 {
		t.Errorf("Accuracy: got %.3f, want 0.5", m.Accuracy)
	}
	if len(m.ConfusionMatrix) != 3 {
		t.Fatalf("ConfusionMatrix rows: got %d, want 3", len(m.ConfusionMatrix))
	}
}

func TestConfusionMatrix(t *testing.T) {
	got := ConfusionMatrix(models.SentimentCounts{Positive: 100, Neutral: 50, Negative: 40})
	want := [][]int{
		{100, 4, 2},
		{6, 50, 3},
		{3, 5, 40},
	}
	for i := range want {
		if len(got[i]) != 3 {
			t.Fatalf("row %d: got %d columns, want 3", i, len(got[i]))
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Errorf("cell [%d][%d]: got %d, want %d", i, j, got[i][j], want[i][j])
			}
		}
	}
}
