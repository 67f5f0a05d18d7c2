// Package evaluation produces the dashboard's "model metrics".
//
// The numbers are illustrative only. Accuracy is the share of reviews whose
// keyword sentiment agrees with a rule derived from the star rating; the other
// scores are fixed offsets from it, and the confusion matrix is synthesized
// from sentiment counts with constant coefficients. Nothing here is the
// evaluation of a trained classifier against labelled ground truth.
package evaluation

import (
	"math"

	"github.com/sentimentiq/backend/internal/models"
)

const (
	accuracyFloor  = 0.5
	precisionFloor = 0.48
	recallFloor    = 0.52
	f1Floor        = 0.49

	precisionOffset = -0.013
	recallOffset    = 0.008
	f1Offset        = -0.003
)

// Off-diagonal coefficients of the synthesized confusion matrix, indexed
// [row][column] over Positive, Neutral, Negative. Each off-diagonal cell is
// the column's sentiment count scaled by its coefficient.
var confusionCoefficients = [3][3]float64{
	{0, 0.08, 0.05},
	{0.06, 0, 0.07},
	{0.03, 0.10, 0},
}

// Agrees reports whether a review's sentiment matches its star rating:
// 4+ stars Positive, exactly 3 Neutral, 2 or fewer Negative.
func Agrees(r models.AnalyzedReview) bool {
	switch {
	case r.Rating >= 4:
		return r.Sentiment == models.Positive
	case r.Rating == 3:
		return r.Sentiment == models.Neutral
	case r.Rating <= 2:
		return r.Sentiment == models.Negative
	}
	return false
}

// Simulate derives illustrative metrics from rating agreement.
func Simulate(reviews []models.AnalyzedReview) models.ModelMetrics {
	var agreed int
	var counts models.SentimentCounts
	for _, r := range reviews {
		if Agrees(r) {
			agreed++
		}
		counts.Add(r.Sentiment)
	}

	accuracy := accuracyFloor
	if len(reviews) > 0 {
		accuracy = math.Max(float64(agreed)/float64(len(reviews)), accuracyFloor)
	}

	return models.ModelMetrics{
		Accuracy:        round3(accuracy),
		Precision:       round3(bounded(accuracy+precisionOffset, precisionFloor)),
		Recall:          round3(bounded(accuracy+recallOffset, recallFloor)),
		F1Score:         round3(bounded(accuracy+f1Offset, f1Floor)),
		ConfusionMatrix: ConfusionMatrix(counts),
	}
}

// ConfusionMatrix synthesizes a 3x3 grid: the diagonal holds each sentiment's
// count, off-diagonal cells are scaled counts. Illustrative only.
func ConfusionMatrix(counts models.SentimentCounts) [][]int {
	column := [3]int{counts.Positive, counts.Neutral, counts.Negative}

	matrix := make([][]int, 3)
	for i := range matrix {
		matrix[i] = make([]int, 3)
		for j := range matrix[i] {
			if i == j {
				matrix[i][j] = column[j]
				continue
			}
			matrix[i][j] = int(math.Round(float64(column[j]) * confusionCoefficients[i][j]))
		}
	}
	return matrix
}

func bounded(v, floor float64) float64 {
	return math.Min(math.Max(v, floor), 1)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
