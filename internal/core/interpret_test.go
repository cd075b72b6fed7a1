package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		confidence float64
		tier       string
	}{
		{99.9, TierVeryHigh},
		{90.0, TierVeryHigh},
		{89.9, TierHigh},
		{75.0, TierHigh},
		{74.9, TierModerate},
		{60.0, TierModerate},
		{59.9, TierLow},
		{0.0, TierLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.tier, TierFor(tt.confidence), "confidence %.1f", tt.confidence)
	}
}

func TestInterpretNormalizedScores(t *testing.T) {
	pred, err := Interpret([]float32{0.1, 0.7, 0.2}, 0.042)
	require.NoError(t, err)

	assert.Equal(t, Normal, pred.PredictedClass)
	assert.InDelta(t, 70.0, pred.Confidence, 0.01)
	assert.Equal(t, TierModerate, pred.Tier)
	assert.InDelta(t, 10.0, pred.Probabilities[Adenocarcinoma], 0.01)
	assert.InDelta(t, 20.0, pred.Probabilities[SquamousCellCarcinoma], 0.01)
	assert.Equal(t, 0.042, pred.ElapsedSeconds)
}

func TestInterpretAppliesSoftmaxToLogits(t *testing.T) {
	pred, err := Interpret([]float32{3.2, -1.5, 0.8}, 0)
	require.NoError(t, err)

	assert.Equal(t, Adenocarcinoma, pred.PredictedClass)

	sum := 0.0
	for _, p := range pred.Probabilities {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 100.0)
		sum += p
	}
	assert.InDelta(t, 100.0, sum, 0.1)
}

func TestInterpretProbabilitiesSumTo100(t *testing.T) {
	vectors := [][]float32{
		{0.33, 0.33, 0.34},
		{1.0, 0.0, 0.0},
		{10, 20, 30},
		{-5, 0, 5},
		{0.999, 0.0005, 0.0005},
	}

	for _, scores := range vectors {
		pred, err := Interpret(scores, 0)
		require.NoError(t, err)

		sum := 0.0
		best := pred.Probabilities[pred.PredictedClass]
		for _, p := range pred.Probabilities {
			assert.LessOrEqual(t, p, best, "predicted class must carry the max probability")
			sum += p
		}
		assert.InDelta(t, 100.0, sum, 0.1, "scores %v", scores)
	}
}

func TestInterpretTieBreaksByDeclaredOrder(t *testing.T) {
	// Equal max probabilities: the first declared label wins.
	pred, err := Interpret([]float32{0.4, 0.4, 0.2}, 0)
	require.NoError(t, err)
	assert.Equal(t, Adenocarcinoma, pred.PredictedClass)

	// Identical logits softmax to a uniform distribution.
	pred, err = Interpret([]float32{2, 2, 2}, 0)
	require.NoError(t, err)
	assert.Equal(t, Adenocarcinoma, pred.PredictedClass)
}

func TestInterpretConfidenceOneDecimal(t *testing.T) {
	pred, err := Interpret([]float32{0.7551, 0.1219, 0.123}, 0)
	require.NoError(t, err)
	assert.Equal(t, 75.5, pred.Confidence)
	assert.Equal(t, TierHigh, pred.Tier)
}

func TestInterpretDeterministic(t *testing.T) {
	scores := []float32{1.7, 0.3, -2.1}
	a, err := Interpret(scores, 0)
	require.NoError(t, err)
	b, err := Interpret(scores, 0)
	require.NoError(t, err)

	assert.Equal(t, a.PredictedClass, b.PredictedClass)
	assert.Equal(t, a.Probabilities, b.Probabilities)
}

func TestInterpretRejectsWrongLength(t *testing.T) {
	_, err := Interpret([]float32{0.5, 0.5}, 0)
	assert.Error(t, err)
}
