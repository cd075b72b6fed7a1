package core

import (
	"fmt"
	"math"
)

// How far a raw score vector may drift from summing to 1 and still be
// treated as a probability distribution.
const distributionTolerance = 1e-3

// Confidence tiers, inclusive on the lower bound.
const (
	TierVeryHigh = "Very High"
	TierHigh     = "High"
	TierModerate = "Moderate"
	TierLow      = "Low"
)

// Prediction is the interpreted result of one inference call. Immutable once
// built.
type Prediction struct {
	PredictedClass ClassLabel
	Confidence     float64
	Tier           string
	Probabilities  map[ClassLabel]float64
	ElapsedSeconds float64
}

// Interpret converts a raw score vector into a Prediction. The invoker makes
// no distribution guarantee, so normalization happens here in one place: a
// vector that already sums to ~1 is renormalized exactly, anything else goes
// through softmax. Ties on the maximum probability are broken by declared
// label order.
func Interpret(scores []float32, elapsedSeconds float64) (*Prediction, error) {
	if len(scores) != len(classLabels) {
		return nil, fmt.Errorf("expected %d class scores, got %d", len(classLabels), len(scores))
	}

	probs := normalize(scores)

	maxIdx := 0
	for i, p := range probs {
		if p > probs[maxIdx] {
			maxIdx = i
		}
	}

	probabilities := make(map[ClassLabel]float64, len(classLabels))
	for i, label := range classLabels {
		probabilities[label] = round2(probs[i] * 100)
	}

	confidence := round1(probs[maxIdx] * 100)

	return &Prediction{
		PredictedClass: classLabels[maxIdx],
		Confidence:     confidence,
		Tier:           TierFor(confidence),
		Probabilities:  probabilities,
		ElapsedSeconds: elapsedSeconds,
	}, nil
}

// TierFor maps a confidence percentage onto its tier.
func TierFor(confidence float64) string {
	switch {
	case confidence >= 90:
		return TierVeryHigh
	case confidence >= 75:
		return TierHigh
	case confidence >= 60:
		return TierModerate
	default:
		return TierLow
	}
}

func normalize(scores []float32) []float64 {
	sum := 0.0
	for _, s := range scores {
		sum += float64(s)
	}

	probs := make([]float64, len(scores))
	if math.Abs(sum-1) <= distributionTolerance && allInUnitRange(scores) {
		for i, s := range scores {
			probs[i] = float64(s) / sum
		}
		return probs
	}

	// Stable softmax: shift by the max score before exponentiating.
	maxScore := float64(scores[0])
	for _, s := range scores[1:] {
		if float64(s) > maxScore {
			maxScore = float64(s)
		}
	}
	expSum := 0.0
	for i, s := range scores {
		probs[i] = math.Exp(float64(s) - maxScore)
		expSum += probs[i]
	}
	for i := range probs {
		probs[i] /= expSum
	}
	return probs
}

func allInUnitRange(scores []float32) bool {
	for _, s := range scores {
		if s < 0 || s > 1 {
			return false
		}
	}
	return true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
