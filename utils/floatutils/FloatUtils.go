// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip[T constraints.Float](value, min, max T) T {
	if value > max {
		value = max
	}
	if value < min {
		value = min
	}
	return value
}

// Softmax computes the softmax of a slice of logits, returning a new
// slice of probabilities. The maximum logit is subtracted before
// exponentiating, so any finite input yields finite probabilities
// which sum to 1.
func Softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return nil
	}

	max := floats.Max(logits)
	probs := make([]float64, len(logits))

	var sum float64
	for i, l := range logits {
		probs[i] = math.Exp(l - max)
		sum += probs[i]
	}
	floats.Scale(1/sum, probs)

	return probs
}
