package exchange

import (
	"gonum.org/v1/gonum/floats"
)

// Rebalance scales the outgoing fractions of one producer so that they never
// add up to more than 1. Fractions that already sum to at most 1 are returned
// unchanged. The input slice is not modified.
func Rebalance(fractions []float64) []float64 {
	out := append([]float64(nil), fractions...)

	total := floats.Sum(out)
	if total > 1 {
		floats.Scale(1/total, out)
	}

	return out
}
