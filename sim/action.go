package sim

import (
	"fmt"
	"math"
)

// EdgeID identifies a directed producer to consumer transfer of one kind.
type EdgeID struct {
	Kind     Kind
	Producer string
	Consumer string
}

// String returns the action name of the edge, e.g.
// "electric_grid_to_battery".
func (e EdgeID) String() string {
	return e.Kind.String() + "_" + e.Producer + "_to_" + e.Consumer
}

// ActionVector maps action names to values. Edge actions are fractions in
// [0, 1]; module actions are interpreted by the module that declares them.
type ActionVector map[string]float64

// Value returns the raw value of the named action, or 0 if absent.
func (a ActionVector) Value(name string) float64 {
	return a[name]
}

// Fraction returns the named action clamped into [0, 1]. Missing and NaN
// entries read as 0.
func (a ActionVector) Fraction(name string) float64 {
	return ClampFraction(a[name])
}

// Flatten lays the vector out in the order of names.
func (a ActionVector) Flatten(names []string) []float64 {
	out := make([]float64, len(names))
	for i, n := range names {
		out[i] = a[n]
	}

	return out
}

// ActionVectorFromFlat pairs a flat sequence with the canonical action names.
func ActionVectorFromFlat(names []string, values []float64) (ActionVector, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("%w: want %d, got %d",
			ErrActionLength, len(names), len(values))
	}

	a := make(ActionVector, len(names))
	for i, n := range names {
		a[n] = values[i]
	}

	return a, nil
}

// ClampFraction forces v into [0, 1], mapping NaN to 0.
func ClampFraction(v float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}

	if v >= 1 {
		return 1
	}

	return v
}

// Transfer describes one executed edge.
type Transfer struct {
	Edge EdgeID

	// Requested is the fraction found in the action vector.
	Requested float64

	// Fraction is the rebalanced fraction that was executed.
	Fraction float64

	// Quantity is what the producer released and the consumer received.
	Quantity float64
}

// TickResult is what a facility publishes after a reset or a step.
type TickResult struct {
	EpisodeID string
	Tick      int
	Snapshot  Snapshot
	Action    ActionVector
}
