package sim

import (
	"fmt"
	"math"
)

// FieldSpec declares a numeric field and the range its values are expected to
// fall in. Bounds are descriptive; the kernel never clips against them.
type FieldSpec struct {
	Name string  `json:"name"`
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Between declares a field bounded by [low, high].
func Between(name string, low, high float64) FieldSpec {
	return FieldSpec{Name: name, Low: low, High: high}
}

// NonNegative declares a field bounded by [0, +Inf).
func NonNegative(name string) FieldSpec {
	return FieldSpec{Name: name, Low: 0, High: math.Inf(1)}
}

// Unbounded declares a field that may take any value.
func Unbounded(name string) FieldSpec {
	return FieldSpec{Name: name, Low: math.Inf(-1), High: math.Inf(1)}
}

// Field is a named value in a record.
type Field struct {
	Name  string
	Value float64
}

// Record is the output of one module for one tick, with fields in declared
// order and names not yet qualified by the module name.
type Record []Field

// Get returns the value of the named field.
func (r Record) Get(name string) (float64, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}

	return 0, false
}

// Snapshot is the immutable, facility-wide observation after a tick. Field
// names are qualified by module name.
type Snapshot struct {
	names  []string
	values []float64
	index  map[string]int
}

// NewSnapshot builds a snapshot. Duplicate names are a configuration error.
func NewSnapshot(names []string, values []float64) (Snapshot, error) {
	if len(names) != len(values) {
		return Snapshot{}, fmt.Errorf(
			"snapshot has %d names but %d values", len(names), len(values))
	}

	s := Snapshot{
		names:  append([]string(nil), names...),
		values: append([]float64(nil), values...),
		index:  make(map[string]int, len(names)),
	}

	for i, n := range names {
		if _, dup := s.index[n]; dup {
			return Snapshot{}, &ConfigurationError{
				Op:     "merge snapshot",
				Reason: fmt.Sprintf("field %q is registered twice", n),
			}
		}

		s.index[n] = i
	}

	return s, nil
}

// Get returns the value of a qualified field.
func (s Snapshot) Get(name string) (float64, bool) {
	i, ok := s.index[name]
	if !ok {
		return 0, false
	}

	return s.values[i], true
}

// Value returns the value of a qualified field, or fallback if the snapshot
// has no such field.
func (s Snapshot) Value(name string, fallback float64) float64 {
	if v, ok := s.Get(name); ok {
		return v
	}

	return fallback
}

// Len returns the number of fields.
func (s Snapshot) Len() int {
	return len(s.names)
}

// IsZero reports whether the snapshot holds no fields.
func (s Snapshot) IsZero() bool {
	return len(s.names) == 0
}

// Names returns the qualified field names in schema order.
func (s Snapshot) Names() []string {
	return append([]string(nil), s.names...)
}

// Values returns the field values in schema order.
func (s Snapshot) Values() []float64 {
	return append([]float64(nil), s.values...)
}

// ToMap returns the snapshot as a name to value map.
func (s Snapshot) ToMap() map[string]float64 {
	m := make(map[string]float64, len(s.names))
	for i, n := range s.names {
		m[n] = s.values[i]
	}

	return m
}
