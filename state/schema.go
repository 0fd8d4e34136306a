// Package state assembles the facility-wide observation and action schemas
// and merges per-module records into snapshots.
package state

import (
	"fmt"

	"github.com/sarchlab/casetta/sim"
)

// Schema lists every observation and action field of a facility with its
// declared bounds. It is fixed once the facility is built.
type Schema struct {
	Observation []sim.FieldSpec `json:"observation"`
	Action      []sim.FieldSpec `json:"action"`
}

// ObservationNames returns the qualified observation field names in order.
func (s Schema) ObservationNames() []string {
	return names(s.Observation)
}

// ActionNames returns the action names in canonical order.
func (s Schema) ActionNames() []string {
	return names(s.Action)
}

// ObservationBounds returns the low and high vectors of the observation.
func (s Schema) ObservationBounds() (low, high []float64) {
	return bounds(s.Observation)
}

// ActionBounds returns the low and high vectors of the action.
func (s Schema) ActionBounds() (low, high []float64) {
	return bounds(s.Action)
}

func names(fields []sim.FieldSpec) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}

	return out
}

func bounds(fields []sim.FieldSpec) (low, high []float64) {
	low = make([]float64, len(fields))
	high = make([]float64, len(fields))

	for i, f := range fields {
		low[i] = f.Low
		high[i] = f.High
	}

	return low, high
}

// An ActionSource declares action fields. Exchange managers are action
// sources.
type ActionSource interface {
	ActionFields() []sim.FieldSpec
}

// SchemaBuilder collects the modules and exchange managers of a facility.
type SchemaBuilder struct {
	modules   []sim.Module
	exchanges []ActionSource
}

// MakeSchemaBuilder creates an empty SchemaBuilder.
func MakeSchemaBuilder() SchemaBuilder {
	return SchemaBuilder{}
}

// WithModules appends modules in registration order.
func (b SchemaBuilder) WithModules(modules ...sim.Module) SchemaBuilder {
	b.modules = append(append([]sim.Module(nil), b.modules...), modules...)
	return b
}

// WithExchanges appends exchange managers in routing order. Their edges come
// first in the action schema.
func (b SchemaBuilder) WithExchanges(exchanges ...ActionSource) SchemaBuilder {
	b.exchanges = append(
		append([]ActionSource(nil), b.exchanges...), exchanges...)
	return b
}

// Build concatenates the declared fields. Observation fields are qualified
// with the module name. Any name that appears twice is a configuration error.
func (b SchemaBuilder) Build() (Schema, error) {
	s := Schema{}
	seenObs := make(map[string]bool)
	seenAct := make(map[string]bool)

	for _, m := range b.modules {
		for _, f := range m.ObservationFields() {
			f.Name = sim.QualifiedName(m.Name(), f.Name)
			if err := claim(seenObs, "observation", f.Name); err != nil {
				return Schema{}, err
			}

			s.Observation = append(s.Observation, f)
		}
	}

	for _, e := range b.exchanges {
		for _, f := range e.ActionFields() {
			if err := claim(seenAct, "action", f.Name); err != nil {
				return Schema{}, err
			}

			s.Action = append(s.Action, f)
		}
	}

	for _, m := range b.modules {
		for _, f := range m.ActionFields() {
			if err := claim(seenAct, "action", f.Name); err != nil {
				return Schema{}, err
			}

			s.Action = append(s.Action, f)
		}
	}

	return s, nil
}

func claim(seen map[string]bool, what, name string) error {
	if seen[name] {
		return &sim.ConfigurationError{
			Op:     "build schema",
			Reason: fmt.Sprintf("%s field %q is declared twice", what, name),
		}
	}

	seen[name] = true

	return nil
}
