package state

import (
	"fmt"
	"slices"

	"github.com/sarchlab/casetta/sim"
)

// NamedRecord is the record of one module.
type NamedRecord struct {
	Module string
	Record sim.Record
}

// Merge flattens records into one snapshot whose field names are prefixed by
// the module name.
func Merge(records []NamedRecord) (sim.Snapshot, error) {
	var (
		names  []string
		values []float64
	)

	for _, r := range records {
		for _, f := range r.Record {
			names = append(names, sim.QualifiedName(r.Module, f.Name))
			values = append(values, f.Value)
		}
	}

	return sim.NewSnapshot(names, values)
}

// Composer merges records and checks the result against a schema.
type Composer struct {
	expected []string
}

// NewComposer creates a Composer for the observation part of schema.
func NewComposer(schema Schema) *Composer {
	return &Composer{expected: schema.ObservationNames()}
}

// Merge merges records. The resulting field names must match the schema
// exactly, in order.
func (c *Composer) Merge(records []NamedRecord) (sim.Snapshot, error) {
	s, err := Merge(records)
	if err != nil {
		return sim.Snapshot{}, err
	}

	if !slices.Equal(s.Names(), c.expected) {
		return sim.Snapshot{}, &sim.ConfigurationError{
			Op: "merge snapshot",
			Reason: fmt.Sprintf(
				"records do not match the observation schema: got %d fields, "+
					"want %d", s.Len(), len(c.expected)),
		}
	}

	return s, nil
}
