package sim

import "fmt"

// Module is a stateful unit of the facility. Modules take part in resource
// exchange by additionally implementing the capability interfaces, such as
// ElectricProducer or ThermalConsumer.
//
// A tick drives every module through ApplyStimulus, then lets the exchange
// managers call the capability methods, and finally calls Finalize.
type Module interface {
	Named

	// ObservationFields declares the fields of every record the module
	// returns, in order. The declaration must not change after construction.
	ObservationFields() []FieldSpec

	// ActionFields declares the qualified names of the actions the module
	// reads directly from the action vector, outside resource exchange.
	ActionFields() []FieldSpec

	// Reset restores the initial condition and returns the tick-zero record.
	Reset() Record

	// ApplyStimulus reads the previous snapshot and the action vector and
	// clears this tick's accumulators.
	ApplyStimulus(prev Snapshot, action ActionVector)

	// Finalize computes this tick's record from the accumulators.
	Finalize() Record
}

// Accumulators keep the running totals a module produced and consumed of each
// kind within the current tick.
type Accumulators struct {
	produced [numKinds]float64
	consumed [numKinds]float64
}

// AddProduced records that quantity of kind left the module.
func (a *Accumulators) AddProduced(kind Kind, quantity float64) {
	a.produced[kind] += quantity
}

// AddConsumed records that quantity of kind entered the module.
func (a *Accumulators) AddConsumed(kind Kind, quantity float64) {
	a.consumed[kind] += quantity
}

// Produced returns how much of kind left the module this tick.
func (a *Accumulators) Produced(kind Kind) float64 {
	return a.produced[kind]
}

// Consumed returns how much of kind entered the module this tick.
func (a *Accumulators) Consumed(kind Kind) float64 {
	return a.consumed[kind]
}

// ResetAccumulators zeroes every total.
func (a *Accumulators) ResetAccumulators() {
	a.produced = [numKinds]float64{}
	a.consumed = [numKinds]float64{}
}

// ModuleBase provides the name, the declared fields, and the accumulators
// that every module needs.
type ModuleBase struct {
	NamedBase
	Accumulators

	observation []FieldSpec
	action      []FieldSpec
}

// MakeModuleBase creates a ModuleBase. Action field names are qualified with
// the module name.
func MakeModuleBase(
	name string,
	observation []FieldSpec,
	action ...FieldSpec,
) ModuleBase {
	b := ModuleBase{
		NamedBase:   MakeNamedBase(name),
		observation: append([]FieldSpec(nil), observation...),
	}

	for _, a := range action {
		a.Name = QualifiedName(name, a.Name)
		b.action = append(b.action, a)
	}

	return b
}

// ObservationFields returns the declared observation fields.
func (b *ModuleBase) ObservationFields() []FieldSpec {
	return append([]FieldSpec(nil), b.observation...)
}

// ActionFields returns the declared action fields.
func (b *ModuleBase) ActionFields() []FieldSpec {
	return append([]FieldSpec(nil), b.action...)
}

// ActionName returns the qualified name of one of the module's own actions.
func (b *ModuleBase) ActionName(field string) string {
	return QualifiedName(b.Name(), field)
}

// MakeRecord pairs values with the declared observation fields. The number of
// values must match the declaration.
func (b *ModuleBase) MakeRecord(values ...float64) Record {
	if len(values) != len(b.observation) {
		panic(fmt.Sprintf("module %s declares %d fields, got %d values",
			b.Name(), len(b.observation), len(values)))
	}

	r := make(Record, len(values))
	for i, v := range values {
		r[i] = Field{Name: b.observation[i].Name, Value: v}
	}

	return r
}
