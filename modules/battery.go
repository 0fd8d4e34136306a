package modules

import (
	"math"

	"github.com/sarchlab/casetta/config"
	"github.com/sarchlab/casetta/sim"
)

// StorageParams configure a battery or a thermal storage.
type StorageParams struct {
	// Capacity in kWh.
	Capacity float64 `yaml:"capacity" validate:"gt=0"`

	InitialSOC float64 `yaml:"initial_soc" validate:"min=0,max=1"`

	// Maximum discharge power in kW. Zero means unlimited.
	MaxPower float64 `yaml:"max_power" validate:"min=0"`
}

func storageFields(capacity float64) []sim.FieldSpec {
	return []sim.FieldSpec{
		sim.Between("soc", 0, 1),
		sim.Between("stored_energy", 0, capacity),
		sim.NonNegative("charged_energy"),
		sim.NonNegative("discharged_energy"),
		sim.NonNegative("spilled_energy"),
	}
}

// Storage stores one kind of energy. It can be charged by any producer of
// that kind and discharged to any consumer. Energy delivered beyond the
// remaining capacity is spilled when the tick finalizes.
type Storage struct {
	sim.ModuleBase

	kind      sim.Kind
	reservoir reservoir
}

func newStorage(
	desc config.ModuleConfig,
	env Env,
	kind sim.Kind,
) (*Storage, error) {
	params := StorageParams{Capacity: 10}
	if err := decodeParams(desc, &params); err != nil {
		return nil, err
	}

	s := &Storage{
		ModuleBase: sim.MakeModuleBase(desc.Name,
			storageFields(params.Capacity)),
		kind: kind,
		reservoir: newReservoir(
			params.Capacity, params.InitialSOC, params.MaxPower*env.Hours()),
	}

	return s, nil
}

// Battery is an electric storage.
type Battery struct {
	*Storage
}

// NewBattery creates an electric battery.
func NewBattery(desc config.ModuleConfig, env Env) (sim.Module, error) {
	s, err := newStorage(desc, env, sim.KindElectric)
	if err != nil {
		return nil, err
	}

	return &Battery{Storage: s}, nil
}

// ProduceElectric discharges the battery.
func (b *Battery) ProduceElectric(fraction float64) float64 {
	return b.release(fraction)
}

// ConsumeElectric charges the battery.
func (b *Battery) ConsumeElectric(quantity float64) {
	b.absorb(quantity)
}

// ThermalStorage is a hot thermal energy storage.
type ThermalStorage struct {
	*Storage
}

// NewThermalStorage creates a thermal storage.
func NewThermalStorage(desc config.ModuleConfig, env Env) (sim.Module, error) {
	s, err := newStorage(desc, env, sim.KindThermal)
	if err != nil {
		return nil, err
	}

	return &ThermalStorage{Storage: s}, nil
}

// ProduceThermal discharges the storage.
func (t *ThermalStorage) ProduceThermal(fraction float64) float64 {
	return t.release(fraction)
}

// ConsumeThermal charges the storage.
func (t *ThermalStorage) ConsumeThermal(quantity float64) {
	t.absorb(quantity)
}

// Reset empties the storage down to its initial state of charge.
func (s *Storage) Reset() sim.Record {
	s.ResetAccumulators()
	s.reservoir.reset()

	return s.record()
}

// ApplyStimulus fixes the energy available for discharge in this tick.
func (s *Storage) ApplyStimulus(_ sim.Snapshot, _ sim.ActionVector) {
	s.ResetAccumulators()
	s.reservoir.begin()
}

func (s *Storage) release(fraction float64) float64 {
	q := sim.Release(fraction, s.reservoir.available, s.Produced(s.kind))
	s.AddProduced(s.kind, q)

	return q
}

func (s *Storage) absorb(quantity float64) {
	s.AddConsumed(s.kind, math.Max(quantity, 0))
}

// Finalize applies the charge and the discharge of the tick.
func (s *Storage) Finalize() sim.Record {
	s.reservoir.settle(s.Consumed(s.kind), s.Produced(s.kind))
	return s.record()
}

func (s *Storage) record() sim.Record {
	return s.MakeRecord(
		s.reservoir.soc(),
		s.reservoir.stored,
		s.Consumed(s.kind),
		s.Produced(s.kind),
		s.reservoir.spilled,
	)
}

// Stored returns the stored energy.
func (s *Storage) Stored() float64 {
	return s.reservoir.stored
}
