package modules

import (
	"math"

	"github.com/sarchlab/casetta/config"
	"github.com/sarchlab/casetta/sim"
)

// specific heat of water in kJ/(kg·K)
const waterSpecificHeat = 4.186

// DHWTankParams configure a domestic hot water tank.
type DHWTankParams struct {
	// Capacity in liters.
	Capacity float64 `yaml:"capacity" validate:"gt=0"`

	// Temperature rise of heated water in K.
	DeltaT float64 `yaml:"delta_t" validate:"gt=0"`

	InitialSOC float64 `yaml:"initial_soc" validate:"min=0,max=1"`
}

// DHWTank heats water with thermal energy and serves it to the occupants.
type DHWTank struct {
	sim.ModuleBase

	params    DHWTankParams
	reservoir reservoir
}

// NewDHWTank creates a domestic hot water tank.
func NewDHWTank(desc config.ModuleConfig, _ Env) (sim.Module, error) {
	params := DHWTankParams{Capacity: 200, DeltaT: 50}
	if err := decodeParams(desc, &params); err != nil {
		return nil, err
	}

	t := &DHWTank{
		ModuleBase: sim.MakeModuleBase(desc.Name, []sim.FieldSpec{
			sim.Between("soc", 0, 1),
			sim.Between("stored_water", 0, params.Capacity),
			sim.NonNegative("charged_water"),
			sim.NonNegative("discharged_water"),
			sim.NonNegative("spilled_water"),
		}),
		params:    params,
		reservoir: newReservoir(params.Capacity, params.InitialSOC, 0),
	}

	return t, nil
}

// Liters returns the liters of water that energy kWh heat by DeltaT.
func (t *DHWTank) Liters(energy float64) float64 {
	return energy * 3600 / (waterSpecificHeat * t.params.DeltaT)
}

// Reset refills the tank to its initial state of charge.
func (t *DHWTank) Reset() sim.Record {
	t.ResetAccumulators()
	t.reservoir.reset()

	return t.record()
}

// ApplyStimulus fixes the water available in this tick.
func (t *DHWTank) ApplyStimulus(_ sim.Snapshot, _ sim.ActionVector) {
	t.ResetAccumulators()
	t.reservoir.begin()
}

// ConsumeThermal heats water.
func (t *DHWTank) ConsumeThermal(quantity float64) {
	t.AddConsumed(sim.KindThermal, math.Max(quantity, 0))
}

// ProduceHotWater draws hot water, in liters.
func (t *DHWTank) ProduceHotWater(fraction float64) float64 {
	q := sim.Release(fraction, t.reservoir.available, t.Produced(sim.KindHotWater))
	t.AddProduced(sim.KindHotWater, q)

	return q
}

// Finalize applies the heating and the draw of the tick.
func (t *DHWTank) Finalize() sim.Record {
	t.reservoir.settle(
		t.Liters(t.Consumed(sim.KindThermal)), t.Produced(sim.KindHotWater))

	return t.record()
}

func (t *DHWTank) record() sim.Record {
	return t.MakeRecord(
		t.reservoir.soc(),
		t.reservoir.stored,
		t.Liters(t.Consumed(sim.KindThermal)),
		t.Produced(sim.KindHotWater),
		t.reservoir.spilled,
	)
}
