package modules

import (
	"math"

	"github.com/sarchlab/casetta/config"
	"github.com/sarchlab/casetta/sim"
)

// HVACParams configure an HVAC unit.
type HVACParams struct {
	// Power rating in kW.
	PowerRating float64 `yaml:"power_rating" validate:"gt=0"`

	// Module whose temperature the unit conditions.
	Building string `yaml:"building" validate:"required,module_name"`
}

// HVAC conditions a building with electricity and heat. The energy it
// receives, up to its rating, moves the building's temperature toward the
// set point in the next tick.
type HVAC struct {
	sim.ModuleBase

	params   HVACParams
	capacity float64

	temperatureName string
	setPointName    string

	temperature float64
	setPoint    float64
}

// NewHVAC creates an HVAC unit.
func NewHVAC(desc config.ModuleConfig, env Env) (sim.Module, error) {
	params := HVACParams{PowerRating: 3, Building: "building"}
	if err := decodeParams(desc, &params); err != nil {
		return nil, err
	}

	capacity := params.PowerRating * env.Hours()

	h := &HVAC{
		ModuleBase: sim.MakeModuleBase(desc.Name, []sim.FieldSpec{
			sim.NonNegative("consumed_electric_energy"),
			sim.NonNegative("consumed_thermal_energy"),
			sim.Between("delta_temperature",
				-capacity/params.PowerRating, capacity/params.PowerRating),
		}),
		params:          params,
		capacity:        capacity,
		temperatureName: sim.QualifiedName(params.Building, "internal_temperature"),
		setPointName:    sim.QualifiedName(params.Building, "thermal_set_point"),
	}

	return h, nil
}

// Reset idles the unit.
func (h *HVAC) Reset() sim.Record {
	h.ResetAccumulators()
	h.temperature = 0
	h.setPoint = 0

	return h.MakeRecord(0, 0, 0)
}

// ApplyStimulus reads the building's temperature and set point.
func (h *HVAC) ApplyStimulus(prev sim.Snapshot, _ sim.ActionVector) {
	h.ResetAccumulators()
	h.temperature = prev.Value(h.temperatureName, 0)
	h.setPoint = prev.Value(h.setPointName, h.temperature)
}

// ConsumeElectric powers the unit.
func (h *HVAC) ConsumeElectric(quantity float64) {
	h.AddConsumed(sim.KindElectric, math.Max(quantity, 0))
}

// ConsumeThermal feeds heat into the unit.
func (h *HVAC) ConsumeThermal(quantity float64) {
	h.AddConsumed(sim.KindThermal, math.Max(quantity, 0))
}

// Finalize computes the temperature change the unit causes.
func (h *HVAC) Finalize() sim.Record {
	electric := h.Consumed(sim.KindElectric)
	thermal := h.Consumed(sim.KindThermal)

	direction := 1.0
	if h.setPoint < h.temperature {
		direction = -1
	}

	effective := math.Min(electric+thermal, h.capacity)
	delta := direction * effective / h.params.PowerRating

	return h.MakeRecord(electric, thermal, delta)
}
