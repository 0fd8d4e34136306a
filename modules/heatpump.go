package modules

import (
	"math"

	"github.com/sarchlab/casetta/config"
	"github.com/sarchlab/casetta/sim"
)

// HeatPumpParams configure a heat pump.
type HeatPumpParams struct {
	// Electric power rating in kW.
	PowerRating float64 `yaml:"power_rating" validate:"gt=0"`

	// Temperature of the delivered heat in °C.
	SupplyTemperature float64 `yaml:"supply_temperature" validate:"gt=0,max=100"`

	// Fraction of the Carnot COP achieved.
	Efficiency float64 `yaml:"efficiency" validate:"gt=0,max=1"`

	MaxCOP float64 `yaml:"max_cop" validate:"gte=1"`

	// Module that publishes the ground and external temperatures.
	Building string `yaml:"building" validate:"required,module_name"`
}

// Heat source selected by the source action.
const (
	SourceGround = 0
	SourceAir    = 1
)

// HeatPump turns electricity into heat. The heat it can release in a tick is
// the electricity it received in the same tick, up to its rating, times its
// coefficient of performance, so electricity must be routed before heat.
type HeatPump struct {
	sim.ModuleBase

	params   HeatPumpParams
	capacity float64

	groundName   string
	externalName string
	sourceAction string

	source int
	cop    float64
}

// NewHeatPump creates a heat pump.
func NewHeatPump(desc config.ModuleConfig, env Env) (sim.Module, error) {
	params := HeatPumpParams{
		PowerRating:       3,
		SupplyTemperature: 35,
		Efficiency:        0.5,
		MaxCOP:            5,
		Building:          "building",
	}
	if err := decodeParams(desc, &params); err != nil {
		return nil, err
	}

	capacity := params.PowerRating * env.Hours()

	p := &HeatPump{
		ModuleBase: sim.MakeModuleBase(desc.Name,
			[]sim.FieldSpec{
				sim.NonNegative("consumed_electric_energy"),
				sim.Between("produced_thermal_energy", 0,
					capacity*params.MaxCOP),
				sim.Between("cop", 1, params.MaxCOP),
				sim.Between("source", SourceGround, SourceAir),
				sim.NonNegative("wasted_thermal_energy"),
			},
			sim.Between("source", 0, 1),
		),
		params:       params,
		capacity:     capacity,
		groundName:   sim.QualifiedName(params.Building, "ground_temperature"),
		externalName: sim.QualifiedName(params.Building, "external_temperature"),
	}
	p.sourceAction = p.ActionName("source")

	return p, nil
}

// Reset idles the pump on the ground source.
func (p *HeatPump) Reset() sim.Record {
	p.ResetAccumulators()
	p.source = SourceGround
	p.cop = 1

	return p.Finalize()
}

// ApplyStimulus selects the heat source and derives the COP from its
// temperature in the previous snapshot.
func (p *HeatPump) ApplyStimulus(prev sim.Snapshot, action sim.ActionVector) {
	p.ResetAccumulators()

	p.source = SourceGround
	sourceName := p.groundName

	if math.Round(action.Fraction(p.sourceAction)) >= SourceAir {
		p.source = SourceAir
		sourceName = p.externalName
	}

	p.cop = p.coefficient(prev.Value(sourceName, p.params.SupplyTemperature))
}

func (p *HeatPump) coefficient(sourceTemperature float64) float64 {
	lift := p.params.SupplyTemperature - sourceTemperature
	if lift <= 0 {
		return p.params.MaxCOP
	}

	carnot := (p.params.SupplyTemperature + 273.15) / lift
	cop := p.params.Efficiency * carnot

	return math.Min(math.Max(cop, 1), p.params.MaxCOP)
}

// ConsumeElectric powers the pump.
func (p *HeatPump) ConsumeElectric(quantity float64) {
	p.AddConsumed(sim.KindElectric, math.Max(quantity, 0))
}

// ThermalCapacity returns the heat the pump can release in this tick.
func (p *HeatPump) ThermalCapacity() float64 {
	return p.cop * math.Min(p.Consumed(sim.KindElectric), p.capacity)
}

// ProduceThermal releases heat.
func (p *HeatPump) ProduceThermal(fraction float64) float64 {
	q := sim.Release(fraction, p.ThermalCapacity(), p.Produced(sim.KindThermal))
	p.AddProduced(sim.KindThermal, q)

	return q
}

// Finalize reports the heat produced and the heat nobody took.
func (p *HeatPump) Finalize() sim.Record {
	produced := p.Produced(sim.KindThermal)

	return p.MakeRecord(
		p.Consumed(sim.KindElectric),
		produced,
		p.cop,
		float64(p.source),
		math.Max(0, p.ThermalCapacity()-produced),
	)
}
