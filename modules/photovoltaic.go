package modules

import (
	"math"

	"github.com/sarchlab/casetta/config"
	"github.com/sarchlab/casetta/sim"
)

// PhotovoltaicParams configure a PV array.
type PhotovoltaicParams struct {
	NumModules int `yaml:"num_modules" validate:"min=1"`

	// Rated power of one module in kWp.
	RatedPower float64 `yaml:"rated_power" validate:"gt=0"`

	// Snapshot field holding the irradiance in W/m².
	IrradianceSource string `yaml:"irradiance_source" validate:"required"`
}

// Photovoltaic converts the irradiance of the previous tick into
// electricity. Energy that no consumer takes is curtailed.
type Photovoltaic struct {
	sim.ModuleBase

	params    PhotovoltaicParams
	hours     float64
	available float64
}

// NewPhotovoltaic creates a PV array.
func NewPhotovoltaic(desc config.ModuleConfig, env Env) (sim.Module, error) {
	params := PhotovoltaicParams{
		NumModules:       10,
		RatedPower:       0.4,
		IrradianceSource: "building_solar_irradiation",
	}
	if err := decodeParams(desc, &params); err != nil {
		return nil, err
	}

	peak := float64(params.NumModules) * params.RatedPower * env.Hours()

	p := &Photovoltaic{
		ModuleBase: sim.MakeModuleBase(desc.Name, []sim.FieldSpec{
			sim.Between("available_energy", 0, peak),
			sim.Between("energy_produced", 0, peak),
			sim.Between("curtailed_energy", 0, peak),
		}),
		params: params,
		hours:  env.Hours(),
	}

	return p, nil
}

// Reset turns the array off until the first irradiance reading.
func (p *Photovoltaic) Reset() sim.Record {
	p.ResetAccumulators()
	p.available = 0

	return p.Finalize()
}

// ApplyStimulus reads the irradiance.
func (p *Photovoltaic) ApplyStimulus(prev sim.Snapshot, _ sim.ActionVector) {
	p.ResetAccumulators()

	irradiance := math.Max(prev.Value(p.params.IrradianceSource, 0), 0)
	p.available = irradiance / 1000 *
		p.params.RatedPower * float64(p.params.NumModules) * p.hours
}

// ProduceElectric releases part of the energy generated in this tick.
func (p *Photovoltaic) ProduceElectric(fraction float64) float64 {
	q := sim.Release(fraction, p.available, p.Produced(sim.KindElectric))
	p.AddProduced(sim.KindElectric, q)

	return q
}

// Finalize reports the generated energy.
func (p *Photovoltaic) Finalize() sim.Record {
	produced := p.Produced(sim.KindElectric)

	return p.MakeRecord(p.available, produced, p.available-produced)
}
