package modules

import (
	"math"
	"strings"
	"time"

	"github.com/sarchlab/casetta/config"
	"github.com/sarchlab/casetta/sim"
)

// BuildingParams configure a building.
type BuildingParams struct {
	// Maximum electric power in kW.
	MaxPower float64 `yaml:"max_power" validate:"gt=0"`

	// Load that cannot be shifted, in kWh per hour.
	NonShiftableLoad float64 `yaml:"non_shiftable_load" validate:"min=0"`

	SetPoint           float64 `yaml:"set_point" validate:"min=0,max=30"`
	InitialTemperature float64 `yaml:"initial_temperature" validate:"min=-50,max=50"`

	// Date and time of tick zero, RFC 3339 or YYYY-MM-DD.
	Start string `yaml:"start" validate:"required"`
}

const deltaTemperatureSuffix = "_delta_temperature"

// Building is the shell that hosts the occupants. It keeps the clock of the
// facility, the weather, the internal temperature, and the electric and hot
// water demand.
type Building struct {
	sim.ModuleBase

	params BuildingParams
	start  time.Time
	step   time.Duration
	hours  float64

	now         time.Time
	temperature float64
}

// NewBuilding creates a building.
func NewBuilding(desc config.ModuleConfig, env Env) (sim.Module, error) {
	params := BuildingParams{
		MaxPower:           10,
		NonShiftableLoad:   2,
		SetPoint:           22,
		InitialTemperature: 20,
		Start:              "2010-01-01",
	}
	if err := decodeParams(desc, &params); err != nil {
		return nil, err
	}

	start, err := parseStart(params.Start)
	if err != nil {
		return nil, &sim.ConfigurationError{
			Op:     "create module " + desc.Name,
			Reason: err.Error(),
		}
	}

	h := env.Hours()

	b := &Building{
		ModuleBase: sim.MakeModuleBase(desc.Name, []sim.FieldSpec{
			sim.Between("non_shiftable_load", 0, params.MaxPower*h),
			sim.Between("internal_temperature", 0, 50),
			sim.Between("external_temperature", -50, 50),
			sim.Between("ground_temperature", 5, 20),
			sim.Between("solar_irradiation", 0, 1000),
			sim.Between("thermal_set_point", 0, 30),
			sim.Between("weekday", 0, 6),
			sim.Between("day", 1, 31),
			sim.Between("month", 1, 12),
			sim.Between("year", 1, 9999),
			sim.Between("hour", 0, 23),
			sim.Between("minute", 0, 59),
			sim.Between("domestic_hot_water_request", 0, 100*h),
			sim.NonNegative("consumed_electric_energy"),
			sim.NonNegative("unmet_energy_load"),
			sim.NonNegative("consumed_hot_water"),
			sim.NonNegative("unmet_hot_water"),
		}),
		params: params,
		start:  start,
		step:   env.TimeStep,
		hours:  h,
	}

	return b, nil
}

func parseStart(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	return time.Parse(time.DateOnly, s)
}

// Reset rewinds the clock to the start.
func (b *Building) Reset() sim.Record {
	b.ResetAccumulators()
	b.now = b.start
	b.temperature = b.params.InitialTemperature

	return b.Finalize()
}

// ApplyStimulus advances the clock and lets the internal temperature follow
// the weather and the HVAC units of the previous tick.
func (b *Building) ApplyStimulus(prev sim.Snapshot, _ sim.ActionVector) {
	b.ResetAccumulators()
	b.now = b.now.Add(b.step)

	external := externalTemperature(b.now.Hour())
	relax := 1 - math.Pow(0.9, b.hours)
	b.temperature += (external - b.temperature) * relax

	for _, name := range prev.Names() {
		if strings.HasSuffix(name, deltaTemperatureSuffix) {
			b.temperature += prev.Value(name, 0)
		}
	}
}

// ConsumeElectric supplies the building's load.
func (b *Building) ConsumeElectric(quantity float64) {
	b.AddConsumed(sim.KindElectric, math.Max(quantity, 0))
}

// ConsumeHotWater supplies the occupants' hot water, in liters.
func (b *Building) ConsumeHotWater(quantity float64) {
	b.AddConsumed(sim.KindHotWater, math.Max(quantity, 0))
}

// Load returns the non-shiftable load of one tick in kWh.
func (b *Building) Load() float64 {
	return b.params.NonShiftableLoad * b.hours
}

// HotWaterRequest returns the hot water requested in the current tick.
func (b *Building) HotWaterRequest() float64 {
	return hotWaterDemand[b.now.Hour()] * b.hours
}

// Finalize reports the conditions of the current tick and the unmet demand.
func (b *Building) Finalize() sim.Record {
	hour := b.now.Hour()
	load := b.Load()
	request := b.HotWaterRequest()
	electric := b.Consumed(sim.KindElectric)
	water := b.Consumed(sim.KindHotWater)

	return b.MakeRecord(
		load,
		b.temperature,
		externalTemperature(hour),
		groundTemperature(hour),
		irradiance(hour),
		b.params.SetPoint,
		float64((int(b.now.Weekday())+6)%7),
		float64(b.now.Day()),
		float64(b.now.Month()),
		float64(b.now.Year()),
		float64(hour),
		float64(b.now.Minute()),
		request,
		electric,
		math.Max(0, load-electric),
		water,
		math.Max(0, request-water),
	)
}

// Now returns the building's clock.
func (b *Building) Now() time.Time {
	return b.now
}
