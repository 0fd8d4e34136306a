package modules

import (
	"math"

	"github.com/sarchlab/casetta/config"
	"github.com/sarchlab/casetta/sim"
)

// GridParams configure a grid connection.
type GridParams struct {
	// Maximum import power in kW.
	MaxPower float64 `yaml:"max_power" validate:"gt=0"`

	// Prices per kWh.
	BuyPrice  float64 `yaml:"buy_price" validate:"min=0"`
	SellPrice float64 `yaml:"sell_price" validate:"min=0"`

	// Optional hourly prices, overriding the flat ones.
	BuyPriceSchedule  []float64 `yaml:"buy_price_schedule" validate:"omitempty,len=24,dive,min=0"`
	SellPriceSchedule []float64 `yaml:"sell_price_schedule" validate:"omitempty,len=24,dive,min=0"`

	// Module whose hour field selects the scheduled price.
	Clock string `yaml:"clock" validate:"required,module_name"`
}

// Grid buys electricity from, and sells it to, the utility. Buying is limited
// by the connection's power; selling is not.
type Grid struct {
	sim.ModuleBase

	params   GridParams
	capacity float64
	hourName string

	buyPrice  float64
	sellPrice float64
}

// NewGrid creates a grid connection.
func NewGrid(desc config.ModuleConfig, env Env) (sim.Module, error) {
	params := GridParams{
		MaxPower:  10,
		BuyPrice:  0.3,
		SellPrice: 0.1,
		Clock:     "building",
	}
	if err := decodeParams(desc, &params); err != nil {
		return nil, err
	}

	g := &Grid{
		ModuleBase: sim.MakeModuleBase(desc.Name, []sim.FieldSpec{
			sim.NonNegative("buy_price"),
			sim.NonNegative("sell_price"),
			sim.Between("bought_energy", 0, params.MaxPower*env.Hours()),
			sim.NonNegative("sold_energy"),
			sim.Unbounded("cost"),
		}),
		params:   params,
		capacity: params.MaxPower * env.Hours(),
		hourName: sim.QualifiedName(params.Clock, "hour"),
	}

	return g, nil
}

// Reset applies the prices of hour zero.
func (g *Grid) Reset() sim.Record {
	g.ResetAccumulators()
	g.updatePrices(0)

	return g.Finalize()
}

// ApplyStimulus reads the hour from the clock module.
func (g *Grid) ApplyStimulus(prev sim.Snapshot, _ sim.ActionVector) {
	g.ResetAccumulators()
	g.updatePrices(int(prev.Value(g.hourName, 0)))
}

func (g *Grid) updatePrices(hour int) {
	g.buyPrice = priceAt(g.params.BuyPrice, g.params.BuyPriceSchedule, hour)
	g.sellPrice = priceAt(g.params.SellPrice, g.params.SellPriceSchedule, hour)
}

func priceAt(flat float64, schedule []float64, hour int) float64 {
	if len(schedule) == 0 {
		return flat
	}

	return schedule[((hour%24)+24)%24]
}

// ProduceElectric buys electricity.
func (g *Grid) ProduceElectric(fraction float64) float64 {
	q := sim.Release(fraction, g.capacity, g.Produced(sim.KindElectric))
	g.AddProduced(sim.KindElectric, q)

	return q
}

// ConsumeElectric sells electricity.
func (g *Grid) ConsumeElectric(quantity float64) {
	g.AddConsumed(sim.KindElectric, math.Max(quantity, 0))
}

// Finalize reports the energy traded and its cost.
func (g *Grid) Finalize() sim.Record {
	bought := g.Produced(sim.KindElectric)
	sold := g.Consumed(sim.KindElectric)

	return g.MakeRecord(
		g.buyPrice,
		g.sellPrice,
		bought,
		sold,
		bought*g.buyPrice-sold*g.sellPrice,
	)
}
