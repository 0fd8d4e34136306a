package modules

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/casetta/sim"
)

var _ = Describe("HVAC", func() {
	var h *HVAC

	BeforeEach(func() {
		h = create("hvac", "hvac", "{power_rating: 2}").(*HVAC)
		h.Reset()
	})

	It("should heat a building below its set point", func() {
		h.ApplyStimulus(snapshot(map[string]float64{
			"building_internal_temperature": 18,
			"building_thermal_set_point":    22,
		}), nil)

		h.ConsumeElectric(0.5)
		h.ConsumeThermal(0.5)
		r := h.Finalize()

		Expect(field(r, "delta_temperature")).To(BeNumerically("~", 0.5, 1e-12))
		Expect(field(r, "consumed_thermal_energy")).To(Equal(0.5))
	})

	It("should cool a building above its set point", func() {
		h.ApplyStimulus(snapshot(map[string]float64{
			"building_internal_temperature": 25,
			"building_thermal_set_point":    22,
		}), nil)

		h.ConsumeElectric(1)
		r := h.Finalize()

		Expect(field(r, "delta_temperature")).To(BeNumerically("~", -0.5, 1e-12))
	})

	It("should not exceed its rating", func() {
		h.ApplyStimulus(snapshot(map[string]float64{
			"building_internal_temperature": 10,
			"building_thermal_set_point":    22,
		}), nil)

		h.ConsumeElectric(5)
		r := h.Finalize()

		Expect(field(r, "consumed_electric_energy")).To(Equal(5.0))
		Expect(field(r, "delta_temperature")).To(BeNumerically("~", 1, 1e-12))
	})
})

var _ = Describe("HeatPump", func() {
	var (
		p       *HeatPump
		weather sim.Snapshot
	)

	BeforeEach(func() {
		weather = snapshot(map[string]float64{
			"building_ground_temperature":   15,
			"building_external_temperature": 0,
		})
		p = create("hp", "heat_pump",
			"{power_rating: 2, supply_temperature: 35, efficiency: 0.2, "+
				"max_cop: 5}").(*HeatPump)
		p.Reset()
	})

	It("should declare its source selector as an action", func() {
		Expect(p.ActionFields()).To(Equal([]sim.FieldSpec{
			sim.Between("hp_source", 0, 1),
		}))
	})

	It("should derive its COP from the ground by default", func() {
		p.ApplyStimulus(weather, sim.ActionVector{})

		p.ConsumeElectric(1)
		r := p.Finalize()

		cop := 0.2 * (35 + 273.15) / 20
		Expect(field(r, "source")).To(Equal(0.0))
		Expect(field(r, "cop")).To(BeNumerically("~", cop, 1e-9))
		Expect(field(r, "wasted_thermal_energy")).
			To(BeNumerically("~", cop, 1e-9))
	})

	It("should switch to air when the action rounds up", func() {
		p.ApplyStimulus(weather, sim.ActionVector{"hp_source": 0.7})

		r := p.Finalize()

		Expect(field(r, "source")).To(Equal(1.0))
		Expect(field(r, "cop")).
			To(BeNumerically("~", 0.2*(35+273.15)/35, 1e-9))
	})

	It("should release heat bounded by the electricity it received", func() {
		p.ApplyStimulus(weather, sim.ActionVector{})

		Expect(p.ProduceThermal(1)).To(Equal(0.0))

		p.ConsumeElectric(3)
		capacity := p.ThermalCapacity()
		Expect(capacity).To(BeNumerically("~", 2*p.cop, 1e-9))

		first := p.ProduceThermal(0.75)
		second := p.ProduceThermal(0.75)
		r := p.Finalize()

		Expect(first).To(BeNumerically("~", 0.75*capacity, 1e-9))
		Expect(second).To(BeNumerically("~", 0.25*capacity, 1e-9))
		Expect(field(r, "produced_thermal_energy")).
			To(BeNumerically("~", capacity, 1e-9))
		Expect(field(r, "wasted_thermal_energy")).To(BeNumerically("~", 0, 1e-9))
	})

	It("should cap the COP when the source is warmer than the supply", func() {
		p.ApplyStimulus(snapshot(map[string]float64{
			"building_ground_temperature": 40,
		}), sim.ActionVector{})

		Expect(p.Finalize()).To(ContainElement(
			sim.Field{Name: "cop", Value: 5}))
	})
})
