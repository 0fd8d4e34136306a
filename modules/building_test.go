package modules

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/casetta/sim"
)

var _ = Describe("Building", func() {
	var b *Building

	BeforeEach(func() {
		b = create("building", "building",
			"{non_shiftable_load: 2, initial_temperature: 20, "+
				"start: \"2024-03-04T06:00:00Z\"}").(*Building)
	})

	It("should report the start time at reset", func() {
		r := b.Reset()

		Expect(field(r, "year")).To(Equal(2024.0))
		Expect(field(r, "month")).To(Equal(3.0))
		Expect(field(r, "day")).To(Equal(4.0))
		Expect(field(r, "hour")).To(Equal(6.0))
		Expect(field(r, "weekday")).To(Equal(0.0))
		Expect(field(r, "internal_temperature")).To(Equal(20.0))
		Expect(field(r, "solar_irradiation")).To(BeNumerically("~", 0, 1e-9))
		Expect(field(r, "unmet_energy_load")).To(BeNumerically("~", 2, 1e-12))
	})

	It("should advance the clock by one time step per tick", func() {
		b.Reset()

		b.ApplyStimulus(sim.Snapshot{}, nil)
		b.ApplyStimulus(sim.Snapshot{}, nil)

		Expect(b.Now()).To(BeTemporally("==",
			time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)))
	})

	It("should report unmet electric and hot water demand", func() {
		b.Reset()
		b.ApplyStimulus(sim.Snapshot{}, nil)

		b.ConsumeElectric(1.5)
		b.ConsumeHotWater(10)
		r := b.Finalize()

		Expect(field(r, "hour")).To(Equal(7.0))
		Expect(field(r, "consumed_electric_energy")).To(Equal(1.5))
		Expect(field(r, "unmet_energy_load")).To(BeNumerically("~", 0.5, 1e-12))
		Expect(field(r, "domestic_hot_water_request")).To(Equal(30.0))
		Expect(field(r, "unmet_hot_water")).To(BeNumerically("~", 20, 1e-12))
	})

	It("should not report negative unmet demand", func() {
		b.Reset()
		b.ApplyStimulus(sim.Snapshot{}, nil)

		b.ConsumeElectric(5)
		r := b.Finalize()

		Expect(field(r, "unmet_energy_load")).To(Equal(0.0))
	})

	It("should drift toward the outside and add HVAC deltas", func() {
		b.Reset()
		b.ApplyStimulus(snapshot(map[string]float64{
			"hvac_delta_temperature":  1.5,
			"hvac2_delta_temperature": -0.5,
			"hvac_consumed_energy":    9,
		}), nil)
		r := b.Finalize()

		outside := externalTemperature(7)
		want := 20 + (outside-20)*0.1 + 1.5 - 0.5
		Expect(field(r, "internal_temperature")).
			To(BeNumerically("~", want, 1e-9))
	})

	It("should reset to the same record", func() {
		first := b.Reset()

		b.ApplyStimulus(sim.Snapshot{}, nil)
		b.ConsumeElectric(1)
		b.Finalize()

		Expect(b.Reset()).To(Equal(first))
	})
})
