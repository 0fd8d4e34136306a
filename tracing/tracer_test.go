package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/casetta/sim"
)

var _ = Describe("CollectTrace", func() {
	It("should deliver events in lifecycle order", func() {
		f, action := defaultFacility()
		tracer := &eventTracer{}

		CollectTrace(f, tracer)
		runTicks(f, action, 2)

		Expect(tracer.events[0]).To(Equal(event{"start", 0}))

		ends := []int{}
		transfersBeforeFirstEnd := 0
		for _, e := range tracer.events[1:] {
			switch e.what {
			case "end":
				ends = append(ends, e.tick)
			case "transfer":
				if len(ends) == 0 {
					transfersBeforeFirstEnd++
				}
			case "start":
				Fail("episode started twice")
			}
		}

		Expect(ends).To(Equal([]int{1, 2}))
		Expect(transfersBeforeFirstEnd).To(BeNumerically(">", 0))
		Expect(tracer.events[len(tracer.events)-1]).To(Equal(event{"end", 2}))
	})

	It("should filter transfers by kind", func() {
		filter := TransfersOfKind(sim.KindThermal)

		Expect(filter(sim.Transfer{
			Edge: sim.EdgeID{Kind: sim.KindThermal},
		})).To(BeTrue())
		Expect(filter(sim.Transfer{
			Edge: sim.EdgeID{Kind: sim.KindElectric},
		})).To(BeFalse())
	})
})
