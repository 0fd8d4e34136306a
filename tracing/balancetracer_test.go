package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/casetta/facility"
	"github.com/sarchlab/casetta/sim"
)

var _ = Describe("BalanceTracer", func() {
	var (
		f        *facility.Facility
		action   sim.ActionVector
		expected map[sim.Kind]float64
		edges    int
	)

	BeforeEach(func() {
		f, action = defaultFacility()
		expected = make(map[sim.Kind]float64)
		edges = 0

		f.AcceptExchangeHook(sim.HookFunc(func(ctx sim.HookCtx) {
			if t, ok := ctx.Item.(sim.Transfer); ok {
				expected[t.Edge.Kind] += t.Quantity
				edges++
			}
		}))
	})

	It("should sum quantities per kind", func() {
		tracer := NewBalanceTracer(nil)
		CollectTrace(f, tracer)

		runTicks(f, action, 3)

		Expect(tracer.Count()).To(Equal(edges))
		Expect(tracer.EpisodeID()).To(Equal(f.EpisodeID()))
		for _, k := range sim.AllKinds() {
			Expect(tracer.Total(k)).To(BeNumerically("~", expected[k], 1e-9))
		}
		Expect(tracer.Total(sim.KindElectric)).To(BeNumerically(">", 0))
	})

	It("should sum per edge", func() {
		tracer := NewBalanceTracer(TransfersOfKind(sim.KindElectric))
		CollectTrace(f, tracer)

		runTicks(f, action, 2)

		totals := tracer.Totals()
		Expect(totals).To(HaveLen(1))
		Expect(totals).To(HaveKey(sim.KindElectric))

		edge := sim.EdgeID{
			Kind:     sim.KindElectric,
			Producer: "grid",
			Consumer: "building",
		}
		Expect(tracer.EdgeTotal(edge)).To(BeNumerically(">", 0))
		Expect(tracer.EdgeTotal(edge)).To(
			BeNumerically("<=", tracer.Total(sim.KindElectric)))
	})

	It("should clear totals when a new episode starts", func() {
		tracer := NewBalanceTracer(nil)
		CollectTrace(f, tracer)

		runTicks(f, action, 2)
		first := tracer.EpisodeID()

		_, err := f.Reset()
		Expect(err).NotTo(HaveOccurred())

		Expect(tracer.EpisodeID()).NotTo(Equal(first))
		Expect(tracer.Count()).To(BeZero())
		Expect(tracer.Totals()).To(BeEmpty())
	})
})
