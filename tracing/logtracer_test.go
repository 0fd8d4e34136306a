package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sarchlab/casetta/sim"
)

var _ = Describe("LogTracer", func() {
	It("should log transfers and ticks at debug level", func() {
		core, logs := observer.New(zapcore.DebugLevel)
		f, action := defaultFacility()

		CollectTrace(f, NewLogTracer(zap.New(core),
			TransfersOfKind(sim.KindHotWater)))
		runTicks(f, action, 2)

		Expect(logs.FilterMessage("trace episode").Len()).To(Equal(1))
		Expect(logs.FilterMessage("trace tick").Len()).To(Equal(2))

		transfers := logs.FilterMessage("transfer").All()
		Expect(transfers).NotTo(BeEmpty())
		for _, entry := range transfers {
			Expect(entry.ContextMap()["edge"]).To(HavePrefix("hot_water_"))
		}
	})
})
