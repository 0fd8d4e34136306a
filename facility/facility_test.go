package facility

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/casetta/sim"
)

type mockProducer struct {
	*MockModule
	*MockElectricProducer
}

type mockConsumer struct {
	*MockModule
	*MockElectricConsumer
}

var _ = Describe("Builder", func() {
	It("should reject an empty facility", func() {
		_, err := MakeBuilder().Build()

		Expect(sim.IsConfigurationError(err)).To(BeTrue())
	})

	It("should reject producers without consumers", func() {
		_, err := MakeBuilder().
			WithModules(newSource("grid", 10)).
			Build()

		Expect(sim.IsConfigurationError(err)).To(BeTrue())
	})

	It("should reject duplicate module names", func() {
		_, err := MakeBuilder().
			WithModules(newSource("grid", 10), newCounter("grid")).
			Build()

		Expect(sim.IsConfigurationError(err)).To(BeTrue())
	})

	It("should reject a kind that has producers but is not routed", func() {
		_, err := MakeBuilder().
			WithModules(newSource("grid", 10), newCounter("load")).
			WithRoutingOrder(sim.KindThermal).
			Build()

		Expect(sim.IsConfigurationError(err)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("electric"))
	})

	It("should reject a kind routed twice", func() {
		_, err := MakeBuilder().
			WithModules(newSource("grid", 10), newCounter("load")).
			WithRoutingOrder(sim.KindElectric, sim.KindElectric).
			Build()

		Expect(sim.IsConfigurationError(err)).To(BeTrue())
	})

	It("should lay out edges before module actions", func() {
		f, err := MakeBuilder().
			WithModules(
				newSource("grid", 10),
				newCounter("load"),
				newSelector("pump"),
			).
			Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(f.ActionNames()).To(Equal([]string{
			"electric_grid_to_load",
			"pump_mode",
		}))
		Expect(f.Schema().ObservationNames()).To(Equal([]string{
			"grid_released",
			"load_absorbed",
			"load_previous",
			"load_ticks",
			"pump_mode",
		}))
		Expect(f.State()).To(Equal(StateUninitialized))
	})
})

var _ = Describe("Facility", func() {
	var (
		grid *source
		a    *counter
		b    *counter
		f    *Facility
	)

	BeforeEach(func() {
		grid = newSource("grid", 10)
		a = newCounter("a")
		b = newCounter("b")

		var err error
		f, err = MakeBuilder().WithModules(grid, a, b).Build()
		Expect(err).NotTo(HaveOccurred())
	})

	It("should refuse to step before reset", func() {
		_, err := f.Step(sim.ActionVector{})

		var notReset *sim.NotResetError
		Expect(errors.As(err, &notReset)).To(BeTrue())
	})

	It("should return the same snapshot for repeated resets", func() {
		first, err := f.Reset()
		Expect(err).NotTo(HaveOccurred())

		second, err := f.Reset()
		Expect(err).NotTo(HaveOccurred())

		Expect(second.ToMap()).To(Equal(first.ToMap()))
		Expect(f.State()).To(Equal(StateReady))
	})

	It("should split an over-requested producer evenly", func() {
		_, err := f.Reset()
		Expect(err).NotTo(HaveOccurred())

		s, err := f.Step(sim.ActionVector{
			"electric_grid_to_a": 0.6,
			"electric_grid_to_b": 0.6,
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(s.Value("a_absorbed", -1)).To(BeNumerically("~", 5, 1e-9))
		Expect(s.Value("b_absorbed", -1)).To(BeNumerically("~", 5, 1e-9))
		Expect(s.Value("grid_released", -1)).To(BeNumerically("~", 10, 1e-9))
	})

	It("should feed the previous snapshot into the next stimulus", func() {
		_, err := f.Reset()
		Expect(err).NotTo(HaveOccurred())

		_, err = f.Step(sim.ActionVector{"electric_grid_to_a": 0.3})
		Expect(err).NotTo(HaveOccurred())

		s, err := f.Step(sim.ActionVector{})
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Value("a_previous", -1)).To(BeNumerically("~", 3, 1e-9))
		Expect(s.Value("a_absorbed", -1)).To(Equal(0.0))
		Expect(s.Value("a_ticks", -1)).To(Equal(2.0))
		Expect(f.Tick()).To(Equal(2))
	})

	It("should step with a flat action", func() {
		_, err := f.Reset()
		Expect(err).NotTo(HaveOccurred())

		s, err := f.StepFlat([]float64{0.2, 0})

		Expect(err).NotTo(HaveOccurred())
		Expect(s.Value("a_absorbed", -1)).To(BeNumerically("~", 2, 1e-9))
	})

	It("should reject a flat action of the wrong length", func() {
		_, err := f.Reset()
		Expect(err).NotTo(HaveOccurred())

		_, err = f.StepFlat([]float64{0.2})

		Expect(errors.Is(err, sim.ErrActionLength)).To(BeTrue())
		Expect(f.Tick()).To(Equal(0))
	})

	It("should start a new episode on every reset", func() {
		_, err := f.Reset()
		Expect(err).NotTo(HaveOccurred())
		first := f.EpisodeID()

		_, err = f.Step(sim.ActionVector{})
		Expect(err).NotTo(HaveOccurred())

		_, err = f.Reset()
		Expect(err).NotTo(HaveOccurred())

		Expect(first).NotTo(BeEmpty())
		Expect(f.EpisodeID()).NotTo(Equal(first))
		Expect(f.Tick()).To(Equal(0))
	})

	It("should not keep a reference to the caller's action", func() {
		_, err := f.Reset()
		Expect(err).NotTo(HaveOccurred())

		action := sim.ActionVector{"electric_grid_to_a": 1}
		_, err = f.Step(action)
		Expect(err).NotTo(HaveOccurred())

		action["electric_grid_to_a"] = 0
		Expect(f.Current().Action).To(HaveKeyWithValue("electric_grid_to_a", 1.0))
	})

	Context("with hooks", func() {
		var (
			mockCtrl *gomock.Controller
			hook     *MockHook
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			hook = NewMockHook(mockCtrl)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should publish reset and tick results", func() {
			f.AcceptHook(hook)

			var results []sim.TickResult
			hook.EXPECT().Func(gomock.Any()).
				Do(func(ctx sim.HookCtx) {
					results = append(results, ctx.Item.(sim.TickResult))
				}).
				Times(3)

			_, err := f.Reset()
			Expect(err).NotTo(HaveOccurred())
			_, err = f.Step(sim.ActionVector{"electric_grid_to_b": 0.5})
			Expect(err).NotTo(HaveOccurred())
			_, err = f.Step(sim.ActionVector{})
			Expect(err).NotTo(HaveOccurred())

			Expect(results).To(HaveLen(3))
			Expect(results[0].Tick).To(Equal(0))
			Expect(results[1].Tick).To(Equal(1))
			Expect(results[1].Snapshot.Value("b_absorbed", -1)).
				To(BeNumerically("~", 5, 1e-9))
			Expect(results[2].Tick).To(Equal(2))
			Expect(results[2].EpisodeID).To(Equal(results[0].EpisodeID))
		})

		It("should pass exchange hooks to every manager", func() {
			f.AcceptExchangeHook(hook)

			var transfers []sim.Transfer
			hook.EXPECT().Func(gomock.Any()).
				Do(func(ctx sim.HookCtx) {
					if t, ok := ctx.Item.(sim.Transfer); ok {
						transfers = append(transfers, t)
					}
				}).
				AnyTimes()

			_, err := f.Reset()
			Expect(err).NotTo(HaveOccurred())
			_, err = f.Step(sim.ActionVector{"electric_grid_to_a": 0.25})
			Expect(err).NotTo(HaveOccurred())

			Expect(transfers).To(HaveLen(1))
			Expect(transfers[0].Edge.Consumer).To(Equal("a"))
			Expect(transfers[0].Quantity).To(BeNumerically("~", 2.5, 1e-9))
		})
	})
})

var _ = Describe("Facility phases", func() {
	var (
		mockCtrl *gomock.Controller
		p        mockProducer
		c        mockConsumer
		f        *Facility
	)

	record := func(v float64) sim.Record {
		return sim.Record{{Name: "x", Value: v}}
	}

	newMockModule := func(name string) *MockModule {
		m := NewMockModule(mockCtrl)
		m.EXPECT().Name().Return(name).AnyTimes()
		m.EXPECT().ObservationFields().
			Return([]sim.FieldSpec{sim.Unbounded("x")}).AnyTimes()
		m.EXPECT().ActionFields().Return(nil).AnyTimes()

		return m
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		p = mockProducer{newMockModule("p"), NewMockElectricProducer(mockCtrl)}
		c = mockConsumer{newMockModule("c"), NewMockElectricConsumer(mockCtrl)}

		var err error
		f, err = MakeBuilder().WithModules(p, c).Build()
		Expect(err).NotTo(HaveOccurred())

		p.MockModule.EXPECT().Reset().Return(record(0))
		c.MockModule.EXPECT().Reset().Return(record(0))
		_, err = f.Reset()
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should stimulate all, route, then finalize all", func() {
		action := sim.ActionVector{"electric_p_to_c": 0.5}

		gomock.InOrder(
			p.MockModule.EXPECT().ApplyStimulus(gomock.Any(), action),
			c.MockModule.EXPECT().ApplyStimulus(gomock.Any(), action),
			p.MockElectricProducer.EXPECT().ProduceElectric(0.5).Return(4.0),
			c.MockElectricConsumer.EXPECT().ConsumeElectric(4.0),
			p.MockModule.EXPECT().Finalize().Return(record(-4)),
			c.MockModule.EXPECT().Finalize().Return(record(4)),
		)

		s, err := f.Step(action)

		Expect(err).NotTo(HaveOccurred())
		Expect(s.ToMap()).To(Equal(map[string]float64{"p_x": -4, "c_x": 4}))
	})

	It("should not consume when nothing is released", func() {
		p.MockModule.EXPECT().ApplyStimulus(gomock.Any(), gomock.Any())
		c.MockModule.EXPECT().ApplyStimulus(gomock.Any(), gomock.Any())
		p.MockElectricProducer.EXPECT().ProduceElectric(1.0).Return(0.0)
		p.MockModule.EXPECT().Finalize().Return(record(0))
		c.MockModule.EXPECT().Finalize().Return(record(0))

		_, err := f.Step(sim.ActionVector{"electric_p_to_c": 3})

		Expect(err).NotTo(HaveOccurred())
	})

	It("should fail when a record drifts from the schema", func() {
		p.MockModule.EXPECT().ApplyStimulus(gomock.Any(), gomock.Any())
		c.MockModule.EXPECT().ApplyStimulus(gomock.Any(), gomock.Any())
		p.MockModule.EXPECT().Finalize().Return(record(0))
		c.MockModule.EXPECT().Finalize().
			Return(sim.Record{{Name: "y", Value: 1}})

		_, err := f.Step(sim.ActionVector{})

		Expect(sim.IsConfigurationError(err)).To(BeTrue())
		Expect(f.Tick()).To(Equal(0))
	})
})
