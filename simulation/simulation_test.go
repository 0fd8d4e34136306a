package simulation

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/casetta/config"
	"github.com/sarchlab/casetta/datarecording"
	"github.com/sarchlab/casetta/facility"
	"github.com/sarchlab/casetta/sim"
	"github.com/sarchlab/casetta/tracing"
)

var _ = Describe("Simulation", func() {
	var (
		cfg        *config.Config
		simulation *Simulation
	)

	BeforeEach(func() {
		cfg = config.Default()
	})

	AfterEach(func() {
		if simulation != nil {
			simulation.Terminate()
			simulation = nil
		}
	})

	It("should require a configuration", func() {
		_, err := MakeBuilder().Build()
		Expect(err).To(HaveOccurred())
	})

	It("should reject an unknown module type", func() {
		cfg.Modules[0].Type = "fusion_reactor"

		_, err := MakeBuilder().WithConfig(cfg).Build()
		Expect(err).To(HaveOccurred())
		Expect(sim.IsConfigurationError(err)).To(BeTrue())
	})

	It("should run an episode without services", func() {
		var err error
		simulation, err = MakeBuilder().WithConfig(cfg).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(simulation.GetDataRecorder()).To(BeNil())
		Expect(simulation.GetMonitor()).To(BeNil())
		Expect(simulation.OutputPath()).To(BeEmpty())

		Expect(simulation.Run(context.Background(), 4)).To(Succeed())

		Expect(simulation.Facility().Tick()).To(Equal(4))
		Expect(simulation.Balance().Total(sim.KindElectric)).
			To(BeNumerically(">", 0))
		Expect(simulation.Metrics()).NotTo(BeNil())
	})

	It("should use the given policy", func() {
		calls := 0
		p := facility.PolicyFunc(func(sim.Snapshot) sim.ActionVector {
			calls++
			return sim.ActionVector{}
		})

		var err error
		simulation, err = MakeBuilder().WithConfig(cfg).WithPolicy(p).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(simulation.Run(context.Background(), 3)).To(Succeed())
		Expect(calls).To(Equal(3))
		Expect(simulation.Balance().Count()).To(BeZero())
	})

	It("should build a named policy", func() {
		var err error
		simulation, err = MakeBuilder().
			WithConfig(cfg).
			WithPolicyName("random", 7).
			Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(simulation.Run(context.Background(), 2)).To(Succeed())
	})

	It("should reject an unknown policy name", func() {
		_, err := MakeBuilder().
			WithConfig(cfg).
			WithPolicyName("greedy", 0).
			Build()
		Expect(err).To(HaveOccurred())
	})

	It("should record episodes", func() {
		path := filepath.Join(GinkgoT().TempDir(), "run")

		var err error
		simulation, err = MakeBuilder().
			WithConfig(cfg).
			WithRecording(path).
			Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(simulation.OutputPath()).To(
			Equal(path + "_" + simulation.ID() + ".sqlite3"))

		Expect(simulation.Run(context.Background(), 2)).To(Succeed())
		fields := simulation.Facility().Snapshot().Len()

		simulation.Terminate()

		reader := datarecording.NewReader(simulation.OutputPath())
		defer reader.Close()

		reader.MapTable(tracing.TickTable, tracing.TickEntry{})
		reader.MapTable(datarecording.ExecInfoTable, datarecording.ExecInfo{})

		_, ticks, err := reader.Query(context.Background(), tracing.TickTable,
			datarecording.QueryParams{})
		Expect(err).NotTo(HaveOccurred())
		Expect(ticks).To(Equal(3 * fields))

		rows, _, err := reader.Query(context.Background(),
			datarecording.ExecInfoTable,
			datarecording.QueryParams{Where: "Property = 'Simulation'"})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].(*datarecording.ExecInfo).Value).
			To(Equal(simulation.ID()))
	})

	It("should serve the monitor", func() {
		var err error
		simulation, err = MakeBuilder().
			WithConfig(cfg).
			WithMonitorPort(0).
			Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(simulation.MonitorPort()).To(BeNumerically(">", 0))

		Expect(simulation.Run(context.Background(), 1)).To(Succeed())

		url := fmt.Sprintf("http://localhost:%d/api/now",
			simulation.MonitorPort())
		rsp, err := http.Get(url)
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()

		Expect(rsp.StatusCode).To(Equal(http.StatusOK))
	})
})
