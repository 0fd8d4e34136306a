package simulation

import (
	"errors"
	"fmt"

	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/sarchlab/casetta/config"
	"github.com/sarchlab/casetta/datarecording"
	"github.com/sarchlab/casetta/facility"
	"github.com/sarchlab/casetta/metrics"
	"github.com/sarchlab/casetta/modules"
	"github.com/sarchlab/casetta/monitoring"
	"github.com/sarchlab/casetta/policy"
	"github.com/sarchlab/casetta/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	cfg    *config.Config
	logger *zap.Logger
	policy facility.Policy

	policyName string
	seed       int64

	recordingOn    bool
	outputFileName string
	batchSize      int

	monitorOn   bool
	monitorPort int

	registry *metrics.Registry
}

// MakeBuilder creates a new builder. Recording and monitoring follow the
// configuration unless overridden.
func MakeBuilder() Builder {
	return Builder{
		logger: zap.NewNop(),
	}
}

// WithConfig sets the facility configuration.
func (b Builder) WithConfig(cfg *config.Config) Builder {
	b.cfg = cfg
	b.recordingOn = cfg.Recording.Enabled
	b.outputFileName = cfg.Recording.Path
	b.batchSize = cfg.Recording.BatchSize
	b.monitorOn = cfg.Monitoring.Enabled
	b.monitorPort = cfg.Monitoring.Port

	return b
}

// WithLogger sets the logger of the facility and the runner.
func (b Builder) WithLogger(logger *zap.Logger) Builder {
	b.logger = logger
	return b
}

// WithPolicy sets the policy. The default replays the configured actions.
func (b Builder) WithPolicy(p facility.Policy) Builder {
	b.policy = p
	return b
}

// WithPolicyName selects a built-in policy. The seed is used by the random
// policy.
func (b Builder) WithPolicyName(name string, seed int64) Builder {
	b.policyName = name
	b.seed = seed

	return b
}

// WithRecording records the episodes into path_<id>.sqlite3.
func (b Builder) WithRecording(path string) Builder {
	b.recordingOn = true
	b.outputFileName = path

	return b
}

// WithoutRecording disables the data recorder.
func (b Builder) WithoutRecording() Builder {
	b.recordingOn = false
	return b
}

// WithMonitorPort enables the monitor on a port. Zero picks a free port.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorOn = true
	b.monitorPort = port

	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMetrics sets the registry that receives the facility metrics.
func (b Builder) WithMetrics(r *metrics.Registry) Builder {
	b.registry = r
	return b
}

// Build assembles the facility, the runner, and the optional services.
func (b Builder) Build() (*Simulation, error) {
	if b.cfg == nil {
		return nil, errors.New("simulation: no configuration")
	}

	s := &Simulation{
		id:       xid.New().String(),
		registry: b.registry,
	}

	logger := b.logger.With(zap.String("simulation", s.id))

	if err := b.buildFacility(s, logger); err != nil {
		return nil, err
	}

	if b.recordingOn {
		b.buildRecording(s)
	}

	if b.monitorOn {
		if err := b.buildMonitor(s); err != nil {
			s.Terminate()
			return nil, err
		}
	}

	return s, nil
}

func (b Builder) buildFacility(s *Simulation, logger *zap.Logger) error {
	ms, err := modules.FromConfig(b.cfg)
	if err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	kinds, err := b.cfg.Kinds()
	if err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	s.facility, err = facility.MakeBuilder().
		WithModules(ms...).
		WithRoutingOrder(kinds...).
		WithLogger(logger).
		Build()
	if err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	p := b.policy
	if p == nil {
		name := b.policyName
		if name == "" {
			name = policy.NameConstant
		}

		p, err = policy.ByName(name, b.cfg.Actions, s.facility.ActionNames(), b.seed)
		if err != nil {
			return fmt.Errorf("simulation: %w", err)
		}
	}

	s.runner = facility.NewRunner(s.facility, p)

	s.balance = tracing.NewBalanceTracer(nil)
	tracing.CollectTrace(s.facility, s.balance)

	if s.registry == nil {
		s.registry = metrics.NewRegistry()
	}

	tracing.CollectTrace(s.facility, s.registry)

	return nil
}

func (b Builder) buildRecording(s *Simulation) {
	path := b.outputFileName
	if path == "" {
		path = "casetta"
	}

	s.outputPath = path + "_" + s.id + ".sqlite3"
	s.dataRecorder = datarecording.NewWithBatchSize(path+"_"+s.id, b.batchSize)

	s.dbTracer = tracing.NewDBTracer(s.dataRecorder)
	tracing.CollectTrace(s.facility, s.dbTracer)

	s.execRecorder = datarecording.NewExecRecorder(s.dataRecorder)
	s.execRecorder.Start(map[string]string{
		"Facility":   b.cfg.Name,
		"Simulation": s.id,
		"Time Step":  b.cfg.TimeStep().String(),
	})
}

func (b Builder) buildMonitor(s *Simulation) error {
	s.monitor = monitoring.NewMonitor().WithPortNumber(b.monitorPort)
	s.monitor.RegisterFacility(s.facility)
	s.monitor.RegisterController(s.runner)
	s.monitor.RegisterGatherer(s.registry.GetPrometheusRegistry())

	port, err := s.monitor.StartServer()
	if err != nil {
		s.monitor = nil
		return fmt.Errorf("simulation: start monitor: %w", err)
	}

	s.monitorPort = port

	return nil
}
