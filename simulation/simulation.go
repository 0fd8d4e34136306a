// Package simulation assembles a runnable facility with its recorder, tracers,
// metrics, and monitor.
package simulation

import (
	"context"
	"time"

	"github.com/sarchlab/casetta/datarecording"
	"github.com/sarchlab/casetta/facility"
	"github.com/sarchlab/casetta/metrics"
	"github.com/sarchlab/casetta/monitoring"
	"github.com/sarchlab/casetta/tracing"
)

// A Simulation owns one facility and the services attached to it.
type Simulation struct {
	id string

	facility *facility.Facility
	runner   *facility.Runner

	balance  *tracing.BalanceTracer
	registry *metrics.Registry

	dataRecorder datarecording.DataRecorder
	dbTracer     *tracing.DBTracer
	execRecorder *datarecording.ExecRecorder
	outputPath   string

	monitor     *monitoring.Monitor
	monitorPort int

	terminated bool
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// Facility returns the facility.
func (s *Simulation) Facility() *facility.Facility {
	return s.facility
}

// Runner returns the runner that drives the facility.
func (s *Simulation) Runner() *facility.Runner {
	return s.runner
}

// Balance returns the tracer that sums the transferred quantities.
func (s *Simulation) Balance() *tracing.BalanceTracer {
	return s.balance
}

// Metrics returns the metrics registry.
func (s *Simulation) Metrics() *metrics.Registry {
	return s.registry
}

// GetDataRecorder returns the data recorder, or nil if recording is off.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// OutputPath returns the recording file, or "" if recording is off.
func (s *Simulation) OutputPath() string {
	return s.outputPath
}

// GetMonitor returns the monitor, or nil if monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorPort returns the port of the monitor, or 0 if monitoring is off.
func (s *Simulation) MonitorPort() int {
	return s.monitorPort
}

// Run runs one episode of ticks steps.
func (s *Simulation) Run(ctx context.Context, ticks int) error {
	return s.runner.Run(ctx, ticks)
}

// Terminate flushes the recorder and stops the monitor. It is safe to call
// more than once.
func (s *Simulation) Terminate() {
	if s.terminated {
		return
	}

	s.terminated = true

	if s.dataRecorder != nil {
		s.execRecorder.End()
		s.dbTracer.Terminate()
		s.dataRecorder.Close()
	}

	if s.monitor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		_ = s.monitor.Shutdown(ctx)
	}
}
