// Package facility drives a set of modules through reset and step ticks.
package facility

import (
	"fmt"
	"sync"

	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/sarchlab/casetta/exchange"
	"github.com/sarchlab/casetta/sim"
	"github.com/sarchlab/casetta/state"
)

// State is the lifecycle state of a facility.
type State int

// A facility is Uninitialized until its first Reset and Ready afterwards.
const (
	StateUninitialized State = iota
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// A Facility owns the modules and the exchange managers of one simulated
// site. Each Step runs the stimulus, routing, and finalize phases in order.
//
// Step and Reset must not be called concurrently. The read-only accessors may
// be called from other goroutines, e.g., a monitor.
type Facility struct {
	*sim.HookableBase

	modules     []sim.Module
	byName      map[string]sim.Module
	managers    []*exchange.Manager
	schema      state.Schema
	actionNames []string
	composer    *state.Composer
	logger      *zap.Logger

	mu        sync.RWMutex
	state     State
	episodeID string
	tick      int
	snapshot  sim.Snapshot
	action    sim.ActionVector
}

// Reset starts a new episode. Every module returns to its initial condition
// and the tick-zero snapshot is returned.
func (f *Facility) Reset() (sim.Snapshot, error) {
	records := make([]state.NamedRecord, len(f.modules))
	for i, m := range f.modules {
		records[i] = state.NamedRecord{Module: m.Name(), Record: m.Reset()}
	}

	snapshot, err := f.composer.Merge(records)
	if err != nil {
		return sim.Snapshot{}, fmt.Errorf("facility: reset: %w", err)
	}

	f.mu.Lock()
	f.state = StateReady
	f.episodeID = xid.New().String()
	f.tick = 0
	f.snapshot = snapshot
	f.action = nil
	result := f.resultLocked()
	f.mu.Unlock()

	f.logger.Info("episode started",
		zap.String("episode", result.EpisodeID),
		zap.Int("modules", len(f.modules)),
		zap.Int("actions", len(f.actionNames)))

	f.InvokeHook(sim.HookCtx{
		Domain: f,
		Pos:    sim.HookPosAfterReset,
		Item:   result,
	})

	return snapshot, nil
}

// Step advances the facility by one tick under action. Missing action entries
// read as zero; unknown entries are ignored.
func (f *Facility) Step(action sim.ActionVector) (sim.Snapshot, error) {
	f.mu.RLock()
	ready := f.state == StateReady
	prev := f.snapshot
	f.mu.RUnlock()

	if !ready {
		return sim.Snapshot{}, &sim.NotResetError{}
	}

	action = copyAction(action)

	for _, m := range f.modules {
		m.ApplyStimulus(prev, action)
	}

	for _, mgr := range f.managers {
		if err := mgr.Route(action); err != nil {
			return sim.Snapshot{}, fmt.Errorf("facility: step: %w", err)
		}
	}

	records := make([]state.NamedRecord, len(f.modules))
	for i, m := range f.modules {
		records[i] = state.NamedRecord{Module: m.Name(), Record: m.Finalize()}
	}

	snapshot, err := f.composer.Merge(records)
	if err != nil {
		return sim.Snapshot{}, fmt.Errorf("facility: step: %w", err)
	}

	f.mu.Lock()
	f.tick++
	f.snapshot = snapshot
	f.action = action
	result := f.resultLocked()
	f.mu.Unlock()

	f.logger.Debug("tick",
		zap.String("episode", result.EpisodeID),
		zap.Int("tick", result.Tick))

	f.InvokeHook(sim.HookCtx{
		Domain: f,
		Pos:    sim.HookPosAfterTick,
		Item:   result,
	})

	return snapshot, nil
}

// StepFlat is Step with the action given in the order of ActionNames.
func (f *Facility) StepFlat(values []float64) (sim.Snapshot, error) {
	action, err := sim.ActionVectorFromFlat(f.actionNames, values)
	if err != nil {
		return sim.Snapshot{}, fmt.Errorf("facility: step: %w", err)
	}

	return f.Step(action)
}

func (f *Facility) resultLocked() sim.TickResult {
	return sim.TickResult{
		EpisodeID: f.episodeID,
		Tick:      f.tick,
		Snapshot:  f.snapshot,
		Action:    copyAction(f.action),
	}
}

func copyAction(action sim.ActionVector) sim.ActionVector {
	out := make(sim.ActionVector, len(action))
	for k, v := range action {
		out[k] = v
	}

	return out
}

// AcceptExchangeHook registers hook with every exchange manager.
func (f *Facility) AcceptExchangeHook(hook sim.Hook) {
	for _, m := range f.managers {
		m.AcceptHook(hook)
	}
}

// State returns the lifecycle state.
func (f *Facility) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.state
}

// Current returns the latest published tick.
func (f *Facility) Current() sim.TickResult {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.resultLocked()
}

// Snapshot returns the latest snapshot.
func (f *Facility) Snapshot() sim.Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.snapshot
}

// Tick returns the number of steps taken in the current episode.
func (f *Facility) Tick() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.tick
}

// EpisodeID returns the ID of the current episode, or an empty string before
// the first Reset.
func (f *Facility) EpisodeID() string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.episodeID
}

// Schema returns the observation and action schema.
func (f *Facility) Schema() state.Schema {
	return f.schema
}

// ActionNames returns the canonical order of flat actions.
func (f *Facility) ActionNames() []string {
	return append([]string(nil), f.actionNames...)
}

// Modules returns the modules in registration order.
func (f *Facility) Modules() []sim.Module {
	return append([]sim.Module(nil), f.modules...)
}

// Module returns a module by name.
func (f *Facility) Module(name string) (sim.Module, bool) {
	m, ok := f.byName[name]
	return m, ok
}

// Managers returns the exchange managers in routing order.
func (f *Facility) Managers() []*exchange.Manager {
	return append([]*exchange.Manager(nil), f.managers...)
}
