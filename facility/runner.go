package facility

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/sarchlab/casetta/sim"
)

// A Policy decides the action of the next tick from the latest snapshot.
type Policy interface {
	Act(snapshot sim.Snapshot) sim.ActionVector
}

// PolicyFunc adapts a function into a Policy.
type PolicyFunc func(snapshot sim.Snapshot) sim.ActionVector

// Act calls f(snapshot).
func (f PolicyFunc) Act(snapshot sim.Snapshot) sim.ActionVector {
	return f(snapshot)
}

// A Runner drives one facility through episodes. It can be paused between
// ticks.
type Runner struct {
	facility *Facility
	policy   Policy
	logger   *zap.Logger

	pauseLock sync.Mutex
	isPaused  bool
	resume    chan struct{}

	done  atomic.Int64
	total atomic.Int64

	runLock sync.Mutex
	wg      sync.WaitGroup
	err     error
}

// NewRunner creates a runner that asks policy for every action.
func NewRunner(f *Facility, policy Policy) *Runner {
	return &Runner{
		facility: f,
		policy:   policy,
		logger:   f.logger,
	}
}

// Facility returns the facility driven by the runner.
func (r *Runner) Facility() *Facility {
	return r.facility
}

// Run resets the facility and steps it ticks times. It returns early with the
// context's error if ctx is cancelled between ticks.
func (r *Runner) Run(ctx context.Context, ticks int) error {
	r.runLock.Lock()
	defer r.runLock.Unlock()

	r.done.Store(0)
	r.total.Store(int64(ticks))

	snapshot, err := r.facility.Reset()
	if err != nil {
		return err
	}

	for i := 0; i < ticks; i++ {
		if err := r.waitIfPaused(ctx); err != nil {
			return r.stopped(err)
		}

		if err := ctx.Err(); err != nil {
			return r.stopped(err)
		}

		snapshot, err = r.facility.Step(r.policy.Act(snapshot))
		if err != nil {
			return fmt.Errorf("tick %d: %w", i+1, err)
		}

		r.done.Add(1)
	}

	r.logger.Info("episode finished",
		zap.String("episode", r.facility.EpisodeID()),
		zap.Int("ticks", ticks))

	return nil
}

func (r *Runner) stopped(err error) error {
	r.logger.Info("episode stopped",
		zap.String("episode", r.facility.EpisodeID()),
		zap.Int64("ticks", r.done.Load()),
		zap.Error(err))

	return err
}

// Start runs the episode in the background. Call Wait for the result.
func (r *Runner) Start(ctx context.Context, ticks int) {
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()
		r.err = r.Run(ctx, ticks)
	}()
}

// Wait blocks until the episode started by Start ends and returns its error.
func (r *Runner) Wait() error {
	r.wg.Wait()
	return r.err
}

// Pause stops the runner before the next tick.
func (r *Runner) Pause() {
	r.pauseLock.Lock()
	defer r.pauseLock.Unlock()

	if r.isPaused {
		return
	}

	r.isPaused = true
	r.resume = make(chan struct{})
}

// Continue lets a paused runner proceed.
func (r *Runner) Continue() {
	r.pauseLock.Lock()
	defer r.pauseLock.Unlock()

	if !r.isPaused {
		return
	}

	r.isPaused = false
	close(r.resume)
}

// IsPaused reports whether the runner is paused.
func (r *Runner) IsPaused() bool {
	r.pauseLock.Lock()
	defer r.pauseLock.Unlock()

	return r.isPaused
}

func (r *Runner) waitIfPaused(ctx context.Context) error {
	r.pauseLock.Lock()
	if !r.isPaused {
		r.pauseLock.Unlock()
		return nil
	}
	resume := r.resume
	r.pauseLock.Unlock()

	select {
	case <-resume:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Progress returns the number of ticks run and the number requested in the
// current episode.
func (r *Runner) Progress() (done, total int) {
	return int(r.done.Load()), int(r.total.Load())
}
