// Package tracing turns facility hook events into recorded rows or in-memory
// totals.
package tracing

import (
	"github.com/sarchlab/casetta/sim"
)

// A Tracer observes the episodes of a facility.
type Tracer interface {
	// StartEpisode is called after a reset with the tick 0 result.
	StartEpisode(result sim.TickResult)

	// Transfer is called for every executed edge of the tick in progress.
	Transfer(transfer sim.Transfer)

	// EndTick is called after each step.
	EndTick(result sim.TickResult)
}

// Traceable is something that publishes episode and transfer events, such as
// a facility.
type Traceable interface {
	sim.Hookable
	AcceptExchangeHook(hook sim.Hook)
}

// TransferFilter selects the transfers a tracer counts.
type TransferFilter func(t sim.Transfer) bool

// AllTransfers accepts every transfer.
func AllTransfers(sim.Transfer) bool { return true }

// TransfersOfKind accepts only the transfers of one resource kind.
func TransfersOfKind(kind sim.Kind) TransferFilter {
	return func(t sim.Transfer) bool {
		return t.Edge.Kind == kind
	}
}

// CollectTrace lets the tracer receive the events of a facility.
func CollectTrace(domain Traceable, tracer Tracer) {
	h := &traceHook{t: tracer}

	domain.AcceptHook(h)
	domain.AcceptExchangeHook(h)
}

type traceHook struct {
	t Tracer
}

// Func dispatches the hook to the tracer.
func (h *traceHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosAfterReset:
		h.t.StartEpisode(ctx.Item.(sim.TickResult))
	case sim.HookPosTransfer:
		h.t.Transfer(ctx.Item.(sim.Transfer))
	case sim.HookPosAfterTick:
		h.t.EndTick(ctx.Item.(sim.TickResult))
	}
}
