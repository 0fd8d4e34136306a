package metrics

import (
	"github.com/sarchlab/casetta/sim"
)

// RecordEpisode records the start of an episode.
func (r *Registry) RecordEpisode(result sim.TickResult) {
	r.EpisodesTotal.Inc()
	r.RecordSnapshot(result)
}

// RecordTick records a finished tick.
func (r *Registry) RecordTick(result sim.TickResult) {
	r.TicksTotal.Inc()
	r.RecordSnapshot(result)
}

// RecordSnapshot sets the observation gauges and the tick gauge.
func (r *Registry) RecordSnapshot(result sim.TickResult) {
	r.CurrentTick.Set(float64(result.Tick))

	values := result.Snapshot.Values()
	for i, name := range result.Snapshot.Names() {
		r.Observation.WithLabelValues(name).Set(values[i])
	}
}

// RecordTransfer records an executed edge.
func (r *Registry) RecordTransfer(t sim.Transfer) {
	kind := t.Edge.Kind.String()

	r.TransfersTotal.WithLabelValues(kind).Inc()
	r.TransferredQuantity.
		WithLabelValues(kind, t.Edge.Producer, t.Edge.Consumer).
		Add(t.Quantity)
	r.TransferFraction.WithLabelValues(kind).Observe(t.Fraction)
}

// StartEpisode lets the registry be attached with tracing.CollectTrace.
func (r *Registry) StartEpisode(result sim.TickResult) {
	r.RecordEpisode(result)
}

// Transfer lets the registry be attached with tracing.CollectTrace.
func (r *Registry) Transfer(t sim.Transfer) {
	r.RecordTransfer(t)
}

// EndTick lets the registry be attached with tracing.CollectTrace.
func (r *Registry) EndTick(result sim.TickResult) {
	r.RecordTick(result)
}
