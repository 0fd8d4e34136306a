package tracing

import (
	"sync"

	"github.com/sarchlab/casetta/sim"
)

// BalanceTracer sums the quantities moved by the transfers of the current
// episode, per resource kind and per edge. A new episode clears the totals.
type BalanceTracer struct {
	filter TransferFilter

	lock      sync.Mutex
	episodeID string
	byKind    map[sim.Kind]float64
	byEdge    map[sim.EdgeID]float64
	count     int
}

// NewBalanceTracer creates a BalanceTracer. A nil filter counts everything.
func NewBalanceTracer(filter TransferFilter) *BalanceTracer {
	if filter == nil {
		filter = AllTransfers
	}

	t := &BalanceTracer{filter: filter}
	t.clear()

	return t
}

func (t *BalanceTracer) clear() {
	t.byKind = make(map[sim.Kind]float64)
	t.byEdge = make(map[sim.EdgeID]float64)
	t.count = 0
}

// StartEpisode clears the totals.
func (t *BalanceTracer) StartEpisode(result sim.TickResult) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.episodeID = result.EpisodeID
	t.clear()
}

// Transfer adds the quantity of an accepted transfer.
func (t *BalanceTracer) Transfer(transfer sim.Transfer) {
	if !t.filter(transfer) {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	t.byKind[transfer.Edge.Kind] += transfer.Quantity
	t.byEdge[transfer.Edge] += transfer.Quantity
	t.count++
}

// EndTick does nothing
func (t *BalanceTracer) EndTick(_ sim.TickResult) {
	// Do nothing
}

// EpisodeID returns the episode the totals belong to.
func (t *BalanceTracer) EpisodeID() string {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.episodeID
}

// Total returns the quantity moved for a kind. Released and absorbed totals
// are equal because every release is delivered to exactly one consumer.
func (t *BalanceTracer) Total(kind sim.Kind) float64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.byKind[kind]
}

// EdgeTotal returns the quantity moved over one edge.
func (t *BalanceTracer) EdgeTotal(edge sim.EdgeID) float64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.byEdge[edge]
}

// Totals returns a copy of the per-kind totals.
func (t *BalanceTracer) Totals() map[sim.Kind]float64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	out := make(map[sim.Kind]float64, len(t.byKind))
	for k, v := range t.byKind {
		out[k] = v
	}

	return out
}

// Count returns the number of transfers counted.
func (t *BalanceTracer) Count() int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.count
}
