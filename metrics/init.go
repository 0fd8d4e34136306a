package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initEpisodeMetrics() {
	r.EpisodesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "casetta_episodes_total",
			Help: "Number of episodes started",
		},
	)

	r.TicksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "casetta_ticks_total",
			Help: "Number of ticks executed across all episodes",
		},
	)

	r.CurrentTick = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "casetta_current_tick",
			Help: "Tick index of the current episode",
		},
	)
}

func (r *Registry) initExchangeMetrics() {
	r.TransfersTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "casetta_transfers_total",
			Help: "Number of executed transfers",
		},
		[]string{"kind"},
	)

	r.TransferredQuantity = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "casetta_transferred_quantity_total",
			Help: "Quantity moved over each edge",
		},
		[]string{"kind", "producer", "consumer"},
	)

	r.TransferFraction = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "casetta_transfer_fraction",
			Help:    "Executed fraction of each transfer after rebalancing",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		},
		[]string{"kind"},
	)
}

func (r *Registry) initObservationMetrics() {
	r.Observation = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "casetta_observation",
			Help: "Latest value of each observation field",
		},
		[]string{"field"},
	)
}
