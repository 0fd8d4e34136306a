package tracing

import (
	"go.uber.org/zap"

	"github.com/sarchlab/casetta/sim"
)

// LogTracer writes every transfer and every tick to a logger at debug level.
type LogTracer struct {
	logger *zap.Logger
	filter TransferFilter
}

// NewLogTracer creates a LogTracer. A nil filter logs every transfer.
func NewLogTracer(logger *zap.Logger, filter TransferFilter) *LogTracer {
	if filter == nil {
		filter = AllTransfers
	}

	return &LogTracer{logger: logger, filter: filter}
}

// StartEpisode logs the size of the initial snapshot.
func (t *LogTracer) StartEpisode(result sim.TickResult) {
	t.logger.Debug("trace episode",
		zap.String("episode", result.EpisodeID),
		zap.Int("fields", result.Snapshot.Len()))
}

// Transfer logs an executed edge.
func (t *LogTracer) Transfer(transfer sim.Transfer) {
	if !t.filter(transfer) {
		return
	}

	t.logger.Debug("transfer",
		zap.Stringer("edge", transfer.Edge),
		zap.Float64("requested", transfer.Requested),
		zap.Float64("fraction", transfer.Fraction),
		zap.Float64("quantity", transfer.Quantity))
}

// EndTick logs the applied action size.
func (t *LogTracer) EndTick(result sim.TickResult) {
	t.logger.Debug("trace tick",
		zap.String("episode", result.EpisodeID),
		zap.Int("tick", result.Tick),
		zap.Int("actions", len(result.Action)))
}
