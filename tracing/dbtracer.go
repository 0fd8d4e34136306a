package tracing

import (
	"sync"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/casetta/datarecording"
	"github.com/sarchlab/casetta/sim"
)

// Table names written by the DBTracer.
const (
	EpisodeTable  = "episodes"
	TickTable     = "ticks"
	ActionTable   = "actions"
	TransferTable = "transfers"
)

// EpisodeEntry is a row of the episodes table.
type EpisodeEntry struct {
	ID     string
	Fields int
}

// TickEntry is one observation field of one tick.
type TickEntry struct {
	Episode string
	Tick    int
	Field   string
	Value   float64
}

// ActionEntry is one action value applied to reach a tick.
type ActionEntry struct {
	Episode string
	Tick    int
	Action  string
	Value   float64
}

// TransferEntry is one executed edge.
type TransferEntry struct {
	Episode   string
	Tick      int
	Kind      string
	Producer  string
	Consumer  string
	Requested float64
	Fraction  float64
	Quantity  float64
}

// DBTracer stores snapshots, actions and transfers into a DataRecorder.
type DBTracer struct {
	mu      sync.Mutex
	backend datarecording.DataRecorder

	startTick, endTick int

	episodeID string
	tick      int
}

// NewDBTracer creates the trace tables on the recorder.
func NewDBTracer(dataRecorder datarecording.DataRecorder) *DBTracer {
	dataRecorder.CreateTable(EpisodeTable, EpisodeEntry{})
	dataRecorder.CreateTable(TickTable, TickEntry{})
	dataRecorder.CreateTable(ActionTable, ActionEntry{})
	dataRecorder.CreateTable(TransferTable, TransferEntry{})

	t := &DBTracer{
		backend: dataRecorder,
		endTick: -1,
	}

	atexit.Register(func() {
		t.Terminate()
	})

	return t
}

// SetTickRange limits tracing to ticks in [start, end]. A negative end means
// no upper limit.
func (t *DBTracer) SetTickRange(start, end int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startTick = start
	t.endTick = end
}

func (t *DBTracer) inRange(tick int) bool {
	if tick < t.startTick {
		return false
	}

	return t.endTick < 0 || tick <= t.endTick
}

// StartEpisode records the episode and its initial snapshot.
func (t *DBTracer) StartEpisode(result sim.TickResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.episodeID = result.EpisodeID
	t.tick = result.Tick

	t.backend.InsertData(EpisodeTable, EpisodeEntry{
		ID:     result.EpisodeID,
		Fields: result.Snapshot.Len(),
	})

	if t.inRange(result.Tick) {
		t.writeSnapshot(result)
	}
}

// Transfer records an edge executed during the tick in progress.
func (t *DBTracer) Transfer(transfer sim.Transfer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tick := t.tick + 1
	if t.episodeID == "" || !t.inRange(tick) {
		return
	}

	t.backend.InsertData(TransferTable, TransferEntry{
		Episode:   t.episodeID,
		Tick:      tick,
		Kind:      transfer.Edge.Kind.String(),
		Producer:  transfer.Edge.Producer,
		Consumer:  transfer.Edge.Consumer,
		Requested: transfer.Requested,
		Fraction:  transfer.Fraction,
		Quantity:  transfer.Quantity,
	})
}

// EndTick records the snapshot and the action of a finished tick.
func (t *DBTracer) EndTick(result sim.TickResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.episodeID = result.EpisodeID
	t.tick = result.Tick

	if !t.inRange(result.Tick) {
		return
	}

	t.writeSnapshot(result)

	for _, name := range sortedKeys(result.Action) {
		t.backend.InsertData(ActionTable, ActionEntry{
			Episode: result.EpisodeID,
			Tick:    result.Tick,
			Action:  name,
			Value:   result.Action[name],
		})
	}
}

func (t *DBTracer) writeSnapshot(result sim.TickResult) {
	values := result.Snapshot.Values()

	for i, name := range result.Snapshot.Names() {
		t.backend.InsertData(TickTable, TickEntry{
			Episode: result.EpisodeID,
			Tick:    result.Tick,
			Field:   name,
			Value:   values[i],
		})
	}
}

// Terminate flushes the recorder.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend.Flush()
}
