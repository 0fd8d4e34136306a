package modules

import "math"

// reservoir is the bookkeeping shared by storage modules. Quantities are in
// the unit of the stored medium.
type reservoir struct {
	capacity   float64
	initialSOC float64

	// maximum amount released per tick, 0 for no limit
	maxRelease float64

	stored    float64
	available float64
	spilled   float64
}

func newReservoir(capacity, initialSOC, maxRelease float64) reservoir {
	r := reservoir{
		capacity:   capacity,
		initialSOC: initialSOC,
		maxRelease: maxRelease,
	}
	r.reset()

	return r
}

func (r *reservoir) reset() {
	r.stored = r.capacity * r.initialSOC
	r.spilled = 0
	r.begin()
}

// begin fixes the amount that can be released in the coming tick.
func (r *reservoir) begin() {
	r.available = r.stored
	if r.maxRelease > 0 {
		r.available = math.Min(r.available, r.maxRelease)
	}
}

// settle applies one tick of inflow and outflow. Inflow beyond the capacity
// is spilled.
func (r *reservoir) settle(in, out float64) {
	level := r.stored + in - out

	r.spilled = math.Max(0, level-r.capacity)
	r.stored = math.Min(math.Max(level, 0), r.capacity)
}

func (r *reservoir) soc() float64 {
	if r.capacity == 0 {
		return 0
	}

	return r.stored / r.capacity
}
