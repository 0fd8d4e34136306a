// Package policy provides action sources that drive a facility runner.
package policy

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/sarchlab/casetta/facility"
	"github.com/sarchlab/casetta/sim"
)

// Constant repeats the same action every tick.
type Constant struct {
	action sim.ActionVector
}

// NewConstant creates a policy that always returns action.
func NewConstant(action map[string]float64) *Constant {
	c := &Constant{action: make(sim.ActionVector, len(action))}
	for k, v := range action {
		c.action[k] = v
	}

	return c
}

// Act returns a copy of the constant action.
func (c *Constant) Act(_ sim.Snapshot) sim.ActionVector {
	out := make(sim.ActionVector, len(c.action))
	for k, v := range c.action {
		out[k] = v
	}

	return out
}

// Random draws every action uniformly from [0, 1). Two policies with the
// same seed and names produce the same sequence.
type Random struct {
	names []string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a random policy over the given action names.
func NewRandom(names []string, seed int64) *Random {
	return &Random{
		names: append([]string(nil), names...),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Act draws a new action.
func (r *Random) Act(_ sim.Snapshot) sim.ActionVector {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(sim.ActionVector, len(r.names))
	for _, n := range r.names {
		out[n] = r.rng.Float64()
	}

	return out
}

// Names of the built-in policies.
const (
	NameConstant = "constant"
	NameRandom   = "random"
)

// ByName creates a built-in policy. The constant policy uses action; the
// random policy draws over names with seed.
func ByName(
	name string,
	action map[string]float64,
	names []string,
	seed int64,
) (facility.Policy, error) {
	switch name {
	case NameConstant:
		return NewConstant(action), nil
	case NameRandom:
		return NewRandom(names, seed), nil
	default:
		return nil, fmt.Errorf("unknown policy %q, want %s or %s",
			name, NameConstant, NameRandom)
	}
}
