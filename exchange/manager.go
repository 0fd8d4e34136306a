package exchange

import (
	"fmt"

	"github.com/sarchlab/casetta/sim"
)

// Manager routes one resource kind from producers to consumers. The set of
// edges is the product of producers and consumers without self pairs, fixed
// when the manager is created.
type Manager struct {
	*sim.HookableBase

	kind      sim.Kind
	edges     []sim.EdgeID
	modules   map[string]sim.Module
	producers []string

	// edge indices of each producer, in canonical order
	byProducer map[string][]int
}

// NewManager creates a manager for kind. Every producer must implement the
// producer capability of kind and every consumer the consumer capability.
func NewManager(
	kind sim.Kind,
	producers, consumers []sim.Module,
) (*Manager, error) {
	if !kind.Valid() {
		return nil, &sim.ConfigurationError{
			Op:     "create exchange manager",
			Reason: fmt.Sprintf("invalid resource kind %d", int(kind)),
		}
	}

	m := &Manager{
		HookableBase: sim.NewHookableBase(),
		kind:         kind,
		modules:      make(map[string]sim.Module),
		byProducer:   make(map[string][]int),
	}

	for _, p := range producers {
		if !sim.CanProduce(p, kind) {
			return nil, capabilityConfigError(p, kind, sim.RoleProducer)
		}

		m.modules[p.Name()] = p
	}

	for _, c := range consumers {
		if !sim.CanConsume(c, kind) {
			return nil, capabilityConfigError(c, kind, sim.RoleConsumer)
		}

		m.modules[c.Name()] = c
	}

	for _, p := range producers {
		m.producers = append(m.producers, p.Name())

		for _, c := range consumers {
			if p.Name() == c.Name() {
				continue
			}

			m.byProducer[p.Name()] = append(m.byProducer[p.Name()], len(m.edges))
			m.edges = append(m.edges, sim.EdgeID{
				Kind:     kind,
				Producer: p.Name(),
				Consumer: c.Name(),
			})
		}
	}

	return m, nil
}

func capabilityConfigError(m sim.Module, kind sim.Kind, role sim.Role) error {
	return &sim.ConfigurationError{
		Op: "create exchange manager",
		Reason: (&sim.CapabilityMismatchError{
			Module: m.Name(),
			Kind:   kind,
			Role:   role,
		}).Error(),
	}
}

// Kind returns the resource kind routed by the manager.
func (m *Manager) Kind() sim.Kind {
	return m.kind
}

// ActionSchema returns the edges in canonical order.
func (m *Manager) ActionSchema() []sim.EdgeID {
	return append([]sim.EdgeID(nil), m.edges...)
}

// ActionNames returns the action names of the edges in canonical order.
func (m *Manager) ActionNames() []string {
	names := make([]string, len(m.edges))
	for i, e := range m.edges {
		names[i] = e.String()
	}

	return names
}

// ActionFields returns the action bounds of the edges in canonical order.
func (m *Manager) ActionFields() []sim.FieldSpec {
	fields := make([]sim.FieldSpec, len(m.edges))
	for i, e := range m.edges {
		fields[i] = sim.Between(e.String(), 0, 1)
	}

	return fields
}

// Rebalance returns the fractions that Route would execute, aligned with
// ActionSchema. It does not touch any module.
func (m *Manager) Rebalance(action sim.ActionVector) []float64 {
	out := make([]float64, len(m.edges))

	for _, p := range m.producers {
		indices := m.byProducer[p]

		requested := make([]float64, len(indices))
		for i, edgeIdx := range indices {
			requested[i] = action.Fraction(m.edges[edgeIdx].String())
		}

		for i, f := range Rebalance(requested) {
			out[indices[i]] = f
		}
	}

	return out
}

// Route rebalances the action vector and executes the transfers in canonical
// edge order. Edges with a zero fraction are skipped.
func (m *Manager) Route(action sim.ActionVector) error {
	m.InvokeHook(sim.HookCtx{
		Domain: m,
		Pos:    sim.HookPosBeforeRoute,
		Item:   m.kind,
	})

	fractions := m.Rebalance(action)

	for i, edge := range m.edges {
		if fractions[i] == 0 {
			continue
		}

		if err := m.execute(edge, action, fractions[i]); err != nil {
			return fmt.Errorf("exchange %s: %w", m.kind, err)
		}
	}

	m.InvokeHook(sim.HookCtx{
		Domain: m,
		Pos:    sim.HookPosAfterRoute,
		Item:   m.kind,
	})

	return nil
}

func (m *Manager) execute(
	edge sim.EdgeID,
	action sim.ActionVector,
	fraction float64,
) error {
	quantity, err := sim.Produce(m.modules[edge.Producer], m.kind, fraction)
	if err != nil {
		return err
	}

	if quantity > 0 {
		err = sim.Consume(m.modules[edge.Consumer], m.kind, quantity)
		if err != nil {
			return err
		}
	}

	m.InvokeHook(sim.HookCtx{
		Domain: m,
		Pos:    sim.HookPosTransfer,
		Item: sim.Transfer{
			Edge:      edge,
			Requested: action.Fraction(edge.String()),
			Fraction:  fraction,
			Quantity:  quantity,
		},
	})

	return nil
}
