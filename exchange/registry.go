// Package exchange discovers which modules produce and consume each resource
// kind and routes resources between them.
package exchange

import (
	"fmt"

	"github.com/sarchlab/casetta/sim"
)

// Registry classifies a set of modules by the capabilities they implement.
// Producer and consumer lists keep the order in which modules were given.
type Registry struct {
	modules   []sim.Module
	byName    map[string]sim.Module
	producers map[sim.Kind][]string
	consumers map[sim.Kind][]string
}

// NewRegistry classifies modules. Every resource kind that has a producer
// must also have a consumer.
func NewRegistry(modules []sim.Module) (*Registry, error) {
	r := &Registry{
		byName:    make(map[string]sim.Module, len(modules)),
		producers: make(map[sim.Kind][]string),
		consumers: make(map[sim.Kind][]string),
	}

	for _, m := range modules {
		if err := r.register(m); err != nil {
			return nil, err
		}
	}

	for _, kind := range sim.AllKinds() {
		if len(r.producers[kind]) > 0 && len(r.consumers[kind]) == 0 {
			return nil, &sim.ConfigurationError{
				Op: "classify modules",
				Reason: fmt.Sprintf(
					"%s has producers %v but no consumer",
					kind, r.producers[kind]),
			}
		}
	}

	return r, nil
}

func (r *Registry) register(m sim.Module) error {
	name := m.Name()
	if err := sim.ValidateName(name); err != nil {
		return err
	}

	if _, dup := r.byName[name]; dup {
		return &sim.ConfigurationError{
			Op:     "classify modules",
			Reason: fmt.Sprintf("module %s is registered twice", name),
		}
	}

	r.modules = append(r.modules, m)
	r.byName[name] = m

	for _, kind := range sim.AllKinds() {
		if sim.CanProduce(m, kind) {
			r.producers[kind] = append(r.producers[kind], name)
		}

		if sim.CanConsume(m, kind) {
			r.consumers[kind] = append(r.consumers[kind], name)
		}
	}

	return nil
}

// Modules returns every registered module in registration order.
func (r *Registry) Modules() []sim.Module {
	return append([]sim.Module(nil), r.modules...)
}

// Module returns the module with the given name.
func (r *Registry) Module(name string) (sim.Module, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// Producers returns the names of the modules that produce kind.
func (r *Registry) Producers(kind sim.Kind) []string {
	return append([]string(nil), r.producers[kind]...)
}

// Consumers returns the names of the modules that consume kind.
func (r *Registry) Consumers(kind sim.Kind) []string {
	return append([]string(nil), r.consumers[kind]...)
}

// Manager creates the exchange manager for kind.
func (r *Registry) Manager(kind sim.Kind) (*Manager, error) {
	return NewManager(kind,
		r.lookup(r.producers[kind]), r.lookup(r.consumers[kind]))
}

func (r *Registry) lookup(names []string) []sim.Module {
	out := make([]sim.Module, len(names))
	for i, n := range names {
		out[i] = r.byName[n]
	}

	return out
}
