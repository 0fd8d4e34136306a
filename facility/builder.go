package facility

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sarchlab/casetta/exchange"
	"github.com/sarchlab/casetta/sim"
	"github.com/sarchlab/casetta/state"
)

// Builder can build facilities.
type Builder struct {
	modules      []sim.Module
	routingOrder []sim.Kind
	logger       *zap.Logger
}

// MakeBuilder creates a builder with the default routing order and a no-op
// logger.
func MakeBuilder() Builder {
	return Builder{
		routingOrder: sim.AllKinds(),
		logger:       zap.NewNop(),
	}
}

// WithModules appends modules. Registration order is the order in which
// modules are stimulated and finalized, and the order of the observation.
func (b Builder) WithModules(modules ...sim.Module) Builder {
	b.modules = append(append([]sim.Module(nil), b.modules...), modules...)
	return b
}

// WithRoutingOrder sets the order in which resource kinds are routed.
func (b Builder) WithRoutingOrder(kinds ...sim.Kind) Builder {
	b.routingOrder = append([]sim.Kind(nil), kinds...)
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(logger *zap.Logger) Builder {
	b.logger = logger
	return b
}

// Build classifies the modules, creates one exchange manager per routed kind,
// and fixes the schema.
func (b Builder) Build() (*Facility, error) {
	if len(b.modules) == 0 {
		return nil, &sim.ConfigurationError{
			Op:     "build facility",
			Reason: "no module is registered",
		}
	}

	registry, err := exchange.NewRegistry(b.modules)
	if err != nil {
		return nil, fmt.Errorf("facility: %w", err)
	}

	managers, err := b.buildManagers(registry)
	if err != nil {
		return nil, fmt.Errorf("facility: %w", err)
	}

	sb := state.MakeSchemaBuilder().WithModules(b.modules...)
	for _, m := range managers {
		sb = sb.WithExchanges(m)
	}

	schema, err := sb.Build()
	if err != nil {
		return nil, fmt.Errorf("facility: %w", err)
	}

	f := &Facility{
		HookableBase: sim.NewHookableBase(),
		modules:      registry.Modules(),
		byName:       make(map[string]sim.Module, len(b.modules)),
		managers:     managers,
		schema:       schema,
		actionNames:  schema.ActionNames(),
		composer:     state.NewComposer(schema),
		logger:       b.logger,
	}

	for _, m := range f.modules {
		f.byName[m.Name()] = m
	}

	if f.logger == nil {
		f.logger = zap.NewNop()
	}

	f.logger.Debug("facility built",
		zap.Int("modules", len(f.modules)),
		zap.Strings("actions", f.actionNames),
		zap.Int("observations", len(schema.Observation)))

	return f, nil
}

func (b Builder) buildManagers(
	registry *exchange.Registry,
) ([]*exchange.Manager, error) {
	routed := make(map[sim.Kind]bool)
	managers := make([]*exchange.Manager, 0, len(b.routingOrder))

	for _, kind := range b.routingOrder {
		if !kind.Valid() {
			return nil, &sim.ConfigurationError{
				Op:     "build facility",
				Reason: fmt.Sprintf("invalid resource kind %d", int(kind)),
			}
		}

		if routed[kind] {
			return nil, &sim.ConfigurationError{
				Op:     "build facility",
				Reason: fmt.Sprintf("%s is routed twice", kind),
			}
		}

		routed[kind] = true

		m, err := registry.Manager(kind)
		if err != nil {
			return nil, err
		}

		managers = append(managers, m)
	}

	for _, kind := range sim.AllKinds() {
		if !routed[kind] && len(registry.Producers(kind)) > 0 {
			return nil, &sim.ConfigurationError{
				Op: "build facility",
				Reason: fmt.Sprintf(
					"%s has producers but is missing from the routing order",
					kind),
			}
		}
	}

	return managers, nil
}
