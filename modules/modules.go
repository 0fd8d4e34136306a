// Package modules provides the module models of a facility and a factory
// that creates them from configuration.
package modules

import (
	"fmt"
	"sort"
	"time"

	"github.com/sarchlab/casetta/config"
	"github.com/sarchlab/casetta/sim"
)

// Env carries the facility-wide settings a module may need.
type Env struct {
	TimeStep time.Duration
}

// Hours returns the length of one tick in hours.
func (e Env) Hours() float64 {
	return e.TimeStep.Hours()
}

// A Constructor creates a module from its description.
type Constructor func(desc config.ModuleConfig, env Env) (sim.Module, error)

var constructors = map[string]Constructor{
	"building":         NewBuilding,
	"electric_battery": NewBattery,
	"grid":             NewGrid,
	"photovoltaic":     NewPhotovoltaic,
	"hvac":             NewHVAC,
	"heat_pump":        NewHeatPump,
	"thermal_storage":  NewThermalStorage,
	"dhw_tank":         NewDHWTank,
}

// Types returns the supported type tags in alphabetical order.
func Types() []string {
	types := make([]string, 0, len(constructors))
	for t := range constructors {
		types = append(types, t)
	}

	sort.Strings(types)

	return types
}

// New creates the module described by desc.
func New(desc config.ModuleConfig, env Env) (sim.Module, error) {
	c, ok := constructors[desc.Type]
	if !ok {
		return nil, &sim.ConfigurationError{
			Op: "create module " + desc.Name,
			Reason: fmt.Sprintf("unsupported module type %q, want one of %v",
				desc.Type, Types()),
		}
	}

	if env.TimeStep <= 0 {
		return nil, &sim.ConfigurationError{
			Op:     "create module " + desc.Name,
			Reason: "time step must be positive",
		}
	}

	return c(desc, env)
}

// FromConfig creates every module of cfg in order.
func FromConfig(cfg *config.Config) ([]sim.Module, error) {
	env := Env{TimeStep: cfg.TimeStep()}

	out := make([]sim.Module, 0, len(cfg.Modules))
	for _, desc := range cfg.Modules {
		m, err := New(desc, env)
		if err != nil {
			return nil, err
		}

		out = append(out, m)
	}

	return out, nil
}

// decodeParams decodes and validates the params of desc into params, which
// must already hold the defaults.
func decodeParams(desc config.ModuleConfig, params any) error {
	if err := desc.DecodeParams(params); err != nil {
		return &sim.ConfigurationError{
			Op:     "create module " + desc.Name,
			Reason: err.Error(),
		}
	}

	if err := config.ValidateStruct(params); err != nil {
		return &sim.ConfigurationError{
			Op:     "create module " + desc.Name,
			Reason: err.Error(),
		}
	}

	return nil
}
