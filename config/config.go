// Package config loads facility descriptions from YAML files.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/casetta/sim"
)

//go:embed default.yaml
var defaultYAML []byte

// Environment variables that override file settings.
const (
	EnvTimeStepMinutes = "CASETTA_TIME_STEP_MINUTES"
	EnvMonitorPort     = "CASETTA_MONITOR_PORT"
	EnvRecordingPath   = "CASETTA_RECORDING_PATH"
)

// Config describes one facility and how to run it.
type Config struct {
	Name string `yaml:"name" validate:"required"`

	// Length of one tick.
	TimeStepMinutes int `yaml:"time_step_minutes" validate:"min=1,max=1440"`

	// Order in which resource kinds are routed. Empty means the default
	// order.
	RoutingOrder []string `yaml:"routing_order" validate:"omitempty,unique,dive,oneof=electric thermal hot_water"`

	Modules []ModuleConfig `yaml:"modules" validate:"required,min=1,unique=Name,dive"`

	// Default action for the constant policy.
	Actions map[string]float64 `yaml:"actions,omitempty" validate:"omitempty,dive,keys,required,endkeys,min=0,max=1"`

	Recording  RecordingConfig  `yaml:"recording"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// ModuleConfig describes one module. Params are decoded by the module type.
type ModuleConfig struct {
	Name   string    `yaml:"name" validate:"required,module_name"`
	Type   string    `yaml:"type" validate:"required"`
	Params yaml.Node `yaml:"params,omitempty" validate:"-"`
}

// DecodeParams decodes the params of the module into out. Missing params
// leave out untouched.
func (m ModuleConfig) DecodeParams(out any) error {
	if m.Params.Kind == 0 {
		return nil
	}

	if err := m.Params.Decode(out); err != nil {
		return fmt.Errorf("module %s: params: %w", m.Name, err)
	}

	return nil
}

// RecordingConfig controls the SQLite recorder.
type RecordingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path" validate:"required_if=Enabled true"`
	BatchSize int    `yaml:"batch_size" validate:"min=0"`
}

// MonitoringConfig controls the HTTP monitor.
type MonitoringConfig struct {
	Enabled bool `yaml:"enabled"`

	// Zero picks a free port.
	Port int `yaml:"port" validate:"min=0,max=65535"`
}

func newConfig() *Config {
	return &Config{
		TimeStepMinutes: 5,
		Recording: RecordingConfig{
			Path:      "casetta",
			BatchSize: 1000,
		},
	}
}

// Default returns the built-in facility.
func Default() *Config {
	cfg, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default config: %v", err))
	}

	return cfg
}

// DefaultYAML returns the text of the built-in facility.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// Load reads and validates a config file. Environment overrides apply on top
// of the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse decodes and validates a config document. Environment overrides are
// not applied.
func Parse(data []byte) (*Config, error) {
	cfg := newConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv(EnvTimeStepMinutes); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeStepMinutes, err)
		}

		c.TimeStepMinutes = n
	}

	if v := os.Getenv(EnvMonitorPort); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMonitorPort, err)
		}

		c.Monitoring.Port = n
	}

	if v := os.Getenv(EnvRecordingPath); v != "" {
		c.Recording.Path = v
	}

	return nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// TimeStep returns the length of one tick.
func (c *Config) TimeStep() time.Duration {
	return time.Duration(c.TimeStepMinutes) * time.Minute
}

// Kinds returns the routing order. An empty order yields the default one.
func (c *Config) Kinds() ([]sim.Kind, error) {
	if len(c.RoutingOrder) == 0 {
		return sim.AllKinds(), nil
	}

	kinds := make([]sim.Kind, len(c.RoutingOrder))
	for i, name := range c.RoutingOrder {
		k, err := sim.ParseKind(name)
		if err != nil {
			return nil, err
		}

		kinds[i] = k
	}

	return kinds, nil
}

// Module returns the description of the named module.
func (c *Config) Module(name string) (ModuleConfig, bool) {
	for _, m := range c.Modules {
		if m.Name == name {
			return m, true
		}
	}

	return ModuleConfig{}, false
}
