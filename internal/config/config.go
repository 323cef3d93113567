// Package config loads and validates the simulator's YAML configuration,
// resolving it to the tomasulo engine's runtime parameters.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/swlpark/ece552/internal/tomasulo"
)

// ReservationStationConfig overrides the per-class RS slot counts.
type ReservationStationConfig struct {
	Int int `yaml:"int"`
	FP  int `yaml:"fp"`
}

// FunctionalUnitConfig overrides the per-class FU slot counts.
type FunctionalUnitConfig struct {
	Int int `yaml:"int"`
	FP  int `yaml:"fp"`
}

// LatencyConfig overrides the per-class execution latency.
type LatencyConfig struct {
	Int int `yaml:"int"`
	FP  int `yaml:"fp"`
}

// Config is the simulator's top-level configuration (spec §6, extended per
// SPEC_FULL §4.10 for multi-core and engine-parameter overrides).
type Config struct {
	NumCores   int      `yaml:"numCores"`
	TracePaths []string `yaml:"tracePaths"`

	IFQCapacity         int                      `yaml:"ifqCapacity"`
	ReservationStations ReservationStationConfig `yaml:"reservationStations"`
	FunctionalUnits     FunctionalUnitConfig     `yaml:"functionalUnits"`
	Latencies           LatencyConfig            `yaml:"latencies"`
	RegisterCount       int                      `yaml:"registerCount"`

	Debug bool `yaml:"debug"`
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validateConfig checks if the configuration is valid.
func validateConfig(cfg *Config) error {
	if cfg.NumCores <= 0 {
		return fmt.Errorf("number of cores must be positive")
	}
	if len(cfg.TracePaths) == 0 {
		return fmt.Errorf("at least one trace path is required")
	}
	if cfg.IFQCapacity <= 0 {
		return fmt.Errorf("IFQ capacity must be positive")
	}
	if cfg.ReservationStations.Int <= 0 || cfg.ReservationStations.FP <= 0 {
		return fmt.Errorf("reservation station counts must be positive")
	}
	if cfg.FunctionalUnits.Int <= 0 || cfg.FunctionalUnits.FP <= 0 {
		return fmt.Errorf("functional unit counts must be positive")
	}
	if cfg.Latencies.Int <= 0 || cfg.Latencies.FP <= 0 {
		return fmt.Errorf("latencies must be positive")
	}
	if cfg.RegisterCount <= 0 {
		return fmt.Errorf("register count must be positive")
	}
	return nil
}

// DefaultConfig returns a default configuration using the engine parameters
// named in spec §6.
func DefaultConfig() *Config {
	d := tomasulo.DefaultParams()
	return &Config{
		NumCores:   1,
		TracePaths: []string{"configs/trace.yaml"},

		IFQCapacity: d.IFQCapacity,
		ReservationStations: ReservationStationConfig{
			Int: d.RSIntSlots,
			FP:  d.RSFPSlots,
		},
		FunctionalUnits: FunctionalUnitConfig{
			Int: d.FUIntSlots,
			FP:  d.FUFPSlots,
		},
		Latencies: LatencyConfig{
			Int: d.LatencyInt,
			FP:  d.LatencyFP,
		},
		RegisterCount: d.RegisterFile,
		Debug:         false,
	}
}

// TracePath returns the trace file assigned to core i, reusing the last
// configured path when there are fewer paths than cores.
func (c *Config) TracePath(i int) string {
	if i < len(c.TracePaths) {
		return c.TracePaths[i]
	}
	return c.TracePaths[len(c.TracePaths)-1]
}

// Params resolves the configuration to tomasulo engine parameters.
func (c *Config) Params() tomasulo.Params {
	return tomasulo.Params{
		IFQCapacity:  c.IFQCapacity,
		RSIntSlots:   c.ReservationStations.Int,
		RSFPSlots:    c.ReservationStations.FP,
		FUIntSlots:   c.FunctionalUnits.Int,
		FUFPSlots:    c.FunctionalUnits.FP,
		LatencyInt:   c.Latencies.Int,
		LatencyFP:    c.Latencies.FP,
		RegisterFile: c.RegisterCount,
		Debug:        c.Debug,
	}
}
