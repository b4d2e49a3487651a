package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rug-factory/rug-sim/sim"
	"github.com/rug-factory/rug-sim/sim/trace"
)

// FileConfig is the YAML layout of a simulation config file.
// Keys left out of the file keep their default values.
type FileConfig struct {
	NumMachines       int              `yaml:"num_machines"`
	OrderInterval     int64            `yaml:"order_interval"`
	OrderJitter       int64            `yaml:"order_jitter"`
	Horizon           int64            `yaml:"horizon"`
	BundleLength      float64          `yaml:"bundle_length"`
	Seed              int64            `yaml:"seed"`
	TrashDuration     int64            `yaml:"trash_duration"`
	RetryInterval     int64            `yaml:"retry_interval"`
	PrintJitter       int64            `yaml:"print_jitter"`
	AllocationLatency int64            `yaml:"allocation_latency"`
	IncludeRush       bool             `yaml:"include_rush"`
	TraceLevel        trace.TraceLevel `yaml:"trace_level"`
}

func fileConfigFrom(c sim.Config) FileConfig {
	return FileConfig{
		NumMachines:       c.NumMachines,
		OrderInterval:     c.OrderInterval,
		OrderJitter:       c.OrderJitter,
		Horizon:           c.Horizon,
		BundleLength:      c.BundleLength,
		Seed:              c.Seed,
		TrashDuration:     c.TrashDuration,
		RetryInterval:     c.RetryInterval,
		PrintJitter:       c.PrintJitter,
		AllocationLatency: c.AllocationLatency,
		IncludeRush:       c.IncludeRush,
		TraceLevel:        c.TraceLevel,
	}
}

// SimConfig converts the file layout to a sim.Config.
func (f FileConfig) SimConfig() sim.Config {
	return sim.Config{
		NumMachines:       f.NumMachines,
		OrderInterval:     f.OrderInterval,
		OrderJitter:       f.OrderJitter,
		Horizon:           f.Horizon,
		BundleLength:      f.BundleLength,
		Seed:              f.Seed,
		TrashDuration:     f.TrashDuration,
		RetryInterval:     f.RetryInterval,
		PrintJitter:       f.PrintJitter,
		AllocationLatency: f.AllocationLatency,
		IncludeRush:       f.IncludeRush,
		TraceLevel:        f.TraceLevel,
	}
}

// loadConfigFile reads a YAML config on top of sim.DefaultConfig().
// Unknown keys are errors so typos do not silently fall back to defaults.
// An empty file yields the defaults.
func loadConfigFile(path string) (sim.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sim.Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (sim.Config, error) {
	fc := fileConfigFrom(sim.DefaultConfig())
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return sim.Config{}, fmt.Errorf("parsing config YAML: %w", err)
	}
	return fc.SimConfig(), nil
}
