package sim

import (
	"fmt"
	"math"

	"github.com/rug-factory/rug-sim/sim/trace"
)

// MaxBundleLength bounds BundleLength so print times stay representable
// as ticks.
const MaxBundleLength = 1e9

// Config groups every parameter of a factory simulation run.
// Times are in ticks (minutes in the factory model), lengths in feet.
type Config struct {
	NumMachines   int     // printers spawned at start (must be > 0)
	OrderInterval int64   // mean ticks between order notifications (must be > OrderJitter)
	OrderJitter   int64   // uniform ± spread on OrderInterval
	Horizon       int64   // simulation end, inclusive (must be > 0)
	BundleLength  float64 // standard full bundle length (must be > 0)
	Seed          int64   // master seed for every jittered timer

	TrashDuration     int64 // ticks a printer spends discarding material (must be > 0)
	RetryInterval     int64 // ticks to wait after an unavailable answer (must be > 0)
	PrintJitter       int64 // uniform ± spread on print time around the job length
	AllocationLatency int64 // ticks between asking for a job and acting on the answer (default 0)
	IncludeRush       bool  // ask the service to include rush orders

	TraceLevel trace.TraceLevel // event trace verbosity
}

// DefaultConfig returns the factory's reference parameters.
func DefaultConfig() Config {
	return Config{
		NumMachines:       1,
		OrderInterval:     7,
		OrderJitter:       2,
		Horizon:           100,
		BundleLength:      10,
		Seed:              42,
		TrashDuration:     1,
		RetryInterval:     1,
		PrintJitter:       2,
		AllocationLatency: 0,
		IncludeRush:       true,
		TraceLevel:        trace.TraceLevelEvents,
	}
}

// Validate reports the first invalid parameter.
// Zero-tick trash and retry durations are refused because a printer looping
// on them would never let the clock advance.
func (c Config) Validate() error {
	if c.NumMachines <= 0 {
		return fmt.Errorf("number of machines must be > 0, got %d", c.NumMachines)
	}
	if c.OrderJitter < 0 {
		return fmt.Errorf("order jitter must be >= 0, got %d", c.OrderJitter)
	}
	if c.OrderInterval <= c.OrderJitter {
		return fmt.Errorf("order interval must be > order jitter (%d), got %d", c.OrderJitter, c.OrderInterval)
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("simulation horizon must be > 0, got %d", c.Horizon)
	}
	if c.BundleLength <= 0 || math.IsNaN(c.BundleLength) || math.IsInf(c.BundleLength, 0) {
		return fmt.Errorf("bundle length must be a positive finite number, got %v", c.BundleLength)
	}
	if c.BundleLength > MaxBundleLength {
		return fmt.Errorf("bundle length must be <= %g, got %v", MaxBundleLength, c.BundleLength)
	}
	if c.TrashDuration <= 0 {
		return fmt.Errorf("trash duration must be > 0, got %d", c.TrashDuration)
	}
	if c.RetryInterval <= 0 {
		return fmt.Errorf("retry interval must be > 0, got %d", c.RetryInterval)
	}
	if c.PrintJitter < 0 {
		return fmt.Errorf("print jitter must be >= 0, got %d", c.PrintJitter)
	}
	if c.AllocationLatency < 0 {
		return fmt.Errorf("allocation latency must be >= 0, got %d", c.AllocationLatency)
	}
	if !trace.IsValidTraceLevel(string(c.TraceLevel)) {
		return fmt.Errorf("unknown trace level %q", c.TraceLevel)
	}
	return nil
}
