package sim

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey, configuration and allocation
// responses MUST produce identical traces and wasted totals.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemOrders is the RNG subsystem for order inter-arrival jitter.
	// Uses master seed directly.
	SubsystemOrders = "orders"
)

// SubsystemPrinter returns the subsystem name for printer N.
// Each printer draws its print-time jitter from its own stream so that
// adding a printer does not perturb the others.
func SubsystemPrinter(id int) string {
	return fmt.Sprintf("printer_%d", id)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemOrders: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemOrders {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// maxJitteredTicks caps JitteredTicks; every integer up to it is exact in
// float64 and fits in int64.
const maxJitteredTicks = 1 << 53

// JitteredTicks draws a uniformly distributed integer duration from
// [ceil(center-spread), floor(center+spread)], both ends inclusive.
// The bounds are clamped to [0, 2^53]. When the range is empty (non-integer
// center with spread 0) the ceiling of center is returned.
func JitteredTicks(rng *rand.Rand, center float64, spread int64) int64 {
	lo := math.Min(math.Max(math.Ceil(center-float64(spread)), 0), maxJitteredTicks)
	hi := math.Min(math.Floor(center+float64(spread)), maxJitteredTicks)
	if hi < lo {
		return int64(lo)
	}
	return int64(lo) + rng.Int63n(int64(hi)-int64(lo)+1)
}
