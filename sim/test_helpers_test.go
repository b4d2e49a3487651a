package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rug-factory/rug-sim/sim/allocator"
)

// testConfig is DefaultConfig with a single printer and no print jitter,
// so print times equal job lengths.
func testConfig(horizon int64) Config {
	cfg := DefaultConfig()
	cfg.Horizon = horizon
	cfg.PrintJitter = 0
	return cfg
}

// runWith runs a full simulation against alloc and returns it with its metrics.
func runWith(t *testing.T, cfg Config, alloc allocator.Allocator) (*Simulation, *Metrics) {
	t.Helper()
	s, err := NewSimulation(cfg, alloc, nil, nil)
	require.NoError(t, err)
	m, err := s.Run(context.Background())
	require.NoError(t, err)
	return s, m
}

// offeredLengths lists the roll lengths a script was asked about, in order.
func offeredLengths(s *allocator.Script) []float64 {
	reqs := s.Requests()
	out := make([]float64, len(reqs))
	for i, r := range reqs {
		out[i] = r.RollLength
	}
	return out
}

// failingAllocator fails every request with err.
type failingAllocator struct {
	err   error
	calls int
}

func (f *failingAllocator) RequestJob(context.Context, allocator.JobRequest) (allocator.JobResponse, error) {
	f.calls++
	return allocator.JobResponse{}, f.err
}

// recordingOrderStore keeps every inserted order.
type recordingOrderStore struct {
	orders []Order
	err    error
}

func (r *recordingOrderStore) InsertOrder(_ context.Context, o Order) error {
	r.orders = append(r.orders, o)
	return r.err
}

// fixedAllocator answers with responses in turn, repeating the last one.
type fixedAllocator struct {
	responses []allocator.JobResponse
	calls     int
}

func (f *fixedAllocator) RequestJob(context.Context, allocator.JobRequest) (allocator.JobResponse, error) {
	i := min(f.calls, len(f.responses)-1)
	f.calls++
	return f.responses[i], nil
}
