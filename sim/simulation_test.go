package sim

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rug-factory/rug-sim/sim/allocator"
	"github.com/rug-factory/rug-sim/sim/layout"
	"github.com/rug-factory/rug-sim/sim/metrics"
	"github.com/rug-factory/rug-sim/sim/trace"
)

// mixedScript exercises every printer path: short jobs, layout waste,
// rejections of small fragments and empty answers.
func mixedScript() *allocator.Script {
	return allocator.NewScript([]allocator.ScriptedResponse{
		{RollID: 1, Length: 7},
		{RollID: 2, ConsumeAll: true, Plan: []allocator.Placement{{ComponentSize: layout.Size5x7}, {ComponentSize: layout.Size2_5x7}}},
		{Status: 503},
		{RollID: 3, Length: 8.5},
		{Length: 0},
	}, true, 2)
}

func TestNewSimulation_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumMachines = 0
	_, err := NewSimulation(cfg, mixedScript(), nil, nil)
	assert.Error(t, err)

	_, err = NewSimulation(DefaultConfig(), nil, nil, nil)
	assert.Error(t, err)
}

func TestNewSimulation_NamesPrinters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumMachines = 3
	s, err := NewSimulation(cfg, mixedScript(), nil, nil)
	require.NoError(t, err)

	require.Len(t, s.Printers, 3)
	assert.Equal(t, "Printer 0", s.Printers[0].Name())
	assert.Equal(t, "Printer 2", s.Printers[2].Name())
}

func TestSimulation_SameSeed_SameRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumMachines = 3
	cfg.Horizon = 500

	s1, m1 := runWith(t, cfg, mixedScript())
	s2, m2 := runWith(t, cfg, mixedScript())

	assert.Equal(t, m1, m2)
	require.NotEmpty(t, s1.Factory.Trace().Allocations)
	require.NotEmpty(t, s1.Factory.Trace().Fragments)
	assert.Equal(t, s1.Factory.Trace(), s2.Factory.Trace())
	assert.Equal(t, s1.Factory.WastedTotal(), s2.Factory.WastedTotal())
}

func TestSimulation_DifferentSeed_DifferentTiming(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Horizon = 500
	s1, _ := runWith(t, cfg, mixedScript())
	cfg.Seed = 7
	s2, _ := runWith(t, cfg, mixedScript())

	assert.NotEqual(t, s1.Factory.Trace().Orders, s2.Factory.Trace().Orders)
}

func TestSimulation_WastedTotalMatchesTrashRecords(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumMachines = 4
	cfg.Horizon = 1000

	s, m := runWith(t, cfg, mixedScript())

	var sum float64
	for _, r := range s.Factory.Trace().Trash {
		sum += r.Length
	}
	assert.InDelta(t, sum, m.WastedMaterial, 1e-9)
	assert.InDelta(t, m.RejectedMaterial+m.LayoutWaste, m.WastedMaterial, 1e-9)
	assert.Positive(t, m.RejectedMaterial)
	assert.Positive(t, m.LayoutWaste)

	summary := trace.Summarize(s.Factory.Trace())
	assert.Equal(t, m.JobsPrinted, summary.JobsPrinted)
	assert.Equal(t, m.FragmentsCreated, summary.FragmentsCreated)
	assert.Len(t, summary.PrinterJobs, 4)
}

func TestSimulation_OrdersEveryInterval(t *testing.T) {
	cfg := testConfig(30)
	cfg.OrderJitter = 0
	store := &recordingOrderStore{}
	s, err := NewSimulation(cfg, allocator.NewScript(nil, false, 0), store, nil)
	require.NoError(t, err)

	m, err := s.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, store.orders, 4)
	for i, o := range store.orders {
		assert.Equal(t, i+1, o.Number)
		assert.Equal(t, int64(7*(i+1)), o.PlacedAt)
	}
	assert.Equal(t, 4, m.Orders)
}

func TestSimulation_ClockRestsAtHorizon(t *testing.T) {
	s, m := runWith(t, testConfig(100), allocator.NewScript(nil, false, 0))
	assert.Equal(t, int64(100), s.Env.Now())
	assert.Equal(t, int64(100), m.SimEndedTime)
}

func TestSimulation_Cancelled(t *testing.T) {
	s, err := NewSimulation(DefaultConfig(), mixedScript(), nil, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m, err := s.Run(ctx)

	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, m)
	assert.Equal(t, int64(0), m.SimEndedTime)
}

func TestSimulation_CollectorMatchesMetrics(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumMachines = 2
	cfg.Horizon = 300
	collector := metrics.NewCollector()
	s, err := NewSimulation(cfg, mixedScript(), nil, collector)
	require.NoError(t, err)

	m, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, m.WastedMaterial, gathered(t, collector, "rugsim_wasted_material_feet_total"), 1e-9)
	assert.Equal(t, float64(m.JobsPrinted), gathered(t, collector, "rugsim_jobs_printed_total"))
	assert.Equal(t, float64(m.Orders), gathered(t, collector, "rugsim_orders_total"))
	assert.Equal(t, float64(300), gathered(t, collector, "rugsim_clock_ticks"))
}

// gathered sums every series of the named metric.
func gathered(t *testing.T, c *metrics.Collector, name string) float64 {
	t.Helper()
	families, err := c.Registry().Gather()
	require.NoError(t, err)
	var sum float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			sum += m.GetCounter().GetValue() + m.GetGauge().GetValue()
		}
	}
	return sum
}

func TestMetrics_Print(t *testing.T) {
	m := &Metrics{
		SimEndedTime:       100,
		WastedMaterial:     8.5,
		RejectedMaterial:   5,
		LayoutWaste:        3.5,
		JobsPrinted:        3,
		AllocationOutcomes: map[string]int{"rejected": 1, "accepted": 3},
	}
	var buf bytes.Buffer
	m.Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "=== Simulation Metrics ===")
	assert.Contains(t, out, "Allocations accepted : 3")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("accepted")), bytes.Index(buf.Bytes(), []byte("rejected")))
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("wasted material (ft): 8.5\n")))
}
