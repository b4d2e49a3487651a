package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollector(t *testing.T) {
	c := NewCollector()

	assert.NotNil(t, c.Registry())
	assert.NotNil(t, c.allocations, "allocations counter should be initialized")
	assert.NotNil(t, c.wastedFeet, "wastedFeet counter should be initialized")
	assert.NotNil(t, c.jobsPrinted, "jobsPrinted counter should be initialized")
}

func TestNewCollector_Independent(t *testing.T) {
	// Two collectors do not share a registry, so both can be created.
	assert.NotPanics(t, func() {
		a := NewCollector()
		b := NewCollector()
		a.RecordOrder()
		assert.Equal(t, 0.0, testutil.ToFloat64(b.orders))
	})
}

func TestRecordAllocation(t *testing.T) {
	c := NewCollector()
	c.RecordAllocation("accepted")
	c.RecordAllocation("accepted")
	c.RecordAllocation("rejected")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.allocations.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.allocations.WithLabelValues("rejected")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.allocations.WithLabelValues("unavailable")))
}

func TestRecordTrash(t *testing.T) {
	c := NewCollector()
	c.RecordTrash("layout", 3.5)
	c.RecordTrash("layout", 3.5)
	c.RecordTrash("rejected", 2)

	assert.Equal(t, 7.0, testutil.ToFloat64(c.wastedFeet.WithLabelValues("layout")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.wastedFeet.WithLabelValues("rejected")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.trashEvents.WithLabelValues("layout")))
}

func TestRecordPrintFragmentOrderClock(t *testing.T) {
	c := NewCollector()
	c.RecordPrint(7)
	c.RecordPrint(10)
	c.RecordFragment()
	c.RecordOrder()
	c.SetClock(42)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.jobsPrinted))
	assert.Equal(t, 17.0, testutil.ToFloat64(c.printedFeet))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fragments))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.orders))
	assert.Equal(t, 42.0, testutil.ToFloat64(c.simClockTicks))
}

func TestNilCollector_NoPanic(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordAllocation("accepted")
		c.RecordTrash("layout", 1)
		c.RecordPrint(1)
		c.RecordFragment()
		c.RecordOrder()
		c.SetClock(1)
	})
}

func TestWriteTextfile(t *testing.T) {
	c := NewCollector()
	c.RecordTrash("rejected", 5)

	path := filepath.Join(t.TempDir(), "rugsim.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `rugsim_wasted_material_feet_total{reason="rejected"} 5`)
}
