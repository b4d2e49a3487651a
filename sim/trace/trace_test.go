package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimulationTrace_RecordTrash_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for events
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelEvents})

	// WHEN a trash record is recorded
	st.RecordTrash(TrashRecord{Printer: "Printer 0", Clock: 12, Length: 3.5, Reason: ReasonLayout})

	// THEN the trace contains one trash record with correct data
	if assert.Len(t, st.Trash, 1) {
		assert.Equal(t, "Printer 0", st.Trash[0].Printer)
		assert.Equal(t, ReasonLayout, st.Trash[0].Reason)
	}
}

func TestSimulationTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	// GIVEN a trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelEvents})

	// WHEN multiple records are added
	st.RecordAllocation(AllocationRecord{Printer: "Printer 0", Clock: 0, RollLength: 10, Outcome: "accepted", JobLength: 7})
	st.RecordAllocation(AllocationRecord{Printer: "Printer 1", Clock: 0, RollLength: 10, Outcome: "unavailable"})
	st.RecordFragment(FragmentRecord{Printer: "Printer 0", Clock: 8, Length: 3})
	st.RecordAllocation(AllocationRecord{Printer: "Printer 0", Clock: 8, RollLength: 3, Outcome: "rejected"})

	// THEN order is preserved per record kind
	assert.Len(t, st.Allocations, 3)
	assert.Equal(t, "Printer 1", st.Allocations[1].Printer)
	assert.Equal(t, 3.0, st.Allocations[2].RollLength)
	assert.Len(t, st.Fragments, 1)
}

func TestSimulationTrace_LevelNone_RecordsNothing(t *testing.T) {
	for _, level := range []TraceLevel{TraceLevelNone, ""} {
		st := NewSimulationTrace(TraceConfig{Level: level})
		st.RecordAllocation(AllocationRecord{Printer: "Printer 0"})
		st.RecordTrash(TrashRecord{Length: 1})
		st.RecordPrint(PrintRecord{JobLength: 1})
		st.RecordFragment(FragmentRecord{Length: 1})
		st.RecordOrder(OrderRecord{Number: 1})

		assert.Empty(t, st.Allocations)
		assert.Empty(t, st.Trash)
		assert.Empty(t, st.Prints)
		assert.Empty(t, st.Fragments)
		assert.Empty(t, st.Orders)
	}
}

func TestSimulationTrace_NilIsDisabled(t *testing.T) {
	var st *SimulationTrace
	assert.False(t, st.Enabled())
	assert.NotPanics(t, func() { st.RecordOrder(OrderRecord{Number: 1}) })
}

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		want  bool
	}{
		{"none", true},
		{"events", true},
		{"", true},
		{"decisions", false},
		{"EVENTS", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidTraceLevel(tt.level), "level %q", tt.level)
	}
}
