package trace

// TraceLevel controls the verbosity of event tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelEvents captures allocations, trash, prints, fragments and orders.
	TraceLevelEvents TraceLevel = "events"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelEvents: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects event records during a factory simulation.
type SimulationTrace struct {
	Config      TraceConfig
	Allocations []AllocationRecord
	Trash       []TrashRecord
	Prints      []PrintRecord
	Fragments   []FragmentRecord
	Orders      []OrderRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:      config,
		Allocations: make([]AllocationRecord, 0),
		Trash:       make([]TrashRecord, 0),
		Prints:      make([]PrintRecord, 0),
		Fragments:   make([]FragmentRecord, 0),
		Orders:      make([]OrderRecord, 0),
	}
}

// Enabled reports whether records are kept.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level == TraceLevelEvents
}

// RecordAllocation appends an allocation record.
func (st *SimulationTrace) RecordAllocation(record AllocationRecord) {
	if st.Enabled() {
		st.Allocations = append(st.Allocations, record)
	}
}

// RecordTrash appends a trash record.
func (st *SimulationTrace) RecordTrash(record TrashRecord) {
	if st.Enabled() {
		st.Trash = append(st.Trash, record)
	}
}

// RecordPrint appends a completed print record.
func (st *SimulationTrace) RecordPrint(record PrintRecord) {
	if st.Enabled() {
		st.Prints = append(st.Prints, record)
	}
}

// RecordFragment appends a fragment record.
func (st *SimulationTrace) RecordFragment(record FragmentRecord) {
	if st.Enabled() {
		st.Fragments = append(st.Fragments, record)
	}
}

// RecordOrder appends an order record.
func (st *SimulationTrace) RecordOrder(record OrderRecord) {
	if st.Enabled() {
		st.Orders = append(st.Orders, record)
	}
}
