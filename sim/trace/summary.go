package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalAllocations int
	OutcomeCounts    map[string]int // outcome → count of allocation requests
	TotalTrashed     float64
	TrashedByReason  map[TrashReason]float64
	JobsPrinted      int
	PrintedLength    float64
	FragmentsCreated int
	Orders           int
	PrinterJobs      map[string]int // printer → completed jobs
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		OutcomeCounts:   make(map[string]int),
		TrashedByReason: make(map[TrashReason]float64),
		PrinterJobs:     make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalAllocations = len(st.Allocations)
	for _, a := range st.Allocations {
		summary.OutcomeCounts[a.Outcome]++
	}

	for _, r := range st.Trash {
		summary.TotalTrashed += r.Length
		summary.TrashedByReason[r.Reason] += r.Length
	}

	summary.JobsPrinted = len(st.Prints)
	for _, p := range st.Prints {
		summary.PrintedLength += p.JobLength
		summary.PrinterJobs[p.Printer]++
	}

	summary.FragmentsCreated = len(st.Fragments)
	summary.Orders = len(st.Orders)

	return summary
}
