// Tracks simulation-wide material accounting such as:
// wasted, printed and still-held material, and allocation outcomes.

package sim

import (
	"fmt"
	"io"
	"sort"
)

// Metrics aggregates statistics about the simulation
// for final reporting.
type Metrics struct {
	SimEndedTime     int64   // Clock at the end of the run (in ticks)
	WastedMaterial   float64 // Total trashed material (ft)
	RejectedMaterial float64 // Trashed because the service refused the roll (ft)
	LayoutWaste      float64 // Trashed to unpaired strips in cutting plans (ft)
	PrintedMaterial  float64 // Material consumed by completed jobs (ft)
	JobsPrinted      int     // Number of completed print jobs
	FragmentsCreated int     // Number of leftover segments kept for reuse
	FragmentsHeld    int     // Fragments still held by printers at the end
	HeldMaterial     float64 // Length of those fragments (ft)
	Orders           int     // Order notifications generated

	AllocationOutcomes map[string]int // outcome -> count
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Simulated Time       : %d ticks\n", m.SimEndedTime)
	fmt.Fprintf(w, "Jobs Printed         : %d\n", m.JobsPrinted)
	fmt.Fprintf(w, "Printed Material     : %g ft\n", m.PrintedMaterial)
	fmt.Fprintf(w, "Rejected Material    : %g ft\n", m.RejectedMaterial)
	fmt.Fprintf(w, "Layout Waste         : %g ft\n", m.LayoutWaste)
	fmt.Fprintf(w, "Fragments Created    : %d\n", m.FragmentsCreated)
	fmt.Fprintf(w, "Fragments Held       : %d (%g ft)\n", m.FragmentsHeld, m.HeldMaterial)
	fmt.Fprintf(w, "Orders               : %d\n", m.Orders)
	if len(m.AllocationOutcomes) > 0 {
		outcomes := make([]string, 0, len(m.AllocationOutcomes))
		for o := range m.AllocationOutcomes {
			outcomes = append(outcomes, o)
		}
		sort.Strings(outcomes)
		for _, o := range outcomes {
			fmt.Fprintf(w, "Allocations %-9s: %d\n", o, m.AllocationOutcomes[o])
		}
	}
	fmt.Fprintf(w, "wasted material (ft): %g\n", m.WastedMaterial)
}
