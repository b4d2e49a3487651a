package sim

// WakeEvent resumes a suspended process at a given tick.
type WakeEvent struct {
	time    int64          // Simulation time of the wake-up (in ticks)
	eventID uint64         // Scheduling order, assigned by the Environment
	process *ProcessHandle // Process to resume
}

// Timestamp returns the scheduled time of the WakeEvent.
func (e *WakeEvent) Timestamp() int64 {
	return e.time
}

// EventID returns the scheduling sequence number of the WakeEvent.
func (e *WakeEvent) EventID() uint64 {
	return e.eventID
}

// Process returns the handle of the process this event resumes.
func (e *WakeEvent) Process() *ProcessHandle {
	return e.process
}

// EventQueue implements heap.Interface with deterministic ordering.
// Order by: timestamp → process creation order → event ID
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []*WakeEvent

func (eq EventQueue) Len() int { return len(eq) }

func (eq EventQueue) Less(i, j int) bool {
	ei, ej := eq[i], eq[j]

	// Primary: timestamp (lower first)
	if ei.time != ej.time {
		return ei.time < ej.time
	}

	// Secondary: process creation order
	if ei.process.id != ej.process.id {
		return ei.process.id < ej.process.id
	}

	// Tertiary: event ID (lower first, deterministic tie-breaker)
	return ei.eventID < ej.eventID
}

func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(*WakeEvent))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*eq = old[0 : n-1]
	return item
}
