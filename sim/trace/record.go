// Package trace provides event-trace recording for factory simulation runs.
// This package has no dependencies on sim/ and stores pure data types.
package trace

// TrashReason explains why material was discarded.
type TrashReason string

const (
	// ReasonRejected marks a roll segment the allocation service refused.
	ReasonRejected TrashReason = "rejected"
	// ReasonLayout marks material lost to unpaired strips in a cutting plan.
	ReasonLayout TrashReason = "layout"
)

// AllocationRecord captures a single allocation request and its outcome.
type AllocationRecord struct {
	Printer    string
	Clock      int64
	RollLength float64 // length offered to the service
	Outcome    string  // accepted, unavailable or rejected
	JobLength  float64 // 0 unless accepted
	PlanSize   int     // number of placements in the cutting plan
	Err        string  // service failure, if the outcome was forced to unavailable
}

// TrashRecord captures one call to the factory's trash operation.
type TrashRecord struct {
	Printer string
	Clock   int64
	Length  float64
	Reason  TrashReason
}

// PrintRecord captures a completed print job.
type PrintRecord struct {
	Printer    string
	RollID     int
	Start      int64
	End        int64
	RollLength float64
	JobLength  float64
}

// FragmentRecord captures a leftover segment kept for reuse.
type FragmentRecord struct {
	Printer string
	Clock   int64
	Length  float64
}

// OrderRecord captures a generated order notification.
type OrderRecord struct {
	Number int
	Clock  int64
}
