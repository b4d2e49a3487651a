// Package allocator talks to the job-allocation service that hands print jobs
// to printers.
//
// The service answers a roll length with one of three outcomes: an accepted
// job (length and cutting plan), "nothing to print right now", or a rejection
// of the offered roll. Implementations here translate the service's HTTP
// contract into those outcomes; the allocation logic itself lives in the
// service.
package allocator

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rug-factory/rug-sim/sim/layout"
)

// ErrServiceUnavailable wraps transport and decode failures. Callers treat
// it exactly like an Unavailable outcome.
var ErrServiceUnavailable = errors.New("allocation service unavailable")

// Outcome is the printer-facing meaning of an allocation response.
type Outcome string

const (
	Accepted    Outcome = "accepted"
	Unavailable Outcome = "unavailable"
	Rejected    Outcome = "rejected"
)

// JobRequest is the payload sent to the service's /next endpoint.
type JobRequest struct {
	RollLength  float64 `json:"roll_length"`
	IncludeRush bool    `json:"include_rush"`
}

// Placement is one component of a cutting plan, in roll order.
type Placement struct {
	ComponentID   int                  `json:"component_id,omitempty" yaml:"component_id,omitempty"`
	ComponentSize layout.ComponentSize `json:"component_size" yaml:"component_size"`
	Position      int                  `json:"position,omitempty" yaml:"position,omitempty"`
	Sku           string               `json:"sku,omitempty" yaml:"sku,omitempty"`
	Rush          bool                 `json:"rush,omitempty" yaml:"rush,omitempty"`
}

// JobResponse is the translated service answer.
// Length and Plan are only meaningful when Outcome is Accepted.
type JobResponse struct {
	Outcome Outcome
	RollID  int
	Length  float64
	Plan    []Placement
}

// Sizes returns the component sizes of the plan in order.
func (r JobResponse) Sizes() []layout.ComponentSize {
	sizes := make([]layout.ComponentSize, len(r.Plan))
	for i, p := range r.Plan {
		sizes[i] = p.ComponentSize
	}
	return sizes
}

// Allocator requests the next print job for a roll of the given length.
type Allocator interface {
	RequestJob(ctx context.Context, req JobRequest) (JobResponse, error)
}

// nextResponse is the 200 body of the /next endpoint.
type nextResponse struct {
	RollID int         `json:"roll_id"`
	Length float64     `json:"length"`
	Plan   []Placement `json:"plan"`
}

// translate maps a status code and (for 200) a decoded body to a JobResponse.
func translate(req JobRequest, status int, body nextResponse) (JobResponse, error) {
	switch status {
	case http.StatusOK:
		return Check(req.RollLength, JobResponse{
			Outcome: Accepted,
			RollID:  body.RollID,
			Length:  body.Length,
			Plan:    body.Plan,
		})
	case http.StatusNotAcceptable:
		return JobResponse{Outcome: Rejected}, nil
	default:
		return JobResponse{Outcome: Unavailable}, nil
	}
}

// Check enforces the job contract on an answer for a roll of offered feet:
// an accepted job length must lie in [0, offered], and a zero length means
// there is nothing to print. Out-of-range lengths return an error wrapping
// ErrServiceUnavailable. Non-accepted answers pass through unchanged.
func Check(offered float64, resp JobResponse) (JobResponse, error) {
	if resp.Outcome != Accepted {
		return resp, nil
	}
	if !(resp.Length >= 0) || resp.Length > offered {
		return JobResponse{}, fmt.Errorf("%w: job length %v outside [0, %v]",
			ErrServiceUnavailable, resp.Length, offered)
	}
	if resp.Length == 0 {
		return JobResponse{Outcome: Unavailable}, nil
	}
	return resp, nil
}
