package allocator

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// ScriptedResponse is one entry of a response script.
type ScriptedResponse struct {
	Status     int         `yaml:"status"`      // HTTP status; 0 means 200
	RollID     int         `yaml:"roll_id"`     // echoed in accepted responses
	Length     float64     `yaml:"length"`      // job length for 200 responses
	ConsumeAll bool        `yaml:"consume_all"` // job length = offered roll length
	Plan       []Placement `yaml:"plan"`
	Repeat     int         `yaml:"repeat"` // times this entry is served; 0 means once
}

func (r ScriptedResponse) status() int {
	if r.Status == 0 {
		return http.StatusOK
	}
	return r.Status
}

// scriptFile is the YAML layout of a response script.
type scriptFile struct {
	Loop            bool               `yaml:"loop"`
	RejectAtOrBelow float64            `yaml:"reject_at_or_below"`
	Responses       []ScriptedResponse `yaml:"responses"`
}

// Script is an Allocator that replays a fixed list of service responses.
// Once exhausted it answers "nothing to print" (200 with length 0), or starts
// over when Loop is set. Rolls at or below RejectAtOrBelow are answered with
// 406 without consuming an entry, mirroring the service's minimum printable
// length. Safe for concurrent use so it can back a Server.
type Script struct {
	loop            bool
	rejectAtOrBelow float64
	responses       []ScriptedResponse

	mu       sync.Mutex
	index    int
	served   int
	requests []JobRequest
}

// NewScript creates a Script over responses.
func NewScript(responses []ScriptedResponse, loop bool, rejectAtOrBelow float64) *Script {
	return &Script{
		loop:            loop,
		rejectAtOrBelow: rejectAtOrBelow,
		responses:       responses,
	}
}

// LoadScript reads and parses a YAML response script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript parses a YAML response script with strict field checking.
func ParseScript(data []byte) (*Script, error) {
	var f scriptFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	for i, r := range f.Responses {
		if s := r.status(); s < 100 || s > 599 {
			return nil, fmt.Errorf("response %d: invalid status %d", i, r.Status)
		}
		if r.Length < 0 {
			return nil, fmt.Errorf("response %d: length must be >= 0, got %v", i, r.Length)
		}
		if r.Repeat < 0 {
			return nil, fmt.Errorf("response %d: repeat must be >= 0, got %d", i, r.Repeat)
		}
	}
	if f.RejectAtOrBelow < 0 {
		return nil, fmt.Errorf("reject_at_or_below must be >= 0, got %v", f.RejectAtOrBelow)
	}
	return NewScript(f.Responses, f.Loop, f.RejectAtOrBelow), nil
}

// RequestJob serves the next scripted response.
func (s *Script) RequestJob(_ context.Context, req JobRequest) (JobResponse, error) {
	status, body := s.next(req)
	return translate(req, status, body)
}

// Requests returns every request received so far, in order.
func (s *Script) Requests() []JobRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]JobRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// next advances the script and returns the raw status and body.
func (s *Script) next(req JobRequest) (int, nextResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)

	if s.rejectAtOrBelow > 0 && req.RollLength <= s.rejectAtOrBelow {
		return http.StatusNotAcceptable, nextResponse{}
	}
	if s.index >= len(s.responses) {
		if !s.loop || len(s.responses) == 0 {
			return http.StatusOK, nextResponse{}
		}
		s.index = 0
	}

	r := s.responses[s.index]
	s.served++
	if s.served >= max(1, r.Repeat) {
		s.index++
		s.served = 0
	}

	body := nextResponse{RollID: r.RollID, Length: r.Length, Plan: r.Plan}
	if r.ConsumeAll {
		body.Length = req.RollLength
	}
	return r.status(), body
}
