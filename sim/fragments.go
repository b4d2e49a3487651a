package sim

// FragmentStack is a printer's private store of leftover roll segments.
// The most recently cut fragment is reused first.
type FragmentStack struct {
	lengths []float64
}

// Push stores a fragment of the given length.
func (s *FragmentStack) Push(length float64) {
	s.lengths = append(s.lengths, length)
}

// Pop removes and returns the most recently pushed fragment.
func (s *FragmentStack) Pop() (float64, bool) {
	n := len(s.lengths)
	if n == 0 {
		return 0, false
	}
	length := s.lengths[n-1]
	s.lengths = s.lengths[:n-1]
	return length, true
}

// Peek returns the fragment Pop would return, without removing it.
func (s *FragmentStack) Peek() (float64, bool) {
	n := len(s.lengths)
	if n == 0 {
		return 0, false
	}
	return s.lengths[n-1], true
}

// Len returns the number of held fragments.
func (s *FragmentStack) Len() int {
	return len(s.lengths)
}

// Total returns the summed length of held fragments.
func (s *FragmentStack) Total() float64 {
	total := 0.0
	for _, l := range s.lengths {
		total += l
	}
	return total
}
