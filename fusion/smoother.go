package fusion

// Smoother is a fixed-capacity running average. Insert overwrites the oldest
// slot once the window is full; both Insert and Average are O(1).
type Smoother struct {
	buf   []float64
	sum   float64
	count int
	next  int
}

// NewSmoother creates a Smoother with the given window capacity.
func NewSmoother(capacity int) *Smoother {
	if capacity < 1 {
		capacity = 1
	}
	return &Smoother{buf: make([]float64, capacity)}
}

// Insert adds a value to the window, evicting the oldest when full.
func (s *Smoother) Insert(v float64) {
	if s.count == len(s.buf) {
		s.sum -= s.buf[s.next]
	} else {
		s.count++
	}
	s.buf[s.next] = v
	s.sum += v
	s.next = (s.next + 1) % len(s.buf)
}

// Average returns the running mean of the current window, or 0 when empty.
func (s *Smoother) Average() float64 {
	if s.count == 0 {
		return 0
	}
	return s.sum / float64(s.count)
}

// Count returns the number of values currently in the window.
func (s *Smoother) Count() int { return s.count }

// Reset clears the window.
func (s *Smoother) Reset() {
	s.sum = 0
	s.count = 0
	s.next = 0
}
