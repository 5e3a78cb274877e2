package fusion

import (
	"math"
	"testing"
)

func TestSmootherConvergesToConstant(t *testing.T) {
	s := NewSmoother(10)
	for i := 0; i < 25; i++ {
		s.Insert(4.2)
	}
	if got := s.Average(); math.Abs(got-4.2) > 1e-9 {
		t.Errorf("expected average 4.2 after saturation, got %v", got)
	}
}

func TestSmootherEmptyAverage(t *testing.T) {
	s := NewSmoother(10)
	if got := s.Average(); got != 0 {
		t.Errorf("expected 0 for empty smoother, got %v", got)
	}
}

func TestSmootherWindowEviction(t *testing.T) {
	s := NewSmoother(3)
	for _, v := range []float64{100, 100, 100} {
		s.Insert(v)
	}
	// Three more inserts fully replace the window.
	for _, v := range []float64{1, 2, 3} {
		s.Insert(v)
	}
	if got := s.Average(); math.Abs(got-2) > 1e-9 {
		t.Errorf("expected window average 2, got %v", got)
	}
	if s.Count() != 3 {
		t.Errorf("expected count 3, got %d", s.Count())
	}
}

func TestSmootherPartialWindow(t *testing.T) {
	s := NewSmoother(10)
	s.Insert(2)
	s.Insert(4)
	if got := s.Average(); math.Abs(got-3) > 1e-9 {
		t.Errorf("expected 3 from partial window, got %v", got)
	}
}

func TestSmootherReset(t *testing.T) {
	s := NewSmoother(5)
	s.Insert(9)
	s.Reset()
	if s.Count() != 0 || s.Average() != 0 {
		t.Errorf("expected cleared smoother, got count=%d avg=%v", s.Count(), s.Average())
	}
	s.Insert(1)
	if got := s.Average(); math.Abs(got-1) > 1e-9 {
		t.Errorf("expected 1 after reset+insert, got %v", got)
	}
}
