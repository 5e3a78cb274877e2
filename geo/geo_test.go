package geo

import (
	"math"
	"testing"
)

func TestHaversineKnownDistance(t *testing.T) {
	// Stockholm central to Gothenburg central, roughly 398 km.
	sthlm := Point{Lat: 59.3293, Lng: 18.0686}
	gbg := Point{Lat: 57.7089, Lng: 11.9746}

	got := HaversineKm(sthlm, gbg)
	if got < 390 || got > 405 {
		t.Errorf("expected ~398 km, got %v", got)
	}
}

func TestHaversineZero(t *testing.T) {
	p := Point{Lat: 59.3293, Lng: 18.0686}
	if got := HaversineM(p, p); got != 0 {
		t.Errorf("expected 0 for identical points, got %v", got)
	}
}

func TestBearing(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"due north", Point{0, 0}, Point{1, 0}, 0},
		{"due east", Point{0, 0}, Point{0, 1}, 90},
		{"due south", Point{1, 0}, Point{0, 0}, 180},
		{"due west", Point{0, 1}, Point{0, 0}, 270},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(tt.a, tt.b)
			if math.Abs(got-tt.want) > 0.5 {
				t.Errorf("Bearing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeDeg(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-10, 350},
		{370, 10},
		{-370, 350},
	}
	for _, tt := range tests {
		if got := NormalizeDeg(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeDeg(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProjectOntoSegmentMidpoint(t *testing.T) {
	a := Point{Lat: 59.0, Lng: 18.0}
	b := Point{Lat: 59.0, Lng: 18.1}
	p := Point{Lat: 59.001, Lng: 18.05}

	proj := ProjectOntoSegment(p, a, b)
	if math.Abs(proj.T-0.5) > 0.01 {
		t.Errorf("expected t near 0.5, got %v", proj.T)
	}
	if math.Abs(proj.Point.Lat-59.0) > 1e-9 {
		t.Errorf("expected projection on the segment latitude, got %v", proj.Point.Lat)
	}
	// 0.001 deg of latitude is ~111 m.
	if proj.DistanceM < 100 || proj.DistanceM > 125 {
		t.Errorf("expected ~111 m perpendicular distance, got %v", proj.DistanceM)
	}
}

func TestProjectOntoSegmentClampsToEndpoints(t *testing.T) {
	a := Point{Lat: 59.0, Lng: 18.0}
	b := Point{Lat: 59.0, Lng: 18.1}

	before := ProjectOntoSegment(Point{Lat: 59.0, Lng: 17.9}, a, b)
	if before.T != 0 || before.Point != a {
		t.Errorf("expected clamp to start, got t=%v point=%v", before.T, before.Point)
	}
	after := ProjectOntoSegment(Point{Lat: 59.0, Lng: 18.2}, a, b)
	if after.T != 1 || after.Point != b {
		t.Errorf("expected clamp to end, got t=%v point=%v", after.T, after.Point)
	}
}

func TestProjectOntoDegenerateSegment(t *testing.T) {
	a := Point{Lat: 59.0, Lng: 18.0}
	proj := ProjectOntoSegment(Point{Lat: 59.1, Lng: 18.0}, a, a)
	if proj.T != 0 || proj.Point != a {
		t.Errorf("expected projection onto the single point, got %+v", proj)
	}
}

func TestPathLengthM(t *testing.T) {
	pts := []Point{
		{Lat: 59.0, Lng: 18.0},
		{Lat: 59.001, Lng: 18.0},
		{Lat: 59.002, Lng: 18.0},
	}
	got := PathLengthM(pts)
	// Two legs of ~111 m each.
	if got < 210 || got > 235 {
		t.Errorf("expected ~222 m, got %v", got)
	}
	if PathLengthM(nil) != 0 {
		t.Error("expected 0 for empty path")
	}
}
