package geo

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSimplifyStraightLineCollapses(t *testing.T) {
	pts := []Point{
		{Lat: 59.000, Lng: 18.0},
		{Lat: 59.001, Lng: 18.0},
		{Lat: 59.002, Lng: 18.0},
		{Lat: 59.003, Lng: 18.0},
		{Lat: 59.004, Lng: 18.0},
	}
	got := Simplify(pts, 10)
	want := []Point{pts[0], pts[4]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("straight line should collapse to endpoints (-want +got):\n%s", diff)
	}
}

func TestSimplifyKeepsSignificantCorner(t *testing.T) {
	// A right-angle turn: the corner deviates ~1.1 km from the chord.
	pts := []Point{
		{Lat: 59.00, Lng: 18.00},
		{Lat: 59.01, Lng: 18.00},
		{Lat: 59.01, Lng: 18.02},
	}
	got := Simplify(pts, 10)
	if diff := cmp.Diff(pts, got); diff != "" {
		t.Errorf("corner must survive simplification (-want +got):\n%s", diff)
	}
}

func TestSimplifyPreservesEndpoints(t *testing.T) {
	pts := []Point{
		{Lat: 59.000, Lng: 18.000},
		{Lat: 59.0005, Lng: 18.0011},
		{Lat: 59.001, Lng: 18.0004},
		{Lat: 59.0015, Lng: 18.0018},
		{Lat: 59.002, Lng: 18.001},
	}
	got := Simplify(pts, 1e9)
	want := []Point{pts[0], pts[4]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("huge tolerance must keep only endpoints (-want +got):\n%s", diff)
	}
}

func TestSimplifyZeroToleranceKeepsEverything(t *testing.T) {
	pts := []Point{
		{Lat: 59.000, Lng: 18.000},
		{Lat: 59.0005, Lng: 18.0011},
		{Lat: 59.001, Lng: 18.0004},
		{Lat: 59.0015, Lng: 18.0018},
	}
	got := Simplify(pts, 0)
	if diff := cmp.Diff(pts, got); diff != "" {
		t.Errorf("zero tolerance must keep every point (-want +got):\n%s", diff)
	}
}

func TestSimplifyShortInputsCopied(t *testing.T) {
	pts := []Point{{Lat: 59, Lng: 18}, {Lat: 60, Lng: 18}}
	got := Simplify(pts, 10)
	if diff := cmp.Diff(pts, got); diff != "" {
		t.Errorf("two points pass through unchanged (-want +got):\n%s", diff)
	}
	got[0].Lat = 0
	if pts[0].Lat != 59 {
		t.Error("Simplify must not alias the input slice")
	}
}

func TestSimplifyDoesNotMutateInput(t *testing.T) {
	pts := []Point{
		{Lat: 59.000, Lng: 18.0},
		{Lat: 59.001, Lng: 18.5},
		{Lat: 59.002, Lng: 18.0},
	}
	orig := make([]Point, len(pts))
	copy(orig, pts)
	Simplify(pts, 10)
	if diff := cmp.Diff(orig, pts); diff != "" {
		t.Errorf("input mutated (-want +got):\n%s", diff)
	}
}
