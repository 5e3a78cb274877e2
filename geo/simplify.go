package geo

import "math"

// Simplify reduces a polyline with the Douglas-Peucker algorithm. The
// tolerance is given in meters and converted to an approximate angular unit
// before comparison. The first and last points are always preserved; the
// input is never mutated. An explicit work list is used instead of recursion
// so arbitrarily long traces cannot exhaust the stack.
func Simplify(pts []Point, toleranceM float64) []Point {
	if len(pts) <= 2 {
		out := make([]Point, len(pts))
		copy(out, pts)
		return out
	}
	tolDeg := toleranceM / MetersPerDegree

	keep := make([]bool, len(pts))
	keep[0] = true
	keep[len(pts)-1] = true

	type span struct{ first, last int }
	work := []span{{0, len(pts) - 1}}

	for len(work) > 0 {
		s := work[len(work)-1]
		work = work[:len(work)-1]
		if s.last-s.first < 2 {
			continue
		}

		maxDev := 0.0
		maxIdx := -1
		for i := s.first + 1; i < s.last; i++ {
			dev := chordDeviationDeg(pts[i], pts[s.first], pts[s.last])
			if dev > maxDev {
				maxDev = dev
				maxIdx = i
			}
		}

		if maxIdx >= 0 && maxDev > tolDeg {
			keep[maxIdx] = true
			work = append(work, span{s.first, maxIdx}, span{maxIdx, s.last})
		}
	}

	out := make([]Point, 0, len(pts))
	for i, p := range pts {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// chordDeviationDeg returns the perpendicular deviation of p from the chord
// a-b in scaled degrees, matching the angular unit Simplify compares against.
func chordDeviationDeg(p, a, b Point) float64 {
	scale := math.Cos((a.Lat + b.Lat) / 2 * math.Pi / 180)

	ax, ay := a.Lng*scale, a.Lat
	bx, by := b.Lng*scale, b.Lat
	px, py := p.Lng*scale, p.Lat

	vx, vy := bx-ax, by-ay
	length := math.Hypot(vx, vy)
	if length == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	// Perpendicular distance from the infinite line through a and b. The
	// chord endpoints are fixed by the caller, so the unclamped line is the
	// correct reference.
	return math.Abs(vx*(ay-py)-vy*(ax-px)) / length
}
