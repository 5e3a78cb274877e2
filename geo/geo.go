// Package geo provides the geodesic and planar geometry primitives shared by
// the fusion, route and trip packages.
package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

// Earth radii used for angular/linear conversions.
const (
	EarthRadiusMeters = 6371000.0
	EarthRadiusKm     = 6371.0

	// MetersPerDegree approximates one degree of latitude.
	MetersPerDegree = 111320.0
)

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// HaversineM returns the great-circle distance between two points in meters.
func HaversineM(a, b Point) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lng)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// HaversineKm returns the great-circle distance between two points in
// kilometers.
func HaversineKm(a, b Point) float64 {
	return HaversineM(a, b) / 1000
}

// Bearing returns the initial bearing (forward azimuth) from a to b in
// degrees, normalized to [0,360).
func Bearing(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// NormalizeDeg maps an angle in degrees to [0,360).
func NormalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Projection is the result of projecting a point onto a segment.
type Projection struct {
	Point     Point   // foot of perpendicular, clamped to the segment
	T         float64 // position along the segment in [0,1]
	DistanceM float64 // great-circle distance from the input point
}

// ProjectOntoSegment projects p onto the segment a-b. The projection is
// computed in a local equirectangular plane (longitude scaled by cos of the
// segment's mean latitude); the parameter is clamped to the endpoints.
func ProjectOntoSegment(p, a, b Point) Projection {
	scale := math.Cos((a.Lat + b.Lat) / 2 * math.Pi / 180)

	ax, ay := a.Lng*scale, a.Lat
	bx, by := b.Lng*scale, b.Lat
	px, py := p.Lng*scale, p.Lat

	vx, vy := bx-ax, by-ay
	wx, wy := px-ax, py-ay

	t := 0.0
	if denom := vx*vx + vy*vy; denom > 0 {
		t = (wx*vx + wy*vy) / denom
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}

	proj := Point{
		Lat: a.Lat + t*(b.Lat-a.Lat),
		Lng: a.Lng + t*(b.Lng-a.Lng),
	}
	return Projection{Point: proj, T: t, DistanceM: HaversineM(p, proj)}
}

// PathLengthM returns the cumulative great-circle length of a polyline in
// meters.
func PathLengthM(pts []Point) float64 {
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += HaversineM(pts[i-1], pts[i])
	}
	return total
}
