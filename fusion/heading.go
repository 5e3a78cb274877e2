package fusion

import (
	"math"

	"github.com/theoremus-urban-solutions/drive-telemetry/config"
	"github.com/theoremus-urban-solutions/drive-telemetry/geo"
)

// HeadingEstimator blends GPS course and compass heading into a stable
// heading. GPS course wins while moving; the compass takes over at low speed
// where course readings are meaningless. Smoothing interpolates along the
// shortest arc so the estimate never swings the long way around 0/360.
type HeadingEstimator struct {
	cfg config.FusionConfig

	heading float64
	primed  bool
}

// NewHeadingEstimator creates a HeadingEstimator with the given tunables.
func NewHeadingEstimator(cfg config.FusionConfig) *HeadingEstimator {
	return &HeadingEstimator{cfg: cfg}
}

// Update consumes the available heading sources for one tick and returns the
// fused heading in [0,360). Pass a negative gpsCourse or compass when that
// source is absent.
func (e *HeadingEstimator) Update(gpsCourse, compass, speedKmh float64) float64 {
	target := e.pick(gpsCourse, compass, speedKmh)
	if target < 0 {
		return e.heading // no source this tick, hold previous value
	}

	if !e.primed {
		e.heading = geo.NormalizeDeg(target)
		e.primed = true
		return e.heading
	}

	e.heading = geo.NormalizeDeg(e.heading + e.cfg.HeadingAlpha*shortestArc(e.heading, target))
	return e.heading
}

func (e *HeadingEstimator) pick(gpsCourse, compass, speedKmh float64) float64 {
	switch {
	case speedKmh >= e.cfg.HeadingMinSpeedKmh && gpsCourse >= 0:
		return gpsCourse
	case compass >= 0:
		return compass
	case gpsCourse >= 0:
		return gpsCourse
	default:
		return -1
	}
}

// Heading returns the current fused heading in [0,360).
func (e *HeadingEstimator) Heading() float64 { return e.heading }

// Reset clears all history.
func (e *HeadingEstimator) Reset() {
	e.heading = 0
	e.primed = false
}

// shortestArc returns the signed angular difference from a to b in (-180,180].
func shortestArc(from, to float64) float64 {
	diff := math.Mod(to-from, 360)
	if diff > 180 {
		diff -= 360
	} else if diff <= -180 {
		diff += 360
	}
	return diff
}
