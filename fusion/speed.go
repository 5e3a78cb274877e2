package fusion

import (
	"github.com/theoremus-urban-solutions/drive-telemetry/config"
	"github.com/theoremus-urban-solutions/drive-telemetry/geo"
	"github.com/theoremus-urban-solutions/drive-telemetry/telemetry"
)

// SpeedEstimator fuses reported GPS speed with the geometric speed between
// consecutive fixes and smooths the result. The output is never negative and
// is clamped to exactly 0 below the stationary threshold to remove jitter
// from a parked vehicle.
type SpeedEstimator struct {
	cfg config.FusionConfig

	estimate float64
	hasPrev  bool
	prev     telemetry.RawFix
}

// NewSpeedEstimator creates a SpeedEstimator with the given tunables.
func NewSpeedEstimator(cfg config.FusionConfig) *SpeedEstimator {
	return &SpeedEstimator{cfg: cfg}
}

// Update consumes one fix and returns the new fused speed in km/h.
func (e *SpeedEstimator) Update(fix telemetry.RawFix) float64 {
	geometric := -1.0
	if e.hasPrev {
		elapsed := fix.Timestamp.Sub(e.prev.Timestamp).Seconds()
		if elapsed > e.cfg.MinElapsedS {
			distM := geo.HaversineM(
				geo.Point{Lat: e.prev.Lat, Lng: e.prev.Lng},
				geo.Point{Lat: fix.Lat, Lng: fix.Lng},
			)
			geometric = distM / elapsed * 3.6
		}
	}
	e.prev = fix
	e.hasPrev = true

	target := e.target(fix, geometric)

	// Large jumps are GPS reacquisition, not noise: snap instead of smoothing
	// so the estimate does not lag a real speed change by many samples.
	if abs(target-e.estimate) > e.cfg.SnapDeltaKmh {
		e.estimate = target
	} else {
		e.estimate += e.cfg.SpeedAlpha * (target - e.estimate)
	}

	if e.estimate < e.cfg.StationaryClampKmh {
		e.estimate = 0
	}
	if e.estimate < 0 {
		e.estimate = 0
	}
	return e.estimate
}

// target applies the fusion rule for one fix.
func (e *SpeedEstimator) target(fix telemetry.RawFix, geometric float64) float64 {
	reported := fix.ReportedSpeed

	switch {
	case fix.HasReportedSpeed() && fix.Accuracy < e.cfg.AccuracyTrustM:
		return reported
	case fix.HasReportedSpeed() && reported < e.cfg.DriftReportedMaxKmh &&
		geometric > e.cfg.DriftGeometricKmh:
		// Receiver says stationary while the position walks: drift.
		return 0
	case fix.HasReportedSpeed() && geometric >= 0:
		w := 0.3
		if fix.Accuracy < e.cfg.AccuracyBlendM {
			w = 0.7
		}
		return w*reported + (1-w)*geometric
	case fix.HasReportedSpeed():
		return reported
	case geometric >= 0:
		return geometric
	default:
		return e.estimate
	}
}

// Speed returns the current fused speed in km/h.
func (e *SpeedEstimator) Speed() float64 { return e.estimate }

// Reset clears all history.
func (e *SpeedEstimator) Reset() {
	e.estimate = 0
	e.hasPrev = false
	e.prev = telemetry.RawFix{}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
