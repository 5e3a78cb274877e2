package violation

import (
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/drive-telemetry/config"
	"github.com/theoremus-urban-solutions/drive-telemetry/geo"
	"github.com/theoremus-urban-solutions/drive-telemetry/telemetry"
	"github.com/theoremus-urban-solutions/drive-telemetry/trip"
)

// TickInput is the fused state presented to the detector once per sample
// tick. Acceleration axes are the smoothed values: AccelLong positive when
// accelerating, negative when braking; AccelLat positive to either side.
type TickInput struct {
	At        time.Time
	Pos       geo.Point
	SpeedKmh  float64
	AccelLong float64
	AccelLat  float64
}

// TickResult is what one tick produced. PointsDelta is the signed delta to
// apply on this tick only; it is recomputed from zero every tick so it can
// never be double-applied.
type TickResult struct {
	PointsDelta int
	Events      []trip.DrivingEvent
	Stopped     bool
}

// Detector is the violation detection state machine. It is single-threaded:
// the pipeline goroutine is the only caller.
type Detector struct {
	cfg config.ViolationConfig

	// stopped/moving hysteresis
	stopped     bool
	belowSince  time.Time
	belowActive bool

	// speeding episode
	speeding      bool
	speedingSince time.Time
	penalized     bool
	lastPenaltyAt time.Time
	lastBonusAt   time.Time

	// g-force
	lastGForceAt time.Time

	// distraction
	pending           []telemetry.Interaction
	lastDistractionAt time.Time
	gpsLost           bool

	road RoadContext
}

// NewDetector creates a Detector with the given tunables.
func NewDetector(cfg config.ViolationConfig) *Detector {
	return &Detector{cfg: cfg}
}

// Reset clears all episode state, typically at trip start.
func (d *Detector) Reset() {
	*d = Detector{cfg: d.cfg}
}

// Stopped reports the current stopped/moving hysteresis state.
func (d *Detector) Stopped() bool { return d.stopped }

// SetRoadContext installs a completed road-context lookup.
func (d *Detector) SetRoadContext(maxSpeedKmh float64, isSchoolZone bool, at time.Time, pos geo.Point) {
	d.road = RoadContext{
		MaxSpeedKmh:  maxSpeedKmh,
		IsSchoolZone: isSchoolZone,
		FetchedAt:    at,
		At:           pos,
		Valid:        true,
	}
}

// ClearRoadContext drops limit data after a failed lookup. Enforcement is
// skipped until the next successful fetch (fail open).
func (d *Detector) ClearRoadContext() { d.road = RoadContext{} }

// RoadContext returns the current road context.
func (d *Detector) RoadContext() RoadContext { return d.road }

// NeedsRoadContext reports whether the pipeline should issue a lookup now.
func (d *Detector) NeedsRoadContext(cfg config.RoadContextConfig, at time.Time, pos geo.Point) bool {
	return d.road.NeedsRefresh(cfg, at, pos)
}

// SetGPSLost marks GPS signal loss. App-backgrounding is not a distraction
// while the signal is gone: a tunnel backgrounds the app on many devices.
func (d *Detector) SetGPSLost(lost bool) { d.gpsLost = lost }

// OnInteraction queues a touch/background event for the next tick. Queuing
// keeps the per-tick update order deterministic. Background transitions are
// judged against the loss flag here, not at drain time: the fix that restores
// the signal clears the flag before the queue drains.
func (d *Detector) OnInteraction(ev telemetry.Interaction) {
	if ev.Kind == telemetry.InteractionBackground && d.gpsLost {
		return
	}
	d.pending = append(d.pending, ev)
}

// Tick runs one full detector update. Order is fixed: stopped-state update,
// queued distraction checks, then the speeding and G-force main loop.
func (d *Detector) Tick(in TickInput) TickResult {
	res := TickResult{}

	d.updateStopped(in)
	res.Stopped = d.stopped

	d.checkDistraction(in, &res)
	d.checkSpeeding(in, &res)
	d.checkGForce(in, &res)

	for _, ev := range res.Events {
		res.PointsDelta += ev.PointsDelta
	}
	return res
}

// updateStopped applies the asymmetric stop/move thresholds: a vehicle is
// stopped only after sustained near-zero speed and moving again only well
// above that, so the state cannot flicker while creeping at a light.
func (d *Detector) updateStopped(in TickInput) {
	if d.stopped {
		if in.SpeedKmh > d.cfg.Stop.ExitKmh {
			d.stopped = false
			d.belowActive = false
		}
		return
	}
	if in.SpeedKmh < d.cfg.Stop.EnterKmh {
		if !d.belowActive {
			d.belowActive = true
			d.belowSince = in.At
			return
		}
		if in.At.Sub(d.belowSince).Seconds() >= d.cfg.Stop.EnterSustainS {
			d.stopped = true
		}
		return
	}
	d.belowActive = false
}

// checkDistraction drains queued interactions against the suppression rules.
func (d *Detector) checkDistraction(in TickInput, res *TickResult) {
	pending := d.pending
	d.pending = d.pending[:0]

	for _, ev := range pending {
		if d.stopped || ev.SafeTarget {
			continue
		}
		if ev.Kind == telemetry.InteractionBackground {
			if d.gpsLost {
				continue
			}
			if in.SpeedKmh <= d.cfg.Distraction.MinSpeedKmh {
				continue
			}
		}
		if !d.lastDistractionAt.IsZero() &&
			ev.Timestamp.Sub(d.lastDistractionAt).Seconds() < d.cfg.Distraction.DebounceS {
			continue
		}
		d.lastDistractionAt = ev.Timestamp

		desc := "phone interaction while driving"
		if ev.Kind == telemetry.InteractionBackground {
			desc = "app backgrounded while driving"
		}
		res.Events = append(res.Events, trip.DrivingEvent{
			Type:        trip.EventPhoneDistraction,
			Timestamp:   ev.Timestamp,
			Severity:    trip.SeveritySerious,
			Description: desc,
			Lat:         f64(in.Pos.Lat),
			Lng:         f64(in.Pos.Lng),
			SpeedKmh:    f64(in.SpeedKmh),
		})
	}
}

// effectiveLimit resolves the enforced limit for this tick. The second return
// is false when no limit data is available; enforcement is skipped then.
func (d *Detector) effectiveLimit(at time.Time) (limit float64, school bool, ok bool) {
	if !d.road.Valid || d.road.MaxSpeedKmh <= 0 {
		return 0, false, false
	}
	limit = d.road.MaxSpeedKmh
	if d.road.IsSchoolZone && schoolHoursActive(d.cfg.SchoolZone, at) {
		school = true
		if limit > d.cfg.SchoolZone.CapKmh {
			limit = d.cfg.SchoolZone.CapKmh
		}
	}
	return limit, school, true
}

func (d *Detector) checkSpeeding(in TickInput, res *TickResult) {
	limit, school, ok := d.effectiveLimit(in.At)
	if !ok {
		d.resetSpeeding()
		return
	}

	if in.SpeedKmh <= limit+d.cfg.Speeding.ToleranceKmh {
		d.resetSpeeding()
		d.maybeBonus(in, limit, school, res)
		return
	}

	if !d.speeding {
		d.speeding = true
		d.speedingSince = in.At
		d.penalized = false
		return
	}

	recurring := false
	switch {
	case !d.penalized:
		if in.At.Sub(d.speedingSince).Seconds() < d.cfg.Speeding.SustainS {
			return
		}
		d.penalized = true
	default:
		if in.At.Sub(d.lastPenaltyAt).Seconds() < d.cfg.Speeding.RecurringS {
			return
		}
		recurring = true
	}
	d.lastPenaltyAt = in.At

	over := in.SpeedKmh - limit
	severity, points := d.severityFor(over)
	if recurring {
		points /= d.cfg.Speeding.RecurringDivisor
		if points < 1 {
			points = 1
		}
	}
	desc := fmt.Sprintf("%.0f km/h in a %.0f zone", in.SpeedKmh, limit)
	if school {
		points *= d.cfg.SchoolZone.Multiplier
		severity = trip.SeverityCritical
		desc += " (school zone)"
	}

	res.Events = append(res.Events, trip.DrivingEvent{
		Type:        trip.EventSpeeding,
		Timestamp:   in.At,
		PointsDelta: -points,
		Severity:    severity,
		Description: desc,
		Lat:         f64(in.Pos.Lat),
		Lng:         f64(in.Pos.Lng),
		SpeedKmh:    f64(in.SpeedKmh),
		RoadLimit:   f64(limit),
	})
}

func (d *Detector) resetSpeeding() {
	d.speeding = false
	d.speedingSince = time.Time{}
	d.penalized = false
	d.lastPenaltyAt = time.Time{}
}

// maybeBonus awards the safe-driving bonus at most once per interval while
// cruising between the bonus floor and the limit, outside school zones.
func (d *Detector) maybeBonus(in TickInput, limit float64, school bool, res *TickResult) {
	if school || d.cfg.Speeding.BonusPoints == 0 {
		return
	}
	if in.SpeedKmh < d.cfg.Speeding.BonusMinKmh || in.SpeedKmh > limit {
		return
	}
	if !d.lastBonusAt.IsZero() &&
		in.At.Sub(d.lastBonusAt).Seconds() < d.cfg.Speeding.BonusIntervalS {
		return
	}
	d.lastBonusAt = in.At

	res.Events = append(res.Events, trip.DrivingEvent{
		Type:        trip.EventSafeDrivingBonus,
		Timestamp:   in.At,
		PointsDelta: d.cfg.Speeding.BonusPoints,
		Severity:    trip.SeverityInfo,
		Description: "steady driving within the limit",
		SpeedKmh:    f64(in.SpeedKmh),
		RoadLimit:   f64(limit),
	})
}

func (d *Detector) severityFor(overKmh float64) (trip.Severity, int) {
	sp := d.cfg.Speeding
	switch {
	case overKmh >= sp.CriticalOver:
		return trip.SeverityCritical, sp.CriticalPoints
	case overKmh >= sp.SeriousOver:
		return trip.SeveritySerious, sp.SeriousPoints
	case overKmh >= sp.ModerateOver:
		return trip.SeverityModerate, sp.ModeratePoints
	default:
		return trip.SeverityMinor, sp.MinorPoints
	}
}

// checkGForce fires at most one motion event per qualifying tick, checked in
// priority order: braking, acceleration, cornering. Suppressed while stopped,
// during an active speeding episode, and inside the warning gap.
func (d *Detector) checkGForce(in TickInput, res *TickResult) {
	if d.stopped || d.speeding {
		return
	}
	if !d.lastGForceAt.IsZero() &&
		in.At.Sub(d.lastGForceAt).Seconds() < d.cfg.GForce.GapS {
		return
	}

	g := d.cfg.GForce
	var (
		evType trip.EventType
		points int
		desc   string
	)
	switch {
	case in.AccelLong <= -g.BrakingMS2:
		evType, points, desc = trip.EventHarshBraking, g.BrakingPoints, "harsh braking"
	case in.AccelLong >= g.AccelerationMS2:
		evType, points, desc = trip.EventHarshAccel, g.AccelPoints, "harsh acceleration"
	case in.AccelLat >= g.CorneringMS2 || in.AccelLat <= -g.CorneringMS2:
		evType, points, desc = trip.EventUnsafeCornering, g.CorneringPoints, "unsafe cornering"
	default:
		return
	}
	d.lastGForceAt = in.At

	res.Events = append(res.Events, trip.DrivingEvent{
		Type:        evType,
		Timestamp:   in.At,
		PointsDelta: -points,
		Severity:    trip.SeverityModerate,
		Description: desc,
		Lat:         f64(in.Pos.Lat),
		Lng:         f64(in.Pos.Lng),
		SpeedKmh:    f64(in.SpeedKmh),
	})
}

func f64(v float64) *float64 { return &v }
