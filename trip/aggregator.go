package trip

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/theoremus-urban-solutions/drive-telemetry/config"
	"github.com/theoremus-urban-solutions/drive-telemetry/geo"
	"github.com/theoremus-urban-solutions/drive-telemetry/telemetry"
)

// ErrNoActiveTrip is returned by operations that require a started trip.
var ErrNoActiveTrip = errors.New("trip: no active trip")

// Aggregator accumulates one trip at a time. All mutation happens through it
// on the pipeline goroutine; there is no shared state.
type Aggregator struct {
	cfg config.TripConfig

	active bool
	rec    Record

	path             []geo.Point
	speedSamples     []float64
	goodFixes        int
	totalFixes       int
	maxSpeedKmh      float64
	distractionCount int
	lastGoodFix      telemetry.RawFix
	hasLastGood      bool
	lastEventTS      time.Time
}

// NewAggregator creates an Aggregator with the given tunables.
func NewAggregator(cfg config.TripConfig) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Active reports whether a trip is currently running.
func (a *Aggregator) Active() bool { return a.active }

// Current returns a copy of the live record. Zero value when inactive.
func (a *Aggregator) Current() Record { return a.rec }

// RewardEligible reports the current eligibility gate. Once false it stays
// false for the remainder of the trip.
func (a *Aggregator) RewardEligible() bool { return a.rec.RewardEligible }

// DistractionCount returns the number of qualifying distraction events so far.
func (a *Aggregator) DistractionCount() int { return a.distractionCount }

// Start begins a new trip with all accumulators zeroed.
func (a *Aggregator) Start(startName string, at time.Time) Record {
	a.rec = Record{
		ID:             uuid.NewString(),
		StartTime:      at,
		StartName:      startName,
		RewardEligible: true,
		Events:         []DrivingEvent{},
	}
	a.path = a.path[:0]
	a.speedSamples = a.speedSamples[:0]
	a.goodFixes = 0
	a.totalFixes = 0
	a.maxSpeedKmh = 0
	a.distractionCount = 0
	a.hasLastGood = false
	a.lastEventTS = time.Time{}
	a.active = true
	return a.rec
}

// AddFix accumulates distance and path from one fix. Fixes with accuracy
// above the configured gate still count toward the fix-quality ratio but
// contribute no distance, so a noisy receiver cannot inflate the trip.
func (a *Aggregator) AddFix(fix telemetry.RawFix, fusedSpeedKmh float64) {
	if !a.active {
		return
	}
	a.totalFixes++
	a.speedSamples = append(a.speedSamples, fusedSpeedKmh)
	if fusedSpeedKmh > a.maxSpeedKmh {
		a.maxSpeedKmh = fusedSpeedKmh
	}

	if fix.Accuracy >= a.cfg.AccuracyMaxM {
		return
	}
	a.goodFixes++
	a.path = append(a.path, geo.Point{Lat: fix.Lat, Lng: fix.Lng})
	if a.hasLastGood {
		a.rec.DistanceKm += geo.HaversineKm(
			geo.Point{Lat: a.lastGoodFix.Lat, Lng: a.lastGoodFix.Lng},
			geo.Point{Lat: fix.Lat, Lng: fix.Lng},
		)
	}
	a.lastGoodFix = fix
	a.hasLastGood = true
}

// TickDuration advances the trip duration by one second and trickles base
// points while the trip is reward-eligible and moving above the floor.
func (a *Aggregator) TickDuration(fusedSpeedKmh float64) {
	if !a.active {
		return
	}
	a.rec.DurationS++
	if a.rec.RewardEligible && fusedSpeedKmh >= a.cfg.MinPointSpeedKmh {
		a.rec.Points += a.cfg.PointsPerTick
	}
}

// ApplyEvent appends a detector event and applies its point delta. The
// distraction override rules take precedence over generic point addition:
// the first qualifying distraction halves accumulated points once, the
// second permanently revokes reward eligibility and appends exactly one
// invalidation marker, later ones change nothing further.
func (a *Aggregator) ApplyEvent(ev DrivingEvent) {
	if !a.active {
		return
	}
	ev.Timestamp = a.monotonic(ev.Timestamp)
	a.rec.Events = append(a.rec.Events, ev)

	if ev.Type == EventPhoneDistraction {
		a.distractionCount++
		switch a.distractionCount {
		case 1:
			a.rec.Points /= 2
		case 2:
			a.rec.RewardEligible = false
			marker := DrivingEvent{
				Type:        EventTripInvalidated,
				Timestamp:   a.monotonic(ev.Timestamp),
				Severity:    SeverityCritical,
				Description: "repeated phone use: rewards disabled for this trip",
			}
			a.rec.Events = append(a.rec.Events, marker)
		}
		return
	}

	a.rec.Points += ev.PointsDelta
	if a.rec.Points < 0 {
		a.rec.Points = 0
	}
}

// Stop finalizes the trip: transport mode from max observed speed, the
// terminal validity decision, compliance score, path compression. The
// returned record is immutable from the caller's point of view.
func (a *Aggregator) Stop(endName string, at time.Time) (Record, error) {
	if !a.active {
		return Record{}, ErrNoActiveTrip
	}
	a.active = false

	a.rec.EndTime = at
	a.rec.EndName = endName
	a.rec.MaxSpeedKmh = a.maxSpeedKmh
	a.rec.Mode = a.classifyMode()
	a.rec.DriverConfidence = a.confidence()
	if len(a.speedSamples) > 0 {
		a.rec.AvgSpeedKmh = stat.Mean(a.speedSamples, nil)
	}

	a.rec.Validity = a.validity()
	a.rec.ComplianceScore = complianceScore(a.rec.Events)
	if a.rec.Validity != Valid {
		a.rec.Points = 0
	}
	a.rec.CompressedPath = geo.Simplify(a.path, a.cfg.PathToleranceM)

	return a.rec, nil
}

func (a *Aggregator) classifyMode() TransportMode {
	switch {
	case a.maxSpeedKmh >= a.cfg.TrainMinKmh:
		return ModeTrain
	case a.maxSpeedKmh <= a.cfg.WalkMaxKmh:
		return ModeWalk
	default:
		return ModeCar
	}
}

// confidence is the share of fixes that passed the accuracy gate, discounted
// when the speed trace is erratic enough to suggest a bad signal environment.
func (a *Aggregator) confidence() float64 {
	if a.totalFixes == 0 {
		return 0
	}
	conf := float64(a.goodFixes) / float64(a.totalFixes)
	if len(a.speedSamples) >= 2 {
		mean := stat.Mean(a.speedSamples, nil)
		sd := stat.StdDev(a.speedSamples, nil)
		if mean > 0 && sd/mean > 2 {
			conf *= 0.5
		}
	}
	return conf
}

func (a *Aggregator) validity() Validity {
	switch {
	case a.rec.Mode != ModeCar:
		return InvalidMode
	case a.rec.DriverConfidence < a.cfg.MinConfidence:
		return InvalidLowConfidence
	case a.distractionCount >= a.cfg.MaxDistractions:
		return InvalidDistracted
	default:
		return Valid
	}
}

// complianceScore is 100 minus 5 per negative-point event, floored at 0.
func complianceScore(events []DrivingEvent) int {
	negative := 0
	for _, ev := range events {
		if ev.PointsDelta < 0 {
			negative++
		}
	}
	score := 100 - 5*negative
	if score < 0 {
		score = 0
	}
	return score
}

// monotonic nudges a timestamp forward when it would not be strictly after
// the previous event. Sensor callbacks can legally share a timestamp.
func (a *Aggregator) monotonic(ts time.Time) time.Time {
	if !ts.After(a.lastEventTS) {
		ts = a.lastEventTS.Add(time.Nanosecond)
	}
	a.lastEventTS = ts
	return ts
}
