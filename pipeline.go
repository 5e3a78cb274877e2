// Package drivetelemetry turns noisy device location/motion/orientation
// samples from a moving vehicle into a stable speed/heading estimate, a
// stream of classified driving events with point deltas, route-relative
// navigation state, and a compressed trip trace for long-term storage.
package drivetelemetry

import (
	"context"
	"log"
	"time"

	"github.com/theoremus-urban-solutions/drive-telemetry/config"
	"github.com/theoremus-urban-solutions/drive-telemetry/fusion"
	"github.com/theoremus-urban-solutions/drive-telemetry/geo"
	"github.com/theoremus-urban-solutions/drive-telemetry/roadctx"
	"github.com/theoremus-urban-solutions/drive-telemetry/route"
	"github.com/theoremus-urban-solutions/drive-telemetry/telemetry"
	"github.com/theoremus-urban-solutions/drive-telemetry/timeutil"
	"github.com/theoremus-urban-solutions/drive-telemetry/trip"
	"github.com/theoremus-urban-solutions/drive-telemetry/violation"
)

// RoadContextService resolves posted limits and school zones around a
// coordinate.
type RoadContextService interface {
	Lookup(ctx context.Context, lat, lng float64) (roadctx.Info, error)
}

// RouteService computes a drivable route between two points.
type RouteService interface {
	Route(ctx context.Context, origin, dest geo.Point) (route.Geometry, error)
}

// TripSink accepts one finalized, immutable trip record per trip.
type TripSink interface {
	SaveTrip(ctx context.Context, rec trip.Record) error
}

// EventPublisher fans live pipeline output out to subscribers.
type EventPublisher interface {
	Publish(kind string, data any)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, any) {}

// Collaborators are the external services the pipeline talks to. Every field
// is optional; nil fields degrade to no-ops so the pipeline works in
// free-drive with nothing attached.
type Collaborators struct {
	Roads    RoadContextService
	Router   RouteService
	Sink     TripSink
	Events   EventPublisher
	Feedback telemetry.FeedbackSink
	Clock    timeutil.Clock
}

type envKind int

const (
	envFix envKind = iota
	envMotion
	envOrientation
	envInteraction
	envLocationError
	envRoadResult
	envRouteResult
	envCommand
)

// envelope is one entry of the ordered event queue. Exactly one payload
// field is set, selected by kind.
type envelope struct {
	kind envKind

	fix         telemetry.RawFix
	motion      telemetry.MotionSample
	orientation telemetry.OrientationSample
	interaction telemetry.Interaction
	locErr      error

	// async completions carry the sequence number of the request that
	// issued them; stale completions are dropped.
	seq      uint64
	roadInfo roadctx.Info
	roadErr  error
	roadAt   time.Time
	roadPos  geo.Point

	routeGeom route.Geometry
	routeErr  error

	cmd func()
}

// Snapshot is the externally visible pipeline state.
type Snapshot struct {
	TripActive       bool                 `json:"tripActive"`
	TripID           string               `json:"tripId,omitempty"`
	Fused            telemetry.FusedState `json:"fused"`
	Stopped          bool                 `json:"stopped"`
	OffRoute         bool                 `json:"offRoute"`
	InstructionIndex int                  `json:"instructionIndex"`
	LastSampleEpoch  int64                `json:"lastSampleEpoch"`
	Points           int                  `json:"points"`
	DistanceKm       float64              `json:"distanceKm"`
}

// Pipeline is the single-consumer actor of the telemetry core. One goroutine
// drains the ordered event queue; all mutable state below is touched only
// from that goroutine, so no locking is needed anywhere in the sample path.
type Pipeline struct {
	cfg config.AppConfig
	col Collaborators

	in   chan envelope
	done chan struct{}

	speed      *fusion.SpeedEstimator
	heading    *fusion.HeadingEstimator
	longSmooth *fusion.Smoother
	latSmooth  *fusion.Smoother
	detector   *violation.Detector
	tracker    *route.Tracker
	agg        *trip.Aggregator

	compass      float64 // last yaw, degrees; < 0 when never seen
	hasPos       bool
	pos          geo.Point
	lastSampleAt time.Time

	roadSeq      uint64
	roadInFlight bool
	routeSeq     uint64
	routeDest    geo.Point
	hasRouteDest bool
}

// NewPipeline builds a pipeline from configuration and collaborators.
func NewPipeline(cfg config.AppConfig, col Collaborators) *Pipeline {
	if col.Events == nil {
		col.Events = nopPublisher{}
	}
	if col.Feedback == nil {
		col.Feedback = telemetry.NopFeedback{}
	}
	if col.Clock == nil {
		col.Clock = timeutil.RealClock{}
	}
	return &Pipeline{
		cfg:        cfg,
		col:        col,
		in:         make(chan envelope, 256),
		done:       make(chan struct{}),
		speed:      fusion.NewSpeedEstimator(cfg.Fusion),
		heading:    fusion.NewHeadingEstimator(cfg.Fusion),
		longSmooth: fusion.NewSmoother(cfg.Fusion.MotionWindow),
		latSmooth:  fusion.NewSmoother(cfg.Fusion.MotionWindow),
		detector:   violation.NewDetector(cfg.Violation),
		tracker:    route.NewTracker(cfg.Route),
		agg:        trip.NewAggregator(cfg.Trip),
		compass:    -1,
	}
}

// Run drains the event queue until Shutdown. It owns the 1s duration tick.
func (p *Pipeline) Run() {
	tick := p.col.Clock.NewTicker(time.Second)
	defer tick.Stop()

	for {
		select {
		case env := <-p.in:
			p.handle(env)
		case now := <-tick.C():
			p.onDurationTick(now)
		case <-p.done:
			return
		}
	}
}

// Shutdown stops the loop. Timers and in-flight completions are implicitly
// detached: the loop that would consume them is gone and sends are dropped.
func (p *Pipeline) Shutdown() {
	close(p.done)
}

// send enqueues an envelope unless the pipeline has shut down.
func (p *Pipeline) send(env envelope) {
	select {
	case p.in <- env:
	case <-p.done:
	}
}

// SubmitFix queues a location fix.
func (p *Pipeline) SubmitFix(fix telemetry.RawFix) {
	p.send(envelope{kind: envFix, fix: fix})
}

// SubmitMotion queues a motion sample.
func (p *Pipeline) SubmitMotion(m telemetry.MotionSample) {
	p.send(envelope{kind: envMotion, motion: m})
}

// SubmitOrientation queues an attitude sample.
func (p *Pipeline) SubmitOrientation(o telemetry.OrientationSample) {
	p.send(envelope{kind: envOrientation, orientation: o})
}

// SubmitInteraction queues a touch or app-background transition.
func (p *Pipeline) SubmitInteraction(ev telemetry.Interaction) {
	p.send(envelope{kind: envInteraction, interaction: ev})
}

// SubmitLocationError queues a typed location provider failure.
func (p *Pipeline) SubmitLocationError(err error) {
	p.send(envelope{kind: envLocationError, locErr: err})
}

// exec runs fn on the pipeline goroutine and waits for it. Used for the
// command surface (start/stop/route/status); never called from the loop.
func (p *Pipeline) exec(fn func()) bool {
	doneCh := make(chan struct{})
	wrapped := func() {
		fn()
		close(doneCh)
	}
	select {
	case p.in <- envelope{kind: envCommand, cmd: wrapped}:
	case <-p.done:
		return false
	}
	select {
	case <-doneCh:
		return true
	case <-p.done:
		return false
	}
}

// StartTrip begins a new trip with all accumulators zeroed.
func (p *Pipeline) StartTrip(startName string) (trip.Record, error) {
	var rec trip.Record
	var err error
	ok := p.exec(func() {
		if p.agg.Active() {
			err = ErrTripInProgress
			return
		}
		p.speed.Reset()
		p.heading.Reset()
		p.longSmooth.Reset()
		p.latSmooth.Reset()
		p.detector.Reset()
		p.tracker = route.NewTracker(p.cfg.Route)
		p.hasRouteDest = false
		rec = p.agg.Start(startName, p.col.Clock.Now())
		p.col.Events.Publish("trip.started", rec)
		log.Printf("trip %s started", rec.ID)
	})
	if !ok {
		return trip.Record{}, ErrShuttingDown
	}
	return rec, err
}

// StopTrip finalizes the active trip and hands it to the sink.
func (p *Pipeline) StopTrip(endName string) (trip.Record, error) {
	var rec trip.Record
	var err error
	ok := p.exec(func() {
		rec, err = p.agg.Stop(endName, p.col.Clock.Now())
		if err != nil {
			return
		}
		// Any async completion still in flight belongs to the finished
		// trip; bumping the sequences makes it stale on arrival.
		p.roadSeq++
		p.routeSeq++
		p.roadInFlight = false
		p.detector.Reset()

		if p.col.Sink != nil {
			if saveErr := p.col.Sink.SaveTrip(context.Background(), rec); saveErr != nil {
				log.Printf("trip %s save failed: %v", rec.ID, saveErr)
			}
		}
		p.col.Events.Publish("trip.finished", rec)
		log.Printf("trip %s finished: %.2f km, %d points, %s",
			rec.ID, rec.DistanceKm, rec.Points, rec.Validity)
	})
	if !ok {
		return trip.Record{}, ErrShuttingDown
	}
	return rec, err
}

// RequestRoute asks the route service for guidance to dest from the current
// position. The request is asynchronous; the route installs once the
// completion arrives, gated by a freshness check.
func (p *Pipeline) RequestRoute(dest geo.Point) error {
	var err error
	ok := p.exec(func() {
		if p.col.Router == nil {
			err = ErrNoRouteService
			return
		}
		if !p.hasPos {
			err = ErrNoPosition
			return
		}
		p.routeDest = dest
		p.hasRouteDest = true
		p.fetchRoute(p.pos, dest)
	})
	if !ok {
		return ErrShuttingDown
	}
	return err
}

// Status returns the externally visible pipeline state.
func (p *Pipeline) Status() Snapshot {
	var snap Snapshot
	p.exec(func() {
		cur := p.agg.Current()
		snap = Snapshot{
			TripActive:       p.agg.Active(),
			Fused:            telemetry.FusedState{SpeedKmh: p.speed.Speed(), HeadingDeg: p.heading.Heading()},
			Stopped:          p.detector.Stopped(),
			OffRoute:         p.tracker.OffRoute(),
			InstructionIndex: p.tracker.InstructionIndex(),
			Points:           cur.Points,
			DistanceKm:       cur.DistanceKm,
		}
		if p.agg.Active() {
			snap.TripID = cur.ID
		}
		if !p.lastSampleAt.IsZero() {
			snap.LastSampleEpoch = p.lastSampleAt.Unix()
		}
	})
	return snap
}
