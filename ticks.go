package drivetelemetry

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/theoremus-urban-solutions/drive-telemetry/geo"
	"github.com/theoremus-urban-solutions/drive-telemetry/telemetry"
	"github.com/theoremus-urban-solutions/drive-telemetry/trip"
	"github.com/theoremus-urban-solutions/drive-telemetry/violation"
)

// handle dispatches one queue entry on the pipeline goroutine.
func (p *Pipeline) handle(env envelope) {
	switch env.kind {
	case envFix:
		p.onFix(env.fix)
	case envMotion:
		p.onMotion(env.motion)
	case envOrientation:
		p.onOrientation(env.orientation)
	case envInteraction:
		p.detector.OnInteraction(env.interaction)
	case envLocationError:
		p.onLocationError(env.locErr)
	case envRoadResult:
		p.onRoadResult(env)
	case envRouteResult:
		p.onRouteResult(env)
	case envCommand:
		env.cmd()
	}
}

// onFix is the main tick: the fixed update order is position fusion, then
// stopped-state and the rest of the detector, then route projection.
func (p *Pipeline) onFix(fix telemetry.RawFix) {
	p.lastSampleAt = fix.Timestamp
	p.detector.SetGPSLost(false)

	speed := p.speed.Update(fix)
	p.heading.Update(fix.ReportedHeading, p.compass, speed)
	pos := geo.Point{Lat: fix.Lat, Lng: fix.Lng}
	p.pos = pos
	p.hasPos = true

	if !p.agg.Active() {
		return
	}
	p.agg.AddFix(fix, speed)
	p.maybeFetchRoad(fix.Timestamp, pos)

	res := p.detector.Tick(violation.TickInput{
		At:        fix.Timestamp,
		Pos:       pos,
		SpeedKmh:  speed,
		AccelLong: p.longSmooth.Average(),
		AccelLat:  p.latSmooth.Average(),
	})
	for _, ev := range res.Events {
		p.agg.ApplyEvent(ev)
		p.col.Events.Publish("event", ev)
		if ev.PointsDelta < 0 || ev.Type == trip.EventPhoneDistraction {
			p.col.Feedback.ViolationFeedback(string(ev.Type))
		}
	}

	if p.tracker.HasRoute() {
		st := p.tracker.Update(pos, fix.Timestamp)
		if st.RerouteRequested {
			p.col.Events.Publish("route.reroute", st.Snap)
			log.Printf("off route (%.0fm from route), reroute requested", st.Snap.DistanceM)
			if p.col.Router != nil && p.hasRouteDest {
				p.fetchRoute(pos, p.routeDest)
			}
		}
		for _, cp := range st.Checkpoints {
			p.col.Events.Publish("guidance", cp)
			p.col.Feedback.GuidanceFeedback(string(cp.Phase))
		}
	}
}

func (p *Pipeline) onMotion(m telemetry.MotionSample) {
	p.lastSampleAt = m.Timestamp
	p.longSmooth.Insert(m.AX)
	p.latSmooth.Insert(m.AY)
}

func (p *Pipeline) onOrientation(o telemetry.OrientationSample) {
	p.lastSampleAt = o.Timestamp
	p.compass = geo.NormalizeDeg(o.Yaw)
}

func (p *Pipeline) onLocationError(err error) {
	if errors.Is(err, telemetry.ErrTimeout) || errors.Is(err, telemetry.ErrUnavailable) {
		p.detector.SetGPSLost(true)
	}
	log.Printf("location provider: %v", err)
}

// onDurationTick advances trip duration once per second.
func (p *Pipeline) onDurationTick(time.Time) {
	if !p.agg.Active() {
		return
	}
	p.agg.TickDuration(p.speed.Speed())
}

// maybeFetchRoad issues a throttled road-context lookup. At most one request
// is in flight; the completion re-enters the queue with a sequence number so
// a lookup that outlives its trip is dropped.
func (p *Pipeline) maybeFetchRoad(at time.Time, pos geo.Point) {
	if p.col.Roads == nil || p.roadInFlight {
		return
	}
	if !p.detector.NeedsRoadContext(p.cfg.RoadContext, at, pos) {
		return
	}
	p.roadSeq++
	seq := p.roadSeq
	p.roadInFlight = true

	go func() {
		info, err := p.col.Roads.Lookup(context.Background(), pos.Lat, pos.Lng)
		p.send(envelope{
			kind:     envRoadResult,
			seq:      seq,
			roadInfo: info,
			roadErr:  err,
			roadAt:   at,
			roadPos:  pos,
		})
	}()
}

func (p *Pipeline) onRoadResult(env envelope) {
	if env.seq != p.roadSeq {
		return // superseded or trip over
	}
	p.roadInFlight = false
	if !p.agg.Active() {
		return
	}
	if env.roadErr != nil {
		// Fail open: no limit data means no enforcement, not a penalty.
		p.detector.ClearRoadContext()
		log.Printf("road context unavailable: %v", env.roadErr)
		return
	}
	p.detector.SetRoadContext(env.roadInfo.MaxSpeedKmh, env.roadInfo.IsSchoolZone, env.roadAt, env.roadPos)
}

// fetchRoute issues an asynchronous route calculation. Only the most recent
// request may install a route.
func (p *Pipeline) fetchRoute(origin, dest geo.Point) {
	p.routeSeq++
	seq := p.routeSeq

	go func() {
		geom, err := p.col.Router.Route(context.Background(), origin, dest)
		p.send(envelope{
			kind:      envRouteResult,
			seq:       seq,
			routeGeom: geom,
			routeErr:  err,
		})
	}()
}

func (p *Pipeline) onRouteResult(env envelope) {
	if env.seq != p.routeSeq {
		return
	}
	if env.routeErr != nil {
		p.col.Events.Publish("route.error", env.routeErr.Error())
		log.Printf("route calculation failed: %v", env.routeErr)
		return
	}
	p.tracker.SetRoute(env.routeGeom)
	p.col.Events.Publish("route.installed", env.routeGeom)
	log.Printf("route installed: %d points, %d instructions",
		len(env.routeGeom.Points), len(env.routeGeom.Instructions))
}
