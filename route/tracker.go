package route

import (
	"fmt"
	"math"
	"time"

	"github.com/theoremus-urban-solutions/drive-telemetry/config"
	"github.com/theoremus-urban-solutions/drive-telemetry/geo"
)

// Tracker projects fused positions onto the active route and maintains the
// navigation state: matched segment, active instruction, off-route flag and
// fired guidance checkpoints.
type Tracker struct {
	cfg  config.RouteConfig
	geom Geometry

	// cumM[i] is the polyline length from point 0 to point i.
	cumM []float64

	instr      int
	lastSeg    int
	offRoute   bool
	offSince   time.Time
	offPending bool
	fired      map[string]bool
}

// NewTracker creates a Tracker with no route installed.
func NewTracker(cfg config.RouteConfig) *Tracker {
	return &Tracker{cfg: cfg, fired: map[string]bool{}}
}

// SetRoute installs a new route and resets all navigation state. Supplying a
// fresh route is how guidance resumes after a reroute.
func (t *Tracker) SetRoute(geom Geometry) {
	t.geom = geom
	t.cumM = make([]float64, len(geom.Points))
	for i := 1; i < len(geom.Points); i++ {
		t.cumM[i] = t.cumM[i-1] + geo.HaversineM(geom.Points[i-1], geom.Points[i])
	}
	t.instr = 0
	t.lastSeg = 0
	t.offRoute = false
	t.offSince = time.Time{}
	t.offPending = false
	t.fired = map[string]bool{}
}

// HasRoute reports whether a usable route is installed.
func (t *Tracker) HasRoute() bool { return len(t.geom.Points) >= 2 }

// OffRoute reports the current off-route flag.
func (t *Tracker) OffRoute() bool { return t.offRoute }

// InstructionIndex returns the active instruction index.
func (t *Tracker) InstructionIndex() int { return t.instr }

// Update consumes one fused position and returns the resulting navigation
// state. RerouteRequested is true only on the single tick the off-route
// condition is declared; it is not repeated while the deviation persists.
func (t *Tracker) Update(pos geo.Point, at time.Time) Status {
	st := Status{InstructionIndex: t.instr, DistanceToTurnM: math.NaN()}
	if !t.HasRoute() {
		st.Snap = SnapResult{DistanceM: math.NaN(), SegmentIndex: -1}
		return st
	}

	st.Snap = t.snap(pos)
	st.RerouteRequested = t.updateOffRoute(st.Snap.DistanceM, at)
	st.OffRoute = t.offRoute

	if t.offRoute {
		// Instruction advancement and guidance are suspended until the
		// deviation clears or a new route arrives.
		return st
	}

	t.lastSeg = st.Snap.SegmentIndex
	t.advance(st.Snap.SegmentIndex)
	st.InstructionIndex = t.instr

	if t.instr < len(t.geom.Instructions) {
		st.DistanceToTurnM = t.distanceToAnchor(st.Snap, t.geom.Instructions[t.instr].AnchorIndex)
		st.Checkpoints = t.checkpoints(st.DistanceToTurnM)
	}
	return st
}

// snap searches a bounded window of segments around the last match for the
// one minimizing perpendicular distance. A small look-back tolerates GPS lag;
// the larger look-ahead lets the match run ahead through short segments.
func (t *Tracker) snap(pos geo.Point) SnapResult {
	nSegs := len(t.geom.Points) - 1
	first := t.lastSeg - t.cfg.LookBack
	if first < 0 {
		first = 0
	}
	last := t.lastSeg + t.cfg.LookAhead
	if last > nSegs-1 {
		last = nSegs - 1
	}

	best := SnapResult{DistanceM: math.MaxFloat64, SegmentIndex: first}
	for i := first; i <= last; i++ {
		pr := geo.ProjectOntoSegment(pos, t.geom.Points[i], t.geom.Points[i+1])
		if pr.DistanceM < best.DistanceM {
			best = SnapResult{Projected: pr.Point, DistanceM: pr.DistanceM, SegmentIndex: i}
		}
	}
	return best
}

// updateOffRoute applies the sustained-deviation filter and returns whether a
// reroute request fires on this tick.
func (t *Tracker) updateOffRoute(snapDistM float64, at time.Time) bool {
	if snapDistM <= t.cfg.OffRouteDistanceM {
		// Returning under threshold clears the flag silently.
		t.offSince = time.Time{}
		t.offPending = false
		t.offRoute = false
		return false
	}
	if t.offRoute {
		return false
	}
	if !t.offPending {
		t.offPending = true
		t.offSince = at
		return false
	}
	if at.Sub(t.offSince).Seconds() > t.cfg.OffRouteSustainS {
		t.offRoute = true
		return true
	}
	return false
}

// advance moves the active instruction forward while its anchor has been
// passed by the matched segment.
func (t *Tracker) advance(segIdx int) {
	for t.instr < len(t.geom.Instructions) && segIdx >= t.geom.Instructions[t.instr].AnchorIndex {
		t.instr++
	}
}

// distanceToAnchor measures along route geometry from the snapped position to
// the anchor coordinate of the active instruction.
func (t *Tracker) distanceToAnchor(snap SnapResult, anchorIdx int) float64 {
	if anchorIdx <= snap.SegmentIndex {
		return 0
	}
	toSegEnd := geo.HaversineM(snap.Projected, t.geom.Points[snap.SegmentIndex+1])
	return toSegEnd + (t.cumM[anchorIdx] - t.cumM[snap.SegmentIndex+1])
}

// checkpoints emits any newly reached guidance bands for the active
// instruction. When several bands are crossed in one tick (GPS gap, high
// speed) only the innermost fires; the outer ones are marked spent so they
// cannot fire late and out of order.
func (t *Tracker) checkpoints(distToTurnM float64) []Checkpoint {
	instr := t.geom.Instructions[t.instr]
	var out []Checkpoint

	innermost := -1
	for i, band := range t.cfg.GuidanceBandsM {
		if distToTurnM <= band && !t.fired[phaseKey(t.instr, bandPhase(band))] {
			innermost = i
		}
	}
	if innermost >= 0 {
		for i := 0; i <= innermost; i++ {
			band := t.cfg.GuidanceBandsM[i]
			t.fired[phaseKey(t.instr, bandPhase(band))] = true
		}
		band := t.cfg.GuidanceBandsM[innermost]
		out = append(out, Checkpoint{
			InstructionIndex: t.instr,
			Phase:            bandPhase(band),
			Text:             instr.Text,
			DistanceM:        distToTurnM,
			Interrupt:        false,
		})
	}

	if distToTurnM <= t.cfg.ExecuteM && !t.fired[phaseKey(t.instr, PhaseExecute)] {
		t.fired[phaseKey(t.instr, PhaseExecute)] = true
		out = append(out, Checkpoint{
			InstructionIndex: t.instr,
			Phase:            PhaseExecute,
			Text:             instr.Text,
			DistanceM:        distToTurnM,
			Interrupt:        true,
		})
	}
	return out
}

func bandPhase(bandM float64) GuidancePhase {
	return GuidancePhase(fmt.Sprintf("%.0fm", bandM))
}

func phaseKey(instrIdx int, phase GuidancePhase) string {
	return fmt.Sprintf("%d|%s", instrIdx, phase)
}
