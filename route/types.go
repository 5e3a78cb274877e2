package route

import (
	"github.com/theoremus-urban-solutions/drive-telemetry/geo"
)

// Instruction is one turn instruction anchored to a coordinate index of the
// route polyline.
type Instruction struct {
	Text        string `json:"text"`
	AnchorIndex int    `json:"anchorIndex"`
}

// Geometry is an ordered coordinate sequence plus its instruction
// checkpoints.
type Geometry struct {
	Points         []geo.Point   `json:"points"`
	Instructions   []Instruction `json:"instructions"`
	TotalDistanceM float64       `json:"totalDistanceM"`
	TotalTimeS     float64       `json:"totalTimeS"`
}

// SnapResult describes the nearest point of the route for one fused position.
type SnapResult struct {
	Projected    geo.Point `json:"projected"`
	DistanceM    float64   `json:"distanceM"`
	SegmentIndex int       `json:"segmentIndex"`
}

// GuidancePhase identifies the staged announcement a checkpoint belongs to.
type GuidancePhase string

// PhaseExecute is the final checkpoint; it is the only phase allowed to
// interrupt in-progress guidance output.
const PhaseExecute GuidancePhase = "execute"

// Checkpoint is a staged guidance announcement for the active instruction.
// Each (instruction, phase) pair fires at most once.
type Checkpoint struct {
	InstructionIndex int           `json:"instructionIndex"`
	Phase            GuidancePhase `json:"phase"`
	Text             string        `json:"text"`
	DistanceM        float64       `json:"distanceM"`
	Interrupt        bool          `json:"interrupt"`
}

// Status is the navigation state produced by one Tracker update.
type Status struct {
	Snap             SnapResult   `json:"snap"`
	InstructionIndex int          `json:"instructionIndex"`
	DistanceToTurnM  float64      `json:"distanceToTurnM"`
	OffRoute         bool         `json:"offRoute"`
	RerouteRequested bool         `json:"rerouteRequested"`
	Checkpoints      []Checkpoint `json:"checkpoints,omitempty"`
}
