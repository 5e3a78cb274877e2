package trip

import (
	"time"

	"github.com/theoremus-urban-solutions/drive-telemetry/geo"
)

// EventType identifies a classified driving event.
type EventType string

const (
	EventSpeeding         EventType = "speeding"
	EventHarshBraking     EventType = "harsh_braking"
	EventHarshAccel       EventType = "harsh_acceleration"
	EventUnsafeCornering  EventType = "unsafe_cornering"
	EventPhoneDistraction EventType = "phone_distraction"
	EventTripInvalidated  EventType = "trip_invalidated"
	EventSafeDrivingBonus EventType = "safe_driving_bonus"
)

// Severity tiers for scored events.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySerious  Severity = "serious"
	SeverityCritical Severity = "critical"
)

// DrivingEvent is one classified event with its point delta. Events are
// immutable once created; timestamps are strictly monotonic within a trip.
type DrivingEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	PointsDelta int       `json:"pointsDelta"`
	Severity    Severity  `json:"severity"`
	Description string    `json:"description"`
	Lat         *float64  `json:"lat,omitempty"`
	Lng         *float64  `json:"lng,omitempty"`
	SpeedKmh    *float64  `json:"speedKmh,omitempty"`
	RoadLimit   *float64  `json:"roadLimitKmh,omitempty"`
}

// Validity is the terminal trip classification, computed once at stop time.
type Validity string

const (
	Valid                Validity = "VALID"
	InvalidMode          Validity = "INVALID_MODE"
	InvalidLowConfidence Validity = "INVALID_LOW_CONFIDENCE"
	InvalidDistracted    Validity = "INVALID_DISTRACTED"
)

// TransportMode is classified from the maximum observed speed at stop time.
type TransportMode string

const (
	ModeCar   TransportMode = "CAR"
	ModeWalk  TransportMode = "WALK"
	ModeTrain TransportMode = "TRAIN"
)

// Record is the finalized trip handed to the persistence layer. It is
// append-only storage material: never mutated after handoff.
type Record struct {
	ID               string         `json:"id"`
	StartTime        time.Time      `json:"startTime"`
	EndTime          time.Time      `json:"endTime"`
	DistanceKm       float64        `json:"distanceKm"`
	DurationS        int64          `json:"durationS"`
	Points           int            `json:"points"`
	ComplianceScore  int            `json:"complianceScore"`
	Events           []DrivingEvent `json:"events"`
	CompressedPath   []geo.Point    `json:"compressedPath"`
	StartName        string         `json:"startName"`
	EndName          string         `json:"endName"`
	Validity         Validity       `json:"validity"`
	RewardEligible   bool           `json:"rewardEligible"`
	DriverConfidence float64        `json:"driverConfidence"`
	Mode             TransportMode  `json:"modeOfTransport"`
	AvgSpeedKmh      float64        `json:"avgSpeedKmh"`
	MaxSpeedKmh      float64        `json:"maxSpeedKmh"`
}
