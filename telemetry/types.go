package telemetry

import (
	"encoding/json"
	"time"
)

// RawFix is one raw GPS reading as delivered by the location provider.
// ReportedSpeed and ReportedHeading are negative when the receiver did not
// supply them.
type RawFix struct {
	Lat             float64   `json:"lat"`
	Lng             float64   `json:"lng"`
	ReportedSpeed   float64   `json:"reportedSpeed"`   // km/h, < 0 when absent
	ReportedHeading float64   `json:"reportedHeading"` // degrees, < 0 when absent
	Accuracy        float64   `json:"accuracy"`        // meters
	Timestamp       time.Time `json:"timestamp"`
}

// UnmarshalJSON maps an omitted or null reportedSpeed/reportedHeading to the
// absent sentinel. A fix with no speed field is not a fix at 0 km/h.
func (f *RawFix) UnmarshalJSON(data []byte) error {
	var raw struct {
		Lat             float64   `json:"lat"`
		Lng             float64   `json:"lng"`
		ReportedSpeed   *float64  `json:"reportedSpeed"`
		ReportedHeading *float64  `json:"reportedHeading"`
		Accuracy        float64   `json:"accuracy"`
		Timestamp       time.Time `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Lat = raw.Lat
	f.Lng = raw.Lng
	f.Accuracy = raw.Accuracy
	f.Timestamp = raw.Timestamp
	f.ReportedSpeed = -1
	if raw.ReportedSpeed != nil {
		f.ReportedSpeed = *raw.ReportedSpeed
	}
	f.ReportedHeading = -1
	if raw.ReportedHeading != nil {
		f.ReportedHeading = *raw.ReportedHeading
	}
	return nil
}

// HasReportedSpeed reports whether the receiver supplied a speed.
func (f RawFix) HasReportedSpeed() bool { return f.ReportedSpeed >= 0 }

// HasReportedHeading reports whether the receiver supplied a course.
func (f RawFix) HasReportedHeading() bool { return f.ReportedHeading >= 0 }

// MotionSample is one accelerometer/gyro reading in device axes.
type MotionSample struct {
	AX           float64   `json:"ax"` // m/s^2
	AY           float64   `json:"ay"`
	AZ           float64   `json:"az"`
	RotationRate float64   `json:"rotationRate"` // rad/s
	Timestamp    time.Time `json:"timestamp"`
}

// OrientationSample is one device attitude reading.
type OrientationSample struct {
	Yaw       float64   `json:"yaw"` // degrees
	Pitch     float64   `json:"pitch"`
	Roll      float64   `json:"roll"`
	Timestamp time.Time `json:"timestamp"`
}

// InteractionKind classifies a user interaction observed on the device.
type InteractionKind string

const (
	InteractionTouch      InteractionKind = "touch"
	InteractionBackground InteractionKind = "background"
)

// Interaction is a touch/click or app-background transition.
// SafeTarget marks interactions with UI chrome or the map canvas, which never
// count as distraction.
type Interaction struct {
	Kind       InteractionKind `json:"kind"`
	SafeTarget bool            `json:"safeTarget"`
	Timestamp  time.Time       `json:"timestamp"`
}

// FusedState is the smoothed, de-noised speed/heading derived from the raw
// signals. SpeedKmh is never negative; HeadingDeg is always in [0,360).
type FusedState struct {
	SpeedKmh   float64 `json:"speedKmh"`
	HeadingDeg float64 `json:"headingDeg"`
}
