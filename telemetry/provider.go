package telemetry

import "errors"

// Typed provider failures. No trip state is created when Start returns one of
// these; tracking simply does not begin.
var (
	ErrPermissionDenied = errors.New("telemetry: location permission denied")
	ErrUnavailable      = errors.New("telemetry: sensor unavailable")
	ErrTimeout          = errors.New("telemetry: sensor timeout")
)

// LocationProvider emits GPS fixes. Implementations push fixes to the sink
// until Stop is called; errors surface through the error callback.
type LocationProvider interface {
	Start(fixes func(RawFix), errs func(error)) error
	Stop()
}

// MotionProvider emits raw acceleration and rotation-rate samples at sensor
// rate.
type MotionProvider interface {
	Start(samples func(MotionSample)) error
	Stop()
}

// OrientationProvider emits device attitude samples.
type OrientationProvider interface {
	Start(samples func(OrientationSample)) error
	Stop()
}

// InteractionSource emits touch and app-background transitions. Abstracting
// the platform event source keeps distraction detection testable.
type InteractionSource interface {
	Start(events func(Interaction)) error
	Stop()
}

// FeedbackSink receives fire-and-forget haptic/audio triggers on violation
// and guidance events. Implementations must never block the caller.
type FeedbackSink interface {
	ViolationFeedback(eventType string)
	GuidanceFeedback(phase string)
}

// NopFeedback discards all feedback triggers.
type NopFeedback struct{}

func (NopFeedback) ViolationFeedback(string) {}
func (NopFeedback) GuidanceFeedback(string)  {}
