// Package violation classifies driving behavior into scored events.
//
// The Detector is a per-tick state machine consuming the fused speed/heading
// and smoothed motion axes. Sub-states:
//   - stopped/moving hysteresis (safe harbor for distraction checks)
//   - speeding episodes with sustain, recurrence and severity tiers
//   - mutually exclusive G-force events (braking, acceleration, cornering)
//   - phone distraction with debounce and suppression rules
//   - throttled road-context refresh (posted limit, school zones)
//
// Every tick yields the signed point delta to apply on that tick; the trip
// aggregator owns accumulation. The update order within a tick is fixed:
// stopped-state, then pending interactions, then speeding and G-force.
package violation
