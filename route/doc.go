// Package route provides route-relative navigation state for an active trip.
//
// This package handles:
// - Projecting fused positions onto the route polyline (snapping)
// - Detecting sustained off-route deviation and signaling a reroute once
// - Advancing the active instruction as segment anchors are passed
// - Emitting staged guidance checkpoints at fixed distance bands
//
// The Tracker holds the per-trip navigation state; a new route installs a
// fresh state via SetRoute.
package route
