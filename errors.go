package drivetelemetry

import "errors"

var (
	// ErrTripInProgress is returned by StartTrip while a trip is active.
	ErrTripInProgress = errors.New("a trip is already in progress")
	// ErrShuttingDown is returned once Shutdown has been called.
	ErrShuttingDown = errors.New("pipeline is shutting down")
	// ErrNoRouteService is returned by RequestRoute with no router attached.
	ErrNoRouteService = errors.New("no route service configured")
	// ErrNoPosition is returned by RequestRoute before the first fix.
	ErrNoPosition = errors.New("no position known yet")
)
