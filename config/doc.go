// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Every numeric threshold used by the telemetry pipeline (smoothing alphas,
// speeding tolerance, G-force cutoffs, off-route distances, school-zone
// windows, point values) is tunable here; the algorithms never hardcode them.
package config
