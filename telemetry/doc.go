// Package telemetry defines the raw sample types produced by device sensors
// and the provider interfaces the pipeline consumes them through.
//
// Providers are injectable so the violation and fusion logic can be exercised
// without a live device: tests feed synthetic fixes, motion samples and
// interaction events through the same interfaces the platform sources use.
package telemetry
