// Package trip owns the trip lifecycle: accumulation of distance, points and
// events while a trip is live, and the single terminal finalization that
// classifies transport mode, decides validity, scores compliance and
// compresses the recorded path.
//
// The Aggregator is the only writer of a TripRecord. Once Stop hands the
// finalized record off, it is never mutated again.
package trip
