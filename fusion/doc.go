// Package fusion turns noisy, intermittent GPS and motion samples into a
// stable speed/heading estimate.
//
// It contains three small estimators:
//   - Smoother: fixed-window running average for acceleration axes
//   - SpeedEstimator: de-noised speed from raw fixes
//   - HeadingEstimator: compass/GPS-course blend with circular smoothing
//
// All three are single-threaded; the pipeline calls them from one goroutine
// in a fixed order.
package fusion
