// Package distance provides signature distance calculations.
//
// # Supported Metrics
//
//   - MetricOrdinal: mean absolute symbol difference, normalized to [0, 1] (default)
//   - MetricNormalizedL2: ‖a−b‖ / (‖a‖+‖b‖) over centred symbols, in [0, 1]
//     (up to 1.5 with the text fix enabled)
//
// Both metrics are zero for identical signatures, symmetric, and defined only
// for signatures of equal length.
//
// # Usage
//
//	d, err := distance.Ordinal(a, b)
//	f, err := distance.Provider(distance.MetricNormalizedL2, false)
package distance
