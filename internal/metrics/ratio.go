// internal/metrics/ratio.go
// Package metrics derives match-quality statistics from run records and
// aggregates them across runs.
//
// Every percentage derived from counts goes through RatioPct, so aggregates
// are always recomputed from summed numerators and denominators.
package metrics

import "github.com/mwiater/matchboard/internal/runs"

// RatioPct returns numerator/denominator*100, unrounded. It is unavailable
// when either input is missing or the denominator is not positive.
func RatioPct(numerator, denominator runs.Num) runs.Num {
	n, ok := numerator.Value()
	if !ok {
		return runs.None()
	}
	d, ok := denominator.Value()
	if !ok || d <= 0 {
		return runs.None()
	}
	return runs.Some(n / d * 100)
}
