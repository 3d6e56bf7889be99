// Package stats implements the robust summary statistics used per site:
// Tukey-hinge quartiles, IQR fencing and an empty-safe mean.
package stats

import "sort"

// MinFenceSample is the smallest sample the IQR fence is applied to.
const MinFenceSample = 4

// FenceFactor scales the IQR to get the outer fences.
const FenceFactor = 1.5

// Quartiles returns the first and third quartiles of values using Tukey's hinges:
// the sorted sample is split into a lower and an upper half (the median belongs to
// both halves when the length is odd) and each half's median is taken.
// Returns zeros for an empty sample.
func Quartiles(values []float64) (q1, q3 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	half := (n + 1) / 2
	return median(sorted[:half]), median(sorted[n-half:])
}

// Fences returns the inclusive interval [Q1 - 1.5*IQR, Q3 + 1.5*IQR].
func Fences(values []float64) (lower, upper float64) {
	q1, q3 := Quartiles(values)
	iqr := q3 - q1
	return q1 - FenceFactor*iqr, q3 + FenceFactor*iqr
}

// RemoveOutliers drops values outside the IQR fences, keeping input order.
// Samples smaller than MinFenceSample are returned unchanged.
func RemoveOutliers(values []float64) []float64 {
	if len(values) < MinFenceSample {
		return values
	}

	lower, upper := Fences(values)
	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if v >= lower && v <= upper {
			kept = append(kept, v)
		}
	}
	return kept
}

// Mean is the arithmetic mean; the mean of an empty sample is 0.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// FromInts converts integer observations into a float sample.
func FromInts(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// median expects a sorted, non-empty slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
