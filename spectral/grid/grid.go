// Package grid provides helpers for wavelength grids: ordered slices of
// sample positions in nanometers shared by the spectral packages.
package grid

import (
	"errors"
	"math"
)

// Errors returned by grid validation.
var (
	ErrNotAscending = errors.New("grid: wavelengths must be strictly increasing")
	ErrNonFinite    = errors.New("grid: wavelengths must be finite")
)

// Validate checks that wavelengths form a valid grid: every sample finite
// and the sequence strictly increasing. Nil and empty grids are valid.
func Validate(wavelengths []float64) error {
	for i, w := range wavelengths {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return ErrNonFinite
		}

		if i > 0 && w <= wavelengths[i-1] {
			return ErrNotAscending
		}
	}

	return nil
}

// NearestIndex returns the index of the grid sample closest to target,
// measured by absolute difference. Ties resolve to the first occurrence,
// and targets outside the grid resolve to the nearest edge. Returns -1
// for an empty grid.
func NearestIndex(wavelengths []float64, target float64) int {
	if len(wavelengths) == 0 {
		return -1
	}

	best := 0
	bestDiff := math.Abs(wavelengths[0] - target)

	for i := 1; i < len(wavelengths); i++ {
		diff := math.Abs(wavelengths[i] - target)
		if diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}

	return best
}

// Linspace returns n samples evenly spaced over [lo, hi], inclusive of
// both ends. n <= 0 returns nil and n == 1 returns {lo}.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}

	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}

	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}

	out[n-1] = hi

	return out
}
