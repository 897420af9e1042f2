// Package regions detects maximal contiguous runs of a sampled series
// that reach a threshold. The tissue packages use it to flag wavelength
// bands with excessive water absorption, but it works on any series.
package regions

import "errors"

// ErrLengthMismatch is returned by Bands when the grid and the series
// differ in length.
var ErrLengthMismatch = errors.New("regions: wavelengths and values must have equal length")

// Region is a maximal run values[Start..End] (inclusive) whose samples
// all satisfy value >= threshold.
type Region struct {
	Start int
	End   int
}

// Band is a region mapped onto wavelength coordinates.
type Band struct {
	Start float64
	End   float64
}

// Find returns the maximal contiguous runs where values[i] >= threshold,
// ordered and non-overlapping. An entirely-true series yields a single
// region covering the whole input, runs touching either end are kept
// intact, and NaN samples never satisfy the threshold. Returns nil when
// no sample reaches the threshold.
func Find(values []float64, threshold float64) []Region {
	var out []Region

	start := -1
	for i, v := range values {
		above := v >= threshold

		if above && start < 0 {
			start = i
		}

		if !above && start >= 0 {
			out = append(out, Region{Start: start, End: i - 1})
			start = -1
		}
	}

	if start >= 0 {
		out = append(out, Region{Start: start, End: len(values) - 1})
	}

	return out
}

// Bands runs Find and maps each region onto the wavelength grid.
func Bands(wavelengths, values []float64, threshold float64) ([]Band, error) {
	if len(wavelengths) != len(values) {
		return nil, ErrLengthMismatch
	}

	found := Find(values, threshold)
	if len(found) == 0 {
		return nil, nil
	}

	out := make([]Band, len(found))
	for i, r := range found {
		out[i] = Band{Start: wavelengths[r.Start], End: wavelengths[r.End]}
	}

	return out, nil
}
