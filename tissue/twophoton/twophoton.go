// Package twophoton relates pump wavelength pairs to the single
// wavelength a two-photon process effectively excites at, and samples
// transmission spectra at all three.
package twophoton

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-tissue/spectral/grid"
	"github.com/cwbudde/algo-tissue/tissue"
)

// Errors returned by this package.
var (
	ErrNonPositiveWavelength = errors.New("twophoton: wavelengths must be positive")
	ErrEmptyGrid             = errors.New("twophoton: wavelength grid is empty")
	ErrLengthMismatch        = errors.New("twophoton: result does not match the grid")
)

// EffectiveWavelength returns the wavelength whose photon energy equals
// the combined energy of one photon from each pump, rounded to the
// nearest 5 nm with ties going to the even multiple:
//
//	λc = 2 / (1/λa + 1/λb)
//
// The harmonic combination is symmetric in its arguments; equal pumps
// yield the pump wavelength rounded to a 5 nm multiple.
func EffectiveWavelength(lambdaA, lambdaB float64) (float64, error) {
	if !positive(lambdaA) || !positive(lambdaB) {
		return 0, ErrNonPositiveWavelength
	}

	raw := 2 / (1/lambdaA + 1/lambdaB)

	return math.RoundToEven(raw/5) * 5, nil
}

func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// Sample pairs a wavelength with the spectrum values at its nearest
// grid index.
type Sample struct {
	Wavelength    float64
	Transmission  float64
	WaterFraction float64
}

// Comparison holds the sampled spectrum at both pump wavelengths and at
// their effective two-photon wavelength.
type Comparison struct {
	A, B, Effective Sample
}

// Compare samples res at the grid indices nearest lambdaA, lambdaB and
// their effective two-photon wavelength. The grid must be the one res
// was computed on.
func Compare(wavelengths []float64, res *tissue.Result, lambdaA, lambdaB float64) (Comparison, error) {
	effective, err := EffectiveWavelength(lambdaA, lambdaB)
	if err != nil {
		return Comparison{}, err
	}

	if len(wavelengths) == 0 {
		return Comparison{}, ErrEmptyGrid
	}

	if res == nil || len(res.T) != len(wavelengths) || len(res.Tw) != len(wavelengths) {
		return Comparison{}, ErrLengthMismatch
	}

	return Comparison{
		A:         sampleAt(wavelengths, res, lambdaA),
		B:         sampleAt(wavelengths, res, lambdaB),
		Effective: sampleAt(wavelengths, res, effective),
	}, nil
}

func sampleAt(wavelengths []float64, res *tissue.Result, wavelength float64) Sample {
	i := grid.NearestIndex(wavelengths, wavelength)

	return Sample{
		Wavelength:    wavelength,
		Transmission:  res.T[i],
		WaterFraction: res.Tw[i],
	}
}
