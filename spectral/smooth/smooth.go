// Package smooth provides Gaussian smoothing of sampled spectra via FFT
// convolution. Tabulated absorption data from spectrometer measurements
// carries sample-to-sample noise that distorts interpolation; a light
// Gaussian pass removes it without shifting peak positions.
package smooth

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// ErrInvalidSigma is returned for a non-positive kernel width.
var ErrInvalidSigma = errors.New("smooth: sigma must be positive")

// Gaussian smooths values with a normalized Gaussian kernel of standard
// deviation sigma (in samples) and radius ceil(3*sigma).
//
// The convolution runs in the frequency domain: the input is padded by
// replicating its edge values (so the ends are not pulled toward zero),
// zero-padded to the next power of two, transformed, multiplied by the
// transformed kernel, and transformed back. A constant input is preserved
// up to FFT roundoff. The input slice is not modified.
func Gaussian(values []float64, sigma float64) ([]float64, error) {
	if sigma <= 0 || math.IsNaN(sigma) {
		return nil, ErrInvalidSigma
	}

	n := len(values)
	if n == 0 {
		return []float64{}, nil
	}

	radius := int(math.Ceil(3 * sigma))
	if radius < 1 {
		radius = 1
	}

	kernel := make([]float64, 2*radius+1)
	sum := 0.0

	for i := range kernel {
		x := float64(i - radius)
		kernel[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += kernel[i]
	}

	for i := range kernel {
		kernel[i] /= sum
	}

	// Replicate-pad so the kernel never wraps across the series ends.
	padded := make([]float64, n+2*radius)
	for i := range radius {
		padded[i] = values[0]
		padded[n+radius+i] = values[n-1]
	}

	copy(padded[radius:], values)

	fftSize := nextPowerOf2(len(padded) + len(kernel) - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("smooth: failed to create FFT plan: %w", err)
	}

	sigPadded := make([]complex128, fftSize)
	for i, v := range padded {
		sigPadded[i] = complex(v, 0)
	}

	sigFreq := make([]complex128, fftSize)
	if err := plan.Forward(sigFreq, sigPadded); err != nil {
		return nil, fmt.Errorf("smooth: forward FFT failed: %w", err)
	}

	kernPadded := make([]complex128, fftSize)
	for i, v := range kernel {
		kernPadded[i] = complex(v, 0)
	}

	kernFreq := make([]complex128, fftSize)
	if err := plan.Forward(kernFreq, kernPadded); err != nil {
		return nil, fmt.Errorf("smooth: forward FFT failed: %w", err)
	}

	for i := range sigFreq {
		sigFreq[i] *= kernFreq[i]
	}

	resultTime := make([]complex128, fftSize)
	if err := plan.Inverse(resultTime, sigFreq); err != nil {
		return nil, fmt.Errorf("smooth: inverse FFT failed: %w", err)
	}

	// Sample i of the input sits at padded index i+radius; the kernel
	// center adds another radius in the full convolution.
	out := make([]float64, n)
	for i := range out {
		out[i] = real(resultTime[i+2*radius])
	}

	return out, nil
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p *= 2
	}

	return p
}
