package tissue

import "math"

// scatterReferenceWavelength anchors the scattering power law, in nm.
const scatterReferenceWavelength = 500.0

// ratioFloor keeps the power-law base positive so a non-positive
// wavelength cannot produce NaN through the negative exponent.
const ratioFloor = 1e-10

// anisotropyCeil keeps 1/(1-g) finite for callers that bypass Validate.
const anisotropyCeil = 1 - 1e-9

// ReducedScattering returns the reduced scattering coefficient in 1/mm:
//
//	μs' = a · (λ/500)^(−b)
//
// where scale is a, the coefficient at the 500 nm reference, and power
// is b, the wavelength exponent.
func ReducedScattering(wavelength, scale, power float64) float64 {
	ratio := wavelength / scatterReferenceWavelength
	if ratio < ratioFloor {
		ratio = ratioFloor
	}

	return scale * math.Pow(ratio, -power)
}

// ScatteringCoefficient returns the scattering coefficient in 1/mm:
//
//	μs = μs' / (1 − g)
//
// g is clamped to [0, 1-1e-9] so the division stays finite; rejecting
// out-of-range anisotropy outright is Params.Validate's job.
func ScatteringCoefficient(wavelength, scale, power, g float64) float64 {
	return ReducedScattering(wavelength, scale, power) / (1 - clampAnisotropy(g))
}

func clampAnisotropy(g float64) float64 {
	if g < 0 {
		return 0
	}

	if g > anisotropyCeil {
		return anisotropyCeil
	}

	return g
}

// fillScattering writes μs for every wavelength into dst. dst and
// wavelengths must have the same length.
func fillScattering(dst, wavelengths []float64, p Params) {
	inv := 1 / (1 - clampAnisotropy(p.Anisotropy))
	for i, w := range wavelengths {
		dst[i] = ReducedScattering(w, p.ScatterScale, p.ScatterPower) * inv
	}
}
