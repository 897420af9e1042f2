package tissue

import (
	"errors"
	"math"
)

// Errors returned by the tissue model.
var (
	ErrAnisotropyRange = errors.New("tissue: anisotropy must be in [0, 1)")
	ErrScatterScale    = errors.New("tissue: scattering scale must be positive")
	ErrScatterPower    = errors.New("tissue: scattering power must be non-negative")
	ErrWaterContent    = errors.New("tissue: water content must be in [0, 1]")
	ErrDepth           = errors.New("tissue: depth must be non-negative")
	ErrNilTable        = errors.New("tissue: absorption table is nil")
	ErrNormalization   = errors.New("tissue: transmission vanishes at the normalization wavelength")
)

// DefaultNormalizationWavelength is the reference wavelength at which
// transmission spectra are pinned to 1, chosen inside the low-absorption
// window between the 1450 nm and 1950 nm water peaks.
const DefaultNormalizationWavelength = 1300.0

// DefaultAbsorptionThreshold is the water absorption percentage above
// which a wavelength band counts as a heating hazard.
const DefaultAbsorptionThreshold = 50.0

// Params describes a homogeneous tissue slab.
type Params struct {
	Anisotropy   float64 // g, mean scattering-angle cosine, 0 <= g < 1
	ScatterScale float64 // a, reduced scattering at 500 nm in 1/mm
	ScatterPower float64 // b, wavelength exponent of the scattering power law
	WaterContent float64 // water volume fraction, 0..1
	Depth        float64 // slab thickness in mm
}

// DefaultParams returns generic soft-tissue parameters.
func DefaultParams() Params {
	return Params{
		Anisotropy:   0.9,
		ScatterScale: 1.1,
		ScatterPower: 1.37,
		WaterContent: 0.75,
		Depth:        1,
	}
}

// Validate checks that the parameters are inside the model's domain.
// Anisotropy of exactly 1 is rejected because the reduced-scattering
// conversion divides by 1-g.
func (p Params) Validate() error {
	if math.IsNaN(p.Anisotropy) || p.Anisotropy < 0 || p.Anisotropy >= 1 {
		return ErrAnisotropyRange
	}

	if math.IsNaN(p.ScatterScale) || math.IsInf(p.ScatterScale, 0) || p.ScatterScale <= 0 {
		return ErrScatterScale
	}

	if math.IsNaN(p.ScatterPower) || math.IsInf(p.ScatterPower, 0) || p.ScatterPower < 0 {
		return ErrScatterPower
	}

	if math.IsNaN(p.WaterContent) || p.WaterContent < 0 || p.WaterContent > 1 {
		return ErrWaterContent
	}

	if math.IsNaN(p.Depth) || math.IsInf(p.Depth, 0) || p.Depth < 0 {
		return ErrDepth
	}

	return nil
}

// DefaultDepths returns the standard profile depths: 0 to 2 mm in 0.1 mm
// steps, both ends inclusive.
func DefaultDepths() []float64 {
	out := make([]float64, 21)
	for i := range out {
		out[i] = float64(i) * 0.1
	}

	return out
}
