// Package tissue models near-infrared light transport through a
// homogeneous soft-tissue slab, combining power-law scattering with
// tabulated water absorption under the Beer-Lambert law:
//
//	μs(λ) = a · (λ/500)^(−b) / (1 − g)
//	μa(λ) = water(λ) · water content / 10
//	T(λ)  = exp(−(μs(λ)+μa(λ)) · depth)
//
// Transmission is reported relative to a normalization wavelength: the
// grid sample nearest that wavelength is pinned to exactly 1, so spectra
// computed for different parameters stay comparable. The fraction of
// incident light absorbed by water, Tw(λ) = 1 − exp(−μa(λ)·depth), is
// reported alongside and is independent of scattering.
//
// # Usage
//
// Load the absorption table once, then evaluate a model per query:
//
//	table := absorption.Load(absorption.DefaultPath)
//
//	m := &tissue.Model{Table: table, Params: tissue.DefaultParams()}
//	res, err := m.Transmission(wavelengths, tissue.DefaultNormalizationWavelength)
//
// For a depth-resolved view, sweep the standard 0-2 mm range:
//
//	prof, err := m.DepthProfile(wavelengths, tissue.DefaultDepths(), 1300)
//
// Building with the fastmath tag routes the exponential hot loops through
// approximated math at reduced precision.
package tissue
