package tissue

import (
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/algo-tissue/spectral/absorption"
	"github.com/cwbudde/algo-tissue/spectral/grid"
	"github.com/cwbudde/algo-vecmath"
)

// waterUnitScale converts tabulated absorption values, scaled by water
// content, into 1/mm. The factor is contractual: downstream results are
// calibrated against it.
const waterUnitScale = 1.0 / 10

// Model evaluates light transport for one tissue description. The table
// is shared read-only state; Params are copied per evaluation, so a Model
// is safe for concurrent use as long as callers do not mutate its fields.
type Model struct {
	Table  *absorption.Table
	Params Params
}

// Result holds per-wavelength transmission spectra for a single depth.
type Result struct {
	// T is the transmission normalized to 1 at NormIndex.
	T []float64
	// Tw is the fraction of incident light absorbed by water, in [0, 1].
	Tw []float64
	// Depth is the slab thickness the spectra were evaluated at, in mm.
	Depth float64
	// NormalizationWavelength is the requested reference wavelength.
	NormalizationWavelength float64
	// NormIndex is the grid index the normalization resolved to, -1 for
	// an empty grid.
	NormIndex int
}

// scratchBuf holds pooled scratch memory for the attenuation arrays.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (a, b []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)

	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}

	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Transmission computes the normalized transmission spectrum and the
// water-absorbed fraction over the wavelength grid (nm, strictly
// increasing).
//
// The spectrum is divided by its value at the grid sample nearest
// normWavelength, so T is exactly 1 there; a reference outside the grid
// resolves to the nearest edge sample. An empty grid yields empty
// spectra and no error. Scratch memory is pooled, so in steady state
// this allocates only the result.
func (m *Model) Transmission(wavelengths []float64, normWavelength float64) (*Result, error) {
	if m.Table == nil {
		return nil, ErrNilTable
	}

	if err := m.Params.Validate(); err != nil {
		return nil, err
	}

	if err := grid.Validate(wavelengths); err != nil {
		return nil, fmt.Errorf("tissue: %w", err)
	}

	n := len(wavelengths)
	res := &Result{
		T:                       make([]float64, n),
		Tw:                      make([]float64, n),
		Depth:                   m.Params.Depth,
		NormalizationWavelength: normWavelength,
		NormIndex:               -1,
	}

	if n == 0 {
		return res, nil
	}

	work, mua, buf := getScratch(n)
	defer putScratch(buf)

	// μa(λ) = water(λ) · water content / 10
	m.Table.Values(work, wavelengths)
	vecmath.ScaleBlock(mua, work, m.Params.WaterContent*waterUnitScale)

	// Tw depends on water absorption alone.
	for i := range mua {
		res.Tw[i] = 1 - mathExp(-mua[i]*m.Params.Depth)
	}

	// μ(λ) = μs(λ) + μa(λ)
	fillScattering(work, wavelengths, m.Params)
	vecmath.AddBlockInPlace(work, mua)

	// μa is no longer needed; its buffer takes the unnormalized T.
	unnorm := mua
	for i := range work {
		unnorm[i] = mathExp(-work[i] * m.Params.Depth)
	}

	res.NormIndex = grid.NearestIndex(wavelengths, normWavelength)

	norm := unnorm[res.NormIndex]
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, ErrNormalization
	}

	vecmath.ScaleBlock(res.T, unnorm, 1/norm)

	return res, nil
}

// PeakIndex returns the index of the highest transmission sample, the
// first occurrence on ties, or -1 for an empty result. Callers map it
// back onto their wavelength grid.
func (r *Result) PeakIndex() int {
	if len(r.T) == 0 {
		return -1
	}

	best := 0
	for i := 1; i < len(r.T); i++ {
		if r.T[i] > r.T[best] {
			best = i
		}
	}

	return best
}

// Clone returns a deep copy of the result.
func (r *Result) Clone() *Result {
	out := *r

	out.T = make([]float64, len(r.T))
	copy(out.T, r.T)

	out.Tw = make([]float64, len(r.Tw))
	copy(out.Tw, r.Tw)

	return &out
}
