package tissue

import (
	"fmt"
	"math"
	"runtime"

	"github.com/cwbudde/algo-tissue/spectral/grid"
	"github.com/cwbudde/algo-vecmath"
	"golang.org/x/sync/errgroup"
)

// Profile holds transmission spectra evaluated across a depth sweep.
type Profile struct {
	// Depths are the evaluated slab thicknesses in mm, in caller order.
	Depths []float64
	// T and Tw are indexed [depth][wavelength]; every T row is
	// independently normalized to 1 at NormIndex.
	T  [][]float64
	Tw [][]float64
	// NormalizationWavelength is the requested reference wavelength.
	NormalizationWavelength float64
	// NormIndex is the shared grid index all rows normalize at.
	NormIndex int
}

// DepthProfile evaluates the model at every depth in depths, producing
// one row of T and Tw per depth. Params.Depth is ignored; each row uses
// its own z. μa and μs do not depend on depth, so they are computed once
// and shared read-only across rows, which run in parallel.
//
// A zero depth is valid and yields T ≡ 1 and Tw ≡ 0. Depths must be
// finite and non-negative but may come in any order; rows keep the
// caller's order.
func (m *Model) DepthProfile(wavelengths, depths []float64, normWavelength float64) (*Profile, error) {
	if m.Table == nil {
		return nil, ErrNilTable
	}

	if err := m.Params.Validate(); err != nil {
		return nil, err
	}

	if err := grid.Validate(wavelengths); err != nil {
		return nil, fmt.Errorf("tissue: %w", err)
	}

	for _, z := range depths {
		if math.IsNaN(z) || math.IsInf(z, 0) || z < 0 {
			return nil, ErrDepth
		}
	}

	n := len(wavelengths)
	prof := &Profile{
		Depths:                  make([]float64, len(depths)),
		T:                       make([][]float64, len(depths)),
		Tw:                      make([][]float64, len(depths)),
		NormalizationWavelength: normWavelength,
		NormIndex:               grid.NearestIndex(wavelengths, normWavelength),
	}
	copy(prof.Depths, depths)

	if len(depths) == 0 {
		return prof, nil
	}

	// total holds the raw table values until fillScattering overwrites it.
	mua := make([]float64, n)
	total := make([]float64, n)

	if n > 0 {
		m.Table.Values(total, wavelengths)
		vecmath.ScaleBlock(mua, total, m.Params.WaterContent*waterUnitScale)

		fillScattering(total, wavelengths, m.Params)
		vecmath.AddBlockInPlace(total, mua)
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for i, z := range depths {
		g.Go(func() error {
			t := make([]float64, n)
			tw := make([]float64, n)

			if n == 0 {
				prof.T[i], prof.Tw[i] = t, tw
				return nil
			}

			raw := make([]float64, n)

			for j := range total {
				raw[j] = mathExp(-total[j] * z)
				tw[j] = 1 - mathExp(-mua[j]*z)
			}

			norm := raw[prof.NormIndex]
			if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
				return ErrNormalization
			}

			vecmath.ScaleBlock(t, raw, 1/norm)

			prof.T[i], prof.Tw[i] = t, tw

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return prof, nil
}
