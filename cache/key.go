package cache

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/cwbudde/algo-tissue/tissue"
)

// Key derives a deterministic cache key from the wavelength grid, the
// tissue parameters and the normalization wavelength. Element-wise
// identical inputs share a key; any single differing sample or scalar
// produces a different one. Every numeric input of the computation
// participates, so a hit never stands in for a result the same inputs
// would not recompute.
func Key(wavelengths []float64, p tissue.Params, normWavelength float64) string {
	h := xxhash.New()

	_ = binary.Write(h, binary.LittleEndian, wavelengths)
	h.Write([]byte{0})
	_ = binary.Write(h, binary.LittleEndian, []float64{
		p.Anisotropy,
		p.ScatterScale,
		p.ScatterPower,
		p.WaterContent,
		p.Depth,
	})
	h.Write([]byte{0})
	_ = binary.Write(h, binary.LittleEndian, normWavelength)

	return fmt.Sprintf("%016x", h.Sum64())
}
