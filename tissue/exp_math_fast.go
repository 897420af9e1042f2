//go:build fastmath

package tissue

import "github.com/meko-christian/algo-approx"

// mathExp computes e^x using fast approximation. The Beer-Lambert loops
// evaluate it once per wavelength per depth, so the reduced precision
// trades directly against sweep throughput.
func mathExp(x float64) float64 {
	return approx.FastExp(x)
}
