package smooth

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-tissue/internal/testutil"
)

func TestGaussianInvalidSigma(t *testing.T) {
	tests := []struct {
		name  string
		sigma float64
	}{
		{"zero", 0},
		{"negative", -1},
		{"nan", math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Gaussian([]float64{1, 2, 3}, tt.sigma); err != ErrInvalidSigma {
				t.Errorf("Gaussian() error = %v, want %v", err, ErrInvalidSigma)
			}
		})
	}
}

func TestGaussianEmpty(t *testing.T) {
	out, err := Gaussian(nil, 1)
	if err != nil {
		t.Fatal(err)
	}

	if len(out) != 0 {
		t.Errorf("length = %d, want 0", len(out))
	}
}

func TestGaussianPreservesConstant(t *testing.T) {
	in := make([]float64, 64)
	for i := range in {
		in[i] = 2.5
	}

	out, err := Gaussian(in, 2)
	if err != nil {
		t.Fatal(err)
	}

	want := make([]float64, len(in))
	for i := range want {
		want[i] = 2.5
	}

	testutil.RequireSliceNearlyEqual(t, out, want, 1e-9)
}

func TestGaussianSpreadsImpulse(t *testing.T) {
	const n = 65

	in := make([]float64, n)
	in[n/2] = 1

	out, err := Gaussian(in, 1.5)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireFinite(t, out)

	// The peak stays centered but flattens.
	peak := out[n/2]
	if peak >= 1 || peak <= 0 {
		t.Errorf("center = %v, want in (0, 1)", peak)
	}

	for i := range out {
		if out[i] > peak+1e-12 {
			t.Errorf("sample[%d] = %v exceeds center %v", i, out[i], peak)
		}
	}

	// Mass is conserved for an interior impulse.
	sum := 0.0
	for _, v := range out {
		sum += v
	}

	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("mass = %v, want 1", sum)
	}

	// Symmetric response around the impulse.
	for d := 1; d <= 4; d++ {
		left, right := out[n/2-d], out[n/2+d]
		if math.Abs(left-right) > 1e-9 {
			t.Errorf("asymmetric at offset %d: %v vs %v", d, left, right)
		}
	}
}

func TestGaussianDoesNotModifyInput(t *testing.T) {
	in := []float64{5, 0, 0, 0, 5}
	want := []float64{5, 0, 0, 0, 5}

	if _, err := Gaussian(in, 1); err != nil {
		t.Fatal(err)
	}

	for i := range in {
		if in[i] != want[i] {
			t.Fatalf("input modified at %d: %v", i, in[i])
		}
	}
}

func TestGaussianShortInput(t *testing.T) {
	out, err := Gaussian([]float64{3}, 2)
	if err != nil {
		t.Fatal(err)
	}

	if len(out) != 1 {
		t.Fatalf("length = %d, want 1", len(out))
	}

	if math.Abs(out[0]-3) > 1e-9 {
		t.Errorf("sample = %v, want 3", out[0])
	}
}

func TestNextPowerOf2(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{1000, 1024},
		{1024, 1024},
		{1025, 2048},
	}

	for _, tt := range tests {
		if got := nextPowerOf2(tt.in); got != tt.want {
			t.Errorf("nextPowerOf2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
