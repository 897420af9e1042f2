package tissue

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-tissue/internal/testutil"
	"github.com/cwbudde/algo-tissue/spectral/absorption"
	"github.com/cwbudde/algo-tissue/spectral/grid"
)

// flatTable builds a table that interpolates to the same value at every
// wavelength inside [500, 3000] and clamps to it outside.
func flatTable(t *testing.T, value float64) *absorption.Table {
	t.Helper()

	table, err := absorption.New([]float64{500, 3000}, []float64{value, value})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return table
}

func testGrid() []float64 {
	return grid.Linspace(800, 2400, 17)
}

func TestTransmissionNormalization(t *testing.T) {
	m := Model{Table: flatTable(t, 2.0), Params: DefaultParams()}

	res, err := m.Transmission(testGrid(), DefaultNormalizationWavelength)
	if err != nil {
		t.Fatalf("Transmission: %v", err)
	}

	if res.NormIndex != 5 {
		t.Fatalf("NormIndex = %d, want 5 (1300 nm)", res.NormIndex)
	}

	testutil.RequireNearlyEqual(t, res.T[res.NormIndex], 1, 1e-12)
	testutil.RequireFinite(t, res.T)
	testutil.RequireFinite(t, res.Tw)
	testutil.RequireWithin(t, res.Tw, 0, 1)
}

func TestTransmissionZeroDepth(t *testing.T) {
	p := DefaultParams()
	p.Depth = 0
	m := Model{Table: flatTable(t, 2.0), Params: p}

	res, err := m.Transmission(testGrid(), DefaultNormalizationWavelength)
	if err != nil {
		t.Fatalf("Transmission: %v", err)
	}

	for i := range res.T {
		if res.T[i] != 1 {
			t.Errorf("T[%d] = %v, want exactly 1 at zero depth", i, res.T[i])
		}

		if res.Tw[i] != 0 {
			t.Errorf("Tw[%d] = %v, want exactly 0 at zero depth", i, res.Tw[i])
		}
	}
}

func TestTransmissionEmptyGrid(t *testing.T) {
	m := Model{Table: flatTable(t, 2.0), Params: DefaultParams()}

	res, err := m.Transmission(nil, DefaultNormalizationWavelength)
	if err != nil {
		t.Fatalf("Transmission: %v", err)
	}

	if len(res.T) != 0 || len(res.Tw) != 0 {
		t.Errorf("got %d/%d samples, want empty", len(res.T), len(res.Tw))
	}

	if res.NormIndex != -1 {
		t.Errorf("NormIndex = %d, want -1", res.NormIndex)
	}
}

func TestTransmissionScatteringOnly(t *testing.T) {
	// Zero absorption and a flat scattering law: the spectrum is constant,
	// so normalization yields exactly 1 everywhere.
	p := Params{Anisotropy: 0, ScatterScale: 1, ScatterPower: 0, WaterContent: 0, Depth: 2}
	m := Model{Table: flatTable(t, 0), Params: p}

	res, err := m.Transmission(testGrid(), DefaultNormalizationWavelength)
	if err != nil {
		t.Fatalf("Transmission: %v", err)
	}

	for i := range res.T {
		if res.T[i] != 1 {
			t.Errorf("T[%d] = %v, want exactly 1", i, res.T[i])
		}
	}
}

func TestTransmissionClosedForm(t *testing.T) {
	// μs(500) = 1, μs(1000) = 0.5, no absorption, depth 1, normalized
	// at 500 nm: T(1000) = exp(-0.5)/exp(-1) = exp(0.5).
	p := Params{Anisotropy: 0, ScatterScale: 1, ScatterPower: 1, WaterContent: 0, Depth: 1}
	m := Model{Table: flatTable(t, 0), Params: p}

	res, err := m.Transmission([]float64{500, 1000}, 500)
	if err != nil {
		t.Fatalf("Transmission: %v", err)
	}

	testutil.RequireNearlyEqual(t, res.T[0], 1, 1e-12)
	testutil.RequireNearlyEqual(t, res.T[1], math.Exp(0.5), 1e-12)
}

func TestTransmissionWaterFraction(t *testing.T) {
	// μa = 10·0.5/10 = 0.5 everywhere, depth 2: Tw = 1 - exp(-1).
	p := DefaultParams()
	p.WaterContent = 0.5
	p.Depth = 2
	m := Model{Table: flatTable(t, 10), Params: p}

	res, err := m.Transmission(testGrid(), DefaultNormalizationWavelength)
	if err != nil {
		t.Fatalf("Transmission: %v", err)
	}

	want := 1 - math.Exp(-1)
	for i := range res.Tw {
		testutil.RequireNearlyEqual(t, res.Tw[i], want, 1e-12)
	}
}

func TestTransmissionNormOutsideGrid(t *testing.T) {
	// The nearest sample to 1300 nm on a 500..900 grid is the last one.
	m := Model{Table: flatTable(t, 2.0), Params: DefaultParams()}

	res, err := m.Transmission([]float64{500, 700, 900}, 1300)
	if err != nil {
		t.Fatalf("Transmission: %v", err)
	}

	if res.NormIndex != 2 {
		t.Fatalf("NormIndex = %d, want 2", res.NormIndex)
	}

	testutil.RequireNearlyEqual(t, res.T[2], 1, 1e-12)
}

func TestTransmissionNormTieBreak(t *testing.T) {
	// 1100 nm is equidistant from both samples; the first wins.
	m := Model{Table: flatTable(t, 2.0), Params: DefaultParams()}

	res, err := m.Transmission([]float64{1000, 1200}, 1100)
	if err != nil {
		t.Fatalf("Transmission: %v", err)
	}

	if res.NormIndex != 0 {
		t.Errorf("NormIndex = %d, want 0", res.NormIndex)
	}
}

func TestTransmissionErrors(t *testing.T) {
	valid := testGrid()

	tests := []struct {
		name        string
		model       Model
		wavelengths []float64
		want        error
	}{
		{
			name:        "nil table",
			model:       Model{Table: nil, Params: DefaultParams()},
			wavelengths: valid,
			want:        ErrNilTable,
		},
		{
			name: "anisotropy at one",
			model: func() Model {
				p := DefaultParams()
				p.Anisotropy = 1
				return Model{Table: flatTable(t, 2.0), Params: p}
			}(),
			wavelengths: valid,
			want:        ErrAnisotropyRange,
		},
		{
			name:        "unsorted grid",
			model:       Model{Table: flatTable(t, 2.0), Params: DefaultParams()},
			wavelengths: []float64{1000, 900, 1100},
			want:        grid.ErrNotAscending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.model.Transmission(tt.wavelengths, DefaultNormalizationWavelength)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTransmissionNormalizationUnderflow(t *testing.T) {
	// exp(-1000) underflows to zero, so every sample including the
	// normalization one vanishes.
	p := Params{Anisotropy: 0, ScatterScale: 1000, ScatterPower: 0, WaterContent: 0, Depth: 1}
	m := Model{Table: flatTable(t, 0), Params: p}

	_, err := m.Transmission(testGrid(), DefaultNormalizationWavelength)
	if !errors.Is(err, ErrNormalization) {
		t.Errorf("got %v, want ErrNormalization", err)
	}
}

func TestTransmissionDoesNotMutateGrid(t *testing.T) {
	wavelengths := testGrid()
	before := append([]float64(nil), wavelengths...)

	m := Model{Table: flatTable(t, 2.0), Params: DefaultParams()}
	if _, err := m.Transmission(wavelengths, DefaultNormalizationWavelength); err != nil {
		t.Fatalf("Transmission: %v", err)
	}

	for i := range wavelengths {
		if wavelengths[i] != before[i] {
			t.Fatalf("wavelengths[%d] changed from %v to %v", i, before[i], wavelengths[i])
		}
	}
}

func TestResultPeakIndex(t *testing.T) {
	tests := []struct {
		name string
		t    []float64
		want int
	}{
		{"interior peak", []float64{0.5, 2, 2, 1}, 1},
		{"single sample", []float64{3}, 0},
		{"empty", nil, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Result{T: tt.t}
			if got := res.PeakIndex(); got != tt.want {
				t.Errorf("PeakIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResultClone(t *testing.T) {
	m := Model{Table: flatTable(t, 2.0), Params: DefaultParams()}

	res, err := m.Transmission(testGrid(), DefaultNormalizationWavelength)
	if err != nil {
		t.Fatalf("Transmission: %v", err)
	}

	clone := res.Clone()
	clone.T[0] = -1
	clone.Tw[0] = -1

	if res.T[0] == -1 || res.Tw[0] == -1 {
		t.Error("mutating the clone changed the original")
	}

	if clone.NormIndex != res.NormIndex || clone.Depth != res.Depth {
		t.Error("clone did not preserve scalar fields")
	}
}
