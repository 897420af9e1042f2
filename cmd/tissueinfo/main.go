// Command tissueinfo prints near-infrared transmission properties of a
// homogeneous tissue slab.
//
// Usage:
//
//	tissueinfo [flags]
//
// It evaluates normalized transmission and water absorption over a
// wavelength grid, marks bands whose water absorption reaches the
// threshold, and optionally compares a two-photon pump pair or sweeps
// the slab depth.
//
// Examples:
//
//	tissueinfo
//	tissueinfo -water 0.5 -depth 2
//	tissueinfo -from 1200 -to 2000 -step 10 -every 5
//	tissueinfo -pair 800,1040
//	tissueinfo -profile
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-tissue/spectral/absorption"
	"github.com/cwbudde/algo-tissue/spectral/regions"
	"github.com/cwbudde/algo-tissue/tissue"
	"github.com/cwbudde/algo-tissue/tissue/twophoton"
)

func main() {
	defaults := tissue.DefaultParams()

	dataPath := flag.String("data", absorption.DefaultPath, "water absorption dataset path")
	from := flag.Float64("from", 800, "grid start wavelength [nm]")
	to := flag.Float64("to", 2400, "grid end wavelength [nm]")
	step := flag.Float64("step", 5, "grid spacing [nm]")
	g := flag.Float64("g", defaults.Anisotropy, "scattering anisotropy (0 <= g < 1)")
	a := flag.Float64("a", defaults.ScatterScale, "reduced scattering at 500 nm [1/mm]")
	b := flag.Float64("b", defaults.ScatterPower, "scattering power-law exponent")
	water := flag.Float64("water", defaults.WaterContent, "water volume fraction (0..1)")
	depth := flag.Float64("depth", defaults.Depth, "slab thickness [mm]")
	norm := flag.Float64("norm", tissue.DefaultNormalizationWavelength, "normalization wavelength [nm]")
	threshold := flag.Float64("threshold", tissue.DefaultAbsorptionThreshold, "high water absorption threshold [%]")
	smoothSigma := flag.Float64("smooth", 0, "Gaussian smoothing sigma for the dataset, in samples (0 = off)")
	pair := flag.String("pair", "", "two-photon pump pair as lambdaA,lambdaB [nm]")
	every := flag.Int("every", 10, "print every Nth grid row")
	profile := flag.Bool("profile", false, "print the standard 0-2 mm depth sweep")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tissueinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints transmission and water absorption spectra of a tissue slab.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tissueinfo -water 0.5 -depth 2\n")
		fmt.Fprintf(os.Stderr, "  tissueinfo -pair 800,1040\n")
		fmt.Fprintf(os.Stderr, "  tissueinfo -profile\n")
	}
	flag.Parse()

	params := tissue.Params{
		Anisotropy:   *g,
		ScatterScale: *a,
		ScatterPower: *b,
		WaterContent: *water,
		Depth:        *depth,
	}
	if err := params.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	wavelengths, err := buildGrid(*from, *to, *step)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	loadOpts := []absorption.LoadOption{absorption.WithLogger(logger)}
	if *smoothSigma > 0 {
		loadOpts = append(loadOpts, absorption.WithSmoothing(*smoothSigma))
	}

	table := absorption.Load(*dataPath, loadOpts...)
	if table.Synthetic() {
		fmt.Fprintf(os.Stderr, "warning: dataset unavailable, spectra reflect scattering only\n")
	}

	m := tissue.Model{Table: table, Params: params}

	res, err := m.Transmission(wavelengths, *norm)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	waterPct := make([]float64, len(res.Tw))
	for i, w := range res.Tw {
		waterPct[i] = 100 * w
	}

	printSpectrum(wavelengths, res, waterPct, *threshold, *every)

	if peak := res.PeakIndex(); peak >= 0 {
		fmt.Printf("\nPeak transmission at %.0f nm (T = %.4f)\n", wavelengths[peak], res.T[peak])
	}

	printBands(wavelengths, waterPct, *threshold)

	if *pair != "" {
		lambdaA, lambdaB, err := parsePair(*pair)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		printTwoPhoton(wavelengths, res, lambdaA, lambdaB)
	}

	if *profile {
		printProfile(&m, wavelengths, *norm)
	}
}

// maxGridSamples bounds the grid size a flag combination may request.
const maxGridSamples = 1 << 20

// buildGrid expands from/to/step flags into an ascending wavelength grid,
// both ends inclusive when step divides the span.
func buildGrid(from, to, step float64) ([]float64, error) {
	if !finite(from) || !finite(to) || !finite(step) {
		return nil, fmt.Errorf("grid flags must be finite, got from=%v to=%v step=%v", from, to, step)
	}

	if step <= 0 {
		return nil, fmt.Errorf("step must be positive, got %v", step)
	}

	if to < from {
		return nil, fmt.Errorf("grid end %v lies below start %v", to, from)
	}

	samples := (to-from)/step + 1
	if samples > maxGridSamples {
		return nil, fmt.Errorf("grid needs %.0f samples, limit is %d; increase -step", samples, maxGridSamples)
	}

	out := make([]float64, int(samples))
	for i := range out {
		out[i] = from + float64(i)*step
	}

	return out, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func parsePair(s string) (lambdaA, lambdaB float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("pair %q: want two comma-separated wavelengths", s)
	}

	lambdaA, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("pair %q: %v", s, err)
	}

	lambdaB, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("pair %q: %v", s, err)
	}

	return lambdaA, lambdaB, nil
}

func printSpectrum(wavelengths []float64, res *tissue.Result, waterPct []float64, threshold float64, every int) {
	if every < 1 {
		every = 1
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Wavelength [nm]\tT (norm)\tWater abs [%%]\t\n")
	fmt.Fprintf(tw, "---------------\t--------\t-------------\t\n")

	for i := 0; i < len(wavelengths); i += every {
		marker := ""
		if waterPct[i] >= threshold {
			marker = "*"
		}

		fmt.Fprintf(tw, "%.0f\t%.4f\t%.1f\t%s\n", wavelengths[i], res.T[i], waterPct[i], marker)
	}

	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

func printBands(wavelengths, waterPct []float64, threshold float64) {
	bands, err := regions.Bands(wavelengths, waterPct, threshold)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}

	if len(bands) == 0 {
		fmt.Printf("No bands reach %.0f%% water absorption\n", threshold)
		return
	}

	fmt.Printf("Bands with water absorption >= %.0f%% (marked * above):\n", threshold)
	for _, band := range bands {
		fmt.Printf("  %.0f-%.0f nm\n", band.Start, band.End)
	}
}

func printTwoPhoton(wavelengths []float64, res *tissue.Result, lambdaA, lambdaB float64) {
	cmp, err := twophoton.Compare(wavelengths, res, lambdaA, lambdaB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}

	fmt.Printf("\nTwo-photon comparison:\n")

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Role\tWavelength [nm]\tT (norm)\tWater abs [%%]\n")
	fmt.Fprintf(tw, "----\t---------------\t--------\t-------------\n")

	for _, row := range []struct {
		role   string
		sample twophoton.Sample
	}{
		{"pump A", cmp.A},
		{"pump B", cmp.B},
		{"effective", cmp.Effective},
	} {
		fmt.Fprintf(tw, "%s\t%.0f\t%.4f\t%.1f\n",
			row.role, row.sample.Wavelength, row.sample.Transmission, 100*row.sample.WaterFraction)
	}

	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

func printProfile(m *tissue.Model, wavelengths []float64, norm float64) {
	prof, err := m.DepthProfile(wavelengths, tissue.DefaultDepths(), norm)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}

	fmt.Printf("\nDepth sweep:\n")

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Depth [mm]\tmin T\tmax water abs [%%]\n")
	fmt.Fprintf(tw, "----------\t-----\t-----------------\n")

	for i, z := range prof.Depths {
		minT := 1.0
		for _, v := range prof.T[i] {
			if v < minT {
				minT = v
			}
		}

		maxTw := 0.0
		for _, v := range prof.Tw[i] {
			if v > maxTw {
				maxTw = v
			}
		}

		fmt.Fprintf(tw, "%.1f\t%.4f\t%.1f\n", z, minT, 100*maxTw)
	}

	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}
