package absorption

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/cwbudde/algo-tissue/spectral/grid"
	"github.com/cwbudde/algo-tissue/spectral/smooth"
)

// DefaultPath is the repository-relative location of the water
// absorption dataset.
const DefaultPath = "data/kou93b.dat"

// headerLines is the fixed number of leading lines skipped before data.
const headerLines = 6

// Fallback spectrum bounds used when the dataset cannot be loaded.
const (
	fallbackMinWavelength = 800
	fallbackMaxWavelength = 2400
	fallbackSamples       = 1000
)

// Errors returned by table construction.
var (
	ErrNoData         = errors.New("absorption: table contains no data rows")
	ErrLengthMismatch = errors.New("absorption: wavelengths and values must have equal length")
)

// Table holds an absorption spectrum as ascending (wavelength, value)
// pairs. A Table is immutable after construction and safe for concurrent
// readers.
type Table struct {
	wavelengths []float64
	values      []float64
	synthetic   bool

	fpOnce sync.Once
	fp     uint64
}

// New builds a table from parallel wavelength and value slices. The
// wavelengths must be strictly increasing and finite; both slices are
// copied.
func New(wavelengths, values []float64) (*Table, error) {
	if len(wavelengths) != len(values) {
		return nil, ErrLengthMismatch
	}

	if len(wavelengths) == 0 {
		return nil, ErrNoData
	}

	if err := grid.Validate(wavelengths); err != nil {
		return nil, fmt.Errorf("absorption: %w", err)
	}

	t := &Table{
		wavelengths: make([]float64, len(wavelengths)),
		values:      make([]float64, len(values)),
	}
	copy(t.wavelengths, wavelengths)
	copy(t.values, values)

	return t, nil
}

// Parse reads a table from r in the dataset's on-disk format: six header
// lines skipped unconditionally, # starting a comment, blank lines
// ignored, and each data row carrying wavelength and absorption in its
// first two whitespace-separated fields. Rows stored descending by
// wavelength are reversed into ascending order.
func Parse(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)

	var wavelengths, values []float64

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo <= headerLines {
			continue
		}

		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if len(fields) < 2 {
			return nil, fmt.Errorf("absorption: line %d: expected wavelength and value, got %d field(s)", lineNo, len(fields))
		}

		w, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("absorption: line %d: %w", lineNo, err)
		}

		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("absorption: line %d: %w", lineNo, err)
		}

		wavelengths = append(wavelengths, w)
		values = append(values, v)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("absorption: %w", err)
	}

	if len(wavelengths) == 0 {
		return nil, ErrNoData
	}

	if wavelengths[0] > wavelengths[len(wavelengths)-1] {
		reverse(wavelengths)
		reverse(values)
	}

	if err := grid.Validate(wavelengths); err != nil {
		return nil, fmt.Errorf("absorption: %w", err)
	}

	return &Table{wavelengths: wavelengths, values: values}, nil
}

// ReadFile loads and parses the dataset at path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("absorption: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	logger      *slog.Logger
	smoothSigma float64
}

func defaultLoadConfig() loadConfig {
	return loadConfig{logger: slog.Default()}
}

// WithLogger sets the logger used to report load failures.
func WithLogger(logger *slog.Logger) LoadOption {
	return func(cfg *loadConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithSmoothing applies Gaussian smoothing with the given standard
// deviation (in samples) to successfully parsed values. Non-positive
// sigmas are ignored, and the synthetic fallback is never smoothed.
func WithSmoothing(sigma float64) LoadOption {
	return func(cfg *loadConfig) {
		if sigma > 0 {
			cfg.smoothSigma = sigma
		}
	}
}

// Load reads the dataset at path and never fails: on any read or parse
// error it logs the failure and returns Fallback. Callers that need to
// distinguish degraded data check Synthetic on the result.
func Load(path string, opts ...LoadOption) *Table {
	cfg := defaultLoadConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	t, err := ReadFile(path)
	if err != nil {
		cfg.logger.Error("failed to load absorption table, using synthetic fallback", "path", path, "error", err)
		return Fallback()
	}

	if cfg.smoothSigma > 0 {
		smoothed, err := smooth.Gaussian(t.values, cfg.smoothSigma)
		if err != nil {
			cfg.logger.Warn("absorption smoothing skipped", "sigma", cfg.smoothSigma, "error", err)
		} else {
			t.values = smoothed
		}
	}

	return t
}

// Fallback returns the synthetic all-zero spectrum spanning 800-2400 nm
// substituted when the dataset is unavailable.
func Fallback() *Table {
	return &Table{
		wavelengths: grid.Linspace(fallbackMinWavelength, fallbackMaxWavelength, fallbackSamples),
		values:      make([]float64, fallbackSamples),
		synthetic:   true,
	}
}

// Len returns the number of tabulated samples.
func (t *Table) Len() int { return len(t.wavelengths) }

// MinWavelength returns the lowest tabulated wavelength.
func (t *Table) MinWavelength() float64 {
	if len(t.wavelengths) == 0 {
		return 0
	}

	return t.wavelengths[0]
}

// MaxWavelength returns the highest tabulated wavelength.
func (t *Table) MaxWavelength() float64 {
	if len(t.wavelengths) == 0 {
		return 0
	}

	return t.wavelengths[len(t.wavelengths)-1]
}

// Synthetic reports whether this table is the all-zero fallback rather
// than parsed measurement data.
func (t *Table) Synthetic() bool { return t.synthetic }

// Fingerprint returns a digest of the tabulated contents. Tables with
// element-wise identical data share a fingerprint; any differing sample
// changes it. Computed once, on first use.
func (t *Table) Fingerprint() uint64 {
	t.fpOnce.Do(func() {
		h := xxhash.New()

		_ = binary.Write(h, binary.LittleEndian, t.wavelengths)
		h.Write([]byte{0})
		_ = binary.Write(h, binary.LittleEndian, t.values)

		t.fp = h.Sum64()
	})

	return t.fp
}

// ValueAt returns the absorption at wavelength by linear interpolation
// between the surrounding samples. Wavelengths outside the tabulated
// range clamp to the nearest edge value; a NaN wavelength yields NaN.
func (t *Table) ValueAt(wavelength float64) float64 {
	n := len(t.wavelengths)
	if n == 0 {
		return 0
	}

	if math.IsNaN(wavelength) {
		return math.NaN()
	}

	if wavelength <= t.wavelengths[0] {
		return t.values[0]
	}

	if wavelength >= t.wavelengths[n-1] {
		return t.values[n-1]
	}

	hi := sort.SearchFloat64s(t.wavelengths, wavelength)
	if t.wavelengths[hi] == wavelength {
		return t.values[hi]
	}

	lo := hi - 1
	frac := (wavelength - t.wavelengths[lo]) / (t.wavelengths[hi] - t.wavelengths[lo])

	return t.values[lo] + frac*(t.values[hi]-t.values[lo])
}

// Values interpolates every wavelength into dst, which must be at least
// as long as wavelengths. This is the allocation-free form of ValueAt for
// hot paths.
func (t *Table) Values(dst, wavelengths []float64) {
	for i, w := range wavelengths {
		dst[i] = t.ValueAt(w)
	}
}

func reverse(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
