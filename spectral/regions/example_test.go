package regions_test

import (
	"fmt"

	"github.com/cwbudde/algo-tissue/spectral/regions"
)

func ExampleFind() {
	absorbed := []float64{10, 60, 70, 20, 80, 90, 30}

	for _, r := range regions.Find(absorbed, 50) {
		fmt.Printf("indices %d-%d\n", r.Start, r.End)
	}

	// Output:
	// indices 1-2
	// indices 4-5
}

func ExampleBands() {
	wavelengths := []float64{1400, 1450, 1500, 1900, 1950, 2000}
	absorbed := []float64{40, 75, 55, 48, 92, 60}

	bands, err := regions.Bands(wavelengths, absorbed, 50)
	if err != nil {
		panic(err)
	}

	for _, b := range bands {
		fmt.Printf("%.0f-%.0f nm\n", b.Start, b.End)
	}

	// Output:
	// 1450-1500 nm
	// 1950-2000 nm
}
