// Package testutil provides shared test infrastructure for the propulsor
// simulator. It consolidates engine deck fixtures and float assertion helpers
// used across sim/ test packages.
package testutil

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/propulsor-sim/propulsor-sim/sim/deck"
)

// SampleDeckRows is the number of rows in testdata/engine_deck.csv, and
// SampleDeckUnique the number left after deduplication.
const (
	SampleDeckRows   = 103
	SampleDeckUnique = 100
)

// SampleDeckPath returns the absolute path of testdata/engine_deck.csv.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func SampleDeckPath(t *testing.T) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "engine_deck.csv")
}

// LoadSampleDeck loads the synthetic turbofan deck from the repository testdata.
func LoadSampleDeck(t *testing.T) deck.Table {
	t.Helper()
	table, err := deck.LoadFile(SampleDeckPath(t))
	if err != nil {
		t.Fatalf("Failed to load sample deck: %v", err)
	}
	return table
}

// LinearScenario is the eight-row two-level factorial deck over altitude
// {10000, 20000}, Mach {0.7, 0.8} and throttle {0, 1}. Thrust is zero at idle
// and SFC depends on altitude and Mach only.
func LinearScenario() deck.Table {
	thrust := []float64{0, 1000, 0, 900, 0, 800, 0, 700}
	sfc := []float64{0.5, 0.5, 0.45, 0.45, 0.48, 0.48, 0.43, 0.43}
	var table deck.Table
	for _, alt := range []float64{10000, 20000} {
		for _, mach := range []float64{0.7, 0.8} {
			for _, eta := range []float64{0, 1} {
				i := len(table)
				table = append(table, deck.Sample{
					Altitude: alt,
					Mach:     mach,
					Throttle: eta,
					Thrust:   thrust[i],
					SFC:      sfc[i],
				})
			}
		}
	}
	return table
}

// WriteDeckCSV writes table to a header-prefixed CSV in a temp dir and returns its path.
func WriteDeckCSV(t *testing.T, table deck.Table) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("altitude,mach,throttle,thrust,sfc\n")
	for _, s := range table {
		fmt.Fprintf(&b, "%v,%v,%v,%v,%v\n", s.Altitude, s.Mach, s.Throttle, s.Thrust, s.SFC)
	}
	path := filepath.Join(t.TempDir(), "deck.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("Failed to write deck CSV: %v", err)
	}
	return path
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertSlicesClose applies AssertFloat64Equal element-wise after checking lengths.
func AssertSlicesClose(t *testing.T, name string, want, got []float64, relTol float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("%s: length %d, want %d", name, len(got), len(want))
	}
	for i := range want {
		AssertFloat64Equal(t, fmt.Sprintf("%s[%d]", name, i), want[i], got[i], relTol)
	}
}
