// Package deck reads and cleans engine performance tables ("engine decks"):
// scattered (altitude, Mach, throttle) -> (thrust, SFC) measurements used to
// train propulsion surrogates.
package deck

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// NumColumns is the number of fields in every deck row:
// altitude, mach, throttle, thrust, sfc.
const NumColumns = 5

// NumInputs is the number of surrogate input features: altitude, mach, throttle.
const NumInputs = 3

// Sample is one engine deck row.
type Sample struct {
	Altitude float64
	Mach     float64
	Throttle float64
	Thrust   float64
	SFC      float64
}

// Table is an ordered sequence of deck rows.
type Table []Sample

// LoadFile reads a deck CSV from path. The first row is a header and is discarded.
func LoadFile(path string) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open engine deck: %w", err)
	}
	defer file.Close()

	table, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	logrus.Debugf("Loaded engine deck %s: %d rows", path, len(table))
	return table, nil
}

// Read parses deck CSV from r. The first row is a header and is discarded;
// every following row must hold exactly NumColumns numeric fields.
func Read(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read engine deck CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("engine deck CSV empty or missing header")
	}

	table := make(Table, 0, len(records)-1)
	for i, record := range records[1:] { // Skip header
		if len(record) != NumColumns {
			return nil, fmt.Errorf("engine deck CSV row %d: expected %d columns, got %d", i+2, NumColumns, len(record))
		}
		var vals [NumColumns]float64
		for j, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("engine deck CSV row %d: invalid %s: %w", i+2, columnNames[j], err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("engine deck CSV row %d: invalid %s: non-finite value %q", i+2, columnNames[j], field)
			}
			vals[j] = v
		}
		table = append(table, Sample{
			Altitude: vals[0],
			Mach:     vals[1],
			Throttle: vals[2],
			Thrust:   vals[3],
			SFC:      vals[4],
		})
	}

	return table, nil
}

var columnNames = [NumColumns]string{"altitude", "mach", "throttle", "thrust", "sfc"}

// rowKey identifies a row by the exact bit patterns of its fields.
type rowKey [NumColumns]uint64

func (s Sample) key() rowKey {
	return rowKey{
		math.Float64bits(s.Altitude),
		math.Float64bits(s.Mach),
		math.Float64bits(s.Throttle),
		math.Float64bits(s.Thrust),
		math.Float64bits(s.SFC),
	}
}

// Dedup returns a copy of t without bit-identical repeats.
// First occurrences are kept in their original order.
func (t Table) Dedup() Table {
	seen := make(map[rowKey]struct{}, len(t))
	out := make(Table, 0, len(t))
	for _, s := range t {
		k := s.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Inputs returns the (altitude, mach, throttle) columns as a row-major slice.
func (t Table) Inputs() []float64 {
	data := make([]float64, 0, NumInputs*len(t))
	for _, s := range t {
		data = append(data, s.Altitude, s.Mach, s.Throttle)
	}
	return data
}

// Thrusts returns the thrust column.
func (t Table) Thrusts() []float64 {
	out := make([]float64, len(t))
	for i, s := range t {
		out[i] = s.Thrust
	}
	return out
}

// SFCs returns the SFC column.
func (t Table) SFCs() []float64 {
	out := make([]float64, len(t))
	for i, s := range t {
		out[i] = s.SFC
	}
	return out
}

// Altitudes returns the altitude column.
func (t Table) Altitudes() []float64 {
	out := make([]float64, len(t))
	for i, s := range t {
		out[i] = s.Altitude
	}
	return out
}
