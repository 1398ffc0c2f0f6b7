package deck

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile_ValidDeck(t *testing.T) {
	path := writeTempCSV(t, `altitude,mach,throttle,thrust,sfc
10000,0.7,0,0,0.5
10000, 0.7, 1, 1000, 0.5
`)
	table, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, Sample{Altitude: 10000, Mach: 0.7, Throttle: 1, Thrust: 1000, SFC: 0.5}, table[1])
}

func TestLoadFile_MissingFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestRead_HeaderOnly_Errors(t *testing.T) {
	_, err := Read(strings.NewReader("altitude,mach,throttle,thrust,sfc\n"))
	assert.Error(t, err)
}

func TestRead_WrongColumnCount_ReportsLine(t *testing.T) {
	_, err := Read(strings.NewReader("h\n1,2,3,4,5\n1,2,3,4\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestRead_NonNumericField_NamesColumn(t *testing.T) {
	_, err := Read(strings.NewReader("h\n1,2,x,4,5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttle")
}

func TestRead_NonFiniteField_Errors(t *testing.T) {
	tests := []struct {
		name   string
		row    string
		column string
	}{
		{"nan thrust", "1,2,3,NaN,5", "thrust"},
		{"inf sfc", "1,2,3,4,+Inf", "sfc"},
		{"negative inf altitude", "-Inf,2,3,4,5", "altitude"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(strings.NewReader("h\n1,2,3,4,5\n" + tc.row + "\n"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "row 3")
			assert.Contains(t, err.Error(), "invalid "+tc.column)
		})
	}
}

func TestDedup_KeepsFirstOccurrenceOrder(t *testing.T) {
	a := Sample{1, 2, 3, 4, 5}
	b := Sample{6, 7, 8, 9, 10}
	c := Sample{1, 2, 3, 4, 5.0000001}
	table := Table{a, b, a, c, b}

	got := table.Dedup()
	assert.Equal(t, Table{a, b, c}, got)
	assert.Len(t, table, 5, "receiver must not be modified")
}

func TestDedup_DistinguishesSignedZero(t *testing.T) {
	// bit-identical comparison: -0 and +0 are different rows
	pos := Sample{Altitude: 0}
	neg := Sample{Altitude: negZero()}
	assert.Len(t, Table{pos, neg}.Dedup(), 2)
}

func negZero() float64 {
	z := 0.0
	return -z
}

func TestTable_Columns(t *testing.T) {
	table := Table{{1, 2, 3, 4, 5}, {6, 7, 8, 9, 10}}
	assert.Equal(t, []float64{1, 2, 3, 6, 7, 8}, table.Inputs())
	assert.Equal(t, []float64{4, 9}, table.Thrusts())
	assert.Equal(t, []float64{5, 10}, table.SFCs())
	assert.Equal(t, []float64{1, 6}, table.Altitudes())
}
