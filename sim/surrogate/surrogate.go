// Package surrogate provides the regression families used to approximate
// engine deck data: Gaussian-process regression with a Matérn kernel,
// distance-weighted nearest neighbours, epsilon-SVR, and ordinary least squares.
//
// Every family fits a batch of input rows to one target column and returns a
// Predictor. Inputs and outputs are whatever the caller hands in; normalization
// is the caller's concern.
//
// The SVR solver follows libsvm's SMO with second-order working-set selection
// (Fan, Chen and Lin, 2005); the Gaussian process follows scikit-learn's
// GaussianProcessRegressor defaults.
package surrogate

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ErrUnsupported is returned for surrogate family names that are not recognized.
var ErrUnsupported = errors.New("unsupported surrogate family")

// Predictor maps a batch of input rows to one output per row.
type Predictor interface {
	Predict(x mat.Matrix) []float64
}

// Regressor fits a Predictor to inputs x (one sample per row) and targets y.
type Regressor interface {
	Fit(x mat.Matrix, y []float64) (Predictor, error)
}

// Family selects a regression technique.
type Family int

const (
	GaussianProcess Family = iota + 1
	NearestNeighbor
	SupportVector
	Linear
)

var familyNames = map[Family]string{
	GaussianProcess: "gaussian",
	NearestNeighbor: "knn",
	SupportVector:   "svr",
	Linear:          "linear",
}

// ValidFamilies maps every accepted surrogate_type string to its Family.
var ValidFamilies = map[string]Family{
	"gaussian":           GaussianProcess,
	"gaussian-process":   GaussianProcess,
	"knn":                NearestNeighbor,
	"k-nearest-neighbor": NearestNeighbor,
	"svr":                SupportVector,
	"support-vector":     SupportVector,
	"linear":             Linear,
}

func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// ParseFamily resolves a surrogate_type string.
func ParseFamily(name string) (Family, error) {
	f, ok := ValidFamilies[name]
	if !ok {
		names := make([]string, 0, len(ValidFamilies))
		for k := range ValidFamilies {
			names = append(names, k)
		}
		sort.Strings(names)
		return 0, fmt.Errorf("%w %q (valid: %v)", ErrUnsupported, name, names)
	}
	return f, nil
}

// NewThrustRegressor returns the regressor configured for the thrust target.
// The Gaussian process skips target normalization since thrust arrives already
// scaled to its maximum.
func NewThrustRegressor(f Family) (Regressor, error) {
	return newRegressor(f, false)
}

// NewSFCRegressor returns the regressor configured for the SFC target.
// The Gaussian process additionally standardizes the target.
func NewSFCRegressor(f Family) (Regressor, error) {
	return newRegressor(f, true)
}

func newRegressor(f Family, normalizeY bool) (Regressor, error) {
	switch f {
	case GaussianProcess:
		return NewGaussianProcess(normalizeY), nil
	case NearestNeighbor:
		return &NearestNeighbors{K: 1, DistanceWeighted: true}, nil
	case SupportVector:
		return NewSVR(500), nil
	case Linear:
		return &LinearRegression{}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, f)
	}
}

// checkFitInputs validates shapes shared by every Fit implementation.
func checkFitInputs(name string, x mat.Matrix, y []float64) (n, d int, err error) {
	n, d = x.Dims()
	if n == 0 || d == 0 {
		return 0, 0, fmt.Errorf("%s: empty training inputs", name)
	}
	if len(y) != n {
		return 0, 0, fmt.Errorf("%s: %d input rows but %d targets", name, n, len(y))
	}
	return n, d, nil
}

// rowsOf copies the rows of x into a slice of slices.
func rowsOf(x mat.Matrix) [][]float64 {
	n, _ := x.Dims()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = mat.Row(nil, i, x)
	}
	return rows
}
