package surrogate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// LinearRegression is ordinary least squares with an intercept.
// Rank-deficient inputs (e.g. a deck flown at a single Mach number) get the
// minimum-norm solution.
type LinearRegression struct{}

type linearPredictor struct {
	coef      []float64
	intercept float64
}

// Fit implements Regressor.
func (LinearRegression) Fit(x mat.Matrix, y []float64) (Predictor, error) {
	n, d, err := checkFitInputs("linear regression", x, y)
	if err != nil {
		return nil, err
	}

	// Center columns and target so the intercept drops out of the solve.
	means := make([]float64, d)
	centered := mat.DenseCopyOf(x)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, centered)
		means[j] = stat.Mean(col, nil)
		floats.AddConst(-means[j], col)
		centered.SetCol(j, col)
	}
	yMean := stat.Mean(y, nil)
	yc := make([]float64, n)
	for i, v := range y {
		yc[i] = v - yMean
	}

	coef := make([]float64, d)
	var svd mat.SVD
	if !svd.Factorize(centered, mat.SVDThin) {
		return nil, fmt.Errorf("linear regression: SVD factorization failed")
	}
	rcond := math.Nextafter(1, 2) - 1
	rcond *= float64(max(n, d))
	if rank := svd.Rank(rcond); rank > 0 {
		var sol mat.VecDense
		svd.SolveVecTo(&sol, mat.NewVecDense(n, yc), rank)
		mat.Col(coef, 0, &sol)
	}

	return &linearPredictor{
		coef:      coef,
		intercept: yMean - floats.Dot(means, coef),
	}, nil
}

// Predict implements Predictor.
func (p *linearPredictor) Predict(x mat.Matrix) []float64 {
	n, _ := x.Dims()
	out := make([]float64, n)
	row := make([]float64, len(p.coef))
	for i := 0; i < n; i++ {
		mat.Row(row, i, x)
		out[i] = p.intercept + floats.Dot(row, p.coef)
	}
	return out
}
