package surrogate

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

const (
	minLengthScale = 1e-5
	maxLengthScale = 1e5

	machineEpsilon = 0x1p-52
)

// Matern is the isotropic Matérn covariance with smoothness nu = 3/2:
// k(d) = (1 + √3·d/ℓ)·exp(-√3·d/ℓ).
type Matern struct {
	LengthScale float64
}

// At returns the covariance for Euclidean distance d.
func (k Matern) At(d float64) float64 {
	r := math.Sqrt(3) * d / k.LengthScale
	return (1 + r) * math.Exp(-r)
}

// GaussianProcessRegressor is a zero-mean Gaussian process with a Matérn kernel.
// When OptimizeLengthScale is set, the kernel length scale is chosen by
// maximizing the log marginal likelihood, starting from Kernel.LengthScale.
type GaussianProcessRegressor struct {
	Kernel              Matern
	Alpha               float64 // added to the kernel diagonal
	NormalizeY          bool    // standardize targets before fitting
	OptimizeLengthScale bool
}

// NewGaussianProcess returns a regressor with unit initial length scale,
// a 1e-10 nugget, and length-scale optimization enabled.
func NewGaussianProcess(normalizeY bool) *GaussianProcessRegressor {
	return &GaussianProcessRegressor{
		Kernel:              Matern{LengthScale: 1},
		Alpha:               1e-10,
		NormalizeY:          normalizeY,
		OptimizeLengthScale: true,
	}
}

type gpPredictor struct {
	kernel  Matern
	train   [][]float64
	weights []float64 // K⁻¹·y
	yMean   float64
	yStd    float64
}

// Fit implements Regressor.
func (g *GaussianProcessRegressor) Fit(x mat.Matrix, y []float64) (Predictor, error) {
	n, _, err := checkFitInputs("gaussian process", x, y)
	if err != nil {
		return nil, err
	}
	if g.Kernel.LengthScale <= 0 {
		return nil, fmt.Errorf("gaussian process: length scale must be > 0, got %v", g.Kernel.LengthScale)
	}

	train := rowsOf(x)
	dist := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := floats.Distance(train[i], train[j], 2)
			dist[i*n+j] = d
			dist[j*n+i] = d
		}
	}

	yMean, yStd := 0.0, 1.0
	if g.NormalizeY {
		var variance float64
		yMean, variance = stat.PopMeanVariance(y, nil)
		yStd = math.Sqrt(variance)
		if yStd < 10*machineEpsilon {
			yStd = 1
		}
	}
	target := make([]float64, n)
	for i, v := range y {
		target[i] = (v - yMean) / yStd
	}
	targetVec := mat.NewVecDense(n, target)

	lengthScale := g.Kernel.LengthScale
	if g.OptimizeLengthScale && n > 1 {
		lengthScale = g.tuneLengthScale(dist, n, targetVec)
	}

	kernel := Matern{LengthScale: lengthScale}
	var chol mat.Cholesky
	if !chol.Factorize(g.covariance(kernel, dist, n)) {
		return nil, fmt.Errorf("gaussian process: kernel matrix not positive definite (length scale %v)", lengthScale)
	}
	var weights mat.VecDense
	if err := chol.SolveVecTo(&weights, targetVec); err != nil {
		return nil, fmt.Errorf("gaussian process: solve: %w", err)
	}

	return &gpPredictor{
		kernel:  kernel,
		train:   train,
		weights: mat.Col(nil, 0, &weights),
		yMean:   yMean,
		yStd:    yStd,
	}, nil
}

func (g *GaussianProcessRegressor) covariance(k Matern, dist []float64, n int) *mat.SymDense {
	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		cov.SetSym(i, i, 1+g.Alpha)
		for j := i + 1; j < n; j++ {
			cov.SetSym(i, j, k.At(dist[i*n+j]))
		}
	}
	return cov
}

// logMarginalLikelihood returns log p(y | X, ℓ), or -Inf when the covariance
// cannot be factorized.
func (g *GaussianProcessRegressor) logMarginalLikelihood(k Matern, dist []float64, n int, y *mat.VecDense) float64 {
	var chol mat.Cholesky
	if !chol.Factorize(g.covariance(k, dist, n)) {
		return math.Inf(-1)
	}
	var a mat.VecDense
	if err := chol.SolveVecTo(&a, y); err != nil {
		return math.Inf(-1)
	}
	return -0.5*mat.Dot(y, &a) - 0.5*chol.LogDet() - 0.5*float64(n)*math.Log(2*math.Pi)
}

// tuneLengthScale searches log ℓ within [minLengthScale, maxLengthScale].
// On optimizer failure the initial length scale is kept.
func (g *GaussianProcessRegressor) tuneLengthScale(dist []float64, n int, y *mat.VecDense) float64 {
	lo, hi := math.Log(minLengthScale), math.Log(maxLengthScale)
	clamp := func(v float64) float64 { return math.Max(lo, math.Min(hi, v)) }

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return -g.logMarginalLikelihood(Matern{LengthScale: math.Exp(clamp(x[0]))}, dist, n, y)
		},
	}
	start := []float64{clamp(math.Log(g.Kernel.LengthScale))}
	result, err := optimize.Minimize(problem, start, &optimize.Settings{MajorIterations: 500}, &optimize.NelderMead{})
	if err != nil || result == nil || math.IsInf(result.F, 0) || math.IsNaN(result.F) {
		logrus.Debugf("gaussian process: length scale search failed (%v), keeping %v", err, g.Kernel.LengthScale)
		return g.Kernel.LengthScale
	}
	ls := math.Exp(clamp(result.X[0]))
	logrus.Debugf("gaussian process: length scale %.6g (log marginal likelihood %.6g)", ls, -result.F)
	return ls
}

// Predict implements Predictor and returns the posterior mean.
func (p *gpPredictor) Predict(x mat.Matrix) []float64 {
	n, _ := x.Dims()
	out := make([]float64, n)
	row := make([]float64, len(p.train[0]))
	for i := 0; i < n; i++ {
		mat.Row(row, i, x)
		var mean float64
		for j, t := range p.train {
			mean += p.kernel.At(floats.Distance(row, t, 2)) * p.weights[j]
		}
		out[i] = mean*p.yStd + p.yMean
	}
	return out
}
