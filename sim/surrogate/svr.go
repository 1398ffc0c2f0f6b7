package surrogate

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// tau replaces non-positive curvature in SMO pair updates.
const tau = 1e-12

// SVR is epsilon-insensitive support vector regression with an RBF kernel,
// trained by sequential minimal optimization over the 2n-variable dual.
type SVR struct {
	C       float64 // regularization constant
	Epsilon float64 // half-width of the insensitive tube
	Gamma   float64 // RBF coefficient; <= 0 means 1 / (features · Var(X))
	Tol     float64 // KKT violation stopping tolerance
	MaxIter int     // 0 means max(10_000_000, 100·2n)
}

// NewSVR returns an SVR with the given C, epsilon 0.1 and tolerance 1e-3.
func NewSVR(c float64) *SVR {
	return &SVR{C: c, Epsilon: 0.1, Tol: 1e-3}
}

type svrPredictor struct {
	gamma   float64
	support [][]float64
	coef    []float64
	rho     float64
}

// Fit implements Regressor.
func (s *SVR) Fit(x mat.Matrix, y []float64) (Predictor, error) {
	n, d, err := checkFitInputs("svr", x, y)
	if err != nil {
		return nil, err
	}
	if s.C <= 0 {
		return nil, fmt.Errorf("svr: C must be > 0, got %v", s.C)
	}
	if s.Epsilon < 0 {
		return nil, fmt.Errorf("svr: epsilon must be >= 0, got %v", s.Epsilon)
	}

	train := rowsOf(x)
	gamma := s.Gamma
	if gamma <= 0 {
		gamma = scaleGamma(train, d)
	}

	gram := make([]float64, n*n)
	for i := 0; i < n; i++ {
		gram[i*n+i] = 1
		for j := i + 1; j < n; j++ {
			k := rbf(gamma, train[i], train[j])
			gram[i*n+j] = k
			gram[j*n+i] = k
		}
	}

	sol := newSMO(n, gram, y, s.C, s.Epsilon, s.Tol)
	maxIter := s.MaxIter
	if maxIter <= 0 {
		maxIter = max(10_000_000, 100*2*n)
	}
	iters, converged := sol.solve(maxIter)
	if !converged {
		logrus.Warnf("svr: reached %d iterations without meeting tolerance %v", iters, s.Tol)
	}
	logrus.Debugf("svr: %d SMO iterations, rho=%.6g", iters, sol.rho())

	p := &svrPredictor{gamma: gamma, rho: sol.rho()}
	for i := 0; i < n; i++ {
		if c := sol.alpha[i] - sol.alpha[i+n]; c != 0 {
			p.support = append(p.support, train[i])
			p.coef = append(p.coef, c)
		}
	}
	return p, nil
}

// scaleGamma returns 1 / (features · Var(X)) over every element of X, or 1
// for constant inputs.
func scaleGamma(train [][]float64, d int) float64 {
	all := make([]float64, 0, len(train)*d)
	for _, r := range train {
		all = append(all, r...)
	}
	_, variance := stat.PopMeanVariance(all, nil)
	if variance == 0 {
		return 1
	}
	return 1 / (float64(d) * variance)
}

func rbf(gamma float64, a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return math.Exp(-gamma * d * d)
}

// Predict implements Predictor.
func (p *svrPredictor) Predict(x mat.Matrix) []float64 {
	n, d := x.Dims()
	out := make([]float64, n)
	row := make([]float64, d)
	for i := 0; i < n; i++ {
		mat.Row(row, i, x)
		var f float64
		for j, sv := range p.support {
			f += p.coef[j] * rbf(p.gamma, sv, row)
		}
		out[i] = f - p.rho
	}
	return out
}

// smo solves
//
//	min ½·αᵀQα + pᵀα  s.t. yᵀα = 0, 0 ≤ α ≤ C
//
// for the epsilon-SVR dual, where variable t < n carries sign +1 and
// variable t+n carries sign -1, Q_st = sign_s·sign_t·K(s mod n, t mod n).
type smo struct {
	n     int
	gram  []float64
	c     float64
	tol   float64
	alpha []float64
	grad  []float64
}

func newSMO(n int, gram, y []float64, c, eps, tol float64) *smo {
	s := &smo{
		n:     n,
		gram:  gram,
		c:     c,
		tol:   tol,
		alpha: make([]float64, 2*n),
		grad:  make([]float64, 2*n),
	}
	for i := 0; i < n; i++ {
		s.grad[i] = eps - y[i]
		s.grad[i+n] = eps + y[i]
	}
	return s
}

func (s *smo) sign(t int) float64 {
	if t < s.n {
		return 1
	}
	return -1
}

func (s *smo) kernel(a, b int) float64 {
	return s.gram[(a%s.n)*s.n+b%s.n]
}

func (s *smo) q(a, b int) float64 {
	return s.sign(a) * s.sign(b) * s.kernel(a, b)
}

func (s *smo) atUpper(t int) bool { return s.alpha[t] >= s.c }
func (s *smo) atLower(t int) bool { return s.alpha[t] <= 0 }

// selectPair picks the maximal-violating i and the second-order best j.
// done is true once the KKT gap falls below tol.
func (s *smo) selectPair() (i, j int, done bool) {
	l := 2 * s.n
	gmax := math.Inf(-1)
	i = -1
	for t := 0; t < l; t++ {
		if s.sign(t) > 0 {
			if !s.atUpper(t) && -s.grad[t] >= gmax {
				gmax, i = -s.grad[t], t
			}
		} else if !s.atLower(t) && s.grad[t] >= gmax {
			gmax, i = s.grad[t], t
		}
	}

	gmax2 := math.Inf(-1)
	j = -1
	objMin := math.Inf(1)
	for t := 0; t < l; t++ {
		var gradDiff float64
		if s.sign(t) > 0 {
			if s.atLower(t) {
				continue
			}
			gmax2 = math.Max(gmax2, s.grad[t])
			gradDiff = gmax + s.grad[t]
		} else {
			if s.atUpper(t) {
				continue
			}
			gmax2 = math.Max(gmax2, -s.grad[t])
			gradDiff = gmax - s.grad[t]
		}
		if i < 0 || gradDiff <= 0 {
			continue
		}
		quad := s.kernel(i, i) + s.kernel(t, t) - 2*s.kernel(i, t)
		if quad <= 0 {
			quad = tau
		}
		if obj := -gradDiff * gradDiff / quad; obj <= objMin {
			objMin, j = obj, t
		}
	}

	if gmax+gmax2 < s.tol || j < 0 {
		return -1, -1, true
	}
	return i, j, false
}

// update optimizes the pair (i, j) analytically and refreshes the gradient.
func (s *smo) update(i, j int) {
	c := s.c
	oldI, oldJ := s.alpha[i], s.alpha[j]
	ai, aj := oldI, oldJ
	qij := s.q(i, j)

	if s.sign(i) != s.sign(j) {
		quad := s.kernel(i, i) + s.kernel(j, j) + 2*qij
		if quad <= 0 {
			quad = tau
		}
		delta := (-s.grad[i] - s.grad[j]) / quad
		diff := ai - aj
		ai += delta
		aj += delta
		if diff > 0 {
			if aj < 0 {
				aj, ai = 0, diff
			}
		} else if ai < 0 {
			ai, aj = 0, -diff
		}
		if diff > 0 {
			if ai > c {
				ai, aj = c, c-diff
			}
		} else if aj > c {
			aj, ai = c, c+diff
		}
	} else {
		quad := s.kernel(i, i) + s.kernel(j, j) - 2*qij
		if quad <= 0 {
			quad = tau
		}
		delta := (s.grad[i] - s.grad[j]) / quad
		sum := ai + aj
		ai -= delta
		aj += delta
		if sum > c {
			if ai > c {
				ai, aj = c, sum-c
			}
		} else if aj < 0 {
			aj, ai = 0, sum
		}
		if sum > c {
			if aj > c {
				aj, ai = c, sum-c
			}
		} else if ai < 0 {
			ai, aj = 0, sum
		}
	}

	s.alpha[i], s.alpha[j] = ai, aj
	di, dj := ai-oldI, aj-oldJ
	for t := range s.grad {
		s.grad[t] += s.q(i, t)*di + s.q(j, t)*dj
	}
}

func (s *smo) solve(maxIter int) (iters int, converged bool) {
	for iters = 0; iters < maxIter; iters++ {
		i, j, done := s.selectPair()
		if done {
			return iters, true
		}
		s.update(i, j)
	}
	return iters, false
}

// rho is the negated bias, averaged over free variables when any exist.
func (s *smo) rho() float64 {
	ub, lb := math.Inf(1), math.Inf(-1)
	var sumFree float64
	var nFree int
	for t := range s.alpha {
		yg := s.sign(t) * s.grad[t]
		switch {
		case s.atUpper(t):
			if s.sign(t) < 0 {
				ub = math.Min(ub, yg)
			} else {
				lb = math.Max(lb, yg)
			}
		case s.atLower(t):
			if s.sign(t) > 0 {
				ub = math.Min(ub, yg)
			} else {
				lb = math.Max(lb, yg)
			}
		default:
			nFree++
			sumFree += yg
		}
	}
	if nFree > 0 {
		return sumFree / float64(nFree)
	}
	return (ub + lb) / 2
}
