// Package blend provides smooth transition weights used to stitch two
// candidate formulas together across a narrow interval.
package blend

import "fmt"

// CubicSpline computes a C¹ transition weight over [lo, hi].
// The weight is 1 at or below lo, 0 at or above hi, and follows
// 1 - (3t² - 2t³) in between, with t the position normalized to [0,1].
type CubicSpline struct {
	lo float64
	hi float64
}

// NewCubicSpline returns a blender over [lo, hi]. Requires lo < hi.
func NewCubicSpline(lo, hi float64) (*CubicSpline, error) {
	if !(lo < hi) {
		return nil, fmt.Errorf("blend: interval requires lo < hi, got lo=%v hi=%v", lo, hi)
	}
	return &CubicSpline{lo: lo, hi: hi}, nil
}

// Lo returns the lower edge of the transition interval.
func (c *CubicSpline) Lo() float64 { return c.lo }

// Hi returns the upper edge of the transition interval.
func (c *CubicSpline) Hi() float64 { return c.hi }

// Compute returns the weight at x.
func (c *CubicSpline) Compute(x float64) float64 {
	t := (x - c.lo) / (c.hi - c.lo)
	if t <= 0 {
		return 1
	}
	if t >= 1 {
		return 0
	}
	return 1 - t*t*(3-2*t)
}

// ComputeAll returns the weight for each element of xs.
func (c *CubicSpline) ComputeAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = c.Compute(x)
	}
	return out
}
