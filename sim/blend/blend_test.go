package blend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCubicSpline_InvalidInterval_Errors(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi float64
	}{
		{"equal", 0.5, 0.5},
		{"reversed", 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCubicSpline(tt.lo, tt.hi)
			assert.Error(t, err)
		})
	}
}

func TestCubicSpline_Endpoints(t *testing.T) {
	c, err := NewCubicSpline(0.99, 1)
	require.NoError(t, err)

	assert.Equal(t, 1.0, c.Compute(0.99), "weight at lower bound")
	assert.Equal(t, 0.0, c.Compute(1), "weight at upper bound")
	assert.Equal(t, 1.0, c.Compute(-3))
	assert.Equal(t, 0.0, c.Compute(7))
}

func TestCubicSpline_Midpoint_IsHalf(t *testing.T) {
	c, err := NewCubicSpline(0, 0.01)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, c.Compute(0.005), 1e-12)
}

func TestCubicSpline_MonotonicallyNonIncreasing(t *testing.T) {
	c, err := NewCubicSpline(0, 0.01)
	require.NoError(t, err)

	prev := c.Compute(-0.001)
	for i := 0; i <= 1000; i++ {
		x := -0.001 + float64(i)*0.012/1000
		w := c.Compute(x)
		assert.GreaterOrEqual(t, w, 0.0)
		assert.LessOrEqual(t, w, 1.0)
		if w > prev {
			t.Fatalf("weight increased at x=%v: %v > %v", x, w, prev)
		}
		prev = w
	}
}

func TestCubicSpline_ZeroSlopeAtEdges(t *testing.T) {
	c, err := NewCubicSpline(0, 1)
	require.NoError(t, err)
	h := 1e-6
	// one-sided difference quotients vanish as h -> 0 for a smoothstep
	assert.InDelta(t, 0, (c.Compute(h)-c.Compute(0))/h, 1e-5)
	assert.InDelta(t, 0, (c.Compute(1)-c.Compute(1-h))/h, 1e-5)
}

func TestCubicSpline_ComputeAll_ElementWise(t *testing.T) {
	c, err := NewCubicSpline(0, 0.01)
	require.NoError(t, err)
	xs := []float64{-1, 0, 0.005, 0.01, 2}
	got := c.ComputeAll(xs)
	require.Len(t, got, len(xs))
	for i, x := range xs {
		assert.Equal(t, c.Compute(x), got[i])
	}
}
