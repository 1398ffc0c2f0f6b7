package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/propulsor-sim/propulsor-sim/sim/blend"
	"github.com/propulsor-sim/propulsor-sim/sim/internal/testutil"
)

// throttleCurve is a predictor that is nonlinear in throttle and records the
// size of every batch it is asked to predict.
type throttleCurve struct {
	batches []int
}

func curve(a, m, eta float64) float64 {
	return 1 + 0.5*a + 0.2*m + 3*eta - eta*eta
}

func (p *throttleCurve) Predict(x mat.Matrix) []float64 {
	n, _ := x.Dims()
	p.batches = append(p.batches, n)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = curve(x.At(i, 0), x.At(i, 1), x.At(i, 2))
	}
	return out
}

func blenders(t *testing.T) (Blender, Blender) {
	t.Helper()
	lo, err := blend.NewCubicSpline(0, LowBlendEnd)
	require.NoError(t, err)
	hi, err := blend.NewCubicSpline(HighBlendStart, 1)
	require.NoError(t, err)
	return lo, hi
}

func queries(etas ...float64) *mat.Dense {
	x := mat.NewDense(len(etas), 3, nil)
	for i, eta := range etas {
		x.Set(i, 0, 0.4+0.01*float64(i))
		x.Set(i, 1, 0.75)
		x.Set(i, 2, eta)
	}
	return x
}

func TestClassifyThrottle(t *testing.T) {
	tests := []struct {
		eta  float64
		want Regime
	}{
		{-2, RegimeLow},
		{math.Nextafter(0, -1), RegimeLow},
		{0, RegimeLoBlend},
		{0.005, RegimeLoBlend},
		{0.01, RegimeMid},
		{0.5, RegimeMid},
		{math.Nextafter(0.99, 0), RegimeMid},
		{0.99, RegimeHiBlend},
		{math.Nextafter(1, 0), RegimeHiBlend},
		{1, RegimeHigh},
		{3, RegimeHigh},
		{math.NaN(), RegimeMid},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyThrottle(tt.eta), "eta=%v", tt.eta)
	}
}

func TestRegime_String(t *testing.T) {
	assert.Equal(t, "low", RegimeLow.String())
	assert.Equal(t, "hi-blend", RegimeHiBlend.String())
	assert.Equal(t, "unknown", Regime(42).String())
}

func TestExtendedThrust_BelowIdle_ExactExtrapolation(t *testing.T) {
	lo, hi := blenders(t)
	x := queries(-0.5)
	got := ExtendedThrust(&throttleCurve{}, x, lo, hi)

	a, m := x.At(0, 0), x.At(0, 1)
	p0, p1 := curve(a, m, 0), curve(a, m, 1)
	assert.Equal(t, p0-0.5*(p1-p0), got[0])
}

func TestExtendedThrust_AboveFull_ExactExtrapolation(t *testing.T) {
	lo, hi := blenders(t)
	x := queries(1.5)
	got := ExtendedThrust(&throttleCurve{}, x, lo, hi)

	a, m := x.At(0, 0), x.At(0, 1)
	p0, p1 := curve(a, m, 0), curve(a, m, 1)
	assert.Equal(t, p1+0.5*(p1-p0), got[0])
}

func TestExtendedSFC_ClampsOutsideRange(t *testing.T) {
	lo, hi := blenders(t)
	x := queries(-3, 5)
	got := ExtendedSFC(&throttleCurve{}, x, lo, hi)

	assert.Equal(t, curve(x.At(0, 0), x.At(0, 1), 0), got[0])
	assert.Equal(t, curve(x.At(1, 0), x.At(1, 1), 1), got[1])

	// Thrust keeps extrapolating where SFC is held.
	thrust := ExtendedThrust(&throttleCurve{}, x, lo, hi)
	assert.NotEqual(t, got[0], thrust[0])
}

func TestExtended_MidIsDirectPrediction(t *testing.T) {
	lo, hi := blenders(t)
	x := queries(0.2, 0.5, 0.8)
	direct := (&throttleCurve{}).Predict(x)
	assert.Equal(t, direct, ExtendedThrust(&throttleCurve{}, x, lo, hi))
	assert.Equal(t, direct, ExtendedSFC(&throttleCurve{}, x, lo, hi))
}

func TestExtended_ContinuousAcrossBoundaries(t *testing.T) {
	lo, hi := blenders(t)
	const eps = 1e-9
	for _, b := range []float64{0, LowBlendEnd, HighBlendStart, 1} {
		x := queries(b-eps, b+eps)
		// Same altitude on both sides of the boundary.
		x.Set(1, 0, x.At(0, 0))

		thrust := ExtendedThrust(&throttleCurve{}, x, lo, hi)
		assert.InDelta(t, thrust[0], thrust[1], 1e-6, "thrust at %v", b)
		sfc := ExtendedSFC(&throttleCurve{}, x, lo, hi)
		assert.InDelta(t, sfc[0], sfc[1], 1e-6, "sfc at %v", b)
	}
}

func TestExtended_BlendBandsMatchFormula(t *testing.T) {
	lo, hi := blenders(t)
	x := queries(0.004, 0.995)
	thrust := ExtendedThrust(&throttleCurve{}, x, lo, hi)
	sfc := ExtendedSFC(&throttleCurve{}, x, lo, hi)

	a, m := x.At(0, 0), x.At(0, 1)
	p0, p1, d := curve(a, m, 0), curve(a, m, 1), curve(a, m, 0.004)
	w := lo.Compute(0.004)
	assert.InDelta(t, (p0+0.004*(p1-p0))*w+d*(1-w), thrust[0], 1e-12)
	assert.InDelta(t, p0*w+d*(1-w), sfc[0], 1e-12)

	a, m = x.At(1, 0), x.At(1, 1)
	p0, p1, d = curve(a, m, 0), curve(a, m, 1), curve(a, m, 0.995)
	w = hi.Compute(0.995)
	assert.InDelta(t, d*w+(p1+(0.995-1)*(p1-p0))*(1-w), thrust[1], 1e-12)
	assert.InDelta(t, d*w+p1*(1-w), sfc[1], 1e-12)
}

func TestExtended_OnlyNonEmptyRegimesCallPredictor(t *testing.T) {
	lo, hi := blenders(t)
	tests := []struct {
		name       string
		etas       []float64
		wantThrust []int
		wantSFC    []int
	}{
		{"all mid", []float64{0.2, 0.4, 0.6}, []int{3}, []int{3}},
		{"all high", []float64{1, 1.2}, []int{2, 2}, []int{2}},
		{"all low", []float64{-1}, []int{1, 1}, []int{1}},
		// regimes are visited in order low, lo-blend, mid, hi-blend, high
		{"one per regime", []float64{0.5, 1.5, -0.5, 0.995, 0.005},
			[]int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
			[]int{1, 1, 1, 1, 1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thrust := &throttleCurve{}
			ExtendedThrust(thrust, queries(tt.etas...), lo, hi)
			assert.Equal(t, tt.wantThrust, thrust.batches)

			sfc := &throttleCurve{}
			ExtendedSFC(sfc, queries(tt.etas...), lo, hi)
			assert.Equal(t, tt.wantSFC, sfc.batches)
		})
	}
}

func TestExtended_PreservesRowOrder(t *testing.T) {
	lo, hi := blenders(t)
	etas := []float64{0.5, 1.5, -0.5, 0.995, 0.005, 0.3, -2, 1}
	x := queries(etas...)
	thrust := ExtendedThrust(&throttleCurve{}, x, lo, hi)
	sfc := ExtendedSFC(&throttleCurve{}, x, lo, hi)

	for i := range etas {
		row := mat.NewDense(1, 3, []float64{x.At(i, 0), x.At(i, 1), x.At(i, 2)})
		assert.Equal(t, ExtendedThrust(&throttleCurve{}, row, lo, hi)[0], thrust[i], "row %d", i)
		assert.Equal(t, ExtendedSFC(&throttleCurve{}, row, lo, hi)[0], sfc[i], "row %d", i)
	}
}

func TestEvaluate_Extended_BelowIdleMatchesDirectArithmetic(t *testing.T) {
	cfg := configFor("linear")
	cfg.UseExtendedSurrogate = true
	m, err := Build(cfg, testutil.LinearScenario())
	require.NoError(t, err)

	res, err := Evaluate(m, singlePoint(10000, 0.7, -0.5))
	require.NoError(t, err)

	a := 10000 / m.AltitudeScale
	p0 := m.Thrust.Predict(mat.NewDense(1, 3, []float64{a, 0.7, 0}))[0]
	p1 := m.Thrust.Predict(mat.NewDense(1, 3, []float64{a, 0.7, 1}))[0]
	want := (p0 + -0.5*(p1-p0)) * m.ThrustScale * m.ThrustAnchorScale
	assert.Equal(t, want, res.ThrustScalar[0])
}
