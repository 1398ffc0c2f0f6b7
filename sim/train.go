package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/propulsor-sim/propulsor-sim/sim/deck"
	"github.com/propulsor-sim/propulsor-sim/sim/surrogate"
)

// FittedModel is the immutable product of Build: both trained predictors plus
// every scale needed to turn normalized predictions back into physical units.
// Fields must not be modified after Build returns.
type FittedModel struct {
	Config Config
	Family surrogate.Family

	Thrust surrogate.Predictor
	SFC    surrogate.Predictor

	AltitudeScale float64 // max altitude in the deduplicated deck
	ThrustScale   float64 // max thrust in the deduplicated deck
	SFCScale      float64 // max SFC in the deduplicated deck

	ThrustAnchorScale float64 // 1 when no thrust anchor is configured
	SFCAnchorScale    float64 // 1 when no SFC anchor is configured

	Samples    int // rows used for training
	Duplicates int // rows dropped as exact duplicates
}

// Build trains thrust and SFC surrogates on table. The surrogate family is
// resolved before any data is inspected.
func Build(cfg Config, table deck.Table) (*FittedModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("build surrogate: %w", err)
	}
	family, _ := cfg.Family()
	thrustReg, err := surrogate.NewThrustRegressor(family)
	if err != nil {
		return nil, fmt.Errorf("build surrogate: %w", err)
	}
	sfcReg, err := surrogate.NewSFCRegressor(family)
	if err != nil {
		return nil, fmt.Errorf("build surrogate: %w", err)
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("build surrogate: %w", ErrEmptyTable)
	}
	unique := table.Dedup()

	m := &FittedModel{
		Config:     cfg,
		Family:     family,
		Samples:    len(unique),
		Duplicates: len(table) - len(unique),
	}
	if m.AltitudeScale, err = columnScale("altitude", unique.Altitudes()); err != nil {
		return nil, err
	}
	if m.ThrustScale, err = columnScale("thrust", unique.Thrusts()); err != nil {
		return nil, err
	}
	if m.SFCScale, err = columnScale("sfc", unique.SFCs()); err != nil {
		return nil, err
	}

	x := mat.NewDense(len(unique), deck.NumInputs, unique.Inputs())
	x.Apply(func(_, j int, v float64) float64 {
		if j == 0 {
			return v / m.AltitudeScale
		}
		return v
	}, x)

	thrust := unique.Thrusts()
	floats.Scale(1/m.ThrustScale, thrust)
	sfc := unique.SFCs()
	floats.Scale(1/m.SFCScale, sfc)

	if m.Thrust, err = thrustReg.Fit(x, thrust); err != nil {
		return nil, fmt.Errorf("fit thrust surrogate: %w", err)
	}
	if m.SFC, err = sfcReg.Fit(x, sfc); err != nil {
		return nil, fmt.Errorf("fit sfc surrogate: %w", err)
	}

	if m.ThrustAnchorScale, err = m.anchorScale("thrust", m.Thrust, cfg.ThrustAnchor, m.ThrustScale); err != nil {
		return nil, err
	}
	if m.SFCAnchorScale, err = m.anchorScale("sfc", m.SFC, cfg.SFCAnchor, m.SFCScale); err != nil {
		return nil, err
	}

	logrus.Infof("Built %s propulsor surrogate %q from %d samples (%d duplicates dropped)",
		family, cfg.Tag, m.Samples, m.Duplicates)
	logrus.Debugf("Scales: altitude=%g thrust=%g sfc=%g anchor(thrust)=%g anchor(sfc)=%g",
		m.AltitudeScale, m.ThrustScale, m.SFCScale, m.ThrustAnchorScale, m.SFCAnchorScale)
	return m, nil
}

// LoadAndBuild reads cfg.InputFile and builds a model from it.
func LoadAndBuild(cfg Config) (*FittedModel, error) {
	if cfg.InputFile == "" {
		return nil, errors.New("build surrogate: no engine deck table and no input_file configured")
	}
	table, err := deck.LoadFile(cfg.InputFile)
	if err != nil {
		return nil, err
	}
	return Build(cfg, table)
}

func columnScale(name string, col []float64) (float64, error) {
	s := floats.Max(col)
	if !(s > 0) || math.IsInf(s, 0) {
		return 0, fmt.Errorf("%w: %s maximum is %v", ErrDegenerateColumn, name, s)
	}
	return s, nil
}

// anchorScale returns target / prediction at the anchor condition, in
// physical units. The prediction is taken directly from the surrogate, never
// through the extended evaluator.
func (m *FittedModel) anchorScale(name string, p surrogate.Predictor, a *Anchor, outScale float64) (float64, error) {
	if a == nil {
		return 1, nil
	}
	c := a.Conditions
	q := mat.NewDense(1, deck.NumInputs, []float64{c[0] / m.AltitudeScale, c[1], c[2]})
	base := p.Predict(q)[0] * outScale
	if base == 0 || !isFinite(base) {
		return 0, fmt.Errorf("%w: %s predicted %v at %v", ErrAnchorPrediction, name, base, c)
	}
	return a.Target / base, nil
}
