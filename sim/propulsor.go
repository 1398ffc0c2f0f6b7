package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/propulsor-sim/propulsor-sim/sim/blend"
	"github.com/propulsor-sim/propulsor-sim/sim/deck"
)

// FlightState is a batch of operating points. All slices must have equal length.
type FlightState struct {
	Altitude   []float64
	MachNumber []float64
	Throttle   []float64
}

// Len returns the batch size, or an error when the slices are misaligned.
func (s FlightState) Len() (int, error) {
	n := len(s.Altitude)
	if len(s.MachNumber) != n || len(s.Throttle) != n {
		return 0, fmt.Errorf("%w: altitude=%d mach=%d throttle=%d",
			ErrMisalignedState, n, len(s.MachNumber), len(s.Throttle))
	}
	return n, nil
}

// Results holds per-row propulsion outputs in physical units.
type Results struct {
	ThrustForceVector [][3]float64 `json:"thrust_force_vector"` // body frame, summed over engines
	VehicleMassRate   []float64    `json:"vehicle_mass_rate"`   // fuel flow for all engines
	TSFC              []float64    `json:"tsfc"`                // per engine
	ThrustScalar      []float64    `json:"thrust"`              // per engine
}

// Evaluate computes thrust and fuel flow for every row of state. It is a pure
// function of its arguments and safe to call concurrently on a shared model.
func Evaluate(m *FittedModel, state FlightState) (*Results, error) {
	if m == nil || m.Thrust == nil || m.SFC == nil {
		return nil, ErrUninitialized
	}
	n, err := state.Len()
	if err != nil {
		return nil, err
	}
	res := &Results{
		ThrustForceVector: make([][3]float64, n),
		VehicleMassRate:   make([]float64, n),
		TSFC:              make([]float64, n),
		ThrustScalar:      make([]float64, n),
	}
	if n == 0 {
		return res, nil
	}

	x := mat.NewDense(n, deck.NumInputs, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, state.Altitude[i]/m.AltitudeScale)
		x.Set(i, 1, state.MachNumber[i])
		x.Set(i, 2, state.Throttle[i])
	}

	var thrust, sfc []float64
	if m.Config.UseExtendedSurrogate {
		lo, err := blend.NewCubicSpline(0, LowBlendEnd)
		if err != nil {
			return nil, err
		}
		hi, err := blend.NewCubicSpline(HighBlendStart, 1)
		if err != nil {
			return nil, err
		}
		thrust = ExtendedThrust(m.Thrust, x, lo, hi)
		sfc = ExtendedSFC(m.SFC, x, lo, hi)
	} else {
		thrust = m.Thrust.Predict(x)
		sfc = m.SFC.Predict(x)
	}

	engines := float64(m.Config.NumberOfEngines)
	cosA, sinA := math.Cos(m.Config.ThrustAngle), math.Sin(m.Config.ThrustAngle)
	for i := 0; i < n; i++ {
		t := thrust[i] * m.ThrustScale * m.ThrustAnchorScale
		c := sfc[i] * m.SFCScale * m.SFCAnchorScale
		total := t * engines
		res.ThrustScalar[i] = t
		res.TSFC[i] = c
		res.VehicleMassRate[i] = total * c
		res.ThrustForceVector[i] = [3]float64{total * cosA, 0, -total * sinA}
	}
	return res, nil
}

// Propulsor couples a configuration with the model built from it.
type Propulsor struct {
	Config Config
	model  *FittedModel
}

// NewPropulsor returns an unbuilt propulsor. EvaluateThrust fails with
// ErrUninitialized until BuildSurrogate succeeds.
func NewPropulsor(cfg Config) *Propulsor {
	return &Propulsor{Config: cfg}
}

// BuildSurrogate trains the surrogate on table, or on the configured
// input_file when table is nil. On error the previous model is kept.
func (p *Propulsor) BuildSurrogate(table deck.Table) error {
	var (
		m   *FittedModel
		err error
	)
	if table == nil {
		m, err = LoadAndBuild(p.Config)
	} else {
		m, err = Build(p.Config, table)
	}
	if err != nil {
		return err
	}
	p.model = m
	return nil
}

// Model returns the fitted model, or nil before BuildSurrogate.
func (p *Propulsor) Model() *FittedModel {
	return p.model
}

// EvaluateThrust evaluates the built surrogate at state.
func (p *Propulsor) EvaluateThrust(state FlightState) (*Results, error) {
	return Evaluate(p.model, state)
}
