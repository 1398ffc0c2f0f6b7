package cmd

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/propulsor-sim/propulsor-sim/sim"
	"github.com/propulsor-sim/propulsor-sim/sim/trace"
)

var (
	evalAltitudes []float64 // Altitude per query point
	evalMachs     []float64 // Mach number per query point
	evalThrottles []float64 // Throttle per query point
	traceLevel    string    // Regime trace verbosity
)

// EvaluateOutput echoes the queried flight state alongside the results.
type EvaluateOutput struct {
	Altitude   []float64    `json:"altitude"`
	MachNumber []float64    `json:"mach"`
	Throttle   []float64    `json:"throttle"`
	Results    *sim.Results `json:"results"`

	Trace *trace.TraceSummary `json:"trace,omitempty"`
}

// traceRegimes records the throttle regime of every row and summarizes them.
// Returns nil when tracing is disabled.
func traceRegimes(level string, state sim.FlightState, res *sim.Results) *trace.TraceSummary {
	cfg := trace.TraceConfig{Level: trace.TraceLevel(level)}
	if !cfg.Enabled() {
		return nil
	}
	et := trace.NewEvaluationTrace(cfg)
	for i, eta := range state.Throttle {
		et.RecordRegime(trace.RegimeRecord{
			Row:      i,
			Altitude: state.Altitude[i],
			Mach:     state.MachNumber[i],
			Throttle: eta,
			Regime:   sim.ClassifyThrottle(eta).String(),
			Thrust:   res.ThrustScalar[i],
			SFC:      res.TSFC[i],
		})
	}
	return trace.Summarize(et)
}

// checkFinite rejects results JSON cannot encode, naming the first bad row.
func checkFinite(res *sim.Results) error {
	for i := range res.ThrustScalar {
		for _, v := range []float64{res.ThrustScalar[i], res.TSFC[i], res.VehicleMassRate[i]} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("row %d: surrogate produced non-finite output (thrust=%v sfc=%v)",
					i, res.ThrustScalar[i], res.TSFC[i])
			}
		}
	}
	return nil
}

// runEvaluate builds the configured surrogate and evaluates state.
func runEvaluate(w io.Writer, path string, o overrides, state sim.FlightState, level string) error {
	if !trace.IsValidTraceLevel(level) {
		return fmt.Errorf("unknown trace level %q", level)
	}
	p, err := buildPropulsor(path, o)
	if err != nil {
		return err
	}
	res, err := p.EvaluateThrust(state)
	if err != nil {
		return err
	}
	if err := checkFinite(res); err != nil {
		return err
	}
	return writeJSON(w, EvaluateOutput{
		Altitude:   state.Altitude,
		MachNumber: state.MachNumber,
		Throttle:   state.Throttle,
		Results:    res,
		Trace:      traceRegimes(level, state, res),
	})
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate thrust, SFC and fuel flow at explicit flight conditions",
	Run: func(cmd *cobra.Command, args []string) {
		state := sim.FlightState{Altitude: evalAltitudes, MachNumber: evalMachs, Throttle: evalThrottles}
		if err := runEvaluate(os.Stdout, configPath, flagOverrides(cmd), state, traceLevel); err != nil {
			logrus.Fatalf("Evaluate failed: %v", err)
		}
	},
}

func init() {
	evaluateCmd.Flags().Float64SliceVar(&evalAltitudes, "altitude", nil, "Comma-separated altitudes")
	evaluateCmd.Flags().Float64SliceVar(&evalMachs, "mach", nil, "Comma-separated Mach numbers")
	evaluateCmd.Flags().Float64SliceVar(&evalThrottles, "throttle", nil, "Comma-separated throttle settings")
	evaluateCmd.Flags().StringVar(&traceLevel, "trace", "none", "Regime trace level (none, regimes)")
	_ = evaluateCmd.MarkFlagRequired("altitude")
	_ = evaluateCmd.MarkFlagRequired("mach")
	_ = evaluateCmd.MarkFlagRequired("throttle")

	rootCmd.AddCommand(evaluateCmd)
}
