package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	sim "github.com/propulsor-sim/propulsor-sim/sim"
)

var (
	sweepAltitude float64 // Fixed altitude
	sweepMach     float64 // Fixed Mach number
	sweepFrom     float64 // First throttle setting
	sweepTo       float64 // Last throttle setting
	sweepSteps    int     // Number of throttle settings
)

var sweepColumns = []string{"throttle", "regime", "thrust", "sfc", "mass_rate"}

// sweepState spaces steps throttle settings evenly over [from, to] at a fixed
// altitude and Mach number.
func sweepState(alt, mach, from, to float64, steps int) (sim.FlightState, error) {
	if steps < 2 {
		return sim.FlightState{}, fmt.Errorf("sweep needs at least 2 steps, got %d", steps)
	}
	s := sim.FlightState{
		Altitude:   make([]float64, steps),
		MachNumber: make([]float64, steps),
		Throttle:   floats.Span(make([]float64, steps), from, to),
	}
	for i := 0; i < steps; i++ {
		s.Altitude[i] = alt
		s.MachNumber[i] = mach
	}
	return s, nil
}

// writeSweepCSV writes one row per throttle setting.
func writeSweepCSV(w io.Writer, state sim.FlightState, res *sim.Results) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(sweepColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, eta := range state.Throttle {
		row := []string{
			strconv.FormatFloat(eta, 'f', -1, 64),
			sim.ClassifyThrottle(eta).String(),
			strconv.FormatFloat(res.ThrustScalar[i], 'g', -1, 64),
			strconv.FormatFloat(res.TSFC[i], 'g', -1, 64),
			strconv.FormatFloat(res.VehicleMassRate[i], 'g', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// runSweep builds the configured surrogate and writes a throttle sweep.
func runSweep(w io.Writer, path string, o overrides, alt, mach, from, to float64, steps int) error {
	state, err := sweepState(alt, mach, from, to, steps)
	if err != nil {
		return err
	}
	p, err := buildPropulsor(path, o)
	if err != nil {
		return err
	}
	res, err := p.EvaluateThrust(state)
	if err != nil {
		return err
	}
	logrus.Debugf("Swept %d throttle settings in [%g, %g] at altitude=%g mach=%g", steps, from, to, alt, mach)
	return writeSweepCSV(w, state, res)
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep throttle at fixed altitude and Mach, printing CSV",
	Run: func(cmd *cobra.Command, args []string) {
		err := runSweep(os.Stdout, configPath, flagOverrides(cmd),
			sweepAltitude, sweepMach, sweepFrom, sweepTo, sweepSteps)
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}
	},
}

func init() {
	sweepCmd.Flags().Float64Var(&sweepAltitude, "altitude", 0, "Altitude")
	sweepCmd.Flags().Float64Var(&sweepMach, "mach", 0.5, "Mach number")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", -0.2, "First throttle setting")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 1.2, "Last throttle setting")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 15, "Number of throttle settings")

	rootCmd.AddCommand(sweepCmd)
}
