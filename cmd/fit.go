package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/propulsor-sim/propulsor-sim/sim"
)

// FitReport summarizes a trained surrogate.
type FitReport struct {
	Tag               string  `json:"tag"`
	Surrogate         string  `json:"surrogate"`
	Extended          bool    `json:"use_extended_surrogate"`
	Samples           int     `json:"samples"`
	Duplicates        int     `json:"duplicates_dropped"`
	AltitudeScale     float64 `json:"altitude_scale"`
	ThrustScale       float64 `json:"thrust_scale"`
	SFCScale          float64 `json:"sfc_scale"`
	ThrustAnchorScale float64 `json:"thrust_anchor_scale"`
	SFCAnchorScale    float64 `json:"sfc_anchor_scale"`
}

func newFitReport(m *sim.FittedModel) FitReport {
	return FitReport{
		Tag:               m.Config.Tag,
		Surrogate:         m.Family.String(),
		Extended:          m.Config.UseExtendedSurrogate,
		Samples:           m.Samples,
		Duplicates:        m.Duplicates,
		AltitudeScale:     m.AltitudeScale,
		ThrustScale:       m.ThrustScale,
		SFCScale:          m.SFCScale,
		ThrustAnchorScale: m.ThrustAnchorScale,
		SFCAnchorScale:    m.SFCAnchorScale,
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// runFit builds the configured surrogate and writes its FitReport.
func runFit(w io.Writer, path string, o overrides) error {
	p, err := buildPropulsor(path, o)
	if err != nil {
		return err
	}
	return writeJSON(w, newFitReport(p.Model()))
}

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Train thrust and SFC surrogates and report scales",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFit(os.Stdout, configPath, flagOverrides(cmd)); err != nil {
			logrus.Fatalf("Fit failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(fitCmd)
}
