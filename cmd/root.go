package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// CLI flags shared by every subcommand
	configPath    string // Propulsor YAML config
	inputFile     string // Engine deck CSV, overrides input_file
	surrogateType string // Surrogate family, overrides surrogate_type
	extended      bool   // Extended throttle evaluation, overrides use_extended_surrogate
	engines       int    // Number of engines, overrides number_of_engines
	logLevel      string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "propulsor-sim",
	Short: "Engine-deck propulsion surrogates for flight simulation",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up persistent flags; subcommands attach themselves in their own files.
func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to propulsor YAML config")
	rootCmd.PersistentFlags().StringVar(&inputFile, "input", "", "Engine deck CSV (altitude,mach,throttle,thrust,sfc)")
	rootCmd.PersistentFlags().StringVar(&surrogateType, "surrogate", "", "Surrogate family (gaussian, knn, svr, linear)")
	rootCmd.PersistentFlags().BoolVar(&extended, "extended", false, "Blend and extrapolate throttle outside [0, 1]")
	rootCmd.PersistentFlags().IntVar(&engines, "engines", 0, "Number of engines")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
}
