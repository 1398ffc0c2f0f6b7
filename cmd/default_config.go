package cmd

import (
	"github.com/spf13/cobra"

	sim "github.com/propulsor-sim/propulsor-sim/sim"
)

// overrides are CLI values that replace fields of the YAML config when the
// corresponding flag was set explicitly.
type overrides struct {
	InputFile     *string
	SurrogateType *string
	Extended      *bool
	Engines       *int
}

// flagOverrides collects the persistent flags the user actually passed.
func flagOverrides(cmd *cobra.Command) overrides {
	var o overrides
	flags := cmd.Flags()
	if flags.Changed("input") {
		o.InputFile = &inputFile
	}
	if flags.Changed("surrogate") {
		o.SurrogateType = &surrogateType
	}
	if flags.Changed("extended") {
		o.Extended = &extended
	}
	if flags.Changed("engines") {
		o.Engines = &engines
	}
	return o
}

// resolveConfig loads path (or the defaults when path is empty) and applies o.
func resolveConfig(path string, o overrides) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if path != "" {
		loaded, err := sim.LoadConfig(path)
		if err != nil {
			return sim.Config{}, err
		}
		cfg = loaded
	}
	if o.InputFile != nil {
		cfg.InputFile = *o.InputFile
	}
	if o.SurrogateType != nil {
		cfg.SurrogateType = *o.SurrogateType
	}
	if o.Extended != nil {
		cfg.UseExtendedSurrogate = *o.Extended
	}
	if o.Engines != nil {
		cfg.NumberOfEngines = *o.Engines
	}
	if err := cfg.Validate(); err != nil {
		return sim.Config{}, err
	}
	return cfg, nil
}

// buildPropulsor resolves the config and trains its surrogate from input_file.
func buildPropulsor(path string, o overrides) (*sim.Propulsor, error) {
	cfg, err := resolveConfig(path, o)
	if err != nil {
		return nil, err
	}
	p := sim.NewPropulsor(cfg)
	if err := p.BuildSurrogate(nil); err != nil {
		return nil, err
	}
	return p, nil
}
