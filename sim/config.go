package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/propulsor-sim/propulsor-sim/sim/surrogate"
)

// Anchor is a trusted reference value and the flight condition it applies to.
type Anchor struct {
	Target     float64    `yaml:"target"`
	Conditions [3]float64 `yaml:"conditions"` // altitude, mach, throttle
}

// Config describes an engine-deck propulsor. It is set once during vehicle
// setup and read-only afterwards.
type Config struct {
	Tag                  string  `yaml:"tag"`
	InputFile            string  `yaml:"input_file"`     // engine deck CSV, used when Build gets no table
	SurrogateType        string  `yaml:"surrogate_type"` // gaussian, knn, svr, linear
	UseExtendedSurrogate bool    `yaml:"use_extended_surrogate"`
	NumberOfEngines      int     `yaml:"number_of_engines"`
	ThrustAngle          float64 `yaml:"thrust_angle"` // radians, positive tilts thrust downward
	NacelleDiameter      float64 `yaml:"nacelle_diameter"`
	EngineLength         float64 `yaml:"engine_length"`
	ThrustAnchor         *Anchor `yaml:"thrust_anchor"`
	SFCAnchor            *Anchor `yaml:"sfc_anchor"`
}

// DefaultConfig returns a single-engine Gaussian-process propulsor with no anchors.
func DefaultConfig() Config {
	return Config{
		Tag:             "Engine_Deck_Surrogate",
		SurrogateType:   surrogate.GaussianProcess.String(),
		NumberOfEngines: 1,
	}
}

// LoadConfig reads a propulsor YAML file on top of DefaultConfig.
// Unknown keys are rejected. A relative input_file is resolved against the
// YAML file's directory.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading propulsor config: %w", err)
	}
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing propulsor config: %w", err)
	}
	if cfg.InputFile != "" && !filepath.IsAbs(cfg.InputFile) {
		cfg.InputFile = filepath.Join(filepath.Dir(path), cfg.InputFile)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Family returns the parsed surrogate family.
func (c Config) Family() (surrogate.Family, error) {
	return surrogate.ParseFamily(c.SurrogateType)
}

// Validate checks the surrogate family and parameter ranges.
func (c Config) Validate() error {
	if _, err := c.Family(); err != nil {
		return err
	}
	if c.NumberOfEngines < 1 {
		return fmt.Errorf("%w: number_of_engines must be >= 1, got %d", ErrInvalidConfig, c.NumberOfEngines)
	}
	if !isFinite(c.ThrustAngle) {
		return fmt.Errorf("%w: thrust_angle must be finite, got %v", ErrInvalidConfig, c.ThrustAngle)
	}
	if err := c.ThrustAnchor.validate("thrust_anchor"); err != nil {
		return err
	}
	return c.SFCAnchor.validate("sfc_anchor")
}

func (a *Anchor) validate(name string) error {
	if a == nil {
		return nil
	}
	if !isFinite(a.Target) {
		return fmt.Errorf("%w: %s target must be finite, got %v", ErrInvalidConfig, name, a.Target)
	}
	for i, v := range a.Conditions {
		if !isFinite(v) {
			return fmt.Errorf("%w: %s conditions[%d] must be finite, got %v", ErrInvalidConfig, name, i, v)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
