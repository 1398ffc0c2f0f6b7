package sim

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeConfigYAML(t, `
tag: Turbofan
input_file: deck.csv
surrogate_type: svr
use_extended_surrogate: true
number_of_engines: 2
thrust_angle: 0.05
nacelle_diameter: 2.0
engine_length: 3.5
thrust_anchor: {target: 155000, conditions: [4572, 0.8, 1]}
sfc_anchor:
  target: 4.6e-5
  conditions: [4572, 0.8, 1]
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Turbofan", cfg.Tag)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "deck.csv"), cfg.InputFile)
	assert.Equal(t, "svr", cfg.SurrogateType)
	assert.True(t, cfg.UseExtendedSurrogate)
	assert.Equal(t, 2, cfg.NumberOfEngines)
	assert.Equal(t, 0.05, cfg.ThrustAngle)
	assert.Equal(t, 2.0, cfg.NacelleDiameter)
	assert.Equal(t, 3.5, cfg.EngineLength)
	require.NotNil(t, cfg.ThrustAnchor)
	assert.Equal(t, Anchor{Target: 155000, Conditions: [3]float64{4572, 0.8, 1}}, *cfg.ThrustAnchor)
	require.NotNil(t, cfg.SFCAnchor)
	assert.Equal(t, 4.6e-5, cfg.SFCAnchor.Target)
}

func TestLoadConfig_OmittedFieldsKeepDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfigYAML(t, "surrogate_type: knn\n"))
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.Tag, cfg.Tag)
	assert.Equal(t, 1, cfg.NumberOfEngines)
	assert.Empty(t, cfg.InputFile)
	assert.Nil(t, cfg.ThrustAnchor)
	assert.Nil(t, cfg.SFCAnchor)
}

func TestLoadConfig_AbsoluteInputFileUnchanged(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "elsewhere", "deck.csv")
	cfg, err := LoadConfig(writeConfigYAML(t, "input_file: "+abs+"\n"))
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.InputFile)
}

func TestLoadConfig_UnknownField_Errors(t *testing.T) {
	_, err := LoadConfig(writeConfigYAML(t, "surrogate_type: linear\nafterburner: true\n"))
	assert.Error(t, err)
}

func TestLoadConfig_AnchorConditionsWrongLength_Errors(t *testing.T) {
	_, err := LoadConfig(writeConfigYAML(t, "thrust_anchor: {target: 1, conditions: [1, 2]}\n"))
	assert.Error(t, err)
}

func TestLoadConfig_UnsupportedFamily(t *testing.T) {
	_, err := LoadConfig(writeConfigYAML(t, "surrogate_type: random-forest\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedSurrogate))
}

func TestLoadConfig_NonexistentFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	_, err := LoadConfig(writeConfigYAML(t, "number_of_engines: [oops\n"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig()
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"default", func(*Config) {}, nil},
		{"every family", func(c *Config) { c.SurrogateType = "linear" }, nil},
		{"unknown family", func(c *Config) { c.SurrogateType = "" }, ErrUnsupportedSurrogate},
		{"zero engines", func(c *Config) { c.NumberOfEngines = 0 }, ErrInvalidConfig},
		{"NaN thrust angle", func(c *Config) { c.ThrustAngle = math.NaN() }, ErrInvalidConfig},
		{"infinite anchor target", func(c *Config) {
			c.ThrustAnchor = &Anchor{Target: math.Inf(1), Conditions: [3]float64{0, 0.5, 1}}
		}, ErrInvalidConfig},
		{"NaN anchor condition", func(c *Config) {
			c.SFCAnchor = &Anchor{Target: 1, Conditions: [3]float64{0, math.NaN(), 1}}
		}, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
