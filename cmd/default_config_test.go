package cmd

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/propulsor-sim/propulsor-sim/sim"
)

const exampleConfig = "../examples/turbofan.yaml"

func TestResolveConfig_NoPathUsesDefaults(t *testing.T) {
	cfg, err := resolveConfig("", overrides{})
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultConfig(), cfg)
}

func TestResolveConfig_ExampleFile(t *testing.T) {
	cfg, err := resolveConfig(exampleConfig, overrides{})
	require.NoError(t, err)

	assert.Equal(t, "gaussian", cfg.SurrogateType)
	assert.Equal(t, 2, cfg.NumberOfEngines)
	assert.True(t, cfg.UseExtendedSurrogate)
	assert.Equal(t, filepath.Join("..", "testdata", "engine_deck.csv"), cfg.InputFile)
	require.NotNil(t, cfg.ThrustAnchor)
	assert.Equal(t, 155000.0, cfg.ThrustAnchor.Target)
}

func TestResolveConfig_OverridesWin(t *testing.T) {
	input, family, ext, n := "other.csv", "knn", false, 4
	cfg, err := resolveConfig(exampleConfig, overrides{
		InputFile:     &input,
		SurrogateType: &family,
		Extended:      &ext,
		Engines:       &n,
	})
	require.NoError(t, err)
	assert.Equal(t, "other.csv", cfg.InputFile)
	assert.Equal(t, "knn", cfg.SurrogateType)
	assert.False(t, cfg.UseExtendedSurrogate)
	assert.Equal(t, 4, cfg.NumberOfEngines)
}

func TestResolveConfig_InvalidOverride_Errors(t *testing.T) {
	family := "random-forest"
	_, err := resolveConfig("", overrides{SurrogateType: &family})
	assert.True(t, errors.Is(err, sim.ErrUnsupportedSurrogate))

	n := 0
	_, err = resolveConfig("", overrides{Engines: &n})
	assert.True(t, errors.Is(err, sim.ErrInvalidConfig))
}

func TestResolveConfig_MissingFile_Errors(t *testing.T) {
	_, err := resolveConfig(filepath.Join(t.TempDir(), "missing.yaml"), overrides{})
	assert.Error(t, err)
}
