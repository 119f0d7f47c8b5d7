package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CREWDECK_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	c, err := Load()
	require.NoError(t, err)

	require.Equal(t, 320, c.Sim.StepIntervalMS)
	require.Equal(t, 320*time.Millisecond, c.Sim.StepInterval())
	require.InDelta(t, 0.25, c.Sim.AssistFailureRate, 1e-9)
	require.NotEmpty(t, c.Log.Path)
	require.Equal(t, "Local", c.UI.Timezone)
	require.NotNil(t, c.Location())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CREWDECK_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("CREWDECK_SIM_STEP_INTERVAL_MS", "10")
	t.Setenv("CREWDECK_SIM_ASSIST_FAILURE_RATE", "0.5")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, 10, c.Sim.StepIntervalMS)
	require.InDelta(t, 0.5, c.Sim.AssistFailureRate, 1e-9)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[sim]\nstep_interval_ms = 5\n\n[ui]\ntimezone = \"UTC\"\n"), 0o644))
	t.Setenv("CREWDECK_CONFIG", path)

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, 5, c.Sim.StepIntervalMS)
	require.Equal(t, "UTC", c.UI.Timezone)
	require.Equal(t, time.UTC, c.Location())
}

func TestLoadRejectsBadFailureRate(t *testing.T) {
	t.Setenv("CREWDECK_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("CREWDECK_SIM_ASSIST_FAILURE_RATE", "1.5")

	_, err := Load()
	require.Error(t, err)
}
