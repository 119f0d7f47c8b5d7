package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Sim SimConfig
	Log LogConfig
	UI  UIConfig
}

// SimConfig holds run simulator tunables.
type SimConfig struct {
	StepIntervalMS    int     `mapstructure:"step_interval_ms"`
	AssistFailureRate float64 `mapstructure:"assist_failure_rate"`
}

// StepInterval returns the per-step suspension as a duration.
func (s SimConfig) StepInterval() time.Duration {
	return time.Duration(s.StepIntervalMS) * time.Millisecond
}

// LogConfig holds logging settings.
type LogConfig struct {
	Path  string
	Debug bool
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Timezone string
}

// Load reads configuration from file and env. Env var overrides use prefix CREWDECK_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("sim.step_interval_ms", 320)
	v.SetDefault("sim.assist_failure_rate", 0.25)
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "state", "crewdeck", "crewdeck.log"))
	v.SetDefault("log.debug", false)
	v.SetDefault("ui.timezone", "Local")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("CREWDECK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "crewdeck"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CREWDECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Sim.StepIntervalMS < 0 {
		return Config{}, fmt.Errorf("sim.step_interval_ms must not be negative, got %d", c.Sim.StepIntervalMS)
	}
	if c.Sim.AssistFailureRate < 0 || c.Sim.AssistFailureRate > 1 {
		return Config{}, fmt.Errorf("sim.assist_failure_rate must be within [0, 1], got %v", c.Sim.AssistFailureRate)
	}
	return c, nil
}

// Location resolves the configured timezone, falling back to the system
// local zone when the name does not resolve.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.UI.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
