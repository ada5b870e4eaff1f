package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLogLevel     = "info"
	DefaultPlotWidth    = 70
	DefaultPlotHeight   = 12
	DefaultLiveInterval = 50
	DefaultTheme        = "dark"
)

// Config holds CLI settings. Zero Steps or StepLength keep the values from
// the model file.
type Config struct {
	LogLevel     string     `yaml:"log_level" env:"BOXSIM_LOG_LEVEL"`
	Steps        int        `yaml:"steps" env:"BOXSIM_STEPS"`
	StepLength   float64    `yaml:"step_length" env:"BOXSIM_STEP_LENGTH"`
	Workers      int        `yaml:"workers" env:"BOXSIM_WORKERS"`
	Trace        bool       `yaml:"trace" env:"BOXSIM_TRACE"`
	Plot         PlotConfig `yaml:"plot"`
	LiveInterval int        `yaml:"live_interval_ms" env:"BOXSIM_LIVE_INTERVAL_MS"`
}

type PlotConfig struct {
	Width  int    `yaml:"width" env:"BOXSIM_PLOT_WIDTH"`
	Height int    `yaml:"height" env:"BOXSIM_PLOT_HEIGHT"`
	Theme  string `yaml:"theme" env:"BOXSIM_THEME"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Plot: PlotConfig{
			Width:  DefaultPlotWidth,
			Height: DefaultPlotHeight,
			Theme:  DefaultTheme,
		},
		LiveInterval: DefaultLiveInterval,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overlays BOXSIM_* environment variables onto cfg. Unset
// variables leave fields untouched.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
