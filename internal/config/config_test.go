package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %s", cfg.LogLevel)
	}
	if cfg.Steps != 0 || cfg.StepLength != 0 {
		t.Error("default config should not override model step settings")
	}
	if cfg.Plot.Width <= 0 || cfg.Plot.Height <= 0 {
		t.Error("plot dimensions should be positive")
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxsim.yaml")

	cfg := DefaultConfig()
	cfg.Steps = 42
	cfg.Plot.Theme = "light"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Steps != 42 {
		t.Errorf("expected steps 42, got %d", got.Steps)
	}
	if got.Plot.Theme != "light" {
		t.Errorf("expected theme light, got %s", got.Plot.Theme)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("BOXSIM_STEPS", "12")
	t.Setenv("BOXSIM_STEP_LENGTH", "0.25")
	t.Setenv("BOXSIM_PLOT_WIDTH", "100")
	t.Setenv("BOXSIM_TRACE", "true")

	cfg := DefaultConfig()
	if err := ApplyEnv(cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.Steps != 12 {
		t.Errorf("expected steps 12, got %d", cfg.Steps)
	}
	if cfg.StepLength != 0.25 {
		t.Errorf("expected step length 0.25, got %f", cfg.StepLength)
	}
	if cfg.Plot.Width != 100 {
		t.Errorf("expected plot width 100, got %d", cfg.Plot.Width)
	}
	if !cfg.Trace {
		t.Error("expected trace enabled")
	}
	if cfg.Plot.Height != DefaultPlotHeight {
		t.Errorf("unset variable changed plot height to %d", cfg.Plot.Height)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("unset variable changed log level to %s", cfg.LogLevel)
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Setenv("BOXSIM_STEPS", "many")
	if err := ApplyEnv(DefaultConfig()); err == nil {
		t.Error("expected error for non-numeric BOXSIM_STEPS")
	}
}

func TestGetPreset(t *testing.T) {
	mf := GetPreset("tank")
	if mf == nil {
		t.Fatal("expected preset, got nil")
	}
	if mf.Steps != 3 {
		t.Errorf("expected 3 steps, got %d", mf.Steps)
	}

	mf.Steps = 99
	if GetPreset("tank").Steps != 3 {
		t.Error("preset mutated through a returned copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	want := []string{"carbon", "exchange", "predator_prey", "tank"}
	if len(presets) != len(want) {
		t.Fatalf("expected %v, got %v", want, presets)
	}
	for i := range want {
		if presets[i] != want[i] {
			t.Errorf("expected %v, got %v", want, presets)
		}
	}
}

func TestPresetsBuild(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			m, err := Build(GetPreset(name), newLibrary())
			if err != nil {
				t.Fatal(err)
			}
			if err := m.CheckSetup(); err != nil {
				t.Error(err)
			}
		})
	}
}
