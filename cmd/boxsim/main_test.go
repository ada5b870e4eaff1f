package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func csvLines(t *testing.T, out string) []string {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	return lines
}

func TestPresetsCommand(t *testing.T) {
	out, _, err := execute(t, "presets")
	require.NoError(t, err)
	for _, name := range []string{"tank", "exchange", "carbon", "predator_prey"} {
		assert.Contains(t, out, name)
	}
}

func TestFluxesCommand(t *testing.T) {
	out, _, err := execute(t, "fluxes")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "michaelis_menten")
	assert.Contains(t, out, "logistic")
}

func TestCheckCommand(t *testing.T) {
	out, _, err := execute(t, "check", "tank")
	require.NoError(t, err)
	assert.Equal(t, "tank: ok (1 boxes, 1 processes, 3 keys, 3 steps of 1)\n", out)

	_, _, err = execute(t, "check", "no-such-model")
	assert.ErrorContains(t, err, "no model file or preset")
}

func TestShowCommand(t *testing.T) {
	out, _, err := execute(t, "show", "tank")
	require.NoError(t, err)
	assert.Contains(t, out, "tank_volume")
	assert.Contains(t, out, "outflow")
	assert.Contains(t, out, "constant(rate=5)")

	out, _, err = execute(t, "show", "tank", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: tank")
}

func TestRunCSV(t *testing.T) {
	out, _, err := execute(t, "run", "tank", "--csv", "-", "--series", "tank_volume")
	require.NoError(t, err)
	assert.Equal(t, []string{"tank_volume", "100", "95", "90", "85"}, csvLines(t, out))
}

func TestRunSummaryAndMetrics(t *testing.T) {
	out, stderr, err := execute(t, "run", "tank", "--metric", "trough:tank_volume", "--log-level", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "TANK")
	assert.Contains(t, out, "trough")
	assert.Contains(t, stderr, "run_completed")

	_, _, err = execute(t, "run", "tank", "--metric", "bogus")
	assert.ErrorContains(t, err, "unknown metric")

	_, _, err = execute(t, "run", "tank", "--metric", "peak:missing")
	assert.Error(t, err)
}

func TestRunJSON(t *testing.T) {
	out, _, err := execute(t, "run", "tank", "--json", "-")
	require.NoError(t, err)

	var report struct {
		Name  string             `json:"name"`
		Steps int                `json:"steps"`
		Final map[string]float64 `json:"final"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "tank", report.Name)
	assert.Equal(t, 3, report.Steps)
	assert.Equal(t, 85.0, report.Final["tank_volume"])
}

func TestRunWritesFiles(t *testing.T) {
	dir := t.TempDir()
	svg := filepath.Join(dir, "tank.svg")
	csv := filepath.Join(dir, "tank.csv")

	_, _, err := execute(t, "run", "tank", "--svg", svg, "--csv", csv)
	require.NoError(t, err)

	data, err := os.ReadFile(svg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	data, err = os.ReadFile(csv)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "step,time,tank_volume\n"))
}

func TestStepOverrides(t *testing.T) {
	t.Setenv("BOXSIM_STEPS", "5")

	out, _, err := execute(t, "run", "tank", "--csv", "-", "--series", "tank_volume")
	require.NoError(t, err)
	lines := csvLines(t, out)
	assert.Len(t, lines, 7)
	assert.Equal(t, "75", lines[len(lines)-1])

	out, _, err = execute(t, "run", "tank", "--csv", "-", "--series", "tank_volume", "--steps", "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"tank_volume", "100", "95", "90"}, csvLines(t, out))
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps: 1\nstep_length: 2\n"), 0644))

	out, _, err := execute(t, "--config", path, "run", "tank", "--csv", "-", "--series", "tank_volume")
	require.NoError(t, err)
	assert.Equal(t, []string{"tank_volume", "100", "90"}, csvLines(t, out))

	_, _, err = execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "check", "tank")
	assert.ErrorContains(t, err, "failed to load config")
}

func TestRunModelFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leak.yaml")
	model := `name: leak
steps: 4
step_length: 0.5
boxes:
  bucket: {water: 8}
processes:
  - box: bucket
    label: leak
    target: water
    expr: "0.5 * w"
    args: [bucket_water]
    sign: minus
`
	require.NoError(t, os.WriteFile(path, []byte(model), 0644))

	_, _, err := execute(t, "run", path, "--csv", "-", "--series", "bucket_water")
	assert.ErrorContains(t, err, `process "leak"`)

	model = strings.Replace(model, `"0.5 * w"`, `"0.5 * bucket_water"`, 1)
	require.NoError(t, os.WriteFile(path, []byte(model), 0644))

	out, _, err := execute(t, "run", path, "--csv", "-", "--series", "bucket_water")
	require.NoError(t, err)
	assert.Equal(t, []string{"bucket_water", "8", "6", "4.5", "3.375", "2.53125"}, csvLines(t, out))
}

func TestSweepCommand(t *testing.T) {
	out, _, err := execute(t, "sweep", "tank",
		"--param", "tank_volume=10,50,30",
		"--metric", "final:tank_volume",
		"--max", "--top", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "tank_volume")
	assert.Contains(t, lines[0], "final")
	assert.Equal(t, []string{"1", "50", "35"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2", "30", "15"}, strings.Fields(lines[2]))

	_, _, err = execute(t, "sweep", "tank", "--param", "nope=1,2", "--metric", "final:tank_volume")
	assert.Error(t, err)
}

func TestAnalyzeCommand(t *testing.T) {
	out, _, err := execute(t, "analyze", "predator_prey", "--phase", "prey_n,predator_n", "--width", "30", "--height", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "SPECTRAL PERIOD")
	assert.Contains(t, out, "prey_n")
	assert.Contains(t, out, "PHASE")

	out, _, err = execute(t, "analyze", "tank", "--series", "tank_volume")
	require.NoError(t, err)
	assert.Contains(t, out, "tank_volume")

	_, _, err = execute(t, "analyze", "tank", "--phase", "tank_volume")
	assert.ErrorContains(t, err, "two series")

	_, _, err = execute(t, "analyze", "tank", "--series", "missing")
	assert.ErrorContains(t, err, "unknown series")
}
