package analysis

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/boxsim/internal/boxmodel"
)

func identity() boxmodel.FluxFunc {
	return func(args ...float64) float64 { return args[0] }
}

// oscillator integrates pos'' = -pos with period 2π.
func oscillator(t *testing.T, steps int, dt float64) *boxmodel.History {
	t.Helper()
	m := boxmodel.New(boxmodel.WithStepPair(steps, dt))
	if _, err := m.AddBox("osc", boxmodel.Attr("pos", 1), boxmodel.Attr("vel", 0)); err != nil {
		t.Fatal(err)
	}
	pos, _ := m.Ref("osc_pos")
	vel, _ := m.Ref("osc_vel")
	if err := m.AddProcess("osc", "drift", "pos", identity(), []boxmodel.Cell{vel}, boxmodel.Plus); err != nil {
		t.Fatal(err)
	}
	if err := m.AddProcess("osc", "spring", "vel", identity(), []boxmodel.Cell{pos}, boxmodel.Minus); err != nil {
		t.Fatal(err)
	}
	h, err := m.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestDominantPeriod(t *testing.T) {
	h := oscillator(t, 10000, 0.01)

	period, err := DominantPeriod(h, "osc_pos")
	if err != nil {
		t.Fatal(err)
	}
	want := 2 * math.Pi
	if math.Abs(period-want)/want > 0.05 {
		t.Errorf("expected period near %.3f, got %.3f", want, period)
	}
}

func TestCrossingPeriod(t *testing.T) {
	h := oscillator(t, 10000, 0.01)

	period, err := CrossingPeriod(h, "osc_pos")
	if err != nil {
		t.Fatal(err)
	}
	want := 2 * math.Pi
	if math.Abs(period-want) > 0.05 {
		t.Errorf("expected period near %.3f, got %.3f", want, period)
	}

	cross, _ := Crossings(h, "osc_pos", 0)
	if len(cross) < 14 || len(cross) > 17 {
		t.Errorf("expected about 16 rising zero crossings in t=100, got %d", len(cross))
	}
}

func TestFlatSeriesHasNoPeriod(t *testing.T) {
	m := boxmodel.New(boxmodel.WithStepPair(64, 1))
	if _, err := m.AddBox("still", boxmodel.Attr("x", 3)); err != nil {
		t.Fatal(err)
	}
	h, err := m.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := DominantPeriod(h, "still_x"); err == nil {
		t.Error("expected error for a flat series")
	}
	if _, err := CrossingPeriod(h, "still_x"); err == nil {
		t.Error("expected error for a flat series")
	}
	if _, err := DominantPeriod(h, "missing"); !errors.Is(err, boxmodel.ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}
}

func TestNewSpectrum(t *testing.T) {
	n := 200
	series := make([]float64, n)
	for i := range series {
		series[i] = 5 + math.Sin(2*math.Pi*float64(i)/20)
	}

	s, err := NewSpectrum(series, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if s.Resolution != 0.01 {
		t.Errorf("expected resolution 0.01, got %v", s.Resolution)
	}
	if s.Power[0] > 1e-9 {
		t.Errorf("mean should be removed, bin 0 holds %v", s.Power[0])
	}
	freq, _ := s.Peak()
	if math.Abs(freq-0.1) > 1e-9 {
		t.Errorf("expected peak at 0.1, got %v", freq)
	}

	tests := []struct {
		name   string
		series []float64
		dt     float64
	}{
		{"too short", []float64{1, 2, 3}, 1},
		{"bad spacing", []float64{1, 2, 3, 4}, 0},
		{"nan", []float64{1, math.NaN(), 3, 4}, 1},
	}
	for _, tt := range tests {
		if _, err := NewSpectrum(tt.series, tt.dt); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestPhasePortrait(t *testing.T) {
	h := oscillator(t, 700, 0.01)

	p, err := NewPhasePortrait(h, "osc_pos", "osc_vel")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Points) != h.Len() {
		t.Errorf("expected %d points, got %d", h.Len(), len(p.Points))
	}
	if p.Points[0] != (Point{X: 1, Y: 0}) {
		t.Errorf("unexpected first point %+v", p.Points[0])
	}

	art := p.ASCII(40, 12)
	if !strings.Contains(art, "o") || !strings.Contains(art, "*") {
		t.Error("expected start and end markers")
	}
	if !strings.Contains(art, "osc_vel") || !strings.Contains(art, "osc_pos") {
		t.Error("expected axis labels")
	}
	if lines := strings.Split(strings.TrimRight(art, "\n"), "\n"); len(lines) != 12+3 {
		t.Errorf("expected 15 lines, got %d", len(lines))
	}

	if _, err := NewPhasePortrait(h, "osc_pos", "missing"); !errors.Is(err, boxmodel.ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}
}

func TestPhasePortraitExtremeRange(t *testing.T) {
	points := []Point{
		{X: -1e308, Y: 1e308},
		{X: 0, Y: 0},
		{X: 1e308, Y: -1e308},
	}
	p := &PhasePortrait{XKey: "x", YKey: "y", Points: points}

	art := p.ASCII(20, 6)
	lines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	if len(lines) != 6+3 {
		t.Fatalf("expected 9 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "│o") {
		t.Errorf("expected start marker in the top left corner, got %q", lines[1])
	}
	if !strings.HasSuffix(lines[6], "*") {
		t.Errorf("expected end marker in the bottom right corner, got %q", lines[6])
	}
}
