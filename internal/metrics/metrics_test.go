package metrics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/boxsim/internal/boxmodel"
)

func registry(t *testing.T, kv ...any) *boxmodel.Registry {
	t.Helper()
	reg := boxmodel.NewRegistry()
	for i := 0; i+1 < len(kv); i += 2 {
		if err := reg.Register(kv[i].(string), boxmodel.NewFloat(kv[i+1].(float64))); err != nil {
			t.Fatal(err)
		}
	}
	return reg
}

func TestMassBalance(t *testing.T) {
	reg := registry(t, "a", 60.0, "b", 40.0)
	m := NewMassBalance("a", "b")

	m.Observe(0, 0, reg)
	_ = reg.Set("a", 50)
	_ = reg.Set("b", 50)
	m.Observe(1, 1, reg)
	if m.Value() != 0 {
		t.Errorf("expected zero drift for a conserved transfer, got %f", m.Value())
	}

	_ = reg.Set("b", 60)
	m.Observe(2, 2, reg)
	if math.Abs(m.Value()-0.1) > 1e-12 {
		t.Errorf("expected drift 0.1, got %f", m.Value())
	}

	_ = reg.Set("b", 50)
	m.Observe(3, 3, reg)
	if math.Abs(m.Value()-0.1) > 1e-12 {
		t.Errorf("max drift should persist, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestMassBalanceZeroInitial(t *testing.T) {
	reg := registry(t, "a", 0.0)
	m := NewMassBalance("a")
	m.Observe(0, 0, reg)
	_ = reg.Set("a", 2)
	m.Observe(1, 1, reg)
	if m.Value() != 2 {
		t.Errorf("expected absolute drift 2, got %f", m.Value())
	}
}

func TestSeriesMetrics(t *testing.T) {
	values := []float64{3, -1, 4, 1, 5}
	reg := registry(t, "x", values[0])

	peak, trough, mean := NewPeak("x"), NewTrough("x"), NewMean("x")
	variation, final := NewVariation("x"), NewFinal("x")
	all := []boxmodel.Metric{peak, trough, mean, variation, final}

	for i, v := range values {
		_ = reg.Set("x", v)
		for _, m := range all {
			m.Observe(i, float64(i), reg)
		}
	}

	tests := []struct {
		metric boxmodel.Metric
		want   float64
	}{
		{peak, 5},
		{trough, -1},
		{mean, 2.4},
		{variation, 4 + 5 + 3 + 4},
		{final, 5},
	}
	for _, tt := range tests {
		if math.Abs(tt.metric.Value()-tt.want) > 1e-12 {
			t.Errorf("%s: expected %f, got %f", tt.metric.Name(), tt.want, tt.metric.Value())
		}
	}

	for _, m := range all {
		m.Reset()
		if m.Value() != 0 {
			t.Errorf("%s: expected 0 after reset, got %f", m.Name(), m.Value())
		}
	}
}

func TestPeakNegativeSeries(t *testing.T) {
	reg := registry(t, "x", -5.0)
	p := NewPeak("x")
	p.Observe(0, 0, reg)
	_ = reg.Set("x", -3)
	p.Observe(1, 1, reg)
	if p.Value() != -3 {
		t.Errorf("expected -3, got %f", p.Value())
	}
}

func TestStability(t *testing.T) {
	reg := registry(t, "x", 1.0, "y", 500.0)

	s := NewStability(10, "x")
	all := NewStability(10)
	for _, v := range []float64{1, 20, 5, math.NaN()} {
		_ = reg.Set("x", v)
		s.Observe(0, 0, reg)
		all.Observe(0, 0, reg)
	}

	if s.Value() != 0.5 {
		t.Errorf("expected stability 0.5, got %f", s.Value())
	}
	if all.Value() != 0 {
		t.Errorf("y is always out of bounds, expected 0, got %f", all.Value())
	}
}

func TestFinite(t *testing.T) {
	reg := registry(t, "x", 1.0)
	f := NewFinite()

	for i, v := range []float64{1, 2, math.Inf(1), math.NaN()} {
		_ = reg.Set("x", v)
		f.Observe(i, float64(i), reg)
	}

	if f.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", f.Value())
	}
	if f.FirstNonFinite() != 2 {
		t.Errorf("expected first non-finite step 2, got %d", f.FirstNonFinite())
	}

	f.Reset()
	if f.Value() != 1 || f.FirstNonFinite() != -1 {
		t.Error("reset did not clear state")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		wantErr bool
	}{
		{"peak:prey_n", "peak", false},
		{"mass_balance:a, b ,c", "mass_balance", false},
		{"finite", "finite", false},
		{"final:x", "final", false},
		{"peak", "", true},
		{"peak:a,b", "", true},
		{"finite:x", "", true},
		{"entropy:x", "", true},
	}

	for _, tt := range tests {
		m, err := Parse(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if m.Name() != tt.name {
			t.Errorf("%q: expected %s, got %s", tt.in, tt.name, m.Name())
		}
	}

	m, _ := Parse("mass_balance:a, b ,c")
	keys := m.(Keyed).Keys()
	if len(keys) != 3 || keys[1] != "b" {
		t.Errorf("unexpected keys %v", keys)
	}
}

func TestCheck(t *testing.T) {
	reg := registry(t, "a", 1.0)

	if err := Check(NewPeak("a"), reg); err != nil {
		t.Error(err)
	}
	if err := Check(NewFinite(), reg); err != nil {
		t.Error(err)
	}
	if err := Check(NewMassBalance("a", "b"), reg); !errors.Is(err, boxmodel.ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}
}

func TestMetricsInModelRun(t *testing.T) {
	m := boxmodel.New(boxmodel.WithStepPair(4, 1))
	if _, err := m.AddBox("tank", boxmodel.Attr("volume", 100)); err != nil {
		t.Fatal(err)
	}
	drain := boxmodel.FluxFunc(func(...float64) float64 { return 5 })
	if err := m.AddProcess("tank", "out", "volume", drain, nil, boxmodel.Minus); err != nil {
		t.Fatal(err)
	}

	m.AddMetric(NewTrough("tank_volume"))
	m.AddMetric(NewMassBalance("tank_volume"))
	m.AddMetric(NewFinite())

	if _, err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := m.Metrics()
	if got["trough"] != 80 {
		t.Errorf("expected trough 80, got %f", got["trough"])
	}
	if math.Abs(got["mass_balance"]-0.2) > 1e-12 {
		t.Errorf("expected drift 0.2, got %f", got["mass_balance"])
	}
	if got["finite"] != 1 {
		t.Errorf("expected finite 1, got %f", got["finite"])
	}
}

func TestPeakAcrossRepeatedRuns(t *testing.T) {
	m := boxmodel.New(boxmodel.WithStepPair(3, 1))
	if _, err := m.AddBox("tank", boxmodel.Attr("volume", 100)); err != nil {
		t.Fatal(err)
	}
	drain := boxmodel.FluxFunc(func(...float64) float64 { return 5 })
	if err := m.AddProcess("tank", "out", "volume", drain, nil, boxmodel.Minus); err != nil {
		t.Fatal(err)
	}
	m.AddMetric(NewPeak("tank_volume"))

	if err := m.DoStep(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := m.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		if got := m.Metrics()["peak"]; got != 100 {
			t.Errorf("run %d: expected peak 100, got %v", i+1, got)
		}
	}
}
