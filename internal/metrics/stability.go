package metrics

import (
	"math"

	"github.com/san-kum/boxsim/internal/boxmodel"
)

// Stability is the fraction of observed steps where every listed key stays
// within ±threshold. With no keys, all registry values are checked.
type Stability struct {
	name       string
	threshold  float64
	keys       []string
	violations int
	samples    int
}

func NewStability(threshold float64, keys ...string) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
		keys:      keys,
	}
}

func (s *Stability) Name() string   { return s.name }
func (s *Stability) Keys() []string { return s.keys }

func (s *Stability) Observe(_ int, _ float64, reg *boxmodel.Registry) {
	s.samples++
	for _, v := range values(reg, s.keys) {
		if !(math.Abs(v) <= s.threshold) {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Finite is the fraction of observed steps where every registry value is
// neither NaN nor infinite.
type Finite struct {
	name       string
	violations int
	samples    int
	firstBad   int
}

func NewFinite() *Finite {
	return &Finite{name: "finite", firstBad: -1}
}

func (f *Finite) Name() string { return f.name }

func (f *Finite) Observe(step int, _ float64, reg *boxmodel.Registry) {
	f.samples++
	for _, v := range values(reg, nil) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			f.violations++
			if f.firstBad < 0 {
				f.firstBad = step
			}
			break
		}
	}
}

func (f *Finite) Value() float64 {
	if f.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(f.violations)/float64(f.samples)
}

// FirstNonFinite returns the first step holding a NaN or infinity, or -1.
func (f *Finite) FirstNonFinite() int { return f.firstBad }

func (f *Finite) Reset() {
	f.violations = 0
	f.samples = 0
	f.firstBad = -1
}

func values(reg *boxmodel.Registry, keys []string) []float64 {
	if len(keys) == 0 {
		cells := reg.Values()
		out := make([]float64, len(cells))
		for i, c := range cells {
			out[i] = c.Get()
		}
		return out
	}
	out := make([]float64, len(keys))
	for i, k := range keys {
		out[i] = value(reg, k)
	}
	return out
}
