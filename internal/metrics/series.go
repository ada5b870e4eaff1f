package metrics

import (
	"math"

	"github.com/san-kum/boxsim/internal/boxmodel"
)

type Peak struct {
	name    string
	key     string
	max     float64
	samples int
}

func NewPeak(key string) *Peak {
	return &Peak{name: "peak", key: key}
}

func (p *Peak) Name() string   { return p.name }
func (p *Peak) Keys() []string { return []string{p.key} }

func (p *Peak) Observe(_ int, _ float64, reg *boxmodel.Registry) {
	v := value(reg, p.key)
	if p.samples == 0 || v > p.max || math.IsNaN(v) {
		p.max = v
	}
	p.samples++
}

func (p *Peak) Value() float64 { return p.max }

func (p *Peak) Reset() {
	p.max = 0
	p.samples = 0
}

type Trough struct {
	name    string
	key     string
	min     float64
	samples int
}

func NewTrough(key string) *Trough {
	return &Trough{name: "trough", key: key}
}

func (t *Trough) Name() string   { return t.name }
func (t *Trough) Keys() []string { return []string{t.key} }

func (t *Trough) Observe(_ int, _ float64, reg *boxmodel.Registry) {
	v := value(reg, t.key)
	if t.samples == 0 || v < t.min || math.IsNaN(v) {
		t.min = v
	}
	t.samples++
}

func (t *Trough) Value() float64 { return t.min }

func (t *Trough) Reset() {
	t.min = 0
	t.samples = 0
}

// Mean averages a key over all observed steps.
type Mean struct {
	name    string
	key     string
	sum     float64
	samples int
}

func NewMean(key string) *Mean {
	return &Mean{name: "mean", key: key}
}

func (m *Mean) Name() string   { return m.name }
func (m *Mean) Keys() []string { return []string{m.key} }

func (m *Mean) Observe(_ int, _ float64, reg *boxmodel.Registry) {
	m.sum += value(reg, m.key)
	m.samples++
}

func (m *Mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Mean) Reset() {
	m.sum = 0
	m.samples = 0
}

// Variation sums the absolute change of a key between observations.
type Variation struct {
	name    string
	key     string
	last    float64
	sum     float64
	samples int
}

func NewVariation(key string) *Variation {
	return &Variation{name: "variation", key: key}
}

func (v *Variation) Name() string   { return v.name }
func (v *Variation) Keys() []string { return []string{v.key} }

func (v *Variation) Observe(_ int, _ float64, reg *boxmodel.Registry) {
	x := value(reg, v.key)
	if v.samples > 0 {
		v.sum += math.Abs(x - v.last)
	}
	v.last = x
	v.samples++
}

func (v *Variation) Value() float64 { return v.sum }

func (v *Variation) Reset() {
	v.last = 0
	v.sum = 0
	v.samples = 0
}

// Final holds the last observed value of a key.
type Final struct {
	name string
	key  string
	last float64
}

func NewFinal(key string) *Final {
	return &Final{name: "final", key: key}
}

func (f *Final) Name() string   { return f.name }
func (f *Final) Keys() []string { return []string{f.key} }

func (f *Final) Observe(_ int, _ float64, reg *boxmodel.Registry) { f.last = value(reg, f.key) }
func (f *Final) Value() float64                                   { return f.last }
func (f *Final) Reset()                                           { f.last = 0 }
