package metrics

import (
	"math"

	"github.com/san-kum/boxsim/internal/boxmodel"
)

// MassBalance tracks the largest relative drift of the summed keys from
// their first observed total. With a zero initial total the drift is
// absolute.
type MassBalance struct {
	name     string
	keys     []string
	initial  float64
	maxDrift float64
	samples  int
}

func NewMassBalance(keys ...string) *MassBalance {
	return &MassBalance{
		name: "mass_balance",
		keys: keys,
	}
}

func (m *MassBalance) Name() string   { return m.name }
func (m *MassBalance) Keys() []string { return m.keys }

func (m *MassBalance) Observe(_ int, _ float64, reg *boxmodel.Registry) {
	sum := total(reg, m.keys)
	if m.samples == 0 {
		m.initial = sum
	}
	m.samples++

	drift := math.Abs(sum - m.initial)
	if m.initial != 0 {
		drift /= math.Abs(m.initial)
	}
	if math.IsNaN(drift) || drift > m.maxDrift {
		m.maxDrift = drift
	}
}

func (m *MassBalance) Value() float64 {
	return m.maxDrift
}

func (m *MassBalance) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}
