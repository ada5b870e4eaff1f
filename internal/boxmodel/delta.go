package boxmodel

// Delta accumulates the rates of change of one box during a step. It holds
// one zeroed cell per box attribute and a scaling factor, the step length,
// applied once when the delta is applied.
type Delta struct {
	keys          []string
	rates         map[string]*Float
	scalingFactor float64
}

// NewDelta returns a zero delta shaped after b.
func NewDelta(b *Box, stepLength float64) *Delta {
	d := &Delta{
		keys:          b.Keys(),
		rates:         make(map[string]*Float, len(b.keys)),
		scalingFactor: stepLength,
	}
	for _, k := range d.keys {
		d.rates[k] = NewFloat(0.0)
	}
	return d
}

func (d *Delta) ScalingFactor() float64 { return d.scalingFactor }

// Keys returns a copy of the attribute names, in box order.
func (d *Delta) Keys() []string {
	keys := make([]string, len(d.keys))
	copy(keys, d.keys)
	return keys
}

// Get returns the accumulated, unscaled rate for key.
func (d *Delta) Get(key string) float64 {
	if r, ok := d.rates[key]; ok {
		return r.Get()
	}
	return 0
}

// Add accumulates v into the rate for key.
func (d *Delta) Add(key string, v float64) error {
	r, ok := d.rates[key]
	if !ok {
		return ErrUnknownAttribute
	}
	r.Add(v)
	return nil
}

// Scale multiplies the rate for key by v.
func (d *Delta) Scale(key string, v float64) {
	if r, ok := d.rates[key]; ok {
		r.Mult(v)
	}
}

// GetDelta returns the rate for key scaled by the step length.
func (d *Delta) GetDelta(key string) float64 {
	return d.Get(key) * d.scalingFactor
}
