package boxmodel

import "math"

// History is the recorded output of a model: one series per registry key,
// in registry order. Entry i of every series is the state at step i.
type History struct {
	keys   []string
	series map[string][]float64
}

func newHistory(keys []string, capacity int) *History {
	h := &History{
		keys:   keys,
		series: make(map[string][]float64, len(keys)),
	}
	for _, k := range keys {
		h.series[k] = make([]float64, 0, capacity)
	}
	return h
}

func (h *History) record(reg *Registry) {
	for _, k := range h.keys {
		v, _ := reg.Get(k)
		h.series[k] = append(h.series[k], v)
	}
}

// Keys returns the series names in registry order.
func (h *History) Keys() []string {
	keys := make([]string, len(h.keys))
	copy(keys, h.keys)
	return keys
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	if h == nil || len(h.keys) == 0 {
		return 0
	}
	return len(h.series[h.keys[0]])
}

// Series returns the recorded values for name.
func (h *History) Series(name string) ([]float64, bool) {
	s, ok := h.series[name]
	return s, ok
}

// Map returns every series keyed by name. The slices are shared.
func (h *History) Map() map[string][]float64 {
	out := make(map[string][]float64, len(h.keys))
	for _, k := range h.keys {
		out[k] = h.series[k]
	}
	return out
}

// Variables returns the keys without the driver's step and time series.
func (h *History) Variables() []string {
	vars := make([]string, 0, len(h.keys))
	for _, k := range h.keys {
		if k == KeyStep || k == KeyTime {
			continue
		}
		vars = append(vars, k)
	}
	return vars
}

// Last returns the most recent value of name.
func (h *History) Last(name string) (float64, bool) {
	s, ok := h.series[name]
	if !ok || len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1], true
}

// Max returns the largest recorded value of name. NaN entries are skipped;
// a series holding only NaN has a NaN maximum.
func (h *History) Max(name string) (float64, bool) {
	s, ok := h.series[name]
	if !ok || len(s) == 0 {
		return 0, false
	}
	best, seen := math.NaN(), false
	for _, v := range s {
		if math.IsNaN(v) {
			continue
		}
		if !seen || v > best {
			best, seen = v, true
		}
	}
	return best, true
}
