package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/boxsim/internal/boxmodel"
)

// Spectrum is the one-sided power spectrum of an evenly sampled series.
// Power[i] belongs to frequency i*Resolution.
type Spectrum struct {
	Power      []float64
	Resolution float64
}

// NewSpectrum transforms series sampled every dt. The mean is removed
// first so that bin 0 carries no offset.
func NewSpectrum(series []float64, dt float64) (*Spectrum, error) {
	n := len(series)
	if n < 4 {
		return nil, fmt.Errorf("need at least 4 samples, got %d", n)
	}
	if dt <= 0 {
		return nil, fmt.Errorf("sample spacing must be positive, got %g", dt)
	}

	mean := 0.0
	for _, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("series holds non-finite values")
		}
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	out := fft.FFTReal(centered)
	power := make([]float64, n/2+1)
	for i := range power {
		a := cmplx.Abs(out[i])
		power[i] = a * a / float64(n)
	}
	return &Spectrum{Power: power, Resolution: 1 / (float64(n) * dt)}, nil
}

// Peak returns the frequency of the strongest non-zero bin and its power.
func (s *Spectrum) Peak() (float64, float64) {
	best := 0
	for i := 1; i < len(s.Power); i++ {
		if best == 0 || s.Power[i] > s.Power[best] {
			best = i
		}
	}
	return float64(best) * s.Resolution, s.Power[best]
}

// HistorySpectrum transforms the named history series using the model's
// time spacing.
func HistorySpectrum(h *boxmodel.History, key string) (*Spectrum, error) {
	series, ok := h.Series(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", boxmodel.ErrUnknownKey, key)
	}
	dt, err := spacing(h)
	if err != nil {
		return nil, err
	}
	return NewSpectrum(series, dt)
}

// DominantPeriod is the period of the strongest oscillation in a series.
// A flat series has no period and yields an error.
func DominantPeriod(h *boxmodel.History, key string) (float64, error) {
	s, err := HistorySpectrum(h, key)
	if err != nil {
		return 0, err
	}
	freq, power := s.Peak()
	if freq == 0 || power < 1e-12 {
		return 0, fmt.Errorf("%s does not oscillate", key)
	}
	return 1 / freq, nil
}

func spacing(h *boxmodel.History) (float64, error) {
	times, _ := h.Series(boxmodel.KeyTime)
	if len(times) < 2 {
		return 0, fmt.Errorf("need at least two history entries, got %d", len(times))
	}
	return times[1] - times[0], nil
}

// Crossings returns the interpolated times at which key rises through
// threshold.
func Crossings(h *boxmodel.History, key string, threshold float64) ([]float64, error) {
	series, ok := h.Series(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", boxmodel.ErrUnknownKey, key)
	}
	times, _ := h.Series(boxmodel.KeyTime)

	var out []float64
	for i := 1; i < len(series); i++ {
		prev, curr := series[i-1], series[i]
		if prev < threshold && curr >= threshold {
			frac := (threshold - prev) / (curr - prev)
			out = append(out, times[i-1]+frac*(times[i]-times[i-1]))
		}
	}
	return out, nil
}

// CrossingPeriod averages the spacing between rising crossings of the
// series mean. It needs at least two crossings.
func CrossingPeriod(h *boxmodel.History, key string) (float64, error) {
	series, ok := h.Series(key)
	if !ok {
		return 0, fmt.Errorf("%w: %q", boxmodel.ErrUnknownKey, key)
	}
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	cross, err := Crossings(h, key, mean)
	if err != nil {
		return 0, err
	}
	if len(cross) < 2 {
		return 0, fmt.Errorf("%s crosses its mean %d times", key, len(cross))
	}
	return (cross[len(cross)-1] - cross[0]) / float64(len(cross)-1), nil
}
