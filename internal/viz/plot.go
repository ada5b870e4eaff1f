package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/boxsim/internal/boxmodel"
)

const (
	DefaultWidth  = 70
	DefaultHeight = 12
)

// PlotOptions controls chart size. Zero values use the defaults.
type PlotOptions struct {
	Width  int
	Height int
}

// Plot draws one chart per key, one column per recorded step, captioned
// with the key, its maximum, its last value and the time span covered.
// With no keys every variable except step and time is plotted.
func Plot(h *boxmodel.History, keys []string, opts PlotOptions) (string, error) {
	if h == nil || h.Len() == 0 {
		return "", fmt.Errorf("no history to plot")
	}
	if len(keys) == 0 {
		keys = h.Variables()
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	span := ""
	if times, ok := h.Series(boxmodel.KeyTime); ok {
		span = fmt.Sprintf("t %g..%g", times[0], times[len(times)-1])
	}

	var b strings.Builder
	for _, key := range keys {
		series, ok := h.Series(key)
		if !ok {
			return "", fmt.Errorf("%w: %q", boxmodel.ErrUnknownKey, key)
		}
		b.WriteString(plotSeries(key, series, span, opts))
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

func plotSeries(key string, series []float64, span string, opts PlotOptions) string {
	data := make([]float64, len(series))
	hasFinite := false
	for i, v := range series {
		if finite(v) {
			hasFinite = true
			data[i] = v
		} else {
			data[i] = math.NaN()
		}
	}
	if !hasFinite {
		return fmt.Sprintf("%s: no finite values", key)
	}

	return asciigraph.Plot(data,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption(Legend(key, series), span)),
	)
}

func caption(legend, span string) string {
	if span == "" {
		return legend
	}
	return legend + ", " + span
}

// Legend formats "key (max: M; last: L)" for a series. NaN entries are
// skipped for the maximum, which is NaN when nothing else was recorded.
func Legend(key string, series []float64) string {
	if len(series) == 0 {
		return key
	}
	peak, seen := math.NaN(), false
	for _, v := range series {
		if math.IsNaN(v) {
			continue
		}
		if !seen || v > peak {
			peak, seen = v, true
		}
	}
	return fmt.Sprintf("%s (max: %.2f; last: %.2f)", key, peak, series[len(series)-1])
}
