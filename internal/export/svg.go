package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/boxsim/internal/boxmodel"
)

// SVGOptions controls the chart. Colors cycle over the listed series.
type SVGOptions struct {
	Width      int
	Height     int
	Background string
	Colors     []string
	Title      string
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:      800,
		Height:     400,
		Background: "#0a0a0a",
		Colors:     []string{"#00ccff", "#ff00ff", "#00ff88", "#ffcc00", "#ff6b6b", "#88aaff"},
	}
}

// HistoryToSVG plots the given series against time as polylines sharing
// one y axis, with a legend. With no keys every variable is drawn.
// Non-finite points break the line.
func HistoryToSVG(h *boxmodel.History, keys []string, opts SVGOptions) (string, error) {
	if h.Len() < 2 {
		return "", fmt.Errorf("need at least two history entries, got %d", h.Len())
	}
	if len(keys) == 0 {
		keys = h.Variables()
	}
	if len(opts.Colors) == 0 {
		opts.Colors = DefaultSVGOptions().Colors
	}
	times, _ := h.Series(boxmodel.KeyTime)

	series := make([][]float64, len(keys))
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, k := range keys {
		s, ok := h.Series(k)
		if !ok {
			return "", fmt.Errorf("%w: %q", boxmodel.ErrUnknownKey, k)
		}
		series[i] = s
		for _, v := range s {
			if finite(v) {
				minY = math.Min(minY, v)
				maxY = math.Max(maxY, v)
			}
		}
	}
	if math.IsInf(minY, 1) {
		return "", fmt.Errorf("no finite values to plot")
	}

	minX, maxX := times[0], times[len(times)-1]
	rangeX := maxX - minX
	if rangeX == 0 {
		rangeX = 1
	}
	// y bounds are halved to keep the span finite near the float64 limit
	lo, hi := minY/2, maxY/2
	spanY := hi - lo
	if spanY == 0 {
		spanY = 0.5
	}
	lo -= spanY * 0.1
	hi += spanY * 0.1
	spanY = hi - lo

	w, hgt := float64(opts.Width), float64(opts.Height)
	px := func(t float64) float64 { return (t - minX) / rangeX * w }
	py := func(v float64) float64 { return hgt - (v/2-lo)/spanY*hgt }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, opts.Width, opts.Height, opts.Width, opts.Height, opts.Background))

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="10" y="20" fill="#cccccc" font-family="monospace" font-size="14">%s</text>
`, escape(opts.Title)))
	}

	for i, s := range series {
		color := opts.Colors[i%len(opts.Colors)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, color))
		pen := false
		for j, v := range s {
			if !finite(v) {
				pen = false
				continue
			}
			cmd := "L"
			if !pen {
				cmd = "M"
				pen = true
			}
			if j > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(fmt.Sprintf("%s%.1f,%.1f", cmd, px(times[j]), py(v)))
		}
		sb.WriteString(`"/>
`)
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, opts.Width-160, 20+16*(i+1), color, escape(keys[i])))
	}

	sb.WriteString("</svg>")
	return sb.String(), nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
