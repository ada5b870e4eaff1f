package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/boxsim/internal/boxmodel"
)

type Point struct{ X, Y float64 }

// PhasePortrait pairs two series entry by entry.
type PhasePortrait struct {
	XKey, YKey string
	Points     []Point
}

// NewPhasePortrait reads the two series from a recorded run. Entries where
// either value is not finite are dropped.
func NewPhasePortrait(h *boxmodel.History, xKey, yKey string) (*PhasePortrait, error) {
	xs, ok := h.Series(xKey)
	if !ok {
		return nil, fmt.Errorf("%w: %q", boxmodel.ErrUnknownKey, xKey)
	}
	ys, ok := h.Series(yKey)
	if !ok {
		return nil, fmt.Errorf("%w: %q", boxmodel.ErrUnknownKey, yKey)
	}

	p := &PhasePortrait{XKey: xKey, YKey: yKey, Points: make([]Point, 0, len(xs))}
	for i := range xs {
		if finite(xs[i]) && finite(ys[i]) {
			p.Points = append(p.Points, Point{X: xs[i], Y: ys[i]})
		}
	}
	return p, nil
}

// ASCII draws the trajectory on a width x height character grid. The
// first point is marked 'o' and the last '*'.
func (p *PhasePortrait) ASCII(width, height int) string {
	if len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	// halved to keep spans finite near the float64 limit
	spanX := maxX/2 - minX/2
	spanY := maxY/2 - minY/2
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	cell := func(pt Point) (int, int) {
		col := scale(pt.X, minX, spanX, width)
		row := height - 1 - scale(pt.Y, minY, spanY, height)
		return clamp(row, height), clamp(col, width)
	}
	for _, pt := range p.Points {
		row, col := cell(pt)
		canvas[row][col] = '•'
	}
	row, col := cell(p.Points[0])
	canvas[row][col] = 'o'
	row, col = cell(p.Points[len(p.Points)-1])
	canvas[row][col] = '*'

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%.4g, %.4g]\n", p.YKey, minY, maxY)
	for _, r := range canvas {
		sb.WriteString("│")
		sb.WriteString(string(r))
		sb.WriteRune('\n')
	}
	sb.WriteString("└" + strings.Repeat("─", width) + "\n")
	fmt.Fprintf(&sb, " %s [%.4g, %.4g]\n", p.XKey, minX, maxX)
	return sb.String()
}

func scale(v, lo, span float64, n int) int {
	return int((v/2 - lo/2) / span * float64(n-1))
}

func clamp(i, n int) int {
	return max(0, min(i, n-1))
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
