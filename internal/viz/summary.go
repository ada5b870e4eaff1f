package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/boxsim/internal/boxmodel"
)

// Summary renders the initial, final and peak value of every variable and
// the model's metrics.
func Summary(name string, m *boxmodel.Model, theme Theme) string {
	st := NewStyles(theme)
	h := m.History()

	var b strings.Builder
	b.WriteString(st.Header.Render(strings.ToUpper(name)) + "\n")
	b.WriteString(st.Label.Render(fmt.Sprintf("%d steps of %g, t = %g", m.Step(), m.StepLength(), m.Time())) + "\n\n")

	if h.Len() > 0 {
		rows := [][]string{{"key", "initial", "final", "max"}}
		for _, key := range h.Variables() {
			s, _ := h.Series(key)
			peak, _ := h.Max(key)
			rows = append(rows, []string{key, num(s[0]), num(s[len(s)-1]), num(peak)})
		}
		b.WriteString(table(rows, st))
	}

	metrics := m.Metrics()
	if len(metrics) > 0 {
		names := make([]string, 0, len(metrics))
		for n := range metrics {
			names = append(names, n)
		}
		sort.Strings(names)

		b.WriteString("\n" + st.Header.Render("METRICS") + "\n")
		for _, n := range names {
			b.WriteString(st.Label.Render(fmt.Sprintf("%-14s", n)) + st.Value.Render(num(metrics[n])) + "\n")
		}
	}
	return st.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

func table(rows [][]string, st Styles) string {
	widths := make([]int, len(rows[0]))
	for _, r := range rows {
		for i, c := range r {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}

	var b strings.Builder
	for ri, r := range rows {
		cells := make([]string, len(r))
		for i, c := range r {
			pad := fmt.Sprintf("%-*s", widths[i], c)
			if i > 0 {
				pad = fmt.Sprintf("%*s", widths[i], c)
			}
			if ri == 0 {
				cells[i] = st.Label.Render(pad)
			} else {
				cells[i] = st.Value.Render(pad)
			}
		}
		b.WriteString(strings.Join(cells, "  ") + "\n")
	}
	return b.String()
}

func num(v float64) string { return fmt.Sprintf("%.4g", v) }
