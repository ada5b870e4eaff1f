package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/boxsim/internal/boxmodel"
)

const (
	bufferCapacity  = 600
	maxStepsPerTick = 1024
	DefaultInterval = 50 * time.Millisecond
)

type TickMsg time.Time

// Live steps a model on a timer and charts one series at a time.
type Live struct {
	name         string
	model        *boxmodel.Model
	keys         []string
	buffers      map[string][]float64
	selected     int
	running      bool
	done         bool
	err          error
	stepsPerTick int
	interval     time.Duration
	theme        Theme
	styles       Styles
}

func NewLive(name string, m *boxmodel.Model, theme Theme, interval time.Duration) Live {
	if interval <= 0 {
		interval = DefaultInterval
	}
	var keys []string
	for _, k := range m.Registry().Keys() {
		if k != boxmodel.KeyStep && k != boxmodel.KeyTime {
			keys = append(keys, k)
		}
	}
	l := Live{
		name:         name,
		model:        m,
		keys:         keys,
		buffers:      make(map[string][]float64, len(keys)),
		running:      true,
		stepsPerTick: 1,
		interval:     interval,
		theme:        theme,
		styles:       NewStyles(theme),
	}
	l.sample()
	return l
}

func (l Live) tick() tea.Cmd {
	return tea.Tick(l.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (l Live) Init() tea.Cmd { return l.tick() }

// Update handles input events and steps the model.
func (l Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return l, tea.Quit
		case " ":
			l.running = !l.running
		case "tab":
			if len(l.keys) > 0 {
				l.selected = (l.selected + 1) % len(l.keys)
			}
		case "+", "=":
			l.stepsPerTick = min(l.stepsPerTick*2, maxStepsPerTick)
		case "-", "_":
			l.stepsPerTick = max(l.stepsPerTick/2, 1)
		case "t":
			l.theme = l.theme.Next()
			l.styles = NewStyles(l.theme)
		}
	case TickMsg:
		if l.done {
			return l, nil
		}
		if l.running {
			l.advance()
		}
		if l.done {
			return l, nil
		}
		return l, l.tick()
	}
	return l, nil
}

func (l *Live) advance() {
	for i := 0; i < l.stepsPerTick; i++ {
		if l.model.Step() >= l.model.TotalSteps() {
			l.model.Finish()
			l.done = true
			return
		}
		if err := l.model.DoStep(); err != nil {
			l.err = err
			l.done = true
			return
		}
		l.sample()
	}
	if l.model.Step() >= l.model.TotalSteps() {
		l.model.Finish()
		l.done = true
	}
}

func (l *Live) sample() {
	for _, k := range l.keys {
		v, _ := l.model.Get(k)
		buf := append(l.buffers[k], v)
		if len(buf) > bufferCapacity {
			buf = buf[len(buf)-bufferCapacity:]
		}
		l.buffers[k] = buf
	}
}

func (l Live) Model() *boxmodel.Model { return l.model }
func (l Live) Done() bool             { return l.done }
func (l Live) Err() error             { return l.err }

// View renders the chart, current values and key hints.
func (l Live) View() string {
	st := l.styles
	var s strings.Builder

	status := "RUNNING"
	switch {
	case l.err != nil:
		status = st.Error.Render("FAILED")
	case l.done:
		status = "DONE"
	case !l.running:
		status = st.Warning.Render("PAUSED")
	}
	s.WriteString(st.Header.Render(strings.ToUpper(l.name)) + "\n")

	total := l.model.TotalSteps()
	frac := 0.0
	if total > 0 {
		frac = float64(l.model.Step()) / float64(total)
	}
	s.WriteString(fmt.Sprintf("%s  step %d/%d  t=%.3f  x%d\n", status, l.model.Step(), total, l.model.Time(), l.stepsPerTick))
	s.WriteString(st.Label.Render(ProgressBar(frac, 40)) + "\n")

	var chart string
	if len(l.keys) > 0 {
		key := l.keys[l.selected]
		buf := l.buffers[key]
		if len(buf) > 1 {
			chart = st.Graph.Render(plotSeries(key, buf, "", PlotOptions{Width: 60, Height: 10}))
		}
	}

	var vals strings.Builder
	for i, k := range l.keys {
		v, _ := l.model.Get(k)
		marker := "  "
		if i == l.selected {
			marker = "> "
		}
		line := fmt.Sprintf("%s%-18s %12.4g  ", marker, k, v)
		vals.WriteString(st.Value.Render(line) + st.Label.Render(Sparkline(l.buffers[k], 20)) + "\n")
	}

	s.WriteString(lipgloss.JoinVertical(lipgloss.Left, chart, vals.String()))
	if l.err != nil {
		s.WriteString("\n" + st.Error.Render(l.err.Error()) + "\n")
	}
	s.WriteString(st.Muted.Render("\nSPACE:Pause TAB:Series +/-:Speed T:Theme Q:Quit"))
	return s.String()
}

// RunLive runs the viewer until the user quits and returns the final state.
func RunLive(l Live) (Live, error) {
	final, err := tea.NewProgram(l, tea.WithAltScreen()).Run()
	if err != nil {
		return l, err
	}
	return final.(Live), nil
}
