package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for plots, summaries and the live view.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	// Series colors are hex strings so SVG export can reuse them.
	Series []string
}

var (
	ThemeDark = Theme{
		Name:    "dark",
		Primary: lipgloss.Color("#00ccff"),
		Accent:  lipgloss.Color("#ff00ff"),
		Text:    lipgloss.Color("#e0e0e0"),
		Muted:   lipgloss.Color("#666688"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff4444"),
		Series:  []string{"#00ccff", "#ff00ff", "#00ff88", "#ffcc00", "#ff6b6b", "#88aaff"},
	}

	ThemeLight = Theme{
		Name:    "light",
		Primary: lipgloss.Color("#0055aa"),
		Accent:  lipgloss.Color("#aa0077"),
		Text:    lipgloss.Color("#202020"),
		Muted:   lipgloss.Color("#888888"),
		Warning: lipgloss.Color("#aa6600"),
		Error:   lipgloss.Color("#cc0000"),
		Series:  []string{"#0055aa", "#aa0077", "#008844", "#aa6600", "#cc3333", "#5555cc"},
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#0077be"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff4444"),
		Series:  []string{"#00a8cc", "#ffd700", "#00ff88", "#e0f0ff", "#ff8866", "#4488aa"},
	}

	ThemeRetro = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0000"),
		Series:  []string{"#00ff00", "#88ff88", "#00cc00", "#ccff66", "#66cc66", "#33aa33"},
	}

	Themes = []Theme{ThemeDark, ThemeLight, ThemeOcean, ThemeRetro}
)

// GetTheme returns a theme by name, falling back to dark.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDark
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Next returns the theme after t in Themes, wrapping around.
func (t Theme) Next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// SeriesColor picks the color for the i-th series.
func (t Theme) SeriesColor(i int) string {
	if len(t.Series) == 0 {
		return string(t.Primary)
	}
	return t.Series[i%len(t.Series)]
}
