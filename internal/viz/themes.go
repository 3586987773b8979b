package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme of the watch view.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Running lipgloss.Color
	Paused  lipgloss.Color
	Rewind  lipgloss.Color
	Sun     lipgloss.Color
}

var Themes = []Theme{
	{
		Name:    "deep-space",
		Primary: lipgloss.Color("#7aa2f7"),
		Accent:  lipgloss.Color("#e0af68"),
		Text:    lipgloss.Color("#c0caf5"),
		Muted:   lipgloss.Color("#565f89"),
		Running: lipgloss.Color("#9ece6a"),
		Paused:  lipgloss.Color("#e0af68"),
		Rewind:  lipgloss.Color("#bb9af7"),
		Sun:     lipgloss.Color("#ffcc33"),
	},
	{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"), // green phosphor
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Running: lipgloss.Color("#88ff88"),
		Paused:  lipgloss.Color("#ffff00"),
		Rewind:  lipgloss.Color("#00cc00"),
		Sun:     lipgloss.Color("#ccff66"),
	},
	{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Running: lipgloss.Color("#00ff00"),
		Paused:  lipgloss.Color("#ffaa00"),
		Rewind:  lipgloss.Color("#ff00ff"),
		Sun:     lipgloss.Color("#ffffff"),
	},
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
