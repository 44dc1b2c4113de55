package theme

import "github.com/charmbracelet/lipgloss"

// Paper and Ink follow the Material colors of the mobile app

var Paper = Theme{
	Name: "paper",

	Background: lipgloss.Color("#F5F5F5"),
	Surface:    lipgloss.Color("#FFFFFF"),
	Foreground: lipgloss.Color("#333333"),
	Subtle:     lipgloss.Color("#666666"),
	Highlight:  lipgloss.Color("#E0E0E0"),
	Border:     lipgloss.Color("#BDBDBD"),

	Primary:   lipgloss.Color("#2196F3"),
	Secondary: lipgloss.Color("#9C27B0"),
	Info:      lipgloss.Color("#03A9F4"),

	Success: lipgloss.Color("#4CAF50"),
	Warning: lipgloss.Color("#FF9800"),
	Error:   lipgloss.Color("#FF4444"),
}

var Ink = Theme{
	Name: "ink",
	Dark: true,

	Background: lipgloss.Color("#121212"),
	Surface:    lipgloss.Color("#1E1E1E"),
	Foreground: lipgloss.Color("#FFFFFF"),
	Subtle:     lipgloss.Color("#AAAAAA"),
	Highlight:  lipgloss.Color("#2C2C2C"),
	Border:     lipgloss.Color("#424242"),

	Primary:   lipgloss.Color("#64B5F6"),
	Secondary: lipgloss.Color("#CE93D8"),
	Info:      lipgloss.Color("#4FC3F7"),

	Success: lipgloss.Color("#81C784"),
	Warning: lipgloss.Color("#FFB74D"),
	Error:   lipgloss.Color("#D32F2F"),
}
