package theme

import "github.com/charmbracelet/lipgloss"

// Catppuccin flavours
// https://github.com/catppuccin/catppuccin

// Mocha is the dark flavour
var Mocha = Theme{
	Name: "mocha",
	Dark: true,

	Background: lipgloss.Color("#1E1E2E"),
	Surface:    lipgloss.Color("#181825"),
	Foreground: lipgloss.Color("#CDD6F4"),
	Subtle:     lipgloss.Color("#6C7086"),
	Highlight:  lipgloss.Color("#313244"),
	Border:     lipgloss.Color("#45475A"),

	Primary:   lipgloss.Color("#89B4FA"), // Blue
	Secondary: lipgloss.Color("#CBA6F7"), // Mauve
	Info:      lipgloss.Color("#74C7EC"), // Sapphire

	Success: lipgloss.Color("#A6E3A1"),
	Warning: lipgloss.Color("#F9E2AF"),
	Error:   lipgloss.Color("#F38BA8"),
}

// Latte is the light flavour
var Latte = Theme{
	Name: "latte",

	Background: lipgloss.Color("#EFF1F5"),
	Surface:    lipgloss.Color("#E6E9EF"),
	Foreground: lipgloss.Color("#4C4F69"),
	Subtle:     lipgloss.Color("#8C8FA1"),
	Highlight:  lipgloss.Color("#CCD0DA"),
	Border:     lipgloss.Color("#BCC0CC"),

	Primary:   lipgloss.Color("#1E66F5"), // Blue
	Secondary: lipgloss.Color("#8839EF"), // Mauve
	Info:      lipgloss.Color("#209FB5"), // Sapphire

	Success: lipgloss.Color("#40A02B"),
	Warning: lipgloss.Color("#DF8E1D"),
	Error:   lipgloss.Color("#D20F39"),
}
