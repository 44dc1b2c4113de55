package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dori/mytasks/internal/model"
)

// Theme defines the color scheme and styles for the UI
type Theme struct {
	Name string
	Dark bool

	// Base colors
	Background lipgloss.Color
	Surface    lipgloss.Color
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color
}

// Category and priority colors are the same in every theme so a task looks
// the same after a theme switch.
var (
	categoryColors = map[model.Category]lipgloss.Color{
		model.CategoryWork:     "#FF5722",
		model.CategoryPersonal: "#2196F3",
		model.CategoryShopping: "#4CAF50",
		model.CategoryHealth:   "#E91E63",
		model.CategoryOther:    "#9C27B0",
	}
	priorityColors = map[model.Priority]lipgloss.Color{
		model.PriorityLow:    "#4CAF50",
		model.PriorityMedium: "#FFC107",
		model.PriorityHigh:   "#F44336",
	}
)

// CategoryColor returns the badge color for a category
func CategoryColor(c model.Category) lipgloss.Color {
	if col, ok := categoryColors[c]; ok {
		return col
	}
	return "#607D8B"
}

// PriorityColor returns the marker color for a priority
func PriorityColor(p model.Priority) lipgloss.Color {
	if col, ok := priorityColors[p]; ok {
		return col
	}
	return priorityColors[model.PriorityMedium]
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	// Base styles
	App    lipgloss.Style
	Header lipgloss.Style
	Footer lipgloss.Style

	// Task styles
	TaskNormal   lipgloss.Style
	TaskSelected lipgloss.Style
	TaskDone     lipgloss.Style
	TaskOverdue  lipgloss.Style

	// Component styles
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	DueDate  lipgloss.Style
	Empty    lipgloss.Style

	// Input styles
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Button       lipgloss.Style
	ButtonOff    lipgloss.Style

	// Panel styles
	Panel       lipgloss.Style
	PanelDanger lipgloss.Style

	// Help styles
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Background(t.Background).
			Foreground(t.Foreground),

		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Padding(0, 1),

		TaskNormal: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),

		TaskSelected: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.Highlight).
			Padding(0, 1),

		TaskDone: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Strikethrough(true).
			Padding(0, 1),

		TaskOverdue: lipgloss.NewStyle().
			Foreground(t.Error).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Italic(true),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtle),

		DueDate: lipgloss.NewStyle().
			Foreground(t.Warning),

		Empty: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Italic(true).
			Padding(1, 2),

		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),

		Button: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Bold(true).
			Padding(0, 2),

		ButtonOff: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Background(t.Highlight).
			Padding(0, 2),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),

		PanelDanger: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Error).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.Subtle),

		HelpSeparator: lipgloss.NewStyle().
			Foreground(t.Border),
	}
}

// Current holds the current active theme and styles
var Current = struct {
	Theme  Theme
	Styles Styles
}{
	Theme:  Latte,
	Styles: NewStyles(Latte),
}

// SetTheme changes the current theme
func SetTheme(t Theme) {
	Current.Theme = t
	Current.Styles = NewStyles(t)
}

// Available returns all available themes
func Available() []Theme {
	return []Theme{
		Nord,
		Dracula,
		Gruvbox,
		Mocha,
		Ink,
		Latte,
		Paper,
	}
}

// ByName returns a theme by its name
func ByName(name string) (Theme, bool) {
	for _, t := range Available() {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Theme{}, false
}

// Pair is the theme used in each mode
type Pair struct {
	Dark  Theme
	Light Theme
}

// NewPair looks up the dark and light themes by name. Each must exist and
// suit its mode.
func NewPair(dark, light string) (Pair, error) {
	d, ok := ByName(dark)
	if !ok {
		return Pair{}, fmt.Errorf("unknown theme %q", dark)
	}
	if !d.Dark {
		return Pair{}, fmt.Errorf("theme %q is not a dark theme", dark)
	}
	l, ok := ByName(light)
	if !ok {
		return Pair{}, fmt.Errorf("unknown theme %q", light)
	}
	if l.Dark {
		return Pair{}, fmt.Errorf("theme %q is not a light theme", light)
	}
	return Pair{Dark: d, Light: l}, nil
}

// DefaultPair is nord for dark mode and latte for light mode
func DefaultPair() Pair {
	return Pair{Dark: Nord, Light: Latte}
}

// For returns the theme for the given mode
func (p Pair) For(dark bool) Theme {
	if dark {
		return p.Dark
	}
	return p.Light
}

// Apply makes the theme for the given mode current
func (p Pair) Apply(dark bool) {
	SetTheme(p.For(dark))
}
