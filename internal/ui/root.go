package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/mytasks/internal/app"
	"github.com/dori/mytasks/internal/ui/theme"
	"github.com/dori/mytasks/internal/ui/views"
)

// RootModel is the main application model that manages views
type RootModel struct {
	app    *app.App
	keys   KeyMap
	help   help.Model
	themes theme.Pair
	width  int
	height int

	updates     *mailbox
	unsubscribe func()

	currentView View
	listView    views.ListView
	formView    views.FormView
	helpVisible bool
	dark        bool

	// Status message
	statusMsg string
	errorMsg  string
	saveErr   string
}

// NewRootModel creates a new root model and subscribes it to store changes.
// Call Close when the program has exited.
func NewRootModel(application *app.App, themes theme.Pair) RootModel {
	h := help.New()
	h.ShowAll = false

	updates := newMailbox()
	unsubscribe := application.Store.Subscribe(updates.put)

	dark := application.Store.IsDarkMode()
	themes.Apply(dark)

	m := RootModel{
		app:         application,
		keys:        DefaultKeyMap(),
		help:        h,
		themes:      themes,
		updates:     updates,
		unsubscribe: unsubscribe,
		currentView: ViewList,
		listView:    views.NewListView(application.Store),
		dark:        dark,
	}
	if application.LoadErr != nil {
		m.errorMsg = fmt.Sprintf("Could not load saved tasks: %v", application.LoadErr)
	}
	return m
}

// Close stops listening for store changes
func (m RootModel) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return tea.Batch(m.updates.wait(), checkSaveLater())
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Reserve space for header (2 lines) and footer (2 lines)
		contentHeight := m.height - 4
		m.listView = m.listView.SetSize(m.width, contentHeight)
		m.formView = m.formView.SetSize(m.width, contentHeight)
		return m, nil

	case StateChangedMsg:
		m.listView = m.listView.SetTasks(msg.Snapshot.Tasks)
		m.setDark(msg.Snapshot.IsDarkMode)
		m.refreshSaveError()
		return m, m.updates.wait()

	case saveCheckMsg:
		m.refreshSaveError()
		return m, checkSaveLater()

	case ThemeToggledMsg:
		if msg.Err != nil {
			m.errorMsg = fmt.Sprintf("Could not change theme: %v", msg.Err)
			return m, nil
		}
		m.setDark(msg.Dark)
		m.statusMsg = fmt.Sprintf("Theme: %s", theme.Current.Theme.Name)
		return m, nil

	case ErrorMsg:
		m.errorMsg = msg.Err.Error()
		return m, nil

	case StatusMsg:
		m.statusMsg = msg.Message
		return m, nil

	case views.AddTaskRequest:
		m.formView = views.NewFormView(m.app.Store).SetSize(m.width, m.height-4)
		m.currentView = ViewForm
		return m, m.formView.Init()

	case views.EditTaskRequest:
		m.formView = views.EditFormView(m.app.Store, msg.Task).SetSize(m.width, m.height-4)
		m.currentView = ViewForm
		return m, m.formView.Init()

	case views.FormClosedMsg:
		m.currentView = ViewList
		m.statusMsg = msg.Status
		return m, nil

	case tea.KeyMsg:
		// Clear status/error on any keypress
		m.statusMsg = ""
		m.errorMsg = ""

		isInputMode := m.isInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, but 'q' only quits when not typing
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.Theme):
			return m, m.toggleTheme()
		}

		if !isInputMode && key.Matches(msg, m.keys.Help) {
			m.helpVisible = !m.helpVisible
			m.help.ShowAll = m.helpVisible
			return m, nil
		}
		if m.helpVisible && msg.String() == "esc" {
			m.helpVisible = false
			return m, nil
		}
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch m.currentView {
	case ViewList:
		var next tea.Model
		next, cmd = m.listView.Update(msg)
		m.listView = next.(views.ListView)
	case ViewForm:
		var next tea.Model
		next, cmd = m.formView.Update(msg)
		m.formView = next.(views.FormView)
	}
	return m, cmd
}

func (m RootModel) isInputMode() bool {
	switch m.currentView {
	case ViewList:
		return m.listView.IsInputMode()
	case ViewForm:
		return m.formView.IsInputMode()
	}
	return false
}

func (m *RootModel) setDark(dark bool) {
	if dark == m.dark && theme.Current.Theme.Name == m.themes.For(dark).Name {
		return
	}
	m.dark = dark
	m.themes.Apply(dark)
}

func (m *RootModel) refreshSaveError() {
	if err := m.app.Store.LastSaveError(); err != nil {
		m.saveErr = fmt.Sprintf("Changes are not being saved: %v", err)
	} else {
		m.saveErr = ""
	}
}

func (m RootModel) toggleTheme() tea.Cmd {
	s := m.app.Store
	return func() tea.Msg {
		dark, err := s.ToggleTheme()
		return ThemeToggledMsg{Dark: dark, Err: err}
	}
}

// CurrentView returns the active view
func (m RootModel) CurrentView() View {
	return m.currentView
}

// List returns the list view
func (m RootModel) List() views.ListView {
	return m.listView
}

// Form returns the form view
func (m RootModel) Form() views.FormView {
	return m.formView
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	contentHeight := m.height - 4
	var content string
	switch {
	case m.helpVisible:
		content = m.help.View(m.keys)
	case m.currentView == ViewForm:
		content = m.formView.View()
	default:
		content = m.listView.View()
	}

	// Ensure content fills available space
	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content)
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("My Tasks")

	subtle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)

	tasks := m.listView.ViewMode().String()
	viewIndicator := subtle.Render(fmt.Sprintf("[%s]", tasks))
	if m.currentView == ViewForm {
		viewIndicator = subtle.Render(fmt.Sprintf("[%s]", m.currentView))
	}

	mode := "light"
	if m.dark {
		mode = "dark"
	}
	themeIndicator := subtle.Render(fmt.Sprintf("%s · %s", mode, t.Name))

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, viewIndicator)
	gap := max(0, m.width-lipgloss.Width(leftSide)-lipgloss.Width(themeIndicator))

	return leftSide + strings.Repeat(" ", gap) + themeIndicator
}

// renderFooter renders the footer/status bar
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var lines []string
	switch {
	case m.errorMsg != "":
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg))
	case m.saveErr != "":
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Warning).Render(m.saveErr))
	case m.statusMsg != "":
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg))
	}

	switch {
	case m.currentView == ViewForm && m.formView.Confirming():
		lines = append(lines, key("y", "confirm")+sep+key("n", "back"))
	case m.currentView == ViewForm:
		lines = append(lines, key("tab", "next field")+sep+
			key("←/→", "choose")+sep+
			key("enter", "submit")+sep+
			key("esc", "cancel")+sep+
			key("C-t", "theme"))
	case m.listView.IsInputMode():
		lines = append(lines, key("y", "delete")+sep+key("n", "keep"))
	default:
		lines = append(lines, key("a", "add")+sep+
			key("enter", "edit")+sep+
			key("tab", "done")+sep+
			key("d", "del")+sep+
			key("f", "filter")+sep+
			key("C-t", "theme")+sep+
			key("?", "help")+sep+
			key("q", "quit"))
	}

	return strings.Join(lines, "\n")
}
