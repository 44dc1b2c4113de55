package views

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/mytasks/internal/model"
	"github.com/dori/mytasks/internal/quickadd"
	"github.com/dori/mytasks/internal/store"
	"github.com/dori/mytasks/internal/ui/theme"
)

// FormField is the focused element of the form
type FormField int

const (
	FieldText FormField = iota
	FieldCategory
	FieldPriority
	FieldDue
	FieldSubmit
	fieldCount
)

// FormClosedMsg is sent when the form is done, saved or not
type FormClosedMsg struct {
	Saved  bool
	Status string
}

// formSavedMsg carries the store result back into the form
type formSavedMsg struct {
	status string
	err    error
}

// FormView adds a new task or edits an existing one
type FormView struct {
	store *store.Store
	width int
	now   func() time.Time

	editing    *model.Task // nil when adding
	text       textinput.Model
	due        textinput.Model
	categoryIx int
	priorityIx int
	focus      FormField

	confirming bool
	saving     bool
	errMsg     string
}

// NewFormView opens an empty form with the default category and priority
func NewFormView(s *store.Store) FormView {
	return newForm(s, nil, model.NewDraft())
}

// EditFormView opens the form seeded from t
func EditFormView(s *store.Store, t model.Task) FormView {
	task := t.Clone()
	return newForm(s, &task, model.DraftFrom(t))
}

func newForm(s *store.Store, editing *model.Task, d model.Draft) FormView {
	text := textinput.New()
	text.Placeholder = "What needs to be done?"
	text.CharLimit = 256
	text.SetValue(d.Text)
	text.Focus()

	due := textinput.New()
	due.Placeholder = "today, friday, 2024-06-01T09:00 (blank for none)"
	due.CharLimit = 32
	if d.DueDate != nil {
		local := d.DueDate.Local()
		layout := "2006-01-02T15:04"
		if local.Hour() == 23 && local.Minute() == 59 {
			layout = "2006-01-02"
		}
		due.SetValue(local.Format(layout))
	}

	return FormView{
		store:      s,
		now:        time.Now,
		editing:    editing,
		text:       text,
		due:        due,
		categoryIx: indexOf(model.Categories, d.Category),
		priorityIx: indexOf(model.Priorities, d.Priority),
	}
}

func indexOf[T comparable](list []T, v T) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return 0
}

// Init starts the cursor blink
func (f FormView) Init() tea.Cmd {
	return textinput.Blink
}

// IsInputMode is always true; the form captures typing
func (f FormView) IsInputMode() bool {
	return true
}

// IsEditing reports whether the form edits an existing task
func (f FormView) IsEditing() bool {
	return f.editing != nil
}

// Focused returns the focused field
func (f FormView) Focused() FormField {
	return f.focus
}

// Confirming reports whether the confirmation step is showing
func (f FormView) Confirming() bool {
	return f.confirming
}

// SetSize updates the view dimensions
func (f FormView) SetSize(width, height int) FormView {
	f.width = width
	f.text.Width = max(20, width-8)
	f.due.Width = max(20, width-8)
	return f
}

// Draft returns the form contents. Due date errors are reported separately.
func (f FormView) Draft() (model.Draft, error) {
	d := model.Draft{
		Text:     f.text.Value(),
		Category: model.Categories[f.categoryIx],
		Priority: model.Priorities[f.priorityIx],
	}

	raw := strings.TrimSpace(f.due.Value())
	if raw == "" {
		return d, nil
	}
	due, ok := quickadd.ParseDate(raw, f.now())
	if !ok {
		return d, fmt.Errorf("unknown due date %q", raw)
	}
	d.DueDate = &due
	return d, nil
}

// CanSubmit reports whether the submit button is enabled
func (f FormView) CanSubmit() bool {
	d, err := f.Draft()
	return err == nil && d.CanSubmit()
}

func (f FormView) submitLabel() string {
	if f.editing != nil {
		return "Save Changes"
	}
	return "Add Task"
}

func (f *FormView) setFocus(field FormField) {
	f.focus = (field + fieldCount) % fieldCount
	f.text.Blur()
	f.due.Blur()
	switch f.focus {
	case FieldText:
		f.text.Focus()
	case FieldDue:
		f.due.Focus()
	}
}

// Update handles messages for the form
func (f FormView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case formSavedMsg:
		f.saving = false
		if msg.err != nil {
			f.confirming = false
			f.errMsg = msg.err.Error()
			return f, nil
		}
		status := msg.status
		return f, func() tea.Msg { return FormClosedMsg{Saved: true, Status: status} }

	case tea.KeyMsg:
		if f.saving {
			return f, nil
		}
		if f.confirming {
			return f.handleConfirm(msg)
		}
		return f.handleKey(msg)
	}

	var cmd tea.Cmd
	switch f.focus {
	case FieldText:
		f.text, cmd = f.text.Update(msg)
	case FieldDue:
		f.due, cmd = f.due.Update(msg)
	}
	return f, cmd
}

func (f FormView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f.errMsg = ""

	switch msg.String() {
	case "esc":
		return f, func() tea.Msg { return FormClosedMsg{} }
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return f, nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return f, nil
	case "enter":
		if f.focus != FieldSubmit && f.focus != FieldDue {
			f.setFocus(f.focus + 1)
			return f, nil
		}
		return f.trySubmit()
	}

	switch f.focus {
	case FieldCategory:
		f.categoryIx = cycle(f.categoryIx, len(model.Categories), msg.String())
		return f, nil
	case FieldPriority:
		f.priorityIx = cycle(f.priorityIx, len(model.Priorities), msg.String())
		return f, nil
	case FieldSubmit:
		return f, nil
	}

	var cmd tea.Cmd
	if f.focus == FieldText {
		f.text, cmd = f.text.Update(msg)
	} else {
		f.due, cmd = f.due.Update(msg)
	}
	return f, cmd
}

func cycle(i, n int, key string) int {
	switch key {
	case "left", "h":
		return (i - 1 + n) % n
	case "right", "l", " ":
		return (i + 1) % n
	}
	return i
}

func (f FormView) trySubmit() (tea.Model, tea.Cmd) {
	d, err := f.Draft()
	if err != nil {
		f.errMsg = err.Error()
		f.setFocus(FieldDue)
		return f, nil
	}
	if !d.CanSubmit() {
		f.errMsg = "Please enter a task description"
		f.setFocus(FieldText)
		return f, nil
	}
	f.confirming = true
	return f, nil
}

func (f FormView) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		d, err := f.Draft()
		if err != nil {
			f.confirming = false
			f.errMsg = err.Error()
			return f, nil
		}
		f.saving = true
		return f, f.save(d)
	case "n", "N", "esc":
		f.confirming = false
	}
	return f, nil
}

func (f FormView) save(d model.Draft) tea.Cmd {
	s := f.store
	now := f.now()

	if f.editing == nil {
		return func() tea.Msg {
			t, err := d.NewTask(now)
			if err != nil {
				return formSavedMsg{err: err}
			}
			if err := s.AddTask(t); err != nil {
				return formSavedMsg{err: fmt.Errorf("failed to add task: %w", err)}
			}
			return formSavedMsg{status: "Task added"}
		}
	}

	id := f.editing.ID
	return func() tea.Msg {
		patch, err := d.Patch()
		if err != nil {
			return formSavedMsg{err: err}
		}
		found, err := s.EditTask(id, patch)
		if err != nil {
			return formSavedMsg{err: fmt.Errorf("failed to save task: %w", err)}
		}
		if !found {
			return formSavedMsg{err: errors.New("task no longer exists")}
		}
		return formSavedMsg{status: "Changes saved"}
	}
}

// View renders the form
func (f FormView) View() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	var b strings.Builder

	title := "New Task"
	if f.editing != nil {
		title = "Edit Task"
	}
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n")

	field := func(label string, focused bool, body string) {
		b.WriteString(styles.Label.Render(label))
		b.WriteString("\n")
		style := styles.Input
		if focused {
			style = styles.InputFocused
		}
		b.WriteString(style.Render(body))
		b.WriteString("\n")
	}

	field("Task", f.focus == FieldText, f.text.View())
	field("Category", f.focus == FieldCategory, renderPicker(model.Categories, f.categoryIx, theme.CategoryColor))
	field("Priority", f.focus == FieldPriority, renderPicker(model.Priorities, f.priorityIx, theme.PriorityColor))
	field("Due date", f.focus == FieldDue, f.due.View())

	b.WriteString("\n")
	button := styles.ButtonOff
	if f.CanSubmit() {
		button = styles.Button
	}
	label := f.submitLabel()
	if f.focus == FieldSubmit {
		label = "> " + label + " <"
	}
	b.WriteString(button.Render(label))
	b.WriteString("\n")

	if f.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.Error).Render(f.errMsg))
		b.WriteString("\n")
	}

	if f.confirming {
		d, _ := f.Draft()
		question := "Add this task?"
		if f.editing != nil {
			question = "Save changes to this task?"
		}
		summary := fmt.Sprintf("%s\n\n%s\n%s · %s", question, strings.TrimSpace(d.Text), d.Category, d.Priority)
		if d.DueDate != nil {
			summary += " · due " + quickadd.FormatDue(*d.DueDate, f.now())
		}
		summary += fmt.Sprintf("\n\n[y] %s   [n] Back", f.submitLabel())
		b.WriteString("\n")
		b.WriteString(styles.Panel.Render(summary))
		b.WriteString("\n")
	}

	return b.String()
}

func renderPicker[T ~string](options []T, selected int, color func(T) lipgloss.Color) string {
	parts := make([]string, len(options))
	for i, o := range options {
		style := lipgloss.NewStyle().Foreground(color(o)).Padding(0, 1)
		if i == selected {
			style = style.Reverse(true).Bold(true)
		}
		parts[i] = style.Render(string(o))
	}
	return strings.Join(parts, " ")
}
