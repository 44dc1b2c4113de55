package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/mytasks/internal/model"
	"github.com/dori/mytasks/internal/quickadd"
	"github.com/dori/mytasks/internal/store"
	"github.com/dori/mytasks/internal/ui/theme"
)

// EmptyText is shown when there are no tasks at all
const EmptyText = "No tasks yet. Add one to get started!"

// ListMode represents the current input mode of the list view
type ListMode int

const (
	ListModeNormal ListMode = iota
	ListModeConfirmDelete
)

// ListViewMode represents what tasks are shown
type ListViewMode int

const (
	ViewModeAll     ListViewMode = iota // Show all tasks
	ViewModePending                     // Hide completed tasks
	ViewModeDone                        // Only completed tasks
)

func (m ListViewMode) String() string {
	switch m {
	case ViewModeAll:
		return "All"
	case ViewModePending:
		return "Pending"
	case ViewModeDone:
		return "Done"
	default:
		return "Unknown"
	}
}

func (m ListViewMode) next() ListViewMode {
	return (m + 1) % 3
}

// Keep returns whether a task is shown in this mode
func (m ListViewMode) Keep(t model.Task) bool {
	switch m {
	case ViewModePending:
		return !t.Completed
	case ViewModeDone:
		return t.Completed
	}
	return true
}

// AddTaskRequest asks the root model to open an empty form
type AddTaskRequest struct{}

// EditTaskRequest asks the root model to open the form for a task
type EditTaskRequest struct {
	Task model.Task
}

// ListView shows every task in insertion order
type ListView struct {
	store  *store.Store
	width  int
	height int
	now    func() time.Time

	allTasks     []model.Task // Latest snapshot
	tasks        []model.Task // After the view mode filter
	cursor       int
	scrollOffset int

	mode      ListMode
	deleteID  string
	viewMode  ListViewMode
	statusMsg string
	errMsg    string
}

// NewListView creates a new list view
func NewListView(s *store.Store) ListView {
	v := ListView{
		store: s,
		now:   time.Now,
	}
	return v.SetTasks(s.Tasks())
}

// Init initializes the list view
func (v ListView) Init() tea.Cmd {
	return nil
}

// IsInputMode returns true when the view is waiting for an answer
func (v ListView) IsInputMode() bool {
	return v.mode == ListModeConfirmDelete
}

// SetSize updates the view dimensions
func (v ListView) SetSize(width, height int) ListView {
	v.width = width
	v.height = height
	v.ensureCursorVisible()
	return v
}

// SetTasks replaces the displayed tasks, keeping the cursor on the same
// task when it still exists.
func (v ListView) SetTasks(tasks []model.Task) ListView {
	var current string
	if t, ok := v.Current(); ok {
		current = t.ID
	}

	v.allTasks = tasks
	v.applyFilter()

	for i, t := range v.tasks {
		if t.ID == current {
			v.cursor = i
			break
		}
	}
	if v.cursor >= len(v.tasks) {
		v.cursor = max(0, len(v.tasks)-1)
	}
	v.ensureCursorVisible()

	// the task awaiting confirmation may have gone
	if v.mode == ListModeConfirmDelete && v.indexOf(v.deleteID) < 0 {
		v.mode = ListModeNormal
		v.deleteID = ""
	}
	return v
}

func (v *ListView) applyFilter() {
	v.tasks = v.tasks[:0:0]
	for _, t := range v.allTasks {
		if v.viewMode.Keep(t) {
			v.tasks = append(v.tasks, t)
		}
	}
}

func (v ListView) indexOf(id string) int {
	for i, t := range v.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Current returns the task under the cursor
func (v ListView) Current() (model.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.tasks) {
		return model.Task{}, false
	}
	return v.tasks[v.cursor], true
}

// Cursor returns the cursor position
func (v ListView) Cursor() int {
	return v.cursor
}

// Mode returns the input mode
func (v ListView) Mode() ListMode {
	return v.mode
}

// ViewMode returns the active filter
func (v ListView) ViewMode() ListViewMode {
	return v.viewMode
}

// visibleTaskCount returns how many tasks can fit in the viewport
func (v ListView) visibleTaskCount() int {
	available := v.height - 4
	if available < 1 {
		available = 1
	}
	return available
}

// ensureCursorVisible adjusts scrollOffset to keep cursor in view
func (v *ListView) ensureCursorVisible() {
	visible := v.visibleTaskCount()

	if v.cursor < v.scrollOffset {
		v.scrollOffset = v.cursor
	}
	if v.cursor >= v.scrollOffset+visible {
		v.scrollOffset = v.cursor - visible + 1
	}

	maxOffset := len(v.tasks) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if v.scrollOffset > maxOffset {
		v.scrollOffset = maxOffset
	}
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
}

// Update handles messages for the list view
func (v ListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.mode == ListModeConfirmDelete {
			return v.handleDeleteConfirm(msg)
		}
		return v.handleNormalMode(msg)
	}
	return v, nil
}

// handleNormalMode handles keypresses in normal mode
func (v ListView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.statusMsg = ""
	v.errMsg = ""

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
		}
	case "g", "home":
		v.cursor = 0
	case "G", "end":
		v.cursor = max(0, len(v.tasks)-1)
	case "pgup", "ctrl+u":
		v.cursor = max(0, v.cursor-v.visibleTaskCount())
	case "pgdown", "ctrl+d":
		v.cursor = max(0, min(len(v.tasks)-1, v.cursor+v.visibleTaskCount()))

	case "a":
		return v, func() tea.Msg { return AddTaskRequest{} }

	case "enter", "e":
		if t, ok := v.Current(); ok {
			return v, func() tea.Msg { return EditTaskRequest{Task: t} }
		}

	case "tab", " ", "x":
		if t, ok := v.Current(); ok {
			v = v.toggle(t.ID)
		}

	case "d", "delete":
		if t, ok := v.Current(); ok {
			v.mode = ListModeConfirmDelete
			v.deleteID = t.ID
		}

	case "f":
		v.viewMode = v.viewMode.next()
		v = v.SetTasks(v.allTasks)
		v.statusMsg = fmt.Sprintf("Showing: %s", v.viewMode)
	}

	v.ensureCursorVisible()
	return v, nil
}

// handleDeleteConfirm waits for y or n
func (v ListView) handleDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := v.deleteID
		v.mode = ListModeNormal
		v.deleteID = ""
		return v.delete(id), nil
	case "n", "N", "esc":
		v.mode = ListModeNormal
		v.deleteID = ""
	}
	return v, nil
}

// toggle runs on the update loop so the status always describes the task
// as stored after this press.
func (v ListView) toggle(id string) ListView {
	found, err := v.store.ToggleTaskCompletion(id)
	switch {
	case err != nil:
		v.errMsg = fmt.Sprintf("failed to update task: %v", err)
	case !found:
		v.statusMsg = "Task was already gone"
	default:
		if t, ok := v.store.Task(id); ok && t.Completed {
			v.statusMsg = "Marked as done"
		} else {
			v.statusMsg = "Marked as pending"
		}
	}
	return v.SetTasks(v.store.Tasks())
}

func (v ListView) delete(id string) ListView {
	removed, err := v.store.DeleteTask(id)
	switch {
	case err != nil:
		v.errMsg = fmt.Sprintf("failed to delete task: %v", err)
	case !removed:
		v.statusMsg = "Task was already gone"
	default:
		v.statusMsg = "Task deleted"
	}
	return v.SetTasks(v.store.Tasks())
}

// View renders the list
func (v ListView) View() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	var b strings.Builder

	if v.mode == ListModeConfirmDelete {
		if i := v.indexOf(v.deleteID); i >= 0 {
			prompt := fmt.Sprintf("Delete %q? This cannot be undone. (y/n)", v.tasks[i].Text)
			b.WriteString(styles.PanelDanger.Render(prompt))
			b.WriteString("\n\n")
		}
	}

	if v.errMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Error).Render(v.errMsg))
		b.WriteString("\n\n")
	} else if v.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().
			Foreground(t.Info).
			Italic(true)
		b.WriteString(statusStyle.Render(v.statusMsg))
		b.WriteString("\n\n")
	}

	if len(v.tasks) == 0 {
		if len(v.allTasks) == 0 {
			b.WriteString(styles.Empty.Render(EmptyText))
		} else {
			b.WriteString(styles.Empty.Render(fmt.Sprintf("No %s tasks. Press f to change the filter.", strings.ToLower(v.viewMode.String()))))
		}
		return b.String()
	}

	visible := v.visibleTaskCount()
	endIdx := min(v.scrollOffset+visible, len(v.tasks))

	scrollStyle := lipgloss.NewStyle().Foreground(t.Subtle)
	if v.scrollOffset > 0 {
		b.WriteString(scrollStyle.Render(fmt.Sprintf("  ↑ %d more above", v.scrollOffset)))
		b.WriteString("\n")
	}

	now := v.now()
	for i := v.scrollOffset; i < endIdx; i++ {
		b.WriteString(v.renderTask(v.tasks[i], i == v.cursor, now))
		b.WriteString("\n")
	}

	if remaining := len(v.tasks) - endIdx; remaining > 0 {
		b.WriteString(scrollStyle.Render(fmt.Sprintf("  ↓ %d more below", remaining)))
		b.WriteString("\n")
	}

	return b.String()
}

// renderTask renders one row: checkbox, priority marker, text, category
// badge and due date
func (v ListView) renderTask(task model.Task, isCursor bool, now time.Time) string {
	styles := theme.Current.Styles

	checkbox := "[ ]"
	if task.Completed {
		checkbox = "[x]"
	}

	var priorityChar string
	switch task.Priority {
	case model.PriorityHigh:
		priorityChar = "!"
	case model.PriorityLow:
		priorityChar = "."
	default:
		priorityChar = "-"
	}
	priority := lipgloss.NewStyle().Foreground(theme.PriorityColor(task.Priority)).Bold(true).Render(priorityChar)

	textStyle := styles.TaskNormal
	switch {
	case task.Completed:
		textStyle = styles.TaskDone
	case task.DueDate != nil && now.After(*task.DueDate):
		textStyle = styles.TaskOverdue
	}
	if isCursor {
		textStyle = textStyle.Background(theme.Current.Theme.Highlight)
	}
	text := textStyle.Render(truncate(task.Text, v.width-40))

	badge := lipgloss.NewStyle().
		Foreground(theme.CategoryColor(task.Category)).
		Render("#" + strings.ToLower(string(task.Category)))

	var due string
	if task.DueDate != nil {
		due = " " + styles.DueDate.Render("due "+quickadd.FormatDue(*task.DueDate, now))
	}

	cursor := "  "
	if isCursor {
		cursor = "> "
	}

	return cursor + checkbox + " " + priority + text + badge + due
}

func truncate(s string, width int) string {
	if width < 10 {
		width = 10
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
