package views

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/mytasks/internal/kv"
	"github.com/dori/mytasks/internal/model"
	"github.com/dori/mytasks/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, tasks ...model.Task) *store.Store {
	t.Helper()
	s := store.New(kv.NewMemoryStore())
	require.NoError(t, s.Load(context.Background()))
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	for _, tk := range tasks {
		require.NoError(t, s.AddTask(tk))
	}
	return s
}

func sample(id, text string, completed bool) model.Task {
	return model.Task{
		ID:        id,
		Text:      text,
		Completed: completed,
		Category:  model.CategoryWork,
		Priority:  model.PriorityMedium,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func special(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func press[M tea.Model](t *testing.T, m M, msg tea.Msg) (M, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(M)
	require.True(t, ok)
	return out, cmd
}

// --- list ---

func TestListEmptyState(t *testing.T) {
	v := NewListView(newStore(t)).SetSize(80, 20)
	assert.Contains(t, v.View(), EmptyText)
}

func TestListNavigation(t *testing.T) {
	s := newStore(t, sample("1", "one", false), sample("2", "two", false), sample("3", "three", false))
	v := NewListView(s).SetSize(80, 20)

	v, _ = press(t, v, keys("j"))
	v, _ = press(t, v, keys("j"))
	v, _ = press(t, v, keys("j"))
	assert.Equal(t, 2, v.Cursor())

	v, _ = press(t, v, keys("k"))
	assert.Equal(t, 1, v.Cursor())

	v, _ = press(t, v, keys("g"))
	assert.Equal(t, 0, v.Cursor())
	v, _ = press(t, v, keys("G"))
	assert.Equal(t, 2, v.Cursor())

	out := v.View()
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "three")
	assert.Contains(t, out, "#work")
}

func TestListToggle(t *testing.T) {
	s := newStore(t, sample("1", "one", false))
	v := NewListView(s).SetSize(80, 20)

	v, cmd := press(t, v, special(tea.KeyTab))
	assert.Nil(t, cmd)

	got, _ := s.Task("1")
	assert.True(t, got.Completed)
	assert.Contains(t, v.View(), "Marked as done")
	assert.Contains(t, v.View(), "[x]")

	// a quick second press reports the state it produced
	v, _ = press(t, v, keys("x"))
	got, _ = s.Task("1")
	assert.False(t, got.Completed)
	assert.Contains(t, v.View(), "Marked as pending")
	assert.Contains(t, v.View(), "[ ]")
}

func TestListToggleAfterClose(t *testing.T) {
	s := newStore(t, sample("1", "one", false))
	v := NewListView(s).SetSize(80, 20)
	require.NoError(t, s.Close(context.Background()))

	v, cmd := press(t, v, special(tea.KeyTab))
	assert.Nil(t, cmd)
	assert.Contains(t, v.View(), "failed to update task")
	assert.NotContains(t, v.View(), "Marked as")
}

func TestListDeleteNeedsConfirmation(t *testing.T) {
	s := newStore(t, sample("1", "one", false), sample("2", "two", false))
	v := NewListView(s).SetSize(80, 20)

	v, cmd := press(t, v, keys("d"))
	assert.Nil(t, cmd)
	assert.Equal(t, ListModeConfirmDelete, v.Mode())
	assert.True(t, v.IsInputMode())
	assert.Contains(t, v.View(), `Delete "one"?`)

	v, cmd = press(t, v, keys("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, ListModeNormal, v.Mode())
	assert.Equal(t, 2, s.Len())

	v, _ = press(t, v, keys("d"))
	v, cmd = press(t, v, keys("y"))
	assert.Nil(t, cmd)
	assert.Contains(t, v.View(), "Task deleted")

	assert.Equal(t, 1, s.Len())
	_, ok := s.Task("1")
	assert.False(t, ok)

	current, ok := v.Current()
	require.True(t, ok)
	assert.Equal(t, "2", current.ID)
}

func TestListConfirmDropsWhenTaskVanishes(t *testing.T) {
	s := newStore(t, sample("1", "one", false))
	v := NewListView(s)

	v, _ = press(t, v, keys("d"))
	require.Equal(t, ListModeConfirmDelete, v.Mode())

	_, err := s.DeleteTask("1")
	require.NoError(t, err)
	v = v.SetTasks(s.Tasks())
	assert.Equal(t, ListModeNormal, v.Mode())
}

func TestListRequests(t *testing.T) {
	s := newStore(t, sample("1", "one", false))
	v := NewListView(s)

	_, cmd := press(t, v, keys("a"))
	require.NotNil(t, cmd)
	assert.IsType(t, AddTaskRequest{}, cmd())

	_, cmd = press(t, v, special(tea.KeyEnter))
	require.NotNil(t, cmd)
	req, ok := cmd().(EditTaskRequest)
	require.True(t, ok)
	assert.Equal(t, "1", req.Task.ID)
}

func TestListFilterIsViewOnly(t *testing.T) {
	s := newStore(t, sample("1", "open", false), sample("2", "closed", true))
	v := NewListView(s).SetSize(80, 20)

	v, _ = press(t, v, keys("f"))
	assert.Equal(t, ViewModePending, v.ViewMode())
	out := v.View()
	assert.Contains(t, out, "open")
	assert.NotContains(t, out, "closed")

	v, _ = press(t, v, keys("f"))
	assert.Equal(t, ViewModeDone, v.ViewMode())
	assert.Contains(t, v.View(), "closed")

	v, _ = press(t, v, keys("f"))
	assert.Equal(t, ViewModeAll, v.ViewMode())
	assert.Equal(t, 2, s.Len())
}

func TestListKeepsCursorOnTask(t *testing.T) {
	s := newStore(t, sample("1", "one", false), sample("2", "two", false))
	v := NewListView(s)
	v, _ = press(t, v, keys("j"))

	require.NoError(t, s.AddTask(sample("3", "three", false)))
	v = v.SetTasks(s.Tasks())

	current, _ := v.Current()
	assert.Equal(t, "2", current.ID)
}

// --- form ---

func typeText(t *testing.T, f FormView, s string) FormView {
	t.Helper()
	f, _ = press(t, f, keys(s))
	return f
}

// submit walks focus to the due field and presses enter there
func submit(t *testing.T, f FormView) FormView {
	t.Helper()
	for f.Focused() != FieldDue {
		f, _ = press(t, f, special(tea.KeyTab))
	}
	f, _ = press(t, f, special(tea.KeyEnter))
	return f
}

func confirm(t *testing.T, f FormView) FormClosedMsg {
	t.Helper()
	f, cmd := press(t, f, keys("y"))
	require.NotNil(t, cmd)
	f, cmd = press(t, f, cmd())
	require.NotNil(t, cmd, "form should close after saving")
	closed, ok := cmd().(FormClosedMsg)
	require.True(t, ok)
	return closed
}

func TestFormDefaults(t *testing.T) {
	f := NewFormView(newStore(t))
	d, err := f.Draft()
	require.NoError(t, err)
	assert.Equal(t, model.CategoryPersonal, d.Category)
	assert.Equal(t, model.PriorityMedium, d.Priority)
	assert.Nil(t, d.DueDate)
	assert.False(t, f.CanSubmit())
	assert.Contains(t, f.View(), "Add Task")
}

func TestFormBlankTextCannotSubmit(t *testing.T) {
	s := newStore(t)
	f := typeText(t, NewFormView(s), "   ")

	f = submit(t, f)
	assert.False(t, f.Confirming())
	assert.Contains(t, f.View(), "Please enter a task description")
	assert.Equal(t, FieldText, f.Focused())
	assert.Equal(t, 0, s.Len())
}

func TestFormAddTask(t *testing.T) {
	s := newStore(t)
	f := typeText(t, NewFormView(s), "Buy milk")

	// category: Personal -> Shopping
	f, _ = press(t, f, special(tea.KeyTab))
	f, _ = press(t, f, special(tea.KeyRight))
	// priority: Medium -> Low
	f, _ = press(t, f, special(tea.KeyTab))
	f, _ = press(t, f, special(tea.KeyLeft))

	f = submit(t, f)
	require.True(t, f.Confirming())
	assert.Contains(t, f.View(), "Add this task?")

	closed := confirm(t, f)
	assert.True(t, closed.Saved)

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Text)
	assert.Equal(t, model.CategoryShopping, tasks[0].Category)
	assert.Equal(t, model.PriorityLow, tasks[0].Priority)
	assert.False(t, tasks[0].Completed)
	assert.Nil(t, tasks[0].DueDate)
	assert.NotEmpty(t, tasks[0].ID)
}

func TestFormConfirmCanGoBack(t *testing.T) {
	s := newStore(t)
	f := submit(t, typeText(t, NewFormView(s), "maybe"))
	require.True(t, f.Confirming())

	f, cmd := press(t, f, keys("n"))
	assert.Nil(t, cmd)
	assert.False(t, f.Confirming())
	assert.Equal(t, 0, s.Len())
}

func TestFormBadDueDate(t *testing.T) {
	s := newStore(t)
	f := typeText(t, NewFormView(s), "call")
	for f.Focused() != FieldDue {
		f, _ = press(t, f, special(tea.KeyTab))
	}
	f = typeText(t, f, "someday")
	f, _ = press(t, f, special(tea.KeyEnter))

	assert.False(t, f.Confirming())
	assert.Contains(t, f.View(), `unknown due date "someday"`)
}

func TestFormEditTask(t *testing.T) {
	due := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	orig := sample("1", "old", true)
	orig.DueDate = &due
	s := newStore(t, orig)

	f := EditFormView(s, orig)
	assert.True(t, f.IsEditing())
	assert.Contains(t, f.View(), "Save Changes")

	// replace the text
	for range len("old") {
		f, _ = press(t, f, special(tea.KeyBackspace))
	}
	f = typeText(t, f, "new")

	// clear the due date
	for f.Focused() != FieldDue {
		f, _ = press(t, f, special(tea.KeyTab))
	}
	f, _ = press(t, f, special(tea.KeyCtrlU))
	for range 20 {
		f, _ = press(t, f, special(tea.KeyBackspace))
	}

	f = submit(t, f)
	require.True(t, f.Confirming())
	assert.Contains(t, f.View(), "Save changes to this task?")
	closed := confirm(t, f)
	assert.True(t, closed.Saved)

	got, _ := s.Task("1")
	assert.Equal(t, "new", got.Text)
	assert.Nil(t, got.DueDate)
	assert.True(t, got.Completed, "editing keeps completion")
	assert.Equal(t, orig.CreatedAt, got.CreatedAt)
}

func TestFormEditVanishedTask(t *testing.T) {
	s := newStore(t, sample("1", "gone soon", false))
	f := EditFormView(s, sample("1", "gone soon", false))
	_, err := s.DeleteTask("1")
	require.NoError(t, err)

	f = submit(t, f)
	f, cmd := press(t, f, keys("y"))
	require.NotNil(t, cmd)
	f, cmd = press(t, f, cmd())
	assert.Nil(t, cmd)
	assert.Contains(t, f.View(), "task no longer exists")
}

func TestFormEscCloses(t *testing.T) {
	f := NewFormView(newStore(t))
	_, cmd := press(t, f, special(tea.KeyEsc))
	require.NotNil(t, cmd)
	closed, ok := cmd().(FormClosedMsg)
	require.True(t, ok)
	assert.False(t, closed.Saved)
}
