package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dori/mytasks/internal/kv"
	"github.com/dori/mytasks/internal/model"
	"github.com/dori/mytasks/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday
var testNow = time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

type harness struct {
	t       *testing.T
	dir     string
	c       *cli
	notices [][]string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, env := range []string{"MYTASKS_DATA_DIR", "MYTASKS_BACKEND", "MYTASKS_LOG_LEVEL", "MYTASKS_SAVE_DEBOUNCE"} {
		t.Setenv(env, "")
	}

	h := &harness{t: t, dir: t.TempDir()}
	h.c = &cli{
		now: func() time.Time { return testNow },
		runner: func(name string, args ...string) error {
			h.notices = append(h.notices, append([]string{name}, args...))
			return nil
		},
	}
	return h
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	root := h.c.newRootCmd()

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--data-dir", h.dir, "--backend", "file", "--log-level", "error"}, args...))

	err := root.Execute()
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err)
	return out
}

// saved reads the state file the way the next run would
func (h *harness) saved() store.Snapshot {
	h.t.Helper()
	ctx := context.Background()

	fs, err := kv.OpenFileStore(filepath.Join(h.dir, "state.json"))
	require.NoError(h.t, err)
	s := store.New(fs)
	require.NoError(h.t, s.Load(ctx))
	defer s.Close(ctx)
	return s.Snapshot()
}

func TestAddQuickSyntax(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("add", "Buy", "milk", "@shopping", "!low", "due:tomorrow")
	assert.Contains(t, out, "Created: Buy milk")
	assert.Contains(t, out, "Category: Shopping")
	assert.Contains(t, out, "Priority: Low")
	assert.Contains(t, out, "Due: tomorrow")

	snap := h.saved()
	require.Len(t, snap.Tasks, 1)
	got := snap.Tasks[0]
	assert.Equal(t, "Buy milk", got.Text)
	assert.Equal(t, model.CategoryShopping, got.Category)
	assert.Equal(t, model.PriorityLow, got.Priority)
	require.NotNil(t, got.DueDate)
	assert.True(t, time.Date(2024, 1, 11, 23, 59, 59, 0, time.UTC).Equal(*got.DueDate))
	assert.True(t, testNow.Equal(got.CreatedAt))
	assert.Contains(t, out, got.ID)
}

func TestAddRejectsBlankText(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("add", "@work", "!high")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid task")
	assert.Empty(t, h.saved().Tasks)
}

func TestListFilters(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.mustRun("list"), "No tasks yet. Add one to get started!")

	h.mustRun("add", "write report @work")
	h.mustRun("add", "buy bread @shopping")
	id := h.saved().Tasks[0].ID
	h.mustRun("done", id)

	out := h.mustRun("list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "[x] "+id))
	assert.Contains(t, lines[0], "write report  (Work, Medium)")
	assert.True(t, strings.HasPrefix(lines[1], "[ ] "))

	out = h.mustRun("list", "--pending")
	assert.NotContains(t, out, "write report")
	assert.Contains(t, out, "buy bread")

	out = h.mustRun("list", "--done")
	assert.Contains(t, out, "write report")
	assert.NotContains(t, out, "buy bread")

	out = h.mustRun("list", "--category", "health")
	assert.Contains(t, out, "No matching tasks")

	_, err := h.run("list", "--pending", "--done")
	assert.Error(t, err)
	_, err = h.run("list", "--category", "chores")
	assert.Error(t, err)
}

func TestDoneToggles(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "water plants")
	id := h.saved().Tasks[0].ID

	// any unambiguous prefix works
	out := h.mustRun("done", id[:len(id)-1])
	assert.Contains(t, out, "Marked as done: water plants")
	assert.True(t, h.saved().Tasks[0].Completed)

	out = h.mustRun("done", id)
	assert.Contains(t, out, "Marked as not done")
	assert.False(t, h.saved().Tasks[0].Completed)

	_, err := h.run("done", "nope")
	assert.Error(t, err)
}

func TestAmbiguousPrefix(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "one")
	h.mustRun("add", "two")
	id := h.saved().Tasks[0].ID

	_, err := h.run("done", id[:4])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matches 2 tasks")
}

func TestEdit(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "draft", "email", "due:friday")
	before := h.saved().Tasks[0]
	require.NotNil(t, before.DueDate)

	out := h.mustRun("edit", before.ID, "--text", "send email", "--priority", "high", "--no-due")
	assert.Contains(t, out, "send email  (Personal, High)")

	after := h.saved().Tasks[0]
	assert.Equal(t, before.ID, after.ID)
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))
	assert.Equal(t, "send email", after.Text)
	assert.Equal(t, model.PriorityHigh, after.Priority)
	assert.Equal(t, model.CategoryPersonal, after.Category)
	assert.Nil(t, after.DueDate)

	h.mustRun("edit", before.ID, "--due", "2024-02-01")
	after = h.saved().Tasks[0]
	require.NotNil(t, after.DueDate)
	assert.True(t, time.Date(2024, 2, 1, 23, 59, 59, 0, time.UTC).Equal(*after.DueDate))
}

func TestEditErrors(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "something")
	id := h.saved().Tasks[0].ID

	for name, args := range map[string][]string{
		"nothing to change": {"edit", id},
		"blank text":        {"edit", id, "--text", "  "},
		"bad category":      {"edit", id, "--category", "chores"},
		"bad priority":      {"edit", id, "--priority", "urgent"},
		"bad due date":      {"edit", id, "--due", "someday"},
		"due and no-due":    {"edit", id, "--due", "today", "--no-due"},
		"unknown id":        {"edit", "nope", "--text", "x"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := h.run(args...)
			assert.Error(t, err)
		})
	}
	assert.Equal(t, "something", h.saved().Tasks[0].Text)
}

func TestRm(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "keep")
	h.mustRun("add", "remove")
	remove := h.saved().Tasks[1]

	out := h.mustRun("rm", "not-an-id")
	assert.Contains(t, out, "nothing deleted")
	assert.Len(t, h.saved().Tasks, 2)

	out = h.mustRun("rm", remove.ID)
	assert.Contains(t, out, "Deleted: remove")

	tasks := h.saved().Tasks
	require.Len(t, tasks, 1)
	assert.Equal(t, "keep", tasks[0].Text)
}

func TestTheme(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "light\n", h.mustRun("theme"))
	assert.Equal(t, "dark\n", h.mustRun("theme", "toggle"))
	assert.True(t, h.saved().IsDarkMode)
	assert.Equal(t, "dark\n", h.mustRun("theme"))
	assert.Equal(t, "light\n", h.mustRun("theme", "light"))
	assert.False(t, h.saved().IsDarkMode)

	_, err := h.run("theme", "purple")
	assert.Error(t, err)
}

func TestRemind(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "pay rent !high due:today")
	h.mustRun("add", "renew passport due:2024-03-01")
	h.mustRun("add", "no deadline")

	out := h.mustRun("remind")
	assert.Contains(t, out, "Sent 1 reminder(s)")
	require.Len(t, h.notices, 1)
	assert.Equal(t, "notify-send", h.notices[0][0])
	assert.Contains(t, h.notices[0], "pay rent")

	h.notices = nil
	out = h.mustRun("remind", "--within", "2000h")
	assert.Contains(t, out, "Sent 2 reminder(s)")
}

func TestRemindReportsFailures(t *testing.T) {
	h := newHarness(t)
	h.c.runner = func(string, ...string) error { return errors.New("no notification daemon") }
	h.mustRun("add", "overdue thing due:2024-01-01")

	out, err := h.run("remind")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no notification daemon")
	assert.Contains(t, out, "Sent 0 reminder(s)")
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "mytasks v"+version+"\n", h.mustRun("version"))
}
