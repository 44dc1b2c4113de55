package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/dori/mytasks/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

func recorder(calls *[]call, err error) Runner {
	return func(name string, args ...string) error {
		*calls = append(*calls, call{name, args})
		return err
	}
}

func taskDue(text string, due *time.Time, completed bool) model.Task {
	return model.Task{
		ID:        text,
		Text:      text,
		Completed: completed,
		Category:  model.CategoryWork,
		Priority:  model.PriorityHigh,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDate:   due,
	}
}

func TestArgs(t *testing.T) {
	args := Notification{
		Title:   "Dentist",
		Body:    "soon",
		Urgency: UrgencyCritical,
		Timeout: 15 * time.Second,
		Icon:    "alarm",
	}.Args()

	assert.Equal(t, []string{"-u", "critical", "-t", "15000", "-i", "alarm", "-a", "mytasks", "Dentist", "soon"}, args)

	args = Notification{Title: "only title"}.Args()
	assert.Equal(t, []string{"-u", "normal", "-a", "mytasks", "only title"}, args)
}

func TestSendDisabled(t *testing.T) {
	var calls []call
	n := NewNotifier().WithRunner(recorder(&calls, nil))
	n.SetEnabled(false)

	require.NoError(t, n.Send(Notification{Title: "x"}))
	assert.Empty(t, calls)
	assert.False(t, n.IsEnabled())
}

func TestDueReminder(t *testing.T) {
	tk := taskDue("Report", nil, false)

	overdue := DueReminder(tk, -time.Minute)
	assert.Equal(t, UrgencyCritical, overdue.Urgency)
	assert.Contains(t, overdue.Body, "overdue")
	assert.Contains(t, overdue.Body, "Work")

	soon := DueReminder(tk, 30*time.Minute)
	assert.Equal(t, UrgencyNormal, soon.Urgency)
	assert.Contains(t, soon.Body, "less than an hour")

	later := DueReminder(tk, 5*time.Hour)
	assert.Contains(t, later.Body, "due soon")
	assert.Equal(t, "Report", later.Title)
}

func TestRemind(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	soon := now.Add(2 * time.Hour)
	far := now.Add(72 * time.Hour)

	tasks := []model.Task{
		taskDue("overdue", &past, false),
		taskDue("soon", &soon, false),
		taskDue("far", &far, false),
		taskDue("done", &past, true),
		taskDue("undated", nil, false),
	}

	var calls []call
	n := NewNotifier().WithRunner(recorder(&calls, nil))

	sent, err := n.Remind(tasks, now, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, calls, 2)
	assert.Equal(t, "notify-send", calls[0].name)
	assert.Contains(t, calls[0].args, "overdue")
	assert.Contains(t, calls[1].args, "soon")
}

func TestRemindCollectsErrors(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)

	var calls []call
	n := NewNotifier().WithRunner(recorder(&calls, errors.New("no notify-send")))

	sent, err := n.Remind([]model.Task{taskDue("a", &past, false), taskDue("b", &past, false)}, now, time.Hour)
	assert.Equal(t, 0, sent)
	assert.ErrorContains(t, err, "no notify-send")
	assert.Len(t, calls, 2)
}
