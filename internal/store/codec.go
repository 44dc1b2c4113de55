package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dori/mytasks/internal/kv"
	"github.com/dori/mytasks/internal/model"
)

// Keys under which the state is persisted
const (
	KeyTasks    = "tasks"
	KeyDarkMode = "isDarkMode"

	// KeyCorruptTasks keeps an unparseable tasks blob found at load time
	KeyCorruptTasks = "tasks.corrupt"
)

// taskRecord is the persisted shape of a task. Timestamps are RFC 3339 in
// UTC; dueDate is null when unset.
type taskRecord struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	Completed bool    `json:"completed"`
	Category  string  `json:"category"`
	Priority  string  `json:"priority"`
	CreatedAt string  `json:"createdAt"`
	DueDate   *string `json:"dueDate"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func toRecord(t model.Task) taskRecord {
	r := taskRecord{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		Category:  string(t.Category),
		Priority:  string(t.Priority),
		CreatedAt: formatTime(t.CreatedAt),
	}
	if t.DueDate != nil {
		due := formatTime(*t.DueDate)
		r.DueDate = &due
	}
	return r
}

func (r taskRecord) toTask() (model.Task, error) {
	created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return model.Task{}, fmt.Errorf("task %q: bad createdAt: %w", r.ID, err)
	}

	t := model.Task{
		ID:        r.ID,
		Text:      r.Text,
		Completed: r.Completed,
		Category:  model.Category(r.Category),
		Priority:  model.Priority(r.Priority),
		CreatedAt: created,
	}
	if r.DueDate != nil {
		due, err := time.Parse(time.RFC3339Nano, *r.DueDate)
		if err != nil {
			return model.Task{}, fmt.Errorf("task %q: bad dueDate: %w", r.ID, err)
		}
		t.DueDate = &due
	}

	if err := t.Validate(); err != nil {
		return model.Task{}, fmt.Errorf("task %q: %w", r.ID, err)
	}
	return t, nil
}

// Encode serializes a snapshot into the batch written on every save.
func Encode(snap Snapshot) ([]kv.Entry, error) {
	records := make([]taskRecord, 0, len(snap.Tasks))
	for _, t := range snap.Tasks {
		records = append(records, toRecord(t))
	}

	blob, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}

	return []kv.Entry{
		{Key: KeyTasks, Value: string(blob)},
		{Key: KeyDarkMode, Value: strconv.FormatBool(snap.IsDarkMode)},
	}, nil
}

// DecodeTasks parses a tasks blob. A blob that is not a JSON array of task
// records fails with ErrCorruptState. Individual records that break the task
// invariants, or repeat an earlier id, are dropped and reported in skipped.
func DecodeTasks(blob string) (tasks []model.Task, skipped []error, err error) {
	var records []taskRecord
	if err := json.Unmarshal([]byte(blob), &records); err != nil {
		return nil, nil, fmt.Errorf("%w: tasks: %v", ErrCorruptState, err)
	}

	tasks = make([]model.Task, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		t, err := r.toTask()
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		if seen[t.ID] {
			skipped = append(skipped, fmt.Errorf("task %q: %w", t.ID, ErrDuplicateID))
			continue
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	return tasks, skipped, nil
}

// DecodeDarkMode reads the theme flag. Only the literal "true" enables dark
// mode.
func DecodeDarkMode(blob string) bool {
	return blob == "true"
}
