package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category groups tasks by area of life
type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryShopping Category = "Shopping"
	CategoryHealth   Category = "Health"
	CategoryOther    Category = "Other"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryWork,
	CategoryPersonal,
	CategoryShopping,
	CategoryHealth,
	CategoryOther,
}

// Priority represents task priority level
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists every priority from lowest to highest
var Priorities = []Priority{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
}

// Defaults used by the add form and quick add
const (
	DefaultCategory = CategoryPersonal
	DefaultPriority = PriorityMedium
)

// Task represents a todo item
type Task struct {
	ID        string     `json:"id" validate:"required"`
	Text      string     `json:"text" validate:"notblank"`
	Completed bool       `json:"completed"`
	Category  Category   `json:"category" validate:"category"`
	Priority  Priority   `json:"priority" validate:"priority"`
	CreatedAt time.Time  `json:"createdAt" validate:"required"`
	DueDate   *time.Time `json:"dueDate"`
}

// NewID returns a fresh task identifier. UUIDv7 embeds the creation time,
// so identifiers sort in creation order.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Clone returns a deep copy of the task
func (t Task) Clone() Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}

// IsOverdue returns true if the task is past its due date
func (t *Task) IsOverdue() bool {
	return t.isOverdueAt(time.Now())
}

func (t *Task) isOverdueAt(now time.Time) bool {
	if t.DueDate == nil || t.Completed {
		return false
	}
	return now.After(*t.DueDate)
}

// IsDueToday returns true if the task is due today
func (t *Task) IsDueToday() bool {
	if t.DueDate == nil {
		return false
	}
	now := time.Now()
	due := t.DueDate.In(now.Location())
	return due.Year() == now.Year() &&
		due.YearDay() == now.YearDay()
}

// DueWithin reports whether an open task is due within d of now (overdue
// tasks included)
func (t *Task) DueWithin(now time.Time, d time.Duration) bool {
	if t.DueDate == nil || t.Completed {
		return false
	}
	return !t.DueDate.After(now.Add(d))
}

// PriorityWeight returns a numeric weight for sorting by priority
func (t *Task) PriorityWeight() int {
	switch t.Priority {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 2
	}
}

// ParseCategory matches a category name case-insensitively
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// ParsePriority matches a priority name case-insensitively. Single letter
// and short forms are accepted.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return PriorityLow, true
	case "medium", "med", "m":
		return PriorityMedium, true
	case "high", "hi", "h":
		return PriorityHigh, true
	}
	return "", false
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}
