package model

import (
	"strings"
	"time"
)

// Draft is the editable form of a task before it reaches the store
type Draft struct {
	Text     string     `validate:"notblank"`
	Category Category   `validate:"category"`
	Priority Priority   `validate:"priority"`
	DueDate  *time.Time `validate:"-"`
}

// NewDraft returns an empty draft with the default category and priority
func NewDraft() Draft {
	return Draft{
		Category: DefaultCategory,
		Priority: DefaultPriority,
	}
}

// DraftFrom seeds a draft from an existing task for editing
func DraftFrom(t Task) Draft {
	c := t.Clone()
	return Draft{
		Text:     c.Text,
		Category: c.Category,
		Priority: c.Priority,
		DueDate:  c.DueDate,
	}
}

// Validate returns a *ValidationError when the draft cannot be submitted
func (d Draft) Validate() error {
	return validateStruct(d)
}

// CanSubmit reports whether the draft text is non-blank
func (d Draft) CanSubmit() bool {
	return strings.TrimSpace(d.Text) != ""
}

// NewTask builds a new, uncompleted task from the draft
func (d Draft) NewTask(now time.Time) (Task, error) {
	if err := d.Validate(); err != nil {
		return Task{}, err
	}

	t := Task{
		ID:        NewID(),
		Text:      strings.TrimSpace(d.Text),
		Category:  d.Category,
		Priority:  d.Priority,
		CreatedAt: now.UTC(),
	}
	if d.DueDate != nil {
		due := d.DueDate.UTC()
		t.DueDate = &due
	}
	return t, nil
}

// Patch converts the draft into an edit of every user-editable field
func (d Draft) Patch() (Patch, error) {
	if err := d.Validate(); err != nil {
		return Patch{}, err
	}

	text := strings.TrimSpace(d.Text)
	category := d.Category
	priority := d.Priority
	p := Patch{
		Text:     &text,
		Category: &category,
		Priority: &priority,
	}
	if d.DueDate != nil {
		due := d.DueDate.UTC()
		p.DueDate = &due
	} else {
		p.ClearDueDate = true
	}
	return p, nil
}

// Patch is a partial update to a task. Nil fields are left unchanged.
// The id and creation time of a task are never patched.
type Patch struct {
	Text         *string
	Category     *Category
	Priority     *Priority
	DueDate      *time.Time
	ClearDueDate bool
	Completed    *bool
}

// IsEmpty reports whether applying the patch would change nothing
func (p Patch) IsEmpty() bool {
	return p.Text == nil && p.Category == nil && p.Priority == nil &&
		p.DueDate == nil && !p.ClearDueDate && p.Completed == nil
}

// Apply returns a copy of t with the patch merged in. Text is trimmed.
func (p Patch) Apply(t Task) Task {
	out := t.Clone()
	if p.Text != nil {
		out.Text = strings.TrimSpace(*p.Text)
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.ClearDueDate {
		out.DueDate = nil
	}
	if p.DueDate != nil {
		due := *p.DueDate
		out.DueDate = &due
	}
	if p.Completed != nil {
		out.Completed = *p.Completed
	}
	return out
}
