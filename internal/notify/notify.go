package notify

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/dori/mytasks/internal/model"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Runner executes the notification command
type Runner func(name string, args ...string) error

func execRunner(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// Notifier handles sending desktop notifications
type Notifier struct {
	enabled bool
	run     Runner
}

// NewNotifier creates a notifier backed by notify-send
func NewNotifier() *Notifier {
	return &Notifier{
		enabled: true,
		run:     execRunner,
	}
}

// WithRunner replaces the command runner
func (n *Notifier) WithRunner(r Runner) *Notifier {
	n.run = r
	return n
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Args builds the notify-send argument list
func (nt Notification) Args() []string {
	var args []string

	switch nt.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// milliseconds
	if nt.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(nt.Timeout.Milliseconds())))
	}
	if nt.Icon != "" {
		args = append(args, "-i", nt.Icon)
	}

	args = append(args, "-a", "mytasks", nt.Title)
	if nt.Body != "" {
		args = append(args, nt.Body)
	}
	return args
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(nt Notification) error {
	if !n.enabled {
		return nil
	}
	return n.run("notify-send", nt.Args()...)
}

// DueReminder builds the reminder for a task due dueIn from now. Overdue
// tasks get critical urgency.
func DueReminder(t model.Task, dueIn time.Duration) Notification {
	var body string
	switch {
	case dueIn <= 0:
		body = "Task is now overdue!"
	case dueIn < time.Hour:
		body = "Task due in less than an hour"
	default:
		body = "Task due soon"
	}
	body = fmt.Sprintf("%s (%s, %s priority)", body, t.Category, t.Priority)

	urgency := UrgencyNormal
	if dueIn <= 0 {
		urgency = UrgencyCritical
	}

	return Notification{
		Title:   t.Text,
		Body:    body,
		Urgency: urgency,
		Timeout: 15 * time.Second,
		Icon:    "emblem-important-symbolic",
	}
}

// Remind sends one reminder for every open task due within the window,
// overdue tasks included, and returns how many were sent.
func (n *Notifier) Remind(tasks []model.Task, now time.Time, within time.Duration) (int, error) {
	var (
		sent int
		errs []error
	)
	for _, t := range tasks {
		if !t.DueWithin(now, within) {
			continue
		}
		if err := n.Send(DueReminder(t, t.DueDate.Sub(now))); err != nil {
			errs = append(errs, fmt.Errorf("failed to notify %q: %w", t.Text, err))
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}
