package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/mytasks/internal/store"
)

// View represents the current active view
type View int

const (
	ViewList View = iota
	ViewForm
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewList:
		return "Tasks"
	case ViewForm:
		return "Form"
	default:
		return "Unknown"
	}
}

// Messages for inter-component communication

// StateChangedMsg carries the store state after a change
type StateChangedMsg struct {
	Snapshot store.Snapshot
}

// ThemeToggledMsg reports the result of ctrl+t
type ThemeToggledMsg struct {
	Dark bool
	Err  error
}

// ErrorMsg contains an error to display
type ErrorMsg struct {
	Err error
}

// StatusMsg contains a status message to display
type StatusMsg struct {
	Message string
}

// saveCheckMsg is sent periodically to surface failed saves
type saveCheckMsg struct{}

const saveCheckInterval = 2 * time.Second

func checkSaveLater() tea.Cmd {
	return tea.Tick(saveCheckInterval, func(time.Time) tea.Msg {
		return saveCheckMsg{}
	})
}

// mailbox hands the newest snapshot from the store to the program. The
// store calls put on the mutating goroutine, which must never block on the
// UI, so an unread snapshot is replaced rather than queued.
type mailbox struct {
	ch chan store.Snapshot
}

func newMailbox() *mailbox {
	return &mailbox{ch: make(chan store.Snapshot, 1)}
}

func (m *mailbox) put(s store.Snapshot) {
	for {
		select {
		case m.ch <- s:
			return
		default:
		}
		select {
		case <-m.ch:
		default:
		}
	}
}

// wait returns a command that delivers the next snapshot
func (m *mailbox) wait() tea.Cmd {
	return func() tea.Msg {
		return StateChangedMsg{Snapshot: <-m.ch}
	}
}
