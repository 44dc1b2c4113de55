// Package store holds the application state (tasks and the theme flag) and
// keeps it in sync with a durable key-value store.
//
// The Store is the only owner of the state. Readers get copies, and every
// mutation is followed by a save of the full state through a single writer
// goroutine, in mutation order.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dori/mytasks/internal/kv"
	"github.com/dori/mytasks/internal/model"
	"golang.org/x/sync/errgroup"
)

// Snapshot is a point-in-time copy of the state. It is safe to keep and
// read, but subscribers share one instance and must not modify it.
type Snapshot struct {
	Tasks      []model.Task
	IsDarkMode bool
}

// Store is the single source of truth for tasks and theme
type Store struct {
	backend kv.Store
	log     *slog.Logger
	w       *writer

	mu       sync.Mutex
	tasks    []model.Task
	darkMode bool
	loaded   bool
	closed   bool
	subs     map[int]func(Snapshot)
	nextSub  int

	// opMu is held for a whole mutation, subscribers included, and is always
	// taken before mu. Subscribers can therefore read (which takes mu) while
	// the next mutation waits on opMu instead of holding mu.
	opMu sync.Mutex
}

// Option configures a Store
type Option func(*config)

type config struct {
	log      *slog.Logger
	debounce time.Duration
}

// WithLogger sets the logger for load and save diagnostics
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithSaveDebounce coalesces saves issued within d of each other into one
// write of the newest state. Zero (the default) writes through on every
// mutation.
func WithSaveDebounce(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// New creates an empty, unloaded Store over backend. Call Load before any
// mutation, and Close when done. The backend is not closed by the Store.
func New(backend kv.Store, opts ...Option) *Store {
	cfg := config{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Store{
		backend: backend,
		log:     cfg.log,
		w:       newWriter(backend, cfg.log, cfg.debounce),
		tasks:   []model.Task{},
		subs:    make(map[int]func(Snapshot)),
	}
}

// Load reads the persisted state. It succeeds exactly once; afterwards the
// store accepts mutations even if Load returned an error.
//
// A missing key leaves the default in place. An unparseable tasks blob
// returns ErrCorruptState with an empty task list, and a failed read returns
// ErrPersistence with the defaults; both are logged and neither is fatal.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.loaded {
		return ErrAlreadyLoaded
	}
	s.loaded = true

	var (
		tasksBlob, themeBlob string
		hasTasks, hasTheme   bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasksBlob, hasTasks, err = s.backend.Get(gctx, KeyTasks)
		return err
	})
	g.Go(func() error {
		var err error
		themeBlob, hasTheme, err = s.backend.Get(gctx, KeyDarkMode)
		return err
	})
	if err := g.Wait(); err != nil {
		err = fmt.Errorf("%w: load: %w", ErrPersistence, err)
		s.log.Error("failed to load state, continuing with defaults", "err", err)
		return err
	}

	if hasTheme {
		s.darkMode = DecodeDarkMode(themeBlob)
	}
	if !hasTasks {
		s.log.Info("no saved tasks, starting empty")
		return nil
	}

	tasks, skipped, err := DecodeTasks(tasksBlob)
	if err != nil {
		s.log.Warn("saved tasks are unreadable, starting empty", "err", err, "bytes", len(tasksBlob))
		s.keepCorrupt(ctx, tasksBlob)
		return err
	}
	for _, e := range skipped {
		s.log.Warn("dropped invalid saved task", "err", e)
	}
	s.tasks = tasks
	s.log.Info("loaded state", "tasks", len(tasks), "dark_mode", s.darkMode)
	return nil
}

// keepCorrupt stashes an unreadable blob under its own key, since the next
// save overwrites the tasks key.
func (s *Store) keepCorrupt(ctx context.Context, blob string) {
	err := s.backend.MultiSet(ctx, []kv.Entry{{Key: KeyCorruptTasks, Value: blob}})
	if err != nil {
		s.log.Warn("failed to keep corrupt tasks blob", "err", err)
	}
}

// mutate runs fn under the state lock. When fn reports a change the new
// state is queued for saving and subscribers are notified.
func (s *Store) mutate(fn func() (bool, error)) (bool, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return false, ErrClosed
	case !s.loaded:
		s.mu.Unlock()
		return false, ErrNotLoaded
	}

	changed, err := fn()
	if err != nil || !changed {
		s.mu.Unlock()
		return changed, err
	}

	snap := s.snapshotLocked()
	entries, err := Encode(snap)
	if err != nil {
		// Not reachable with valid tasks; memory stays authoritative
		s.log.Error("failed to encode state", "err", err)
	} else {
		s.w.enqueue(entries)
	}

	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
	return true, nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// AddTask appends a new task with its text trimmed. The task must satisfy
// model.Task.Validate and carry an id not already in the store.
func (s *Store) AddTask(t model.Task) error {
	t = t.Clone()
	t.Text = strings.TrimSpace(t.Text)

	_, err := s.mutate(func() (bool, error) {
		if err := t.Validate(); err != nil {
			return false, fmt.Errorf("%w: %w", ErrInvalidTask, err)
		}
		if s.indexOf(t.ID) >= 0 {
			return false, fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
		}
		s.tasks = append(s.tasks, t)
		return true, nil
	})
	return err
}

// DeleteTask removes the task with id. It reports false, and saves nothing,
// when no task matches.
func (s *Store) DeleteTask(id string) (bool, error) {
	return s.mutate(func() (bool, error) {
		i := s.indexOf(id)
		if i < 0 {
			return false, nil
		}
		s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
		return true, nil
	})
}

// ToggleTaskCompletion flips the completed flag of the task with id
func (s *Store) ToggleTaskCompletion(id string) (bool, error) {
	return s.mutate(func() (bool, error) {
		i := s.indexOf(id)
		if i < 0 {
			return false, nil
		}
		s.tasks[i].Completed = !s.tasks[i].Completed
		return true, nil
	})
}

// EditTask merges patch into the task with id. The id and creation time
// never change. The edited task must still pass validation.
func (s *Store) EditTask(id string, patch model.Patch) (bool, error) {
	return s.mutate(func() (bool, error) {
		i := s.indexOf(id)
		if i < 0 {
			return false, nil
		}
		edited := patch.Apply(s.tasks[i])
		if err := edited.Validate(); err != nil {
			return false, fmt.Errorf("%w: %w", ErrInvalidTask, err)
		}
		s.tasks[i] = edited
		return true, nil
	})
}

// ToggleTheme flips dark mode and returns the new value
func (s *Store) ToggleTheme() (bool, error) {
	var dark bool
	_, err := s.mutate(func() (bool, error) {
		s.darkMode = !s.darkMode
		dark = s.darkMode
		return true, nil
	})
	return dark, err
}

// SetDarkMode sets the theme flag, saving only when it changes
func (s *Store) SetDarkMode(dark bool) error {
	_, err := s.mutate(func() (bool, error) {
		if s.darkMode == dark {
			return false, nil
		}
		s.darkMode = dark
		return true, nil
	})
	return err
}

func (s *Store) snapshotLocked() Snapshot {
	tasks := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		tasks[i] = t.Clone()
	}
	return Snapshot{Tasks: tasks, IsDarkMode: s.darkMode}
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Tasks returns a copy of the task list in insertion order
func (s *Store) Tasks() []model.Task {
	return s.Snapshot().Tasks
}

// Task looks up a task by id
func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Len returns the number of tasks
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// IsDarkMode returns the theme flag
func (s *Store) IsDarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.darkMode
}

// Loaded reports whether Load has run
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Subscribe registers fn to be called after every state change with the new
// state. Calls happen in mutation order on the mutating goroutine; fn may
// read from the Store but must not mutate it, since the next mutation waits
// for fn to return. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
		})
	}
}

// LastSaveError returns the outcome of the most recent save attempt
func (s *Store) LastSaveError() error {
	return s.w.lastError()
}

// Flush waits until every change made so far has been written and returns
// the outcome of the newest save.
func (s *Store) Flush(ctx context.Context) error {
	return s.w.flush(ctx)
}

// Close writes any pending state and stops the writer. Mutations after
// Close fail with ErrClosed.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	err := s.w.close(ctx)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.log.Error("gave up waiting for final save", "err", err)
	}
	return err
}
