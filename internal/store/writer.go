package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dori/mytasks/internal/kv"
)

type pendingSave struct {
	seq     uint64
	entries []kv.Entry
}

// writer is the single goroutine allowed to write state to the backend.
// Saves are queued in mutation order and written in that order, so an
// older snapshot can never overwrite a newer one.
type writer struct {
	backend  kv.Store
	log      *slog.Logger
	debounce time.Duration

	mu       sync.Mutex
	pending  []pendingSave
	queued   uint64
	written  uint64
	lastErr  error
	progress chan struct{}
	stopping bool

	wake  chan struct{}
	hurry chan struct{}
	quit  chan struct{}
	done  chan struct{}
}

func newWriter(backend kv.Store, log *slog.Logger, debounce time.Duration) *writer {
	w := &writer{
		backend:  backend,
		log:      log,
		debounce: debounce,
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		hurry:    make(chan struct{}, 1),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// enqueue schedules a save and returns its sequence number. Callers hold
// the store mutex, which fixes the queue order to mutation order.
func (w *writer) enqueue(entries []kv.Entry) uint64 {
	w.mu.Lock()
	w.queued++
	seq := w.queued
	w.pending = append(w.pending, pendingSave{seq: seq, entries: entries})
	w.mu.Unlock()

	signal(w.wake)
	return seq
}

func (w *writer) run() {
	defer close(w.done)

	for {
		select {
		case <-w.wake:
		case <-w.quit:
			w.drain()
			return
		}

		if w.debounce > 0 {
			timer := time.NewTimer(w.debounce)
			select {
			case <-timer.C:
			case <-w.hurry:
				timer.Stop()
			case <-w.quit:
				timer.Stop()
			}
		}
		w.drain()
	}
}

// drain writes everything queued so far. With a debounce only the newest
// snapshot is written, since each one carries the full state.
func (w *writer) drain() {
	w.mu.Lock()
	batch := w.pending
	w.pending = nil
	w.mu.Unlock()

	if len(batch) == 0 {
		return
	}
	if w.debounce > 0 {
		if skipped := len(batch) - 1; skipped > 0 {
			w.log.Debug("coalesced saves", "skipped", skipped)
		}
		batch = batch[len(batch)-1:]
	}

	for _, p := range batch {
		err := w.backend.MultiSet(context.Background(), p.entries)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrPersistence, err)
			w.log.Error("failed to save state", "seq", p.seq, "err", err)
		} else {
			w.log.Debug("saved state", "seq", p.seq)
		}
		w.advance(p.seq, err)
	}
}

func (w *writer) advance(seq uint64, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.written = seq
	w.lastErr = err
	close(w.progress)
	w.progress = make(chan struct{})
}

// flush waits until every save queued before the call has been attempted
// and returns the outcome of the newest one.
func (w *writer) flush(ctx context.Context) error {
	w.mu.Lock()
	target := w.queued
	w.mu.Unlock()

	signal(w.hurry)

	for {
		w.mu.Lock()
		if w.written >= target {
			err := w.lastErr
			w.mu.Unlock()
			return err
		}
		ch := w.progress
		w.mu.Unlock()

		select {
		case <-ch:
		case <-w.done:
			w.mu.Lock()
			err := w.lastErr
			if w.written < target {
				err = fmt.Errorf("%w: writer stopped before save %d", ErrPersistence, target)
			}
			w.mu.Unlock()
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// lastError returns the outcome of the most recent save attempt.
func (w *writer) lastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// close writes anything still queued and stops the goroutine.
func (w *writer) close(ctx context.Context) error {
	w.mu.Lock()
	if !w.stopping {
		w.stopping = true
		close(w.quit)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return w.lastError()
	case <-ctx.Done():
		return ctx.Err()
	}
}
