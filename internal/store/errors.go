package store

import "errors"

var (
	// ErrCorruptState means a stored blob was present but could not be parsed.
	// The store falls back to the default value for that key.
	ErrCorruptState = errors.New("corrupt stored state")

	// ErrPersistence means a read from or write to the durable store failed.
	// In-memory state stays authoritative for the rest of the session.
	ErrPersistence = errors.New("persistence failure")

	ErrNotLoaded     = errors.New("store not loaded")
	ErrAlreadyLoaded = errors.New("store already loaded")
	ErrClosed        = errors.New("store closed")
	ErrDuplicateID   = errors.New("duplicate task id")
	ErrInvalidTask   = errors.New("invalid task")
)
