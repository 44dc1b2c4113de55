// Package kv defines the durable key-value contract the task store persists
// through, together with file, Redis and in-memory implementations. The
// SQLite implementation lives in package db.
package kv

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("kv: store is closed")

// Entry is one key/value pair of a batch write.
type Entry struct {
	Key   string
	Value string
}

// Store maps string keys to string blobs.
//
// Get reports ok=false for an absent key. MultiSet is atomic across the
// batch: after it returns, either every entry is visible or none is.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	MultiSet(ctx context.Context, entries []Entry) error
	Close() error
}
