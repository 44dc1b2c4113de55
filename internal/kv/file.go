package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// FileStore keeps every key in a single JSON object on disk. Writes go to a
// temporary file that is renamed over the original, so a crash mid-write
// leaves the previous contents intact.
type FileStore struct {
	fs   afero.Fs
	path string

	mu     sync.Mutex
	closed bool
}

// NewFileStore returns a FileStore backed by path on fs.
// Use afero.NewOsFs() for real files or afero.NewMemMapFs() in tests.
func NewFileStore(fs afero.Fs, path string) (*FileStore, error) {
	dir := filepath.Dir(path)
	if exists, _ := afero.DirExists(fs, dir); !exists {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	return &FileStore{fs: fs, path: path}, nil
}

// OpenFileStore is NewFileStore on the OS filesystem.
func OpenFileStore(path string) (*FileStore, error) {
	return NewFileStore(afero.NewOsFs(), path)
}

func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", false, ErrClosed
	}
	data, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

func (s *FileStore) MultiSet(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	data, err := s.read()
	if err != nil {
		return err
	}
	for _, e := range entries {
		data[e.Key] = e.Value
	}
	return s.write(data)
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	raw, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	data := make(map[string]string)
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return data, nil
}

func (s *FileStore) write(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	tmp := s.path + ".tmp"
	defer func() { _ = s.fs.Remove(tmp) }()

	if err := afero.WriteFile(s.fs, tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
