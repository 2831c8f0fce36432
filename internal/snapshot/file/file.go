// Package file is the default snapshot backend: one JSON file on local disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"dukanpos/internal/domain"
	"dukanpos/internal/snapshot"
)

type Store struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load(_ context.Context) (domain.DBState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		state := snapshot.DefaultState()
		if err := s.write(state); err != nil {
			return domain.DBState{}, err
		}
		return state, nil
	}
	if err != nil {
		return domain.DBState{}, fmt.Errorf("read snapshot %s: %w", s.path, err)
	}

	state, err := snapshot.Import(data)
	if err != nil {
		return domain.DBState{}, fmt.Errorf("snapshot %s: %w", s.path, err)
	}
	return state, nil
}

func (s *Store) Save(_ context.Context, state domain.DBState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(state)
}

// write replaces the file atomically: marshal, write a sibling temp file,
// fsync, rename. A crash mid-save leaves either the old or the new snapshot,
// never an interleaving of the two.
func (s *Store) write(state domain.DBState) error {
	data, err := snapshot.Export(state)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace snapshot %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}
