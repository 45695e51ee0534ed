// Package filestore implements store.Store with one JSON file per key.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"todo/internal/store"
)

const (
	fileExt  = ".json"
	lockExt  = ".lock"
	dirMode  = 0o700
	fileMode = 0o600
)

// Store keeps each key in <dir>/<key>.json. Reads take a shared lock and
// writes an exclusive one, so two processes never see a half-written file.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

func (s *Store) lock(key string) *flock.Flock {
	return flock.New(s.path(key) + lockExt)
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := store.ValidateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lk := s.lock(key)
	if err := lk.RLock(); err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", key, err)
	}
	defer func() { _ = lk.Unlock() }()

	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, store.ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Put implements store.Store. The value is written to a temp file in the
// same directory and renamed over the old one.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	lk := s.lock(key)
	if err := lk.Lock(); err != nil {
		return fmt.Errorf("failed to lock %s: %w", key, err)
	}
	defer func() { _ = lk.Unlock() }()

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", key, err)
	}
	if err := os.Chmod(tmpPath, fileMode); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, s.path(key)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

// Close implements store.Store.
func (s *Store) Close() error {
	return nil
}
