// Package store defines the key-value persistence service behind the task
// manager. Backends live in subpackages; commands never import a storage SDK
// directly.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultKey is the key the task collection is stored under.
const DefaultKey = "todos"

// ErrNotExist is returned by Get when nothing is stored under a key.
var ErrNotExist = errors.New("key not found")

// Store is a key-value storage medium.
type Store interface {
	// Get returns the value stored under key, or ErrNotExist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases the backend.
	Close() error
}

// ValidateKey rejects keys that are empty or could escape a backend's
// namespace.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("storage key required")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid storage key: %s", key)
	}
	return nil
}

// Entry binds a Store to a single key. It implements task.Persistence.
type Entry struct {
	Store Store
	Key   string
}

// Load returns the value under the entry's key, or nil if there is none.
func (e Entry) Load(ctx context.Context) ([]byte, error) {
	data, err := e.Store.Get(ctx, e.Key)
	if errors.Is(err, ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save writes data under the entry's key.
func (e Entry) Save(ctx context.Context, data []byte) error {
	return e.Store.Put(ctx, e.Key, data)
}
