// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"todo/internal/store"
)

// FakeStore is an in-memory implementation of store.Store for testing.
type FakeStore struct {
	mu     sync.RWMutex
	values map[string][]byte

	// Puts counts successful Put calls.
	Puts int

	// Error injection for testing
	GetErr   error
	PutErr   error
	CloseErr error

	Closed bool
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		values: make(map[string][]byte),
	}
}

// Set seeds a value under key.
func (f *FakeStore) Set(key string, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = append([]byte(nil), value...)
}

// Value returns the raw value under key.
func (f *FakeStore) Value(key string) ([]byte, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	return v, ok
}

// Get implements store.Store.
func (f *FakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	if !ok {
		return nil, store.ErrNotExist
	}
	return append([]byte(nil), v...), nil
}

// Put implements store.Store.
func (f *FakeStore) Put(ctx context.Context, key string, value []byte) error {
	if f.PutErr != nil {
		return f.PutErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = append([]byte(nil), value...)
	f.Puts++
	return nil
}

// Close implements store.Store.
func (f *FakeStore) Close() error {
	f.Closed = true
	return f.CloseErr
}

// Entry binds the fake to the default key.
func (f *FakeStore) Entry() store.Entry {
	return store.Entry{Store: f, Key: store.DefaultKey}
}
