// Package task holds the task list manager: the in-memory collection, the
// edit state machine and the derived view shown to the user.
package task

import (
	"context"
	"errors"
)

// Task is a single to-do record.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"` // unix milliseconds
}

// Persistence is the storage boundary the manager loads from once and saves
// to after every change.
type Persistence interface {
	// Load returns the serialized collection, or nil if nothing was stored.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the serialized collection.
	Save(ctx context.Context, data []byte) error
}

// Errors returned by manager operations. Presentation layers treat them as
// silent no-ops; they exist so callers and tests can tell what happened.
var (
	ErrEmptyText  = errors.New("text is empty")
	ErrNotFound   = errors.New("task not found")
	ErrNotEditing = errors.New("no task is being edited")
)

// Persistence failures. The manager recovers from both locally and only
// logs them.
var (
	ErrLoadFailure = errors.New("load failed")
	ErrSaveFailure = errors.New("save failed")
)

// Snapshot is the state handed to observers after every change.
type Snapshot struct {
	Tasks  []Task
	View   []Task
	Search string
	Edit   EditState
}
