package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/store"
	"todo/internal/store/filestore"
	"todo/internal/task"
)

func TestStore_GetMissing(t *testing.T) {
	s, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "todos")
	assert.ErrorIs(t, err, store.ErrNotExist)
}

func TestStore_PutGet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := filestore.New(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "todos", []byte(`[1]`)))
	require.NoError(t, s.Put(ctx, "todos", []byte(`[2]`)))

	got, err := s.Get(ctx, "todos")
	require.NoError(t, err)
	assert.Equal(t, `[2]`, string(got))

	info, err := os.Stat(filepath.Join(dir, "todos.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := filestore.New(dir)
	require.NoError(t, err)

	require.NoError(t, s.Put(context.Background(), "todos", []byte(`[]`)))

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestStore_RejectsPathKeys(t *testing.T) {
	s, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, s.Put(context.Background(), "../escape", []byte(`x`)))
	_, err = s.Get(context.Background(), "a/b")
	assert.Error(t, err)
}

func TestStore_CancelledContext(t *testing.T) {
	s, err := filestore.New(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Put(ctx, "todos", []byte(`[]`)), context.Canceled)
}

func TestStore_BacksTaskManager(t *testing.T) {
	ctx := context.Background()
	s, err := filestore.New(t.TempDir())
	require.NoError(t, err)
	entry := store.Entry{Store: s, Key: store.DefaultKey}

	m := task.Open(ctx, entry)
	_, err = m.Add(ctx, "buy milk")
	require.NoError(t, err)
	_, err = m.Add(ctx, "write report")
	require.NoError(t, err)

	reopened := task.Open(ctx, entry)
	assert.Equal(t, m.Tasks(), reopened.Tasks())
}
