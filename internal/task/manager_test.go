package task_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/logging"
	"todo/internal/store"
	"todo/internal/task"
	"todo/internal/testutil"
)

// tickingClock returns a clock that advances by one second on every call.
func tickingClock() func() time.Time {
	t := time.UnixMilli(1_700_000_000_000)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newManager(t *testing.T, fs *testutil.FakeStore) *task.Manager {
	t.Helper()
	return task.Open(context.Background(), fs.Entry(), task.WithClock(tickingClock()))
}

func viewTexts(tasks []task.Task) []string {
	texts := make([]string, len(tasks))
	for i, t := range tasks {
		texts[i] = t.Text
	}
	return texts
}

func TestAdd_PrependsIncompleteTask(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, testutil.NewFakeStore())

	_, err := m.Add(ctx, "first")
	require.NoError(t, err)
	added, err := m.Add(ctx, "  second  ")
	require.NoError(t, err)

	tasks := m.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, added, tasks[0])
	assert.Equal(t, "second", tasks[0].Text)
	assert.False(t, tasks[0].Completed)
	assert.NotEqual(t, tasks[0].ID, tasks[1].ID)
}

func TestAdd_EmptyTextIsNoop(t *testing.T) {
	ctx := context.Background()
	fs := testutil.NewFakeStore()
	m := newManager(t, fs)
	_, err := m.Add(ctx, "keep")
	require.NoError(t, err)
	before := m.Tasks()

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := m.Add(ctx, text)
		assert.ErrorIs(t, err, task.ErrEmptyText)
	}

	assert.Equal(t, before, m.Tasks())
	assert.Equal(t, 1, fs.Puts)
}

func TestAdd_SameMillisecondGetsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	fixed := time.UnixMilli(1_700_000_000_000)
	m := task.Open(ctx, testutil.NewFakeStore().Entry(), task.WithClock(func() time.Time { return fixed }))

	a, err := m.Add(ctx, "a")
	require.NoError(t, err)
	b, err := m.Add(ctx, "b")
	require.NoError(t, err)

	assert.Equal(t, fixed.UnixMilli(), a.ID)
	assert.Equal(t, a.ID+1, b.ID)
	assert.Equal(t, a.CreatedAt, b.CreatedAt)
}

func TestToggle_TwiceRestoresTask(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, testutil.NewFakeStore())
	orig, err := m.Add(ctx, "walk dog")
	require.NoError(t, err)

	require.NoError(t, m.Toggle(ctx, orig.ID))
	got, ok := m.Get(orig.ID)
	require.True(t, ok)
	assert.True(t, got.Completed)

	require.NoError(t, m.Toggle(ctx, orig.ID))
	got, _ = m.Get(orig.ID)
	assert.Equal(t, orig, got)
}

func TestToggle_MissingID(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, testutil.NewFakeStore())
	_, _ = m.Add(ctx, "x")
	before := m.Tasks()

	assert.ErrorIs(t, m.Toggle(ctx, 42), task.ErrNotFound)
	assert.Equal(t, before, m.Tasks())
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, testutil.NewFakeStore())
	a, _ := m.Add(ctx, "a")
	b, _ := m.Add(ctx, "b")

	require.NoError(t, m.Delete(ctx, a.ID))
	assert.Equal(t, []task.Task{b}, m.Tasks())

	assert.ErrorIs(t, m.Delete(ctx, a.ID), task.ErrNotFound)
	assert.Equal(t, []task.Task{b}, m.Tasks())
}

func TestClear_Idempotent(t *testing.T) {
	ctx := context.Background()
	fs := testutil.NewFakeStore()
	m := newManager(t, fs)
	_, _ = m.Add(ctx, "a")
	_, _ = m.Add(ctx, "b")

	m.Clear(ctx)
	assert.Empty(t, m.Tasks())
	m.Clear(ctx)
	assert.Empty(t, m.Tasks())

	data, ok := fs.Value(store.DefaultKey)
	require.True(t, ok)
	assert.JSONEq(t, `[]`, string(data))
}

func TestSearchIsNotPersisted(t *testing.T) {
	ctx := context.Background()
	fs := testutil.NewFakeStore()
	m := newManager(t, fs)
	_, _ = m.Add(ctx, "a")
	puts := fs.Puts

	m.SetSearch("  A ")
	assert.Equal(t, "  A ", m.Search())
	assert.Equal(t, puts, fs.Puts)
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := testutil.NewFakeStore()
	m := newManager(t, fs)
	a, _ := m.Add(ctx, "alpha")
	_, _ = m.Add(ctx, "beta")
	_, _ = m.Add(ctx, "gamma")
	require.NoError(t, m.Toggle(ctx, a.ID))

	reopened := task.Open(ctx, fs.Entry())
	assert.Equal(t, m.Tasks(), reopened.Tasks())
}

func TestOpen_ContinuesIDsAfterLoadedTasks(t *testing.T) {
	ctx := context.Background()
	fs := testutil.NewFakeStore()
	fs.Set(store.DefaultKey, []byte(`[{"id":5000,"text":"old","completed":false,"createdAt":10}]`))

	m := task.Open(ctx, fs.Entry(), task.WithClock(func() time.Time { return time.UnixMilli(100) }))
	added, err := m.Add(ctx, "new")
	require.NoError(t, err)

	assert.Equal(t, int64(5001), added.ID)
	assert.Equal(t, int64(100), added.CreatedAt)
}

func TestOpen_MalformedDataStartsEmpty(t *testing.T) {
	var logBuf bytes.Buffer
	fs := testutil.NewFakeStore()
	fs.Set(store.DefaultKey, []byte(`{not json`))

	m := task.Open(context.Background(), fs.Entry(), task.WithLogger(logging.New(&logBuf, false)))

	assert.Empty(t, m.Tasks())
	assert.Contains(t, logBuf.String(), "load failed")
}

func TestOpen_UnreadableStoreStartsEmpty(t *testing.T) {
	var logBuf bytes.Buffer
	fs := testutil.NewFakeStore()
	fs.GetErr = errors.New("disk on fire")

	m := task.Open(context.Background(), fs.Entry(), task.WithLogger(logging.New(&logBuf, false)))

	assert.Empty(t, m.Tasks())
	assert.Contains(t, logBuf.String(), "disk on fire")
}

func TestOpen_AbsentDataStartsEmptyWithoutLogging(t *testing.T) {
	var logBuf bytes.Buffer
	m := task.Open(context.Background(), testutil.NewFakeStore().Entry(), task.WithLogger(logging.New(&logBuf, false)))

	assert.Empty(t, m.Tasks())
	assert.Empty(t, logBuf.String())
}

func TestSaveFailure_ContinuesInMemory(t *testing.T) {
	ctx := context.Background()
	var logBuf bytes.Buffer
	fs := testutil.NewFakeStore()
	fs.PutErr = errors.New("quota exceeded")
	m := task.Open(ctx, fs.Entry(), task.WithClock(tickingClock()), task.WithLogger(logging.New(&logBuf, false)))

	_, err := m.Add(ctx, "a")
	require.NoError(t, err)
	assert.True(t, m.MemoryOnly())
	assert.Contains(t, logBuf.String(), "save failed: quota exceeded")

	// No retry once in memory-only mode.
	fs.PutErr = nil
	_, err = m.Add(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 0, fs.Puts)
	assert.Len(t, m.Tasks(), 2)
}

func TestNilPersistenceIsMemoryOnly(t *testing.T) {
	ctx := context.Background()
	m := task.Open(ctx, nil)

	_, err := m.Add(ctx, "scratch")
	require.NoError(t, err)
	assert.True(t, m.MemoryOnly())
	assert.Len(t, m.Tasks(), 1)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, testutil.NewFakeStore())

	var snaps []task.Snapshot
	cancel := m.Subscribe(func(s task.Snapshot) { snaps = append(snaps, s) })

	a, _ := m.Add(ctx, "write report")
	m.SetSearch("write")
	require.NoError(t, m.StartEdit(a.ID))

	require.Len(t, snaps, 3)
	assert.Equal(t, []string{"write report"}, viewTexts(snaps[0].View))
	assert.Equal(t, "write", snaps[1].Search)
	assert.Equal(t, task.Editing, snaps[2].Edit.Mode)

	cancel()
	m.CancelEdit()
	assert.Len(t, snaps, 3)
}

func TestSubscribe_CancelKeepsOthers(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, testutil.NewFakeStore())

	var first, second int
	cancelFirst := m.Subscribe(func(task.Snapshot) { first++ })
	m.Subscribe(func(task.Snapshot) { second++ })

	_, _ = m.Add(ctx, "a")
	cancelFirst()
	_, _ = m.Add(ctx, "b")

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestScenario_BuyMilkWriteReport(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, testutil.NewFakeStore())

	milk, _ := m.Add(ctx, "buy milk")
	_, _ = m.Add(ctx, "write report")
	assert.Equal(t, []string{"write report", "buy milk"}, viewTexts(m.View()))

	require.NoError(t, m.Toggle(ctx, milk.ID))
	assert.Equal(t, []string{"write report", "buy milk"}, viewTexts(m.View()))

	m.SetSearch("write")
	assert.Equal(t, []string{"write report"}, viewTexts(m.View()))
}

func TestScenario_SameMillisecondAddsKeepNewestFirst(t *testing.T) {
	ctx := context.Background()
	fixed := time.UnixMilli(1_700_000_000_000)
	m := task.Open(ctx, nil, task.WithClock(func() time.Time { return fixed }))

	_, _ = m.Add(ctx, "buy milk")
	_, _ = m.Add(ctx, "write report")

	assert.Equal(t, []string{"write report", "buy milk"}, viewTexts(m.View()))
}
