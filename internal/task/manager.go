package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"todo/internal/logging"
)

// Manager owns the task collection, the search term and the edit state.
// Every operation runs to completion before returning; a Manager is not safe
// for concurrent use.
type Manager struct {
	store  Persistence
	log    *logging.Logger
	now    func() time.Time
	tasks  []Task
	search string
	edit   EditState
	lastID int64

	// memoryOnly is set after a failed save; nothing is written afterwards.
	memoryOnly bool

	observers []observer
	nextObs   int
}

type observer struct {
	id int
	fn func(Snapshot)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithClock overrides the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Open creates a Manager and performs the startup load from store. Missing or
// malformed data yields an empty collection. A nil store keeps the manager
// purely in memory.
func Open(ctx context.Context, store Persistence, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		log:   logging.Discard(),
		now:   time.Now,
		edit:  idle(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if store == nil {
		m.memoryOnly = true
		return m
	}

	tasks, err := m.load(ctx)
	if err != nil {
		m.log.Printf("%v; starting with an empty list", err)
		tasks = nil
	}
	m.tasks = tasks
	for _, t := range tasks {
		if t.ID > m.lastID {
			m.lastID = t.ID
		}
	}
	m.log.Debugf("loaded %d tasks", len(m.tasks))
	return m
}

func (m *Manager) load(ctx context.Context) ([]Task, error) {
	data, err := m.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	tasks, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}
	return tasks, nil
}

// save writes the collection. Failures are logged and switch the manager to
// in-memory operation for the rest of the session.
func (m *Manager) save(ctx context.Context) {
	if m.memoryOnly {
		return
	}
	data, err := Encode(m.tasks)
	if err == nil {
		err = m.store.Save(ctx, data)
	}
	if err != nil {
		m.memoryOnly = true
		m.log.Printf("%v: %v; further changes are kept in memory only", ErrSaveFailure, err)
		return
	}
	m.log.Debugf("saved %d tasks", len(m.tasks))
}

// MemoryOnly reports whether changes are no longer being persisted.
func (m *Manager) MemoryOnly() bool {
	return m.memoryOnly
}

// nextID returns a millisecond timestamp id, bumped past the last issued id
// when two tasks are created within the same millisecond.
func (m *Manager) nextID(ms int64) int64 {
	id := ms
	if id <= m.lastID {
		id = m.lastID + 1
	}
	m.lastID = id
	return id
}

func (m *Manager) indexOf(id int64) int {
	for i, t := range m.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Add creates a task from text and prepends it to the collection.
func (m *Manager) Add(ctx context.Context, text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyText
	}

	ms := m.now().UnixMilli()
	t := Task{
		ID:        m.nextID(ms),
		Text:      text,
		Completed: false,
		CreatedAt: ms,
	}

	tasks := make([]Task, 0, len(m.tasks)+1)
	tasks = append(tasks, t)
	tasks = append(tasks, m.tasks...)
	m.tasks = tasks

	m.save(ctx)
	m.notify()
	return t, nil
}

// Toggle flips the completion flag of the task with id.
func (m *Manager) Toggle(ctx context.Context, id int64) error {
	i := m.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}

	tasks := m.Tasks()
	tasks[i].Completed = !tasks[i].Completed
	m.tasks = tasks

	m.save(ctx)
	m.notify()
	return nil
}

// Delete removes the task with id.
func (m *Manager) Delete(ctx context.Context, id int64) error {
	i := m.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}

	tasks := make([]Task, 0, len(m.tasks)-1)
	tasks = append(tasks, m.tasks[:i]...)
	tasks = append(tasks, m.tasks[i+1:]...)
	m.tasks = tasks

	m.save(ctx)
	m.notify()
	return nil
}

// Clear removes every task.
func (m *Manager) Clear(ctx context.Context) {
	m.tasks = []Task{}
	m.save(ctx)
	m.notify()
}

// StartEdit puts the task with id into edit mode with its current text,
// replacing any edit already in progress.
func (m *Manager) StartEdit(id int64) error {
	i := m.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	m.edit = editing(id, m.tasks[i].Text)
	m.notify()
	return nil
}

// SetEditText replaces the pending text of the current edit.
func (m *Manager) SetEditText(text string) {
	if m.edit.Mode != Editing {
		return
	}
	m.edit.Text = text
	m.notify()
}

// CancelEdit leaves edit mode without touching the collection.
func (m *Manager) CancelEdit() {
	if m.edit.Mode == Idle {
		return
	}
	m.edit = idle()
	m.notify()
}

// CommitEdit writes the trimmed pending text to the edited task. Blank text
// leaves edit mode open. If the task was deleted meanwhile the edit is
// dropped.
func (m *Manager) CommitEdit(ctx context.Context) error {
	id, ok := m.edit.Target()
	if !ok {
		return ErrNotEditing
	}
	text := strings.TrimSpace(m.edit.Text)
	if text == "" {
		return ErrEmptyText
	}

	i := m.indexOf(id)
	if i < 0 {
		m.edit = idle()
		m.notify()
		return ErrNotFound
	}

	tasks := m.Tasks()
	tasks[i].Text = text
	m.tasks = tasks
	m.edit = idle()

	m.save(ctx)
	m.notify()
	return nil
}

// SetSearch stores the raw search term used by View.
func (m *Manager) SetSearch(term string) {
	if term == m.search {
		return
	}
	m.search = term
	m.notify()
}

// Search returns the current search term.
func (m *Manager) Search() string {
	return m.search
}

// Edit returns the current edit state.
func (m *Manager) Edit() EditState {
	return m.edit
}

// Tasks returns a copy of the collection in stored order.
func (m *Manager) Tasks() []Task {
	tasks := make([]Task, len(m.tasks))
	copy(tasks, m.tasks)
	return tasks
}

// Get returns the task with id.
func (m *Manager) Get(id int64) (Task, bool) {
	i := m.indexOf(id)
	if i < 0 {
		return Task{}, false
	}
	return m.tasks[i], true
}

// Len returns the number of tasks held.
func (m *Manager) Len() int {
	return len(m.tasks)
}

// View returns the derived view for the current search term.
func (m *Manager) View() []Task {
	return Derive(m.tasks, m.search)
}

// Snapshot captures the current state.
func (m *Manager) Snapshot() Snapshot {
	return Snapshot{
		Tasks:  m.Tasks(),
		View:   m.View(),
		Search: m.search,
		Edit:   m.edit,
	}
}

// Subscribe registers fn to be called with a Snapshot after every state
// change. The returned function removes the registration.
func (m *Manager) Subscribe(fn func(Snapshot)) (cancel func()) {
	id := m.nextObs
	m.nextObs++
	m.observers = append(m.observers, observer{id: id, fn: fn})

	return func() {
		for i, o := range m.observers {
			if o.id == id {
				m.observers = append(m.observers[:i:i], m.observers[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) notify() {
	if len(m.observers) == 0 {
		return
	}
	snap := m.Snapshot()
	for _, o := range m.observers {
		o.fn(snap)
	}
}
