// Package tui is the interactive terminal front end. Every key maps to at
// most one task.Manager operation; rows are redrawn from the snapshots the
// manager publishes to its subscribers.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/task"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeSearch
	modeEdit
	modeConfirmClear
)

func (m mode) String() string {
	switch m {
	case modeAdd:
		return "add"
	case modeSearch:
		return "search"
	case modeEdit:
		return "edit"
	case modeConfirmClear:
		return "confirm-clear"
	default:
		return "browse"
	}
}

// board holds the latest snapshot. Model values are copied on every
// Update, so they share it by pointer.
type board struct {
	snap task.Snapshot
}

// Model is the bubbletea model.
type Model struct {
	ctx   context.Context
	tasks *task.Manager
	board *board
	stop  func()

	mode     mode
	cursor   int
	input    textinput.Model
	help     help.Model
	width    int
	quitting bool
}

// New creates a model bound to tasks. Call Close when done to drop the
// subscription.
func New(ctx context.Context, tasks *task.Manager) Model {
	b := &board{snap: tasks.Snapshot()}
	stop := tasks.Subscribe(func(s task.Snapshot) {
		b.snap = s
	})

	ti := textinput.New()
	ti.CharLimit = 500
	ti.Prompt = "> "

	return Model{
		ctx:   ctx,
		tasks: tasks,
		board: b,
		stop:  stop,
		input: ti,
		help:  help.New(),
	}
}

// Close drops the manager subscription.
func (m Model) Close() {
	if m.stop != nil {
		m.stop()
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeEdit:
			return m.updateEdit(msg)
		case modeConfirmClear:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.board.snap.View

	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(view)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Add):
		return m.focus(modeAdd, "", "What needs to be done?")

	case key.Matches(msg, keys.Search):
		return m.focus(modeSearch, m.board.snap.Search, "Search")

	case key.Matches(msg, keys.Edit):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.tasks.StartEdit(t.ID); err != nil {
			return m, nil
		}
		return m.focus(modeEdit, t.Text, "")

	case key.Matches(msg, keys.Toggle):
		if t, ok := m.selected(); ok {
			m.tasks.Toggle(m.ctx, t.ID)
		}

	case key.Matches(msg, keys.Delete):
		if t, ok := m.selected(); ok {
			m.tasks.Delete(m.ctx, t.ID)
		}

	case key.Matches(msg, keys.Clear):
		if len(m.board.snap.Tasks) > 0 {
			m.mode = modeConfirmClear
		}

	case key.Matches(msg, keys.Cancel):
		m.tasks.SetSearch("")
	}

	m.clampCursor()
	return m, nil
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Submit):
		if _, err := m.tasks.Add(m.ctx, m.input.Value()); errors.Is(err, task.ErrEmptyText) {
			return m, nil
		}
		m.cursor = 0
		return m.blur(), nil

	case key.Matches(msg, keys.Cancel):
		return m.blur(), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Submit):
		m = m.blur()
		m.clampCursor()
		return m, nil

	case key.Matches(msg, keys.Cancel):
		m.tasks.SetSearch("")
		m = m.blur()
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.tasks.SetSearch(m.input.Value())
	m.clampCursor()
	return m, cmd
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Submit):
		err := m.tasks.CommitEdit(m.ctx)
		if errors.Is(err, task.ErrEmptyText) {
			return m, nil
		}
		m = m.blur()
		m.clampCursor()
		return m, nil

	case key.Matches(msg, keys.Cancel):
		m.tasks.CancelEdit()
		return m.blur(), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.tasks.SetEditText(m.input.Value())
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Confirm) {
		m.tasks.Clear(m.ctx)
		m.cursor = 0
	}
	m.mode = modeBrowse
	return m, nil
}

func (m Model) focus(md mode, value, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = md
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) blur() Model {
	m.mode = modeBrowse
	m.input.Blur()
	m.input.Reset()
	return m
}

func (m Model) selected() (task.Task, bool) {
	view := m.board.snap.View
	if m.cursor < 0 || m.cursor >= len(view) {
		return task.Task{}, false
	}
	return view[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.board.snap.View)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.board.snap
	var b strings.Builder

	b.WriteString(titleStyle.Render("todo"))
	if snap.Search != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  filter: %q", snap.Search)))
	}
	b.WriteString("\n\n")

	if len(snap.View) == 0 {
		b.WriteString(dimStyle.Render("no tasks found"))
		b.WriteString("\n")
	}
	editID, editing := snap.Edit.Target()
	for i, t := range snap.View {
		if editing && t.ID == editID && m.mode == modeEdit {
			b.WriteString("  " + m.input.View() + "\n")
			continue
		}
		b.WriteString(renderRow(t, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(summary(snap.Tasks)))
	b.WriteString("\n")
	if m.tasks.MemoryOnly() {
		b.WriteString(warnStyle.Render("storage unavailable; changes are kept in memory only"))
		b.WriteString("\n")
	}

	switch m.mode {
	case modeAdd, modeSearch:
		b.WriteString("\n" + m.input.View() + "\n")
		b.WriteString(m.help.View(inputHelp{}))
	case modeEdit:
		b.WriteString("\n" + m.help.View(inputHelp{}))
	case modeConfirmClear:
		b.WriteString("\n" + warnStyle.Render(fmt.Sprintf("Delete all %d tasks? (y/n)", len(snap.Tasks))))
	default:
		b.WriteString("\n" + m.help.View(keys))
	}
	b.WriteString("\n")
	return b.String()
}

func renderRow(t task.Task, selected bool) string {
	box := "[ ]"
	text := t.Text
	if t.Completed {
		box = "[x]"
		text = doneStyle.Render(text)
	}
	cursor := "  "
	if selected {
		cursor = cursorStyle.Render("> ")
	}
	return cursor + box + " " + text
}

func summary(tasks []task.Task) string {
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return fmt.Sprintf("%d of %d done", done, len(tasks))
}

// Run starts an interactive session on the terminal and blocks until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, tasks *task.Manager, opts ...tea.ProgramOption) error {
	m := New(ctx, tasks)
	defer m.Close()

	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
