package task

// EditMode is the state of the edit state machine.
type EditMode int

const (
	// Idle means no task is being edited.
	Idle EditMode = iota
	// Editing means exactly one task has a pending text revision.
	Editing
)

func (m EditMode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	default:
		return "unknown"
	}
}

// EditState holds the task being edited and its pending text.
// The zero value is Idle.
type EditState struct {
	Mode EditMode
	ID   int64
	Text string
}

// Target returns the id being edited and whether an edit is in progress.
func (e EditState) Target() (int64, bool) {
	return e.ID, e.Mode == Editing
}

func idle() EditState {
	return EditState{Mode: Idle}
}

func editing(id int64, text string) EditState {
	return EditState{Mode: Editing, ID: id, Text: text}
}
