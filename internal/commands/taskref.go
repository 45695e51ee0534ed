package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"todo/internal/task"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the 1-based task number at the front of args and
// returns it with the remaining args.
func ParseTaskRef(args []string) (int, []string, error) {
	if len(args) == 0 {
		return 0, nil, ErrTaskRefRequired
	}

	ref := args[0]
	if !isAllDigits(ref) {
		return 0, nil, fmt.Errorf("invalid task reference: %s", ref)
	}
	num, err := strconv.Atoi(ref)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid task reference: %s", ref)
	}
	return num, args[1:], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// numbered returns the unfiltered view, the order list prints and numbers
// tasks in when no search is active.
func numbered(tasks *task.Manager) []task.Task {
	return task.Derive(tasks.Tasks(), "")
}

// findTaskByNumber finds a task by its 1-based number in the unfiltered view.
func findTaskByNumber(tasks *task.Manager, num int) (task.Task, error) {
	view := numbered(tasks)
	if num < 1 || num > len(view) {
		return task.Task{}, fmt.Errorf("task number out of range: %d", num)
	}
	return view[num-1], nil
}

// refError prints the error for a failed ParseTaskRef or findTaskByNumber.
func refError(err error) string {
	if errors.Is(err, ErrTaskRefRequired) {
		return "error: task reference required"
	}
	return "error: " + err.Error()
}
