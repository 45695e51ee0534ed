// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todo/internal/task"
)

// FormatTask formats a task line for the list command.
// Format: "{N:>4}  [x] {TEXT}\n" (4-wide right-aligned number, two spaces,
// completion box, text).
func FormatTask(w io.Writer, num int, t task.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, checkbox(t.Completed), normalizeText(t.Text))
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// normalizeText replaces newlines with spaces so each task stays on one line.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	return strings.ReplaceAll(text, "\n", " ")
}
