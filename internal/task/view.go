package task

import (
	"sort"
	"strings"
)

// Derive returns the tasks whose text contains term (case-insensitive),
// incomplete tasks first and newest first within each group. Ties on
// CreatedAt keep stored order. tasks is never modified.
func Derive(tasks []Task, term string) []Task {
	needle := strings.ToLower(term)

	view := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Text), needle) {
			view = append(view, t)
		}
	}

	sort.SliceStable(view, func(i, j int) bool {
		a, b := view[i], view[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		return a.CreatedAt > b.CreatedAt
	})
	return view
}
