package task

import (
	"encoding/json"
	"fmt"
	"strings"
)

// record mirrors Task with pointer fields so that missing keys are detected.
type record struct {
	ID        *int64  `json:"id"`
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
	CreatedAt *int64  `json:"createdAt"`
}

// Encode serializes tasks as a JSON array in stored order.
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	return json.Marshal(tasks)
}

// Decode parses a serialized collection. Any record missing one of the four
// fields, holding blank text, or repeating an id makes the whole payload
// malformed.
func Decode(data []byte) ([]Task, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid task data: %w", err)
	}

	tasks := make([]Task, 0, len(records))
	seen := make(map[int64]bool, len(records))
	for i, r := range records {
		if r.ID == nil || r.Text == nil || r.Completed == nil || r.CreatedAt == nil {
			return nil, fmt.Errorf("invalid task data: record %d is incomplete", i)
		}
		if strings.TrimSpace(*r.Text) == "" {
			return nil, fmt.Errorf("invalid task data: record %d has empty text", i)
		}
		if seen[*r.ID] {
			return nil, fmt.Errorf("invalid task data: duplicate id %d", *r.ID)
		}
		seen[*r.ID] = true
		tasks = append(tasks, Task{
			ID:        *r.ID,
			Text:      *r.Text,
			Completed: *r.Completed,
			CreatedAt: *r.CreatedAt,
		})
	}
	return tasks, nil
}
