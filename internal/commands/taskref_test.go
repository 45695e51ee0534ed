package commands

import (
	"context"
	"testing"
	"time"

	"todo/internal/task"
	"todo/internal/testutil"
)

func TestParseTaskRef_Numeric(t *testing.T) {
	num, rest, err := ParseTaskRef([]string{"5", "new", "text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != 5 {
		t.Errorf("expected 5, got %d", num)
	}
	if len(rest) != 2 || rest[0] != "new" || rest[1] != "text" {
		t.Errorf("unexpected rest: %q", rest)
	}
}

func TestParseTaskRef_NoArgs_Error(t *testing.T) {
	_, _, err := ParseTaskRef(nil)
	if err != ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestParseTaskRef_InvalidRef_Error(t *testing.T) {
	for _, ref := range []string{"abc", "a1", "-1", "1.5", "٣"} {
		_, _, err := ParseTaskRef([]string{ref})
		if err == nil {
			t.Errorf("%q: expected error", ref)
			continue
		}
		expected := "invalid task reference: " + ref
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	}
}

func TestFindTaskByNumber(t *testing.T) {
	ctx := context.Background()
	clock := time.UnixMilli(1_700_000_000_000)
	tasks := task.Open(ctx, testutil.NewFakeStore().Entry(), task.WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	first, _ := tasks.Add(ctx, "first")
	second, _ := tasks.Add(ctx, "second")
	tasks.Toggle(ctx, second.ID)

	// Completed tasks sort last, so "second" is now number 2.
	got, err := findTaskByNumber(tasks, 1)
	if err != nil || got.ID != first.ID {
		t.Errorf("expected first, got %v (%v)", got, err)
	}
	got, err = findTaskByNumber(tasks, 2)
	if err != nil || got.ID != second.ID {
		t.Errorf("expected second, got %v (%v)", got, err)
	}

	// A search does not renumber.
	tasks.SetSearch("second")
	got, err = findTaskByNumber(tasks, 2)
	if err != nil || got.ID != second.ID {
		t.Errorf("expected second with search active, got %v (%v)", got, err)
	}

	for _, n := range []int{0, 3} {
		_, err := findTaskByNumber(tasks, n)
		if err == nil {
			t.Errorf("%d: expected out of range error", n)
		}
	}
}
