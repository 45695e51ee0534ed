package store_test

import (
	"context"
	"errors"
	"testing"

	"todo/internal/store"
	"todo/internal/testutil"
)

func TestEntry_LoadAbsentReturnsNil(t *testing.T) {
	fs := testutil.NewFakeStore()
	e := store.Entry{Store: fs, Key: "todos"}

	data, err := e.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data != nil {
		t.Errorf("expected nil data, got %q", data)
	}
}

func TestEntry_SaveThenLoad(t *testing.T) {
	fs := testutil.NewFakeStore()
	e := store.Entry{Store: fs, Key: "todos"}
	ctx := context.Background()

	if err := e.Save(ctx, []byte(`[]`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := e.Load(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected %q, got %q", "[]", data)
	}
}

func TestEntry_LoadPropagatesBackendErrors(t *testing.T) {
	fs := testutil.NewFakeStore()
	fs.GetErr = errors.New("boom")
	e := store.Entry{Store: fs, Key: "todos"}

	if _, err := e.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestValidateKey(t *testing.T) {
	valid := []string{"todos", "work-list", "a.b"}
	for _, k := range valid {
		if err := store.ValidateKey(k); err != nil {
			t.Errorf("expected %q to be valid, got %v", k, err)
		}
	}

	invalid := []string{"", "  ", "../todos", `a\b`, "a/b", ".", ".."}
	for _, k := range invalid {
		if err := store.ValidateKey(k); err == nil {
			t.Errorf("expected %q to be rejected", k)
		}
	}
}
