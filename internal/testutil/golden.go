package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// GoldenDir is where golden files live, relative to the package under test.
const GoldenDir = "testdata"

// Golden compares output against testdata/<name>.golden.
// If the GOLDEN_UPDATE environment variable is set, updates the golden file.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	goldenPath := filepath.Join(GoldenDir, name+".golden")

	if os.Getenv("GOLDEN_UPDATE") != "" {
		if err := os.MkdirAll(GoldenDir, 0755); err != nil {
			t.Fatalf("failed to create %s dir: %v", GoldenDir, err)
		}
		if err := os.WriteFile(goldenPath, got, 0644); err != nil {
			t.Fatalf("failed to update golden file: %v", err)
		}
		return
	}

	want, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v\nGot:\n%s", goldenPath, err, got)
	}

	if !bytes.Equal(got, want) {
		line, w, g := firstDiff(want, got)
		t.Errorf("output mismatch for %s at line %d\nwant: %q\ngot:  %q\n\nWant:\n%s\nGot:\n%s", name, line, w, g, want, got)
	}
}

// GoldenString is like Golden but takes a string.
func GoldenString(t *testing.T, name string, got string) {
	t.Helper()
	Golden(t, name, []byte(got))
}

// firstDiff returns the 1-based number of the first differing line and the
// two versions of it.
func firstDiff(want, got []byte) (int, []byte, []byte) {
	wl := bytes.Split(want, []byte("\n"))
	gl := bytes.Split(got, []byte("\n"))
	for i := 0; i < len(wl) || i < len(gl); i++ {
		var w, g []byte
		if i < len(wl) {
			w = wl[i]
		}
		if i < len(gl) {
			g = gl[i]
		}
		if !bytes.Equal(w, g) || i >= len(wl) || i >= len(gl) {
			return i + 1, w, g
		}
	}
	return 0, nil, nil
}
