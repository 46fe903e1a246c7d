package logtail

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchSignalsWrites(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "melulu.log")

	w, err := Watch(logPath)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	// Other files in the directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.log"), []byte("x\n"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	if err := os.WriteFile(logPath, []byte("INFO hello\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	select {
	case _, ok := <-w.Changed():
		if !ok {
			t.Fatalf("Changed closed early: %v", w.Err())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change signalled after write")
	}
}

func TestWatchCloseClosesChannel(t *testing.T) {
	w, err := Watch(filepath.Join(t.TempDir(), "melulu.log"))
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	select {
	case _, ok := <-w.Changed():
		if ok {
			// A buffered signal may precede the close; the next read must see it closed.
			if _, ok := <-w.Changed(); ok {
				t.Fatal("Changed still open after Close")
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Changed not closed after Close")
	}
}
