package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatcher_ReloadOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.toml")
	if err := os.WriteFile(path, []byte("level = \"info\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	loads := make(chan string, 4)
	loader := func(p string) (string, error) {
		data, err := os.ReadFile(p)
		return string(data), err
	}

	w := NewWatcher(path, loader, testLogger(), WithDebounce[string](50*time.Millisecond))
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	unsub := w.OnReload(func(v string) {
		loads <- v
	})
	defer unsub()

	if err := os.WriteFile(path, []byte("level = \"debug\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-loads:
		if got != "level = \"debug\"\n" {
			t.Errorf("handler received %q", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("reload handler not called after file write")
	}
}

func TestWatcher_Unsubscribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.toml")
	if err := os.WriteFile(path, []byte("a = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	loader := func(p string) (int, error) { return 0, nil }

	w := NewWatcher(path, loader, testLogger(), WithDebounce[int](50*time.Millisecond))
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	unsub := w.OnReload(func(int) {
		calls.Add(1)
	})
	unsub()

	if err := os.WriteFile(path, []byte("a = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)

	if got := calls.Load(); got != 0 {
		t.Errorf("removed handler called %d times", got)
	}
}

func TestWatcher_StartMissingFile(t *testing.T) {
	w := NewWatcher("/nonexistent/file.toml", func(string) (int, error) { return 0, nil }, testLogger())
	if err := w.Start(); err == nil {
		w.Stop()
		t.Error("Start() should fail for a missing file")
	}
}
