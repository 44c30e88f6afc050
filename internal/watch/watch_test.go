package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
	ch    chan string
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan string, 16)}
}

func (r *recorder) handle(path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
	r.ch <- path
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}

func (r *recorder) wait(t *testing.T) string {
	t.Helper()
	select {
	case p := <-r.ch:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for handler")
		return ""
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New(Options{}, func(string) {}); !errors.Is(err, ErrNoDirs) {
		t.Errorf("New with no dirs error = %v", err)
	}
	if _, err := New(Options{Dirs: []string{"."}, Pattern: "[B"}, func(string) {}); err == nil {
		t.Error("New accepted a malformed pattern")
	}
	w, err := New(Options{Dirs: []string{"."}}, func(string) {})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if w.opts.Debounce != DefaultDebounce {
		t.Errorf("Debounce = %v, want %v", w.opts.Debounce, DefaultDebounce)
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	w, _ := New(Options{Dirs: []string{t.TempDir()}, Schedule: "every tuesday"}, func(string) {})
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Fatal("Start accepted a bad cron schedule")
	}
}

func TestWatchDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()
	w, err := New(Options{Dirs: []string{dir}, Pattern: "B*", Debounce: 100 * time.Millisecond}, rec.handle)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	store := filepath.Join(dir, "B1")
	f, err := os.Create(store)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		f.Write([]byte("block"))
		time.Sleep(10 * time.Millisecond)
	}
	f.Close()
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644)

	if got := rec.wait(t); got != store {
		t.Errorf("handled %s, want %s", got, store)
	}
	time.Sleep(300 * time.Millisecond)
	if n := rec.count(); n != 1 {
		t.Errorf("handler ran %d times, want 1", n)
	}
}

func TestSweepSkipsUnchangedFiles(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "B1"), []byte("one"), 0644)
	os.WriteFile(filepath.Join(dir, "B2"), []byte("two"), 0644)
	os.WriteFile(filepath.Join(dir, "USERS"), []byte("users"), 0644)
	os.Mkdir(filepath.Join(dir, "Bdir"), 0755)

	rec := newRecorder()
	w, _ := New(Options{Dirs: []string{dir}, Pattern: "B?"}, rec.handle)
	w.Sweep()
	if n := rec.count(); n != 2 {
		t.Fatalf("first sweep handled %d files, want 2", n)
	}

	w.Sweep()
	if n := rec.count(); n != 2 {
		t.Errorf("second sweep re-handled unchanged files: %d", n)
	}

	later := time.Now().Add(time.Minute)
	os.Chtimes(filepath.Join(dir, "B2"), later, later)
	w.Sweep()
	if n := rec.count(); n != 3 {
		t.Errorf("sweep after touch handled %d total, want 3", n)
	}
}

func TestScheduledSweep(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "MAIL")
	os.WriteFile(store, []byte("mail"), 0644)

	rec := newRecorder()
	w, _ := New(Options{Dirs: []string{dir}, Schedule: "* * * * * *"}, rec.handle)
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := rec.wait(t); got != store {
		t.Errorf("scheduled sweep handled %s, want %s", got, store)
	}
	cancel()

	deadline := time.Now().Add(5 * time.Second)
	for {
		w.mu.Lock()
		stopped := w.watcher == nil
		w.mu.Unlock()
		if stopped {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("watcher did not stop after context cancel")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	w, _ := New(Options{Dirs: []string{t.TempDir()}}, func(string) {})
	w.Stop()
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Stop()
	w.Stop()
}
