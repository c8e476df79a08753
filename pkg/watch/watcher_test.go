package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/panbanda/mood/pkg/config"
)

func TestNewWatcher(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := config.DefaultConfig()

	tests := []struct {
		name     string
		debounce time.Duration
		want     time.Duration
	}{
		{"default debounce", 0, DefaultDebounce},
		{"custom debounce", time.Second, time.Second},
		{"negative debounce defaults", -time.Second, DefaultDebounce},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWatcher(tmpDir, cfg, tt.debounce)
			if err != nil {
				t.Fatalf("NewWatcher() error = %v", err)
			}
			defer w.Stop()

			if w.config != cfg {
				t.Error("config should match")
			}
			if w.path != tmpDir {
				t.Errorf("path = %v, want %v", w.path, tmpDir)
			}
			if w.debounce != tt.want {
				t.Errorf("debounce = %v, want %v", w.debounce, tt.want)
			}
		})
	}
}

func TestNewWatcher_NilConfig(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), nil, 0)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()
	if w.config == nil {
		t.Error("nil config should fall back to defaults")
	}
}

func TestWatcher_handleEvent(t *testing.T) {
	tmpDir := t.TempDir()
	w, err := NewWatcher(tmpDir, config.DefaultConfig(), time.Second)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	tests := []struct {
		name        string
		event       fsnotify.Event
		wantPending bool
	}{
		{"write python file", fsnotify.Event{Name: filepath.Join(tmpDir, "model.py"), Op: fsnotify.Write}, true},
		{"create python file", fsnotify.Event{Name: filepath.Join(tmpDir, "new.py"), Op: fsnotify.Create}, true},
		{"remove python file", fsnotify.Event{Name: filepath.Join(tmpDir, "gone.py"), Op: fsnotify.Remove}, true},
		{"rename python file", fsnotify.Event{Name: filepath.Join(tmpDir, "old.py"), Op: fsnotify.Rename}, true},
		{"chmod ignored", fsnotify.Event{Name: filepath.Join(tmpDir, "mode.py"), Op: fsnotify.Chmod}, false},
		{"non-python ignored", fsnotify.Event{Name: filepath.Join(tmpDir, "main.go"), Op: fsnotify.Write}, false},
		{"test module ignored", fsnotify.Event{Name: filepath.Join(tmpDir, "test_model.py"), Op: fsnotify.Write}, false},
		{"excluded dir ignored", fsnotify.Event{Name: filepath.Join(tmpDir, ".venv", "lib.py"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w.mu.Lock()
			w.pending = make(map[string]time.Time)
			w.mu.Unlock()

			w.handleEvent(tt.event)

			w.mu.Lock()
			_, ok := w.pending[tt.event.Name]
			w.mu.Unlock()
			if ok != tt.wantPending {
				t.Errorf("pending = %v, want %v", ok, tt.wantPending)
			}
		})
	}
}

func TestWatcher_handleEvent_NewDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	w, err := NewWatcher(tmpDir, config.DefaultConfig(), time.Second)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	sub := filepath.Join(tmpDir, "pkg")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	w.handleEvent(fsnotify.Event{Name: sub, Op: fsnotify.Create})

	found := false
	for _, p := range w.WatchedFiles() {
		if p == sub {
			found = true
		}
	}
	if !found {
		t.Errorf("new directory %s should be watched, got %v", sub, w.WatchedFiles())
	}
}

func TestWatcher_processPending_Batches(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), config.DefaultConfig(), 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	var batches [][]string
	w.SetCallback(func(changed []string) {
		batches = append(batches, changed)
	})

	old := time.Now().Add(-time.Second)
	w.pending["b.py"] = old
	w.pending["a.py"] = old
	w.processPending()

	if len(batches) != 1 {
		t.Fatalf("batches = %d, want 1", len(batches))
	}
	if len(batches[0]) != 2 || batches[0][0] != "a.py" || batches[0][1] != "b.py" {
		t.Errorf("batch = %v, want [a.py b.py]", batches[0])
	}
	if len(w.pending) != 0 {
		t.Error("pending should be drained")
	}
}

func TestWatcher_processPending_WaitsForQuiet(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), config.DefaultConfig(), time.Hour)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	called := false
	w.SetCallback(func([]string) { called = true })

	w.pending["settled.py"] = time.Now().Add(-2 * time.Hour)
	w.pending["fresh.py"] = time.Now()
	w.processPending()

	if called {
		t.Error("callback should wait until every pending file is quiet")
	}
	if len(w.pending) != 2 {
		t.Errorf("pending = %d, want 2", len(w.pending))
	}
}

func TestWatcher_processPending_NoCallback(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), config.DefaultConfig(), time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	w.pending["a.py"] = time.Now().Add(-time.Second)
	w.processPending()
	if len(w.pending) != 0 {
		t.Error("pending should be drained without a callback")
	}
}

func TestWatcher_Start_Context(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), config.DefaultConfig(), time.Second)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Start() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after cancel")
	}
}

func TestWatcher_Start_FileChange(t *testing.T) {
	tmpDir := t.TempDir()
	w, err := NewWatcher(tmpDir, config.DefaultConfig(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	var mu sync.Mutex
	var got []string
	w.SetCallback(func(changed []string) {
		mu.Lock()
		got = append(got, changed...)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	time.Sleep(100 * time.Millisecond)

	testFile := filepath.Join(tmpDir, "shapes.py")
	if err := os.WriteFile(testFile, []byte("class Shape:\n    pass\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) == 0 || got[0] != testFile {
		t.Errorf("changed = %v, want [%s]", got, testFile)
	}
}

func TestWatcher_Start_ExcludedDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "__pycache__"), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.MkdirAll(filepath.Join(tmpDir, "app"), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	w, err := NewWatcher(tmpDir, config.DefaultConfig(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if err := w.addTree(tmpDir); err != nil {
		t.Fatalf("addTree() error = %v", err)
	}

	var sawApp bool
	for _, path := range w.WatchedFiles() {
		switch filepath.Base(path) {
		case "__pycache__":
			t.Error("__pycache__ should not be watched")
		case "app":
			sawApp = true
		}
	}
	if !sawApp {
		t.Error("app directory should be watched")
	}
}

func TestWatcher_ConcurrentHandleEvent(t *testing.T) {
	tmpDir := t.TempDir()
	w, err := NewWatcher(tmpDir, config.DefaultConfig(), time.Second)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := filepath.Join(tmpDir, string(rune('a'+i))+".py")
			w.handleEvent(fsnotify.Event{Name: name, Op: fsnotify.Write})
		}(i)
	}
	wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) != 20 {
		t.Errorf("pending = %d, want 20", len(w.pending))
	}
}
