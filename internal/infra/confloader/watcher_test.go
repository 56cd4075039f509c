package confloader

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// The watcher's one consumer is the file catalog, which re-reads its
// products YAML whenever the file changes. The tests below drive the
// watcher the way the catalog does: watch the mapping file, rewrite
// it, and expect a change notification for it.

const productsV1 = `products:
  EBOOK-01:
    filename: files/ebook_01.zip
`

const productsV2 = `products:
  EBOOK-01:
    filename: files/ebook_01.zip
  EBOOK-02:
    filename: files/ebook_02.zip
`

func writeProducts(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestNewWatcher(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if w.watcher == nil {
		t.Error("NewWatcher() watcher is nil")
	}
	if w.done == nil {
		t.Error("NewWatcher() done channel is nil")
	}
	if w.logger == nil {
		t.Error("NewWatcher() logger is nil")
	}
}

func TestNewWatcherWithLogger(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	w, err := NewWatcher(WithWatcherLogger(logger))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if w.logger != logger {
		t.Error("WithWatcherLogger() option not applied")
	}
}

func TestWatchMissingDir(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if err := w.Watch("/nonexistent/path/catalog.yaml"); err == nil {
		t.Error("Watch() expected error for nonexistent directory")
	}
}

func TestCatalogRewriteNotifies(t *testing.T) {
	dir := t.TempDir()
	catalogFile := filepath.Join(dir, "catalog.yaml")
	writeProducts(t, catalogFile, productsV1)

	w, err := NewWatcher(WithWatcherLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Watch(catalogFile); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	// A single write can surface as several events; a buffered channel
	// with a draining select keeps the callback from blocking.
	changed := make(chan string, 10)
	w.OnChange(func(path string) {
		select {
		case changed <- path:
		default:
		}
	})

	w.StartAsync()
	defer w.Stop()
	time.Sleep(100 * time.Millisecond)

	writeProducts(t, catalogFile, productsV2)

	select {
	case path := <-changed:
		// The catalog filters notifications by base name; the watcher
		// must report which file under the directory changed.
		if filepath.Base(path) != "catalog.yaml" {
			t.Errorf("changed path = %q, want the catalog file", path)
		}
	case <-time.After(2 * time.Second):
		t.Error("catalog rewrite did not trigger a notification")
	}
}

func TestAtomicReplaceNotifies(t *testing.T) {
	// Editors and config pushes often write a temp file and rename it
	// over the catalog. The watcher covers the directory, so the
	// resulting create event must still notify.
	dir := t.TempDir()
	catalogFile := filepath.Join(dir, "catalog.yaml")
	writeProducts(t, catalogFile, productsV1)

	w, err := NewWatcher(WithWatcherLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Watch(catalogFile); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	changed := make(chan string, 10)
	w.OnChange(func(path string) {
		select {
		case changed <- path:
		default:
		}
	})

	w.StartAsync()
	defer w.Stop()
	time.Sleep(100 * time.Millisecond)

	staged := filepath.Join(dir, "catalog.yaml.tmp")
	writeProducts(t, staged, productsV2)
	if err := os.Rename(staged, catalogFile); err != nil {
		t.Fatalf("rename: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Error("atomic replace did not trigger a notification")
	}
}

func TestOnChangeFanOut(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	var mu sync.Mutex
	var count int
	for i := 0; i < 3; i++ {
		w.OnChange(func(path string) {
			mu.Lock()
			count++
			mu.Unlock()
		})
	}

	w.notifyCallbacks("catalog.yaml")

	mu.Lock()
	if count != 3 {
		t.Errorf("notified %d callbacks, want 3", count)
	}
	mu.Unlock()
}

func TestRegisterCallbackWhileRunning(t *testing.T) {
	dir := t.TempDir()
	catalogFile := filepath.Join(dir, "catalog.yaml")
	writeProducts(t, catalogFile, productsV1)

	w, err := NewWatcher(WithWatcherLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Watch(catalogFile); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	w.StartAsync()
	defer w.Stop()
	time.Sleep(50 * time.Millisecond)

	// Late registration must not race the event loop.
	var mu sync.Mutex
	var called bool
	w.OnChange(func(path string) {
		mu.Lock()
		called = true
		mu.Unlock()
	})

	w.notifyCallbacks("catalog.yaml")

	mu.Lock()
	if !called {
		t.Error("callback registered while running was not called")
	}
	mu.Unlock()
}

func TestConcurrentNotifications(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	var mu sync.Mutex
	var count int
	w.OnChange(func(path string) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.notifyCallbacks("catalog.yaml")
		}()
	}
	wg.Wait()

	mu.Lock()
	if count != 100 {
		t.Errorf("count = %d, want 100", count)
	}
	mu.Unlock()
}

func TestStartStop(t *testing.T) {
	dir := t.TempDir()
	catalogFile := filepath.Join(dir, "catalog.yaml")
	writeProducts(t, catalogFile, productsV1)

	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Watch(catalogFile); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	w.StartAsync()
	time.Sleep(50 * time.Millisecond)

	if err := w.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}
