package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"routegraph/internal/config"
)

func TestWatcherDebouncesWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan struct{}, 10)
	w := New(path, func() { changed <- struct{}{} }).WithDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	select {
	case <-w.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not start")
	}

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("version: 1\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("expected change callback")
	}

	// The burst should collapse into a single callback
	select {
	case <-changed:
		t.Error("expected writes to be debounced into one callback")
	case <-time.After(200 * time.Millisecond):
	}

	t.Run("other files are ignored", func(t *testing.T) {
		other := filepath.Join(filepath.Dir(path), "other.yaml")
		os.WriteFile(other, []byte("x: 1\n"), 0644)
		select {
		case <-changed:
			t.Error("unexpected callback for unrelated file")
		case <-time.After(200 * time.Millisecond):
		}
	})

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Watch() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	var applied *config.Config
	reload := ReloadConfig(path, func(cfg *config.Config) { applied = cfg })

	t.Run("valid file is applied", func(t *testing.T) {
		content := "service_area:\n  min_lat: 24\n  min_lng: 54\n  max_lat: 25\n  max_lng: 55\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		reload()
		if applied == nil {
			t.Fatal("expected config to be applied")
		}
		if applied.ServiceArea.MaxLat != 25 {
			t.Errorf("ServiceArea.MaxLat = %g, want 25", applied.ServiceArea.MaxLat)
		}
	})

	t.Run("invalid file keeps previous config", func(t *testing.T) {
		applied = nil
		content := "service_area:\n  min_lat: 25\n  min_lng: 54\n  max_lat: 24\n  max_lng: 55\n"
		os.WriteFile(path, []byte(content), 0644)
		reload()
		if applied != nil {
			t.Error("inverted service area should not be applied")
		}
	})

	t.Run("unparseable file keeps previous config", func(t *testing.T) {
		applied = nil
		os.WriteFile(path, []byte("service_area: [oops\n"), 0644)
		reload()
		if applied != nil {
			t.Error("broken yaml should not be applied")
		}
	})
}
