package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	m "github.com/mouse-blink/suspect/internal/model"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reports run manifests that appear or change under a directory.
type Watcher interface {
	// Watch blocks until ctx is done, calling onManifest for every manifest
	// written under root. onManifest runs on the watcher's goroutine, one call
	// at a time.
	Watch(ctx context.Context, root m.Path, onManifest func(path m.Path)) error
}

// FSNotifyWatcher implements Watcher with fsnotify, debouncing bursts of
// writes to the same file.
type FSNotifyWatcher struct {
	debounce time.Duration
}

// NewFSNotifyWatcher creates a new manifest watcher.
func NewFSNotifyWatcher() *FSNotifyWatcher {
	return &FSNotifyWatcher{debounce: watchDebounce}
}

// Watch monitors root recursively.
func (w *FSNotifyWatcher) Watch(ctx context.Context, root m.Path, onManifest func(path m.Path)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	defer func() { _ = fw.Close() }()

	absRoot, err := filepath.Abs(string(root))
	if err != nil {
		return err
	}

	if info, err := os.Stat(absRoot); err != nil {
		return fmt.Errorf("cannot watch %s: %w", root, err)
	} else if !info.IsDir() {
		return fmt.Errorf("cannot watch %s: not a directory", root)
	}

	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}

		if !info.IsDir() {
			return nil
		}

		if path != absRoot && skipDir(info.Name()) {
			return filepath.SkipDir
		}

		return fw.Add(path)
	})
	if err != nil {
		return err
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
		fire    = make(chan string, 16)
	)

	defer func() {
		mu.Lock()
		for _, t := range pending {
			t.Stop()
		}
		mu.Unlock()
	}()

	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()

		if t, ok := pending[path]; ok {
			t.Reset(w.debounce)
			return
		}

		pending[path] = time.AfterFunc(w.debounce, func() {
			mu.Lock()
			delete(pending, path)
			mu.Unlock()

			select {
			case fire <- path:
			case <-ctx.Done():
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case path := <-fire:
			onManifest(m.Path(path))

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipDir(info.Name()) {
					_ = fw.Add(event.Name)
				}
			}

			if !IsManifest(event.Name) {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				schedule(event.Name)
			}

		case _, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			// fsnotify recovers on its own; keep watching.
		}
	}
}
