package blogapi

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// contentWatcher invalidates the index cache when the content tree changes
// on disk, so edits show up without waiting for the TTL or a fingerprint
// poll. It is an optimization on top of the fingerprint check, not a
// replacement: missed events are caught by the next poll.
type contentWatcher struct {
	root    string
	cache   *IndexCache
	watcher *fsnotify.Watcher
	lg      Logger
}

// newContentWatcher starts watching root and all its subdirectories.
func newContentWatcher(root string, cache *IndexCache, lg Logger) (*contentWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	cw := &contentWatcher{root: root, cache: cache, watcher: w, lg: lg}
	if err := cw.addDirs(root); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch content tree: %w", err)
	}
	go cw.loop()
	return cw, nil
}

// addDirs recursively registers directories, skipping hidden ones.
func (cw *contentWatcher) addDirs(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err // unreadable root is fatal, nothing to watch
			}
			return nil // skip unreadable entries
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return cw.watcher.Add(path)
	})
}

func (cw *contentWatcher) loop() {
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			cw.handleEvent(event)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.lg.Errorf("content watcher: %v", err)
		}
	}
}

func (cw *contentWatcher) handleEvent(event fsnotify.Event) {
	if strings.Contains(event.Name, string(filepath.Separator)+".") {
		return // hidden files and folders
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	// New directories must be watched before anything inside them changes.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = cw.addDirs(event.Name)
		}
	}
	cw.cache.Invalidate()
}

// Close stops the watcher goroutine.
func (cw *contentWatcher) Close() error {
	return cw.watcher.Close()
}
