// Package watch reports changes to a fixed set of files. Events are
// debounced so an editor's save burst triggers one callback.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"atscore/internal/errors"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

type fileState struct {
	modTime time.Time
	size    int64
}

// FileWatcher watches files for changes and invokes a callback
type FileWatcher struct {
	mu sync.RWMutex

	files []string
	last  map[string]fileState

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	onChange func()
	logger   *errors.Logger

	running bool
}

// New creates a watcher for files. Empty paths are ignored. A zero debounce
// uses the default.
func New(files []string, debounce time.Duration, onChange func(), logger *errors.Logger) (*FileWatcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("watch callback is required")
	}
	var paths []string
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		if !slices.Contains(paths, abs) {
			paths = append(paths, abs)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	return &FileWatcher{
		files:         paths,
		last:          make(map[string]fileState),
		debounceDelay: debounce,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		onChange:      onChange,
		logger:        logger,
	}, nil
}

// Start begins watching
func (w *FileWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("file watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.fsWatcher = watcher

	if err := w.snapshot(); err != nil {
		w.closeWatcher()
		return fmt.Errorf("failed to read initial file state: %w", err)
	}

	for _, file := range w.files {
		if err := w.addFile(file); err != nil && w.logger != nil {
			w.logger.Warn("Failed to watch file", "file", file, "error", err)
		}
	}

	w.running = true
	go w.loop()

	if w.logger != nil {
		w.logger.Info("File watcher started", "files", w.files, "debounce_delay", w.debounceDelay)
	}
	return nil
}

// Stop stops the watcher. Stopping twice is a no-op.
func (w *FileWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	close(w.stopChan)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.running = false

	if w.fsWatcher != nil {
		if err := w.fsWatcher.Close(); err != nil {
			if w.logger != nil {
				w.logger.LogError(err, "Failed to close file system watcher")
			}
			return err
		}
	}

	if w.logger != nil {
		w.logger.Info("File watcher stopped")
	}
	return nil
}

// IsRunning reports whether the watcher is running
func (w *FileWatcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// Files returns the absolute paths being watched
func (w *FileWatcher) Files() []string {
	return slices.Clone(w.files)
}

func (w *FileWatcher) closeWatcher() {
	if w.fsWatcher != nil {
		if err := w.fsWatcher.Close(); err != nil && w.logger != nil {
			w.logger.LogError(err, "Failed to close file watcher during cleanup")
		}
	}
}

// addFile watches the file and its directory; the directory catches
// atomic writes that replace the file by rename.
func (w *FileWatcher) addFile(file string) error {
	dir := filepath.Dir(file)
	if err := w.fsWatcher.Add(file); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to watch file %s: %w", file, err)
		}
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	return nil
}

func (w *FileWatcher) snapshot() error {
	for _, file := range w.files {
		stat, err := os.Stat(file)
		if err == nil {
			w.last[file] = fileState{modTime: stat.ModTime(), size: stat.Size()}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat file %s: %w", file, err)
		}
	}
	return nil
}

// changed is only called from the loop goroutine
func (w *FileWatcher) changed(file string) bool {
	stat, err := os.Stat(file)
	if err != nil {
		if _, exists := w.last[file]; exists && os.IsNotExist(err) {
			delete(w.last, file)
			return true
		}
		return false
	}

	cur := fileState{modTime: stat.ModTime(), size: stat.Size()}
	prev, exists := w.last[file]
	if !exists || cur.modTime.After(prev.modTime) || cur.size != prev.size {
		w.last[file] = cur
		return true
	}
	return false
}

func (w *FileWatcher) loop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				w.scheduleReload()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.LogError(err, "File watcher error")
			}

		case <-w.reloadChan:
			// evaluate every file so each state is refreshed
			dirty := false
			for _, f := range w.files {
				if w.changed(f) {
					dirty = true
				}
			}
			if dirty {
				if w.logger != nil {
					w.logger.Debug("Watched files changed")
				}
				w.onChange()
			}

		case <-w.stopChan:
			return
		}
	}
}

func (w *FileWatcher) relevant(event fsnotify.Event) bool {
	name := filepath.Clean(event.Name)
	if !slices.Contains(w.files, name) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}

func (w *FileWatcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		select {
		case w.reloadChan <- struct{}{}:
		default:
		}
	})
}
