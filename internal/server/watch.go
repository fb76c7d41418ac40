package server

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the burst of events an editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// Watcher calls a function when watched files change.
// Files are watched through their parent directory, since editors often
// replace a file instead of writing it in place.
type Watcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]struct{}
	dirs     []string
	onChange func()
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher watches the given files and, recursively, the given
// directories. Missing paths are skipped with a debug log.
func NewWatcher(files, dirs []string, onChange func(), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]struct{}),
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   logger,
	}

	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			continue
		}
		w.files[abs] = struct{}{}
		if err := fsw.Add(filepath.Dir(abs)); err != nil {
			logger.Debug("not watching document", "path", file, "error", err)
		}
	}
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		if _, err := os.Stat(abs); err != nil {
			logger.Debug("not watching directory", "path", dir, "error", err)
			continue
		}
		w.dirs = append(w.dirs, abs)
		w.addTree(abs)
	}
	return w, nil
}

func (w *Watcher) addTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.fsw.Add(path); err != nil {
				w.logger.Debug("failed to watch directory", "path", path, "error", err)
			}
		}
		return nil
	})
}

// Run handles events until ctx is done, then closes the watcher.
// onChange is called from Run's goroutine, so it never runs after Run returns.
func (w *Watcher) Run(ctx context.Context) {
	defer func() { _ = w.fsw.Close() }()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.handle(event) {
				timer.Reset(w.debounce)
				pending = timer.C
			}
		case <-pending:
			pending = nil
			w.onChange()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

// handle reports whether event should schedule a change.
func (w *Watcher) handle(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if !w.relevant(event.Name) {
		return false
	}

	if event.Has(fsnotify.Create) && w.inDirs(event.Name) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addTree(event.Name)
		}
	}

	w.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
	return true
}

func (w *Watcher) relevant(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	if _, ok := w.files[abs]; ok {
		return true
	}
	return w.inDirs(abs)
}

func (w *Watcher) inDirs(path string) bool {
	for _, dir := range w.dirs {
		rel, err := filepath.Rel(dir, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
