// Package watch reloads a schema file whenever it changes on disk and hands
// the new text to a callback.
package watch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last file event before the
// file is re-read.
const DefaultDebounce = 100 * time.Millisecond

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Zero reloads on every event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithErrorHandler receives read and watcher errors. Without a handler errors
// are logged and watching continues.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// Watcher follows a single file. Callbacks run on the goroutine that called
// Run, one at a time.
type Watcher struct {
	path     string
	onChange func(text string)
	onError  func(error)
	debounce time.Duration
	logger   *slog.Logger
	last     []byte
	loaded   bool
}

// New prepares a watcher for path. onChange receives the full file text on
// start and after every change that alters the content.
func New(path string, onChange func(text string), opts ...Option) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("watch: path is required")
	}
	if onChange == nil {
		return nil, errors.New("watch: change callback is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %q: %w", path, err)
	}
	w := &Watcher{
		path:     abs,
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(w)
	}
	return w, nil
}

// Path reports the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run emits the current content, then watches until ctx is cancelled. The
// parent directory is watched so editors that save by renaming a temp file
// over the original are followed.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer func() {
		_ = fsw.Close()
	}()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch: add %q: %w", filepath.Dir(w.path), err)
	}

	if err := w.reload(); err != nil {
		return err
	}

	timer := time.NewTimer(time.Hour)
	stopTimer(timer)
	pending := false

	for {
		select {
		case <-ctx.Done():
			stopTimer(timer)
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Chmod) == 0 {
				continue
			}
			w.logger.Debug("watch.event", "path", w.path, "op", ev.Op.String())
			if w.debounce <= 0 {
				w.reloadAndReport()
				continue
			}
			if pending {
				stopTimer(timer)
			}
			timer.Reset(w.debounce)
			pending = true

		case <-timer.C:
			pending = false
			w.reloadAndReport()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.report(fmt.Errorf("watch: %w", err))
		}
	}
}

func (w *Watcher) reloadAndReport() {
	if err := w.reload(); err != nil {
		w.report(err)
	}
}

// reload reads the file and calls onChange when the content differs from the
// last emitted content.
func (w *Watcher) reload() error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return fmt.Errorf("watch: read %q: %w", w.path, err)
	}
	if w.loaded && bytes.Equal(data, w.last) {
		return nil
	}
	w.last = data
	w.loaded = true
	w.logger.Debug("watch.reload", "path", w.path, "bytes", len(data))
	w.onChange(string(data))
	return nil
}

func (w *Watcher) report(err error) {
	if w.onError != nil {
		w.onError(err)
		return
	}
	w.logger.Warn("watch.error", "path", w.path, "error", err)
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
