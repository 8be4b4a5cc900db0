// Package watch reports when a document file is changed by another program.
package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mindmap/internal/debug"
	"mindmap/internal/notify"
)

// DefaultDebounceDuration coalesces the event bursts editors produce when
// saving.
const DefaultDebounceDuration = 200 * time.Millisecond

var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrAlreadyStarted = errors.New("watcher already started")
)

type Option func(*Watcher)

func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounceDuration = d
	}
}

// WithOnChange sets the callback invoked after the file changed.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

func WithOnError(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// Watcher monitors one file through its parent directory, which survives
// the rename-over-original pattern used for atomic saves.
type Watcher struct {
	path             string
	debounceDuration time.Duration
	onChange         func()
	onError          func(error)

	fsWatcher *fsnotify.Watcher
	debouncer *notify.Debouncer
	suppress  time.Time

	cancel   context.CancelFunc
	started  bool
	mu       sync.Mutex
	changeCh chan struct{}
}

func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:             abs,
		debounceDuration: DefaultDebounceDuration,
		onChange:         func() {},
		onError:          func(error) {},
		changeCh:         make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = notify.NewDebouncer(w.debounceDuration)
	return w, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.fsWatcher = fsw
	w.cancel = cancel
	w.started = true
	go w.loop(ctx, fsw)
	debug.Log("watching %s", w.path)
	return nil
}

// Stop ends watching. Pending notifications are dropped.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	w.cancel()
	w.fsWatcher.Close()
	w.fsWatcher = nil
	w.debouncer.Cancel()
	w.started = false
}

// IgnoreFor suppresses change notifications for d. Callers use it around
// their own writes to the watched file.
func (w *Watcher) IgnoreFor(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.suppress = time.Now().Add(d)
}

// Changed receives after each delivered change.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	target := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			switch {
			case event.Op&fsnotify.Remove != 0:
				if _, err := os.Stat(w.path); os.IsNotExist(err) {
					w.onError(ErrFileRemoved)
				}
			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.debouncer.Trigger(w.notifyChange)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			debug.Log("watch %s: %v", w.path, err)
			w.onError(err)
		}
	}
}

func (w *Watcher) notifyChange() {
	w.mu.Lock()
	started := w.started
	suppressed := time.Now().Before(w.suppress)
	w.mu.Unlock()

	if !started || suppressed {
		return
	}
	w.onChange()

	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
