package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tnicklin/screambot/logger"
)

var _ Accessor = (*LocalAccessor)(nil)

// LocalAccessor reads resources from a directory and watches them for
// changes.
type LocalAccessor struct {
	baseDir  string
	debounce time.Duration
	logger   logger.Logger

	mu        sync.Mutex
	watcher   *fsnotify.Watcher
	dirs      map[string]struct{}
	callbacks map[string]func()
	timers    map[string]*time.Timer
	done      chan struct{}
	closed    bool
}

// LocalParams holds configuration for creating a LocalAccessor.
type LocalParams struct {
	BaseDir  string
	Debounce time.Duration
	Logger   logger.Logger
}

// NewLocal creates a LocalAccessor rooted at p.BaseDir.
func NewLocal(p LocalParams) *LocalAccessor {
	log := p.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &LocalAccessor{
		baseDir:   p.BaseDir,
		debounce:  p.Debounce,
		logger:    log,
		dirs:      make(map[string]struct{}),
		callbacks: make(map[string]func()),
		timers:    make(map[string]*time.Timer),
	}
}

func (a *LocalAccessor) Access(ctx context.Context, name string, onChange func()) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &AccessError{Name: name, Err: err}
	}

	path := filepath.Join(a.baseDir, name)

	if onChange != nil {
		if err := a.watch(path, onChange); err != nil {
			a.logger.WarnW("failed to watch resource", "name", name, "error", err)
		}
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, &AccessError{Name: name, Err: err}
	}
	if len(body) == 0 {
		return nil, &AccessError{Name: name, Err: ErrEmpty}
	}
	return body, nil
}

// watch registers onChange for path, replacing any earlier callback.
func (a *LocalAccessor) watch(path string, onChange func()) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return os.ErrClosed
	}

	if a.watcher == nil {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		a.watcher = w
		a.done = make(chan struct{})
		go a.run(w, a.done)
	}

	dir := filepath.Dir(path)
	if _, ok := a.dirs[dir]; !ok {
		if err := a.watcher.Add(dir); err != nil {
			return err
		}
		a.dirs[dir] = struct{}{}
	}

	a.callbacks[filepath.Clean(path)] = onChange
	return nil
}

func (a *LocalAccessor) run(w *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				a.schedule(filepath.Clean(ev.Name))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			a.logger.WarnW("resource watcher error", "error", err)
		}
	}
}

// schedule debounces change notifications for path.
func (a *LocalAccessor) schedule(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	if _, ok := a.callbacks[path]; !ok {
		return
	}

	if t, ok := a.timers[path]; ok {
		t.Stop()
	}
	a.timers[path] = time.AfterFunc(a.debounce, func() {
		a.fire(path)
	})
}

func (a *LocalAccessor) fire(path string) {
	a.mu.Lock()
	cb := a.callbacks[path]
	delete(a.timers, path)
	closed := a.closed
	a.mu.Unlock()

	if cb == nil || closed {
		return
	}

	a.logger.InfoW("resource changed", "path", path)
	cb()
}

// Close stops watching. Pending change notifications are dropped.
func (a *LocalAccessor) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	for path, t := range a.timers {
		t.Stop()
		delete(a.timers, path)
	}
	w, done := a.watcher, a.done
	a.mu.Unlock()

	if w == nil {
		return nil
	}
	err := w.Close()
	<-done
	return err
}
