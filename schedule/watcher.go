package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/propsum/propsum/errors"
)

// Watcher fires path-change triggers when watched files or directories
// are written. Rapid event bursts are debounced into a single cycle.
type Watcher struct {
	cycle   CycleFunc
	watcher *fsnotify.Watcher
	paths   []string
	logger  *zap.SugaredLogger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu             sync.Mutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	pendingPaths   []string
}

// NewWatcher creates a watcher over the given paths. Missing paths fail
// construction.
func NewWatcher(ctx context.Context, cycle CycleFunc, paths []string, logger *zap.SugaredLogger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating filesystem watcher")
	}

	for _, path := range paths {
		if err := fsw.Add(path); err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "watching %s", path)
		}
	}

	watcherCtx, cancel := context.WithCancel(ctx)
	return &Watcher{
		cycle:          cycle,
		watcher:        fsw,
		paths:          paths,
		logger:         logger,
		ctx:            watcherCtx,
		cancel:         cancel,
		debouncePeriod: 500 * time.Millisecond,
	}, nil
}

// Start begins delivering path-change triggers.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.watchLoop()
	w.logger.Infow("Path watcher started", "paths", w.paths)
}

// Stop closes the watcher and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.cancel()
	w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()

	w.logger.Infow("Path watcher stopped")
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				w.logger.Debugw("Path change detected",
					"path", event.Name,
					"op", event.Op.String())
				w.scheduleCycle(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnw("Path watcher error", "error", err)
		}
	}
}

// scheduleCycle collects changed paths and fires one cycle after the
// debounce period of quiet.
func (w *Watcher) scheduleCycle(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pendingPaths = append(w.pendingPaths, path)

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.fireCycle)
}

func (w *Watcher) fireCycle() {
	w.mu.Lock()
	paths := w.pendingPaths
	w.pendingPaths = nil
	w.mu.Unlock()

	if w.ctx.Err() != nil {
		return
	}

	w.logger.Infow("Path change triggering sync cycle", "paths", paths)

	err := w.cycle(w.ctx, Trigger{Kind: TriggerPathChange, Paths: paths})
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrCycleInProgress):
		w.logger.Infow("Path-change trigger skipped, cycle already running")
	default:
		w.logger.Errorw("Path-triggered cycle failed", "error", err)
	}
}
