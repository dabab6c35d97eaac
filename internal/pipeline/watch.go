package pipeline

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher batches filesystem change events into debounced file sets,
// suitable for driving repeated Orchestrator.Run calls in incremental
// mode (StageInput.Incremental/ChangedFiles). Mirrors the teacher's
// watcher debounce window, generalized to this package's stage input
// shape instead of the teacher's own index-rebuild trigger.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher opens an fsnotify watch on every directory in dirs.
func NewWatcher(dirs []string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, d := range dirs {
		if err := fsw.Add(d); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &Watcher{fsw: fsw, debounce: debounce}, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Changes emits debounced batches of changed file paths until ctx is
// done. Consecutive events within the debounce window collapse into a
// single batch, deduplicated by path.
func (w *Watcher) Changes(ctx context.Context) <-chan []string {
	out := make(chan []string)

	go func() {
		defer close(out)
		pending := make(map[string]struct{})
		var timer *time.Timer
		var timerC <-chan time.Time

		flush := func() {
			if len(pending) == 0 {
				return
			}
			files := make([]string, 0, len(pending))
			for f := range pending {
				files = append(files, f)
			}
			pending = make(map[string]struct{})
			select {
			case out <- files:
			case <-ctx.Done():
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.fsw.Events:
				if !ok {
					flush()
					return
				}
				pending[ev.Name] = struct{}{}
				if timer == nil {
					timer = time.NewTimer(w.debounce)
					timerC = timer.C
				} else {
					timer.Reset(w.debounce)
				}
			case <-timerC:
				flush()
			case _, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out
}
