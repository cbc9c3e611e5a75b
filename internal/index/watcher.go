package index

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces editor write bursts into one rebuild.
const DefaultDebounce = 500 * time.Millisecond

// CorpusWatcher watches the corpus file and triggers a rebuild after
// changes settle. Used by serve mode only.
type CorpusWatcher struct {
	path     string
	debounce time.Duration
	onChange func(ctx context.Context, raw string) error
	logger   *slog.Logger
}

// NewCorpusWatcher creates a watcher for the corpus file at path. onChange
// receives the new corpus text after each debounced change.
func NewCorpusWatcher(path string, onChange func(ctx context.Context, raw string) error, opts ...WatcherOption) *CorpusWatcher {
	w := &CorpusWatcher{
		path:     path,
		debounce: DefaultDebounce,
		onChange: onChange,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WatcherOption configures a CorpusWatcher.
type WatcherOption func(*CorpusWatcher)

// WithDebounce overrides the settle window.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *CorpusWatcher) {
		w.debounce = d
	}
}

// WithWatcherLogger sets the watcher logger.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *CorpusWatcher) {
		w.logger = logger
	}
}

// Run watches until ctx is cancelled. The parent directory is watched
// rather than the file itself: editors that write via rename would
// otherwise detach the watch.
func (w *CorpusWatcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = fsw.Close() }()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return err
	}

	w.logger.Info("corpus_watcher_started", slog.String("path", w.path))

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("corpus_watcher_error", slog.String("error", err.Error()))

		case <-timerC:
			timer = nil
			timerC = nil
			w.fire(ctx)
		}
	}
}

func (w *CorpusWatcher) fire(ctx context.Context) {
	raw, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Warn("corpus_reload_failed", slog.String("error", err.Error()))
		return
	}
	if err := w.onChange(ctx, string(raw)); err != nil {
		w.logger.Error("corpus_rebuild_failed", slog.String("error", err.Error()))
		return
	}
	w.logger.Info("corpus_rebuilt", slog.String("path", w.path))
}
