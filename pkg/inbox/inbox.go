// Package inbox feeds documents dropped into a directory to the store.
package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/coolbeans/nomiki/pkg/store"
)

// DefaultPatterns match the document types the decoders understand.
var DefaultPatterns = []string{"*.pdf", "*.txt"}

// DefaultDebounce is how long a file must stay quiet before it is uploaded.
const DefaultDebounce = 500 * time.Millisecond

// Uploader receives the files picked up by the watcher.
type Uploader interface {
	Upload(ctx context.Context, files []store.File) (*store.UploadReport, error)
}

// Config configures a Watcher.
type Config struct {
	Dir      string
	Patterns []string
	Debounce time.Duration
	Logger   *slog.Logger
	// OnUpload, when set, is called after every upload attempt.
	OnUpload func(path string, report *store.UploadReport, err error)
}

// Watcher uploads files created or rewritten in a directory. Writes are
// debounced per file so a document still being copied is uploaded once.
type Watcher struct {
	config   Config
	uploader Uploader
	watcher  *fsnotify.Watcher

	mu     sync.Mutex
	timers map[string]*time.Timer
	ready  chan string
}

// New validates the patterns and starts watching dir. The watch is in place
// when New returns; events are handled by Run.
func New(config Config, uploader Uploader) (*Watcher, error) {
	if config.Dir == "" {
		return nil, fmt.Errorf("no directory configured for watching")
	}
	if len(config.Patterns) == 0 {
		config.Patterns = DefaultPatterns
	}
	for _, p := range config.Patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern %q", p)
		}
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(config.Dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", config.Dir, err)
	}

	return &Watcher{
		config:   config,
		uploader: uploader,
		watcher:  watcher,
		timers:   make(map[string]*time.Timer),
		ready:    make(chan string, 16),
	}, nil
}

// Matches reports whether the base name of path matches any pattern.
func (w *Watcher) Matches(path string) bool {
	return matchAny(w.config.Patterns, filepath.Base(path))
}

// Run handles events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()
	logger := w.config.Logger
	logger.Info("watching inbox", "dir", w.config.Dir, "patterns", w.config.Patterns)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.Matches(event.Name) {
				continue
			}
			logger.Debug("inbox event", "file", event.Name, "op", event.Op.String())
			w.schedule(ctx, event.Name)

		case path := <-w.ready:
			w.upload(ctx, path)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("fsnotify error", "error", err)
		}
	}
}

// schedule (re)starts the quiet timer of a file.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.config.Debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case w.ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) upload(ctx context.Context, path string) {
	logger := w.config.Logger.With("file", path)

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("failed to read inbox file", "error", err)
		w.notify(path, nil, err)
		return
	}

	report, err := w.uploader.Upload(ctx, []store.File{{Name: filepath.Base(path), Data: data}})
	switch {
	case err != nil:
		logger.Error("inbox upload failed", "error", err)
	case !report.OK():
		logger.Warn("inbox document not added", "batch", report.Batch, "failed", len(report.Failed))
	default:
		logger.Info("inbox document added", "batch", report.Batch, "articles", report.Articles)
	}
	w.notify(path, report, err)
}

func (w *Watcher) notify(path string, report *store.UploadReport, err error) {
	if w.config.OnUpload != nil {
		w.config.OnUpload(path, report, err)
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()
	w.watcher.Close()
}

// Scan lists the files directly under dir whose names match any pattern,
// sorted. Patterns containing a separator or ** are matched against the path
// relative to dir, so "**/*.pdf" also reaches subdirectories.
func Scan(dir string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	seen := make(map[string]bool)
	var paths []string
	for _, p := range patterns {
		matches, err := doublestar.Glob(os.DirFS(dir), p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s for %q: %w", dir, p, err)
		}
		for _, m := range matches {
			full := filepath.Join(dir, filepath.FromSlash(m))
			if !seen[full] {
				seen[full] = true
				paths = append(paths, full)
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadFiles loads paths as upload files named by their base name.
func ReadFiles(paths []string) ([]store.File, error) {
	files := make([]store.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, store.File{Name: filepath.Base(path), Data: data})
	}
	return files, nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
