package dev

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// ChangeType represents the type of file change.
type ChangeType int

const (
	ChangeTemplate ChangeType = iota
	ChangeContent
	ChangeAsset
	ChangePublic
	ChangeOther
)

func (t ChangeType) String() string {
	switch t {
	case ChangeTemplate:
		return "template"
	case ChangeContent:
		return "content"
	case ChangeAsset:
		return "asset"
	case ChangePublic:
		return "public"
	default:
		return "other"
	}
}

// Change represents a detected file change.
type Change struct {
	Path string
	Type ChangeType
	Op   fsnotify.Op
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the directories to watch, recursively. Missing
	// directories are skipped.
	Paths []string

	// Ignore are doublestar patterns matched against paths relative to
	// the watched directory, e.g. "**/.*".
	Ignore []string

	// Debounce is the quiet period a burst of events must end with
	// before it is delivered.
	Debounce time.Duration

	// Classify maps a changed path to its change type.
	// Default: classification by extension.
	Classify func(path string) ChangeType

	Logger *slog.Logger
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	"**/.*",
	"**/.*/**",
	"**/*~",
	"**/*.swp",
	"**/*.tmp",
	"**/node_modules/**",
}

// Watcher delivers debounced batches of file changes.
type Watcher struct {
	config  WatcherConfig
	fsWatch *fsnotify.Watcher
	roots   []string
}

// NewWatcher creates a watcher over config.Paths.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	if config.Debounce == 0 {
		config.Debounce = 100 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}
	if config.Classify == nil {
		config.Classify = classifyChange
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{config: config, fsWatch: fsWatch}

	for _, p := range config.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsWatch.Close()
			return nil, err
		}
		if _, err := os.Stat(abs); errors.Is(err, fs.ErrNotExist) {
			config.Logger.Debug("watch path missing, skipped", "path", abs)
			continue
		}
		w.roots = append(w.roots, abs)
		if err := w.addDir(abs); err != nil {
			fsWatch.Close()
			return nil, err
		}
	}
	return w, nil
}

// Roots returns the absolute directories being watched.
func (w *Watcher) Roots() []string {
	return w.roots
}

// addDir watches root and every directory below it that is not ignored.
func (w *Watcher) addDir(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		if p != root && w.Ignored(p) {
			return filepath.SkipDir
		}
		return w.fsWatch.Add(p)
	})
}

// Ignored reports whether p matches an ignore pattern relative to the
// watched directory containing it.
func (w *Watcher) Ignored(p string) bool {
	rel := w.relative(p)
	for _, pattern := range w.config.Ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) relative(p string) string {
	for _, root := range w.roots {
		if rel, err := filepath.Rel(root, p); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(p)
}

// Run delivers changes to fn until ctx is done. Events arriving within
// the debounce interval of each other are coalesced into one batch with
// one Change per path, sorted by path. fn runs on the watcher goroutine,
// so batches never overlap.
func (w *Watcher) Run(ctx context.Context, fn func([]Change)) error {
	defer w.fsWatch.Close()

	pending := make(map[string]Change)
	timer := time.NewTimer(w.config.Debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsWatch.Events:
			if !ok {
				return nil
			}
			if w.Ignored(evt.Name) || evt.Op == fsnotify.Chmod {
				continue
			}
			if evt.Has(fsnotify.Create) {
				if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
					if err := w.addDir(evt.Name); err != nil {
						w.config.Logger.Warn("watch new directory", "path", evt.Name, "error", err)
					}
					continue
				}
			}
			prev := pending[evt.Name]
			pending[evt.Name] = Change{Path: evt.Name, Type: w.config.Classify(evt.Name), Op: prev.Op | evt.Op}
			timer.Reset(w.config.Debounce)

		case err, ok := <-w.fsWatch.Errors:
			if !ok {
				return nil
			}
			w.config.Logger.Error("watcher error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]Change, 0, len(pending))
			for _, c := range pending {
				batch = append(batch, c)
			}
			sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
			pending = make(map[string]Change)
			fn(batch)
		}
	}
}

// Close stops watching. Run closes the watcher on return as well.
func (w *Watcher) Close() error {
	return w.fsWatch.Close()
}

// classifyChange determines the type of change based on file extension.
func classifyChange(path string) ChangeType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".gohtml", ".tmpl":
		return ChangeTemplate
	case ".md":
		return ChangeContent
	case ".ts", ".js", ".css":
		return ChangeAsset
	default:
		return ChangeOther
	}
}
