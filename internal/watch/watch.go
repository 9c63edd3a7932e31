// Package watch turns file system events on model descriptor directories into
// regeneration requests.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/semantic"
)

const defaultSettle = 50 * time.Millisecond

// Changer maps changed descriptor sources to the root types to regenerate.
// Sources are slash separated paths relative to the watched directory, as
// recorded by semantic.LoadFS.
type Changer interface {
	Changed(ctx context.Context, sources ...string) ([]string, error)
}

// Notifier accepts regeneration requests.
type Notifier interface {
	RegenerateAll(ids []string) int
}

// Option customises a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithSettle sets how long the watcher collects events before it reports
// them as one batch.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// Watcher observes descriptor directories recursively.
type Watcher struct {
	dirs     []string
	changer  Changer
	notifier Notifier
	logger   *zap.Logger
	settle   time.Duration

	ready     chan struct{}
	readyOnce sync.Once
}

// New validates the directories and prepares a watcher. Run starts it.
func New(dirs []string, changer Changer, notifier Notifier, opts ...Option) (*Watcher, error) {
	if len(dirs) == 0 {
		return nil, errors.New("watch: at least one directory is required")
	}
	if changer == nil || notifier == nil {
		return nil, errors.New("watch: changer and notifier are required")
	}
	w := &Watcher{
		changer:  changer,
		notifier: notifier,
		logger:   zap.NewNop(),
		settle:   defaultSettle,
		ready:    make(chan struct{}),
	}
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %s: %w", dir, err)
		}
		w.dirs = append(w.dirs, abs)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w, nil
}

// Ready is closed once every directory is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer fsw.Close()

	for _, dir := range w.dirs {
		if _, err := w.addTree(fsw, dir); err != nil {
			return err
		}
	}
	w.readyOnce.Do(func() { close(w.ready) })
	w.logger.Info("watching model descriptors", zap.Strings("dirs", w.dirs))

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			for _, source := range w.handle(fsw, ev) {
				pending[source] = struct{}{}
			}
			if len(pending) > 0 {
				timer.Reset(w.settle)
			}
		case <-timer.C:
			w.flush(ctx, pending)
			pending = make(map[string]struct{})
		}
	}
}

// handle returns the descriptor sources touched by ev.
func (w *Watcher) handle(fsw *fsnotify.Watcher, ev fsnotify.Event) []string {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			// Files may land in a new directory before it is watched.
			found, err := w.addTree(fsw, ev.Name)
			if err != nil {
				w.logger.Warn("watch directory failed", zap.String("dir", ev.Name), zap.Error(err))
			}
			return w.sources(found...)
		}
	}
	if !semantic.IsDescriptorFile(ev.Name) {
		return nil
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return nil
	}
	w.logger.Debug("descriptor changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
	return w.sources(ev.Name)
}

func (w *Watcher) flush(ctx context.Context, pending map[string]struct{}) {
	if len(pending) == 0 {
		return
	}
	sources := make([]string, 0, len(pending))
	for source := range pending {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	roots, err := w.changer.Changed(ctx, sources...)
	if err != nil {
		w.logger.Warn("reload model failed", zap.Strings("sources", sources), zap.Error(err))
		return
	}
	accepted := w.notifier.RegenerateAll(roots)
	w.logger.Info("model changed",
		zap.Strings("sources", sources),
		zap.Int("affected", len(roots)),
		zap.Int("accepted", accepted))
}

// addTree watches dir and its subdirectories and returns the descriptor files
// already present.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if err := fsw.Add(path); err != nil {
				return fmt.Errorf("watch: add %s: %w", path, err)
			}
			return nil
		}
		if semantic.IsDescriptorFile(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// sources converts absolute paths to the slash separated source names used
// by the loader, relative to the watched directory containing them.
func (w *Watcher) sources(paths ...string) []string {
	var out []string
	for _, path := range paths {
		for _, dir := range w.dirs {
			rel, err := filepath.Rel(dir, path)
			if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
				continue
			}
			out = append(out, filepath.ToSlash(rel))
			break
		}
	}
	return out
}
