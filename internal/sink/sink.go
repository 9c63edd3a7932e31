// Package sink writes generated DTO sources below an output directory, one
// file per top-level DTO laid out by package.
package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/dto"
)

// Stats counts what a sink did.
type Stats struct {
	Written   int
	Unchanged int
}

// Option customises a Dir sink.
type Option func(*Dir)

// WithFs replaces the operating system file system.
func WithFs(fs afero.Fs) Option {
	return func(d *Dir) {
		if fs != nil {
			d.fs = fs
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dir) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Dir writes each result to <root>/<package path>/<SimpleName>.java. Files
// whose content is unchanged are left untouched so their timestamps do not
// trigger downstream builds.
type Dir struct {
	root   string
	fs     afero.Fs
	logger *zap.Logger

	mu    sync.Mutex
	stats Stats
}

// NewDir creates a sink rooted at root.
func NewDir(root string, opts ...Option) (*Dir, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("sink: output directory is required")
	}
	d := &Dir{
		root:   root,
		fs:     afero.NewOsFs(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

// Path returns the file a result is written to.
func (d *Dir) Path(res dto.Result) (string, error) {
	if res.DtoType == "" {
		return "", errors.New("sink: result has no dto type")
	}
	top := res.DtoType
	if idx := strings.IndexByte(top, '$'); idx >= 0 {
		top = top[:idx]
	}
	simple := top
	if idx := strings.LastIndexByte(top, '.'); idx >= 0 {
		simple = top[idx+1:]
	}
	dir := d.root
	if res.Package != "" {
		dir = filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(res.Package, ".", "/")))
	}
	return filepath.Join(dir, simple+".java"), nil
}

// Write stores res. It replaces the file atomically through a temporary file
// in the same directory.
func (d *Dir) Write(ctx context.Context, res dto.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := d.Path(res)
	if err != nil {
		return err
	}
	data := []byte(res.Source)

	existing, err := afero.ReadFile(d.fs, path)
	switch {
	case err == nil && bytes.Equal(existing, data):
		d.count(func(s *Stats) { s.Unchanged++ })
		d.logger.Debug("dto unchanged", zap.String("path", path))
		return nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("sink: read %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := d.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("sink: mkdir %s: %w", dir, err)
	}
	tmp, err := afero.TempFile(d.fs, dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("sink: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = d.fs.Remove(tmpName)
		return fmt.Errorf("sink: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = d.fs.Remove(tmpName)
		return fmt.Errorf("sink: close %s: %w", path, err)
	}
	if err := d.fs.Rename(tmpName, path); err != nil {
		_ = d.fs.Remove(tmpName)
		return fmt.Errorf("sink: rename %s: %w", path, err)
	}

	d.count(func(s *Stats) { s.Written++ })
	d.logger.Info("dto written", zap.String("type", res.DtoType), zap.String("path", path))
	return nil
}

// Stats returns the counters accumulated so far.
func (d *Dir) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

func (d *Dir) count(fn func(*Stats)) {
	d.mu.Lock()
	fn(&d.stats)
	d.mu.Unlock()
}
