package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/scout"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/semantic"
)

// EnvironmentProvider builds the semantic environment generation runs
// against. It is called again after every Invalidate.
type EnvironmentProvider interface {
	Environment(ctx context.Context) (semantic.Environment, error)
}

// ProviderFunc adapts plain functions to the EnvironmentProvider interface.
type ProviderFunc func(ctx context.Context) (semantic.Environment, error)

// Environment executes the wrapped function.
func (fn ProviderFunc) Environment(ctx context.Context) (semantic.Environment, error) {
	if fn == nil {
		return nil, errors.New("orchestrator: environment provider is nil")
	}
	return fn(ctx)
}

// FSProvider loads the bundled platform descriptors merged with every
// descriptor found in the supplied file systems.
func FSProvider(fsys ...fs.FS) EnvironmentProvider {
	sources := append([]fs.FS(nil), fsys...)
	return ProviderFunc(func(ctx context.Context) (semantic.Environment, error) {
		idx, err := scout.Platform()
		if err != nil {
			return nil, fmt.Errorf("orchestrator: load platform: %w", err)
		}
		for _, src := range sources {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			loaded, err := semantic.LoadFS(src)
			if err != nil {
				return nil, fmt.Errorf("orchestrator: load descriptors: %w", err)
			}
			if err := idx.Merge(loaded); err != nil {
				return nil, fmt.Errorf("orchestrator: merge descriptors: %w", err)
			}
		}
		return idx, nil
	})
}

// DirProvider is FSProvider over directories on disk.
func DirProvider(dirs ...string) EnvironmentProvider {
	fsys := make([]fs.FS, 0, len(dirs))
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		fsys = append(fsys, os.DirFS(dir))
	}
	return FSProvider(fsys...)
}

// sourceIndex is implemented by environments that remember which descriptor
// declared each top-level type.
type sourceIndex interface {
	TypesFromSource(source string) []string
}
