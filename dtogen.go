// Package dtogen generates data-transfer classes from UI-model descriptors.
// The root package re-exports the orchestrator entry points so callers can
// start with a single import.
package dtogen

import (
	"context"
	"io/fs"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/dto"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/orchestrator"
)

// Result is the emitted source of one DTO.
type Result = dto.Result

// Request selects the model types to generate.
type Request = orchestrator.Request

// Report collects the outcome of a batch.
type Report = orchestrator.Report

// Option customises the orchestrator.
type Option = orchestrator.Option

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateFS generates the requested roots (all annotated roots when types
// is empty) from the descriptors in fsys merged with the bundled platform.
// Options are applied after the provider so callers can add a sink, a
// header template or verifiers.
func GenerateFS(ctx context.Context, fsys fs.FS, types []string, options ...Option) (Report, error) {
	opts := append([]Option{orchestrator.WithProvider(orchestrator.FSProvider(fsys))}, options...)
	gen := orchestrator.New(opts...)
	return gen.Generate(ctx, Request{Types: types})
}

// GenerateDirs is GenerateFS over descriptor directories on disk.
func GenerateDirs(ctx context.Context, dirs []string, types []string, options ...Option) (Report, error) {
	opts := append([]Option{orchestrator.WithProvider(orchestrator.DirProvider(dirs...))}, options...)
	gen := orchestrator.New(opts...)
	return gen.Generate(ctx, Request{Types: types})
}
