package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/coordinator"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/dto"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/jtype"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/semantic"
)

// Sink receives every accepted DTO. The file-system writer used by the CLI
// lives in internal/sink; callers embedding the engine supply their own.
type Sink interface {
	Write(ctx context.Context, result dto.Result) error
}

// SinkFunc adapts plain functions to the Sink interface.
type SinkFunc func(ctx context.Context, result dto.Result) error

// Write executes the wrapped function when non-nil.
func (fn SinkFunc) Write(ctx context.Context, result dto.Result) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, result)
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithProvider injects the environment provider.
func WithProvider(provider EnvironmentProvider) Option {
	return func(o *Orchestrator) {
		o.provider = provider
	}
}

// WithEnvironment uses a fixed environment; Invalidate reuses it.
func WithEnvironment(env semantic.Environment) Option {
	return func(o *Orchestrator) {
		if env == nil {
			return
		}
		o.provider = ProviderFunc(func(context.Context) (semantic.Environment, error) {
			return env, nil
		})
	}
}

// WithLogger sets the logger. Per-type failures are logged as warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSink registers the writer accepted results are handed to.
func WithSink(sink Sink) Option {
	return func(o *Orchestrator) {
		o.sink = sink
	}
}

// WithVerifiers registers verifiers that run, in order, before the sink.
func WithVerifiers(verifiers ...Verifier) Option {
	return func(o *Orchestrator) {
		for _, v := range verifiers {
			if v != nil {
				o.verifiers = append(o.verifiers, v)
			}
		}
	}
}

// WithHeaderTemplate sets a pongo2 template rendered above the package
// declaration of every unit. Parse errors surface from Generate.
func WithHeaderTemplate(source string) Option {
	return func(o *Orchestrator) {
		header, err := parseHeader(source)
		if err != nil {
			o.initialiseErr = err
			return
		}
		o.header = header
	}
}

// WithSessionOptions forwards options to every dto.Session the orchestrator
// opens, e.g. dto.WithDocSanitizer.
func WithSessionOptions(opts ...dto.SessionOption) Option {
	return func(o *Orchestrator) {
		o.sessionOpts = append(o.sessionOpts, opts...)
	}
}

// WithSeed forwards dto.WithSeed to every emission.
func WithSeed(refs ...jtype.Ref) Option {
	return func(o *Orchestrator) {
		o.seed = append(o.seed, refs...)
	}
}

// Orchestrator runs the generation pipeline for one project. Calls are
// serialised; each call opens its own dto.Session over the cached
// environment.
type Orchestrator struct {
	provider        EnvironmentProvider
	logger          *zap.Logger
	sink            Sink
	verifiers       []Verifier
	header          *headerTemplate
	sessionOpts     []dto.SessionOption
	seed            []jtype.Ref
	initialiseErr   error
	defaultsApplied bool

	mu  sync.Mutex
	env semantic.Environment
}

// Ensure the orchestrator can drive the incremental coordinator.
var _ coordinator.Regenerator = (*Orchestrator)(nil)

// New constructs an Orchestrator applying any provided options. Without a
// provider the bundled platform descriptors are the whole environment.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request selects the model types to generate.
type Request struct {
	// Types lists binary names of root model types. Empty selects every
	// annotated root of the environment.
	Types []string
}

// Failure is the error of one requested type.
type Failure struct {
	Type string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Type, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Report collects the outcome of a batch. Failures never abort the batch.
type Report struct {
	Results  []dto.Result
	Failures []Failure
}

// Err joins every failure, or returns nil when the batch succeeded.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Generate resolves, maps, emits, verifies and writes the requested roots.
// The returned error is reserved for failures of the whole batch
// (cancellation, environment loading, configuration); per-type errors are
// collected in the report.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Report, error) {
	if err := o.ready(ctx); err != nil {
		return Report{}, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	env, err := o.environment(ctx)
	if err != nil {
		return Report{}, err
	}
	session := dto.NewSession(env, o.sessionOpts...)
	defer session.Close()

	names := req.Types
	if len(names) == 0 {
		names = session.Roots()
	}

	var report Report
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res, err := o.generate(ctx, session, name)
		if err != nil {
			if isCancellation(err) {
				return report, err
			}
			o.logger.Warn("dto generation failed", zap.String("type", name), zap.Error(err))
			report.Failures = append(report.Failures, Failure{Type: name, Err: err})
			continue
		}
		o.logger.Debug("dto generated", zap.String("type", name), zap.String("dto", res.DtoType))
		report.Results = append(report.Results, res)
	}
	return report, nil
}

// Regenerate implements coordinator.Regenerator. Types that no longer
// produce a top-level DTO are skipped silently.
func (o *Orchestrator) Regenerate(ctx context.Context, id string) error {
	if err := o.ready(ctx); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	env, err := o.environment(ctx)
	if err != nil {
		return err
	}
	session := dto.NewSession(env, o.sessionOpts...)
	defer session.Close()

	res, err := o.generate(ctx, session, id)
	switch {
	case errors.Is(err, dto.ErrNotRoot):
		o.logger.Debug("not a dto root", zap.String("type", id))
		return nil
	case err != nil:
		return err
	}
	o.logger.Debug("dto regenerated", zap.String("type", id), zap.String("dto", res.DtoType))
	return nil
}

// Roots lists the annotated root model types of the current environment.
func (o *Orchestrator) Roots(ctx context.Context) ([]string, error) {
	if err := o.ready(ctx); err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	env, err := o.environment(ctx)
	if err != nil {
		return nil, err
	}
	session := dto.NewSession(env, o.sessionOpts...)
	defer session.Close()
	return session.Roots(), nil
}

// Invalidate drops the cached environment. The next call rebuilds it.
func (o *Orchestrator) Invalidate() {
	o.mu.Lock()
	o.env = nil
	o.mu.Unlock()
}

// Changed reloads the environment after the given descriptor sources
// changed and returns the roots whose DTO may differ: roots declared by
// those sources and roots whose hierarchy, or the hierarchy of any nested
// member, reaches a type declared by them.
func (o *Orchestrator) Changed(ctx context.Context, sources ...string) ([]string, error) {
	if err := o.ready(ctx); err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	changed := make(map[string]struct{})
	collect := func(env semantic.Environment) {
		idx, ok := env.(sourceIndex)
		if !ok {
			return
		}
		for _, src := range sources {
			for _, name := range idx.TypesFromSource(src) {
				changed[name] = struct{}{}
			}
		}
	}
	if o.env != nil {
		collect(o.env)
	}
	o.env = nil
	env, err := o.environment(ctx)
	if err != nil {
		return nil, err
	}
	collect(env)
	if len(changed) == 0 {
		return nil, nil
	}

	session := dto.NewSession(env, o.sessionOpts...)
	defer session.Close()

	var out []string
	for _, name := range session.Roots() {
		t, ok := env.Find(name)
		if !ok {
			continue
		}
		if dependsOn(env, t, changed) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (o *Orchestrator) generate(ctx context.Context, session *dto.Session, name string) (dto.Result, error) {
	t, err := semantic.Lookup(session.Environment(), name)
	if err != nil {
		return dto.Result{}, err
	}
	d, err := session.Build(ctx, t)
	if err != nil {
		return dto.Result{}, err
	}
	header, err := o.header.render(d)
	if err != nil {
		return dto.Result{}, err
	}
	res, err := session.Emit(ctx, d, dto.WithHeader(header), dto.WithSeed(o.seed...))
	if err != nil {
		return dto.Result{}, err
	}
	for _, v := range o.verifiers {
		if err := v.Verify(ctx, res); err != nil {
			return dto.Result{}, fmt.Errorf("orchestrator: verify %s: %w", name, err)
		}
	}
	if o.sink != nil {
		if err := o.sink.Write(ctx, res); err != nil {
			return dto.Result{}, fmt.Errorf("orchestrator: write %s: %w", res.DtoType, err)
		}
	}
	return res, nil
}

func (o *Orchestrator) ready(ctx context.Context) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := o.initialiseErr; err != nil {
		return err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
	}
	return o.initialiseErr
}

// environment returns the cached environment, loading it when needed.
// Callers hold o.mu.
func (o *Orchestrator) environment(ctx context.Context) (semantic.Environment, error) {
	if o.env != nil {
		return o.env, nil
	}
	env, err := o.provider.Environment(ctx)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load environment: %w", err)
	}
	if env == nil {
		return nil, errors.New("orchestrator: provider returned no environment")
	}
	o.env = env
	o.logger.Debug("environment loaded", zap.Int("types", len(env.Types())))
	return env, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}
	if o.provider == nil {
		o.provider = FSProvider()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	o.defaultsApplied = true
}

// dependsOn reports whether root, its nested members or any of their
// supertypes are declared by one of the changed top-level types.
func dependsOn(env semantic.Environment, root *semantic.Type, changed map[string]struct{}) bool {
	hit := func(name string) bool {
		_, ok := changed[name]
		return ok
	}
	stack := []*semantic.Type{root}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if hit(t.Outermost().Name) {
			return true
		}
		for _, anc := range semantic.Ancestors(env, t) {
			if hit(anc.Ref.TopLevel()) {
				return true
			}
		}
		stack = append(stack, t.Members...)
	}
	return false
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
