package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eclipse-scout/scout.sdk-sub042/internal/config"
	"github.com/eclipse-scout/scout.sdk-sub042/internal/logs"
	"github.com/eclipse-scout/scout.sdk-sub042/internal/prompt"
	"github.com/eclipse-scout/scout.sdk-sub042/internal/sink"
	"github.com/eclipse-scout/scout.sdk-sub042/internal/watch"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/coordinator"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/orchestrator"
)

// stringList collects a repeatable, comma separated flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

type cliOptions struct {
	configPath  string
	modelDirs   stringList
	outputDir   string
	types       stringList
	logLevel    string
	watch       bool
	interactive bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "dtogen: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func parseFlags(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("dtogen", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "configuration file (yaml)")
	fs.Var(&opts.modelDirs, "model", "model descriptor directory (repeatable)")
	fs.StringVar(&opts.outputDir, "out", "", "output directory for generated sources")
	fs.Var(&opts.types, "type", "root model type to generate (repeatable, default: all annotated roots)")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.BoolVar(&opts.watch, "watch", false, "keep running and regenerate on descriptor changes")
	fs.BoolVar(&opts.interactive, "interactive", false, "choose the roots to generate interactively")
	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}
	if fs.NArg() > 0 {
		return cliOptions{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, nil
}

func loadConfig(opts cliOptions) (*config.Loader, config.Config, error) {
	loader := config.New(opts.configPath)
	if len(opts.modelDirs) > 0 {
		loader.Set("model.dirs", []string(opts.modelDirs))
	}
	if opts.outputDir != "" {
		loader.Set("output.dir", opts.outputDir)
	}
	if opts.logLevel != "" {
		loader.Set("log.level", opts.logLevel)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, config.Config{}, err
	}
	return loader, cfg, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	loader, cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger := logs.New("dtogen", cfg.Log)
	defer logger.Close()

	out, err := sink.NewDir(cfg.Output.Dir, sink.WithLogger(logger.Named("sink")))
	if err != nil {
		return err
	}
	orchOpts := []orchestrator.Option{
		orchestrator.WithProvider(orchestrator.DirProvider(cfg.Model.Dirs...)),
		orchestrator.WithLogger(logger.Named("orchestrator")),
		orchestrator.WithSink(out),
		orchestrator.WithHeaderTemplate(cfg.Generation.Header),
	}
	if cfg.Generation.Verify {
		orchOpts = append(orchOpts, orchestrator.WithVerifiers(orchestrator.SourceVerifier{}))
	}
	orch := orchestrator.New(orchOpts...)

	types := []string(opts.types)
	if opts.interactive {
		roots, err := orch.Roots(ctx)
		if err != nil {
			return err
		}
		types, err = prompt.SelectRoots(ctx, prompt.Survey(), roots)
		if err != nil {
			return err
		}
	}

	report, err := orch.Generate(ctx, orchestrator.Request{Types: types})
	if err != nil {
		return err
	}
	stats := out.Stats()
	fmt.Fprintf(stdout, "generated %d DTOs (%d written, %d unchanged), %d failed\n",
		len(report.Results), stats.Written, stats.Unchanged, len(report.Failures))
	for _, f := range report.Failures {
		fmt.Fprintf(stdout, "  %s\n", f.Error())
	}

	if !opts.watch {
		return report.Err()
	}
	return watchLoop(ctx, loader, cfg, logger, orch)
}

func watchLoop(ctx context.Context, loader *config.Loader, cfg config.Config, logger *logs.Logger, orch *orchestrator.Orchestrator) error {
	coord := coordinator.New(orch,
		coordinator.WithLogger(logger.Named("coordinator")),
		coordinator.WithDebounce(cfg.Coordinator.Debounce),
		coordinator.WithQueueSize(cfg.Coordinator.QueueSize),
	)
	defer coord.Close()

	watcher, err := watch.New(cfg.Model.Dirs, orch, coord, watch.WithLogger(logger.Named("watch")))
	if err != nil {
		return err
	}

	loader.OnChange(func(next config.Config) {
		if err := logger.SetLevel(next.Log.Level); err != nil {
			logger.Warn("log level not applied", zap.Error(err))
		}
		coord.SetDebounce(next.Coordinator.Debounce)
		logger.Info("configuration reloaded",
			zap.String("level", next.Log.Level),
			zap.Duration("debounce", next.Coordinator.Debounce))
	})
	loader.Watch(func(err error) {
		logger.Warn("configuration reload failed", zap.Error(err))
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		coord.CancelAll()
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}
