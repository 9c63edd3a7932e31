// Package logs builds the zap logger used by the command line tools: a
// coloured console core on stderr, teed into a rotated JSON file when a file
// is configured.
package logs

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config mirrors the log section of the configuration file.
type Config struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAge     int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
	Dev        bool   `mapstructure:"dev"`
}

// Logger bundles the logger with the level that controls it so the level
// can change while the process runs.
type Logger struct {
	*zap.Logger
	Level zap.AtomicLevel

	closer io.Closer
}

// Option customises New.
type Option func(*options)

type options struct {
	console io.Writer
}

// WithConsole replaces stderr as the console destination.
func WithConsole(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.console = w
		}
	}
}

// ParseLevel parses a level name case-insensitively. Empty means info.
func ParseLevel(name string) (zapcore.Level, error) {
	lvl := zapcore.InfoLevel
	if strings.TrimSpace(name) == "" {
		return lvl, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("logs: parse level %q: %w", name, err)
	}
	return lvl, nil
}

// New builds a named logger from cfg. An unknown level falls back to info.
func New(name string, cfg Config, opts ...Option) *Logger {
	o := options{console: os.Stderr}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	level := zap.NewAtomicLevelAt(lvl)

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	consoleCfg := encoderCfg
	consoleCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if o.console == os.Stderr {
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(zapcore.AddSync(o.console)), level)

	var closer io.Closer
	if cfg.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    max(1, cfg.MaxSize),
			MaxBackups: max(0, cfg.MaxBackups),
			MaxAge:     max(0, cfg.MaxAge),
			Compress:   cfg.Compress,
		}
		closer = rotated
		// JSON only in the file so no colour escapes end up on disk.
		fileCfg := encoderCfg
		fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		core = zapcore.NewTee(core, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(rotated), level))
	}

	zapOpts := []zap.Option{zap.AddCaller()}
	if cfg.Dev {
		zapOpts = append(zapOpts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	return &Logger{
		Logger: zap.New(core, zapOpts...).Named(name),
		Level:  level,
		closer: closer,
	}
}

// SetLevel changes the level of the running logger.
func (l *Logger) SetLevel(name string) error {
	lvl, err := ParseLevel(name)
	if err != nil {
		return err
	}
	l.Level.SetLevel(lvl)
	return nil
}

// Close flushes buffered entries and closes the log file.
func (l *Logger) Close() error {
	_ = l.Sync()
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}
