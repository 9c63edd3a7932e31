// Package config loads the dtogen configuration with viper: a YAML file,
// DTOGEN_ prefixed environment overrides and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/eclipse-scout/scout.sdk-sub042/internal/logs"
)

// EnvPrefix prefixes environment overrides, e.g. DTOGEN_OUTPUT_DIR.
const EnvPrefix = "DTOGEN"

// Config is the resolved configuration.
type Config struct {
	Model       ModelConfig       `mapstructure:"model"`
	Output      OutputConfig      `mapstructure:"output"`
	Generation  GenerationConfig  `mapstructure:"generation"`
	Coordinator CoordinatorConfig `mapstructure:"coordinator"`
	Log         logs.Config       `mapstructure:"log"`
}

// ModelConfig lists the descriptor directories.
type ModelConfig struct {
	Dirs []string `mapstructure:"dirs"`
}

// OutputConfig controls where generated sources go.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// GenerationConfig tunes emission.
type GenerationConfig struct {
	// Header is a pongo2 template written above every package declaration.
	Header string `mapstructure:"header"`
	// Verify enables the structural source check before writing.
	Verify bool `mapstructure:"verify"`
}

// CoordinatorConfig tunes the incremental coordinator of watch mode.
type CoordinatorConfig struct {
	Debounce  time.Duration `mapstructure:"debounce"`
	QueueSize int           `mapstructure:"queueSize"`
}

// Validate reports configuration that cannot work.
func (c Config) Validate() error {
	var errs []error
	if len(c.Model.Dirs) == 0 {
		errs = append(errs, errors.New("config: model.dirs is required"))
	}
	if c.Output.Dir == "" {
		errs = append(errs, errors.New("config: output.dir is required"))
	}
	if c.Coordinator.Debounce < 0 {
		errs = append(errs, errors.New("config: coordinator.debounce must not be negative"))
	}
	if c.Coordinator.QueueSize <= 0 {
		errs = append(errs, errors.New("config: coordinator.queueSize must be positive"))
	}
	if _, err := logs.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("config: log.level: %w", err))
	}
	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("model.dirs", []string{})
	v.SetDefault("output.dir", "")
	v.SetDefault("generation.header", "")
	v.SetDefault("generation.verify", true)
	v.SetDefault("coordinator.debounce", 500*time.Millisecond)
	v.SetDefault("coordinator.queueSize", 64)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.maxSize", 10)
	v.SetDefault("log.maxBackups", 3)
	v.SetDefault("log.maxAge", 7)
	v.SetDefault("log.compress", false)
	v.SetDefault("log.dev", false)
}

// Loader reads the configuration and keeps it current when the file changes.
type Loader struct {
	v *viper.Viper

	mu      sync.RWMutex
	current Config
	watchMu sync.Mutex
	onLoad  []func(Config)
}

// New prepares a loader for path. An empty path uses defaults and the
// environment only.
func New(path string) *Loader {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
	}
	return &Loader{v: v}
}

// Load reads the file (when configured) and decodes the configuration.
func (l *Loader) Load() (Config, error) {
	if l.v.ConfigFileUsed() != "" {
		if err := l.v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", l.v.ConfigFileUsed(), err)
		}
	}
	cfg, err := l.decode()
	if err != nil {
		return Config{}, err
	}
	l.mu.Lock()
	l.current = cfg
	l.mu.Unlock()
	return cfg, nil
}

// Set overrides a key, e.g. from a command line flag. Overrides win over the
// file and the environment.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

// Current returns the last successfully loaded configuration.
func (l *Loader) Current() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers fn to run with the new configuration after every
// successful reload.
func (l *Loader) OnChange(fn func(Config)) {
	if fn == nil {
		return
	}
	l.watchMu.Lock()
	l.onLoad = append(l.onLoad, fn)
	l.watchMu.Unlock()
}

// Watch reloads the configuration whenever the file changes. Reload errors
// are passed to onError and the previous configuration stays in effect.
func (l *Loader) Watch(onError func(error)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := l.decode()
		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("config: reload %s: %w", e.Name, err))
			}
			return
		}
		l.mu.Lock()
		l.current = cfg
		l.mu.Unlock()

		l.watchMu.Lock()
		callbacks := append(([]func(Config))(nil), l.onLoad...)
		l.watchMu.Unlock()
		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	l.v.WatchConfig()
}

func (l *Loader) decode() (Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}
