package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := New("").Load()
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Coordinator.Debounce)
	assert.Equal(t, 64, cfg.Coordinator.QueueSize)
	assert.True(t, cfg.Generation.Verify)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Log.MaxSize)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model.dirs is required")
	assert.Contains(t, err.Error(), "output.dir is required")
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dtogen.yaml")
	writeFile(t, path, `
model:
  dirs: [model/client, model/shared]
output:
  dir: out
generation:
  header: "// {{ dtoType }}"
  verify: false
coordinator:
  debounce: 2s
  queueSize: 8
log:
  level: debug
  file: dtogen.log
`)

	cfg, err := New(path).Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"model/client", "model/shared"}, cfg.Model.Dirs)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, "// {{ dtoType }}", cfg.Generation.Header)
	assert.False(t, cfg.Generation.Verify)
	assert.Equal(t, 2*time.Second, cfg.Coordinator.Debounce)
	assert.Equal(t, 8, cfg.Coordinator.QueueSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "dtogen.log", cfg.Log.File)
}

func TestLoad_EnvironmentAndOverrides(t *testing.T) {
	t.Setenv("DTOGEN_OUTPUT_DIR", "env-out")
	t.Setenv("DTOGEN_MODEL_DIRS", "a,b")
	t.Setenv("DTOGEN_COORDINATOR_DEBOUNCE", "150ms")

	loader := New("")
	loader.Set("log.level", "error")
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "env-out", cfg.Output.Dir)
	assert.Equal(t, []string{"a", "b"}, cfg.Model.Dirs)
	assert.Equal(t, 150*time.Millisecond, cfg.Coordinator.Debounce)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, cfg, loader.Current())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read")
}

func TestValidate(t *testing.T) {
	cfg := Config{
		Model:       ModelConfig{Dirs: []string{"m"}},
		Output:      OutputConfig{Dir: "o"},
		Coordinator: CoordinatorConfig{Debounce: -time.Second, QueueSize: 0},
	}
	cfg.Log.Level = "chatty"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "debounce must not be negative")
	assert.Contains(t, err.Error(), "queueSize must be positive")
	assert.Contains(t, err.Error(), "log.level")
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dtogen.yaml")
	body := "model:\n  dirs: [m]\noutput:\n  dir: o\nlog:\n  level: %s\n"
	writeFile(t, path, fmt.Sprintf(body, "info"))

	loader := New(path)
	_, err := loader.Load()
	require.NoError(t, err)

	changed := make(chan Config, 4)
	loader.OnChange(func(cfg Config) {
		select {
		case changed <- cfg:
		default:
		}
	})
	loader.Watch(nil)

	writeFile(t, path, fmt.Sprintf(body, "warn"))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changed:
			if cfg.Log.Level == "warn" {
				assert.Equal(t, "warn", loader.Current().Log.Level)
				return
			}
		case <-deadline:
			t.Fatal("configuration change not observed")
		}
	}
}
