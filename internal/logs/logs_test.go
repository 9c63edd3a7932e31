package logs

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_LevelAndSetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New("dtogen", Config{Level: "WARN"}, WithConsole(&buf))
	defer logger.Close()

	logger.Info("hidden")
	logger.Warn("shown", zap.String("type", "com.acme.Form"))
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "dtogen")
	assert.Contains(t, buf.String(), `"type": "com.acme.Form"`)

	require.NoError(t, logger.SetLevel("debug"))
	logger.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")

	assert.Error(t, logger.SetLevel("loud"))
	assert.Equal(t, zapcore.DebugLevel, logger.Level.Level())
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New("dtogen", Config{Level: "verbose"}, WithConsole(&buf))
	assert.Equal(t, zapcore.InfoLevel, logger.Level.Level())
}

func TestNew_FileReceivesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dtogen.log")
	var console bytes.Buffer
	logger := New("dtogen", Config{File: path}, WithConsole(&console))

	logger.Info("written", zap.Int("count", 2))
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "written", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "dtogen", entry["logger"])
	assert.EqualValues(t, 2, entry["count"])
	assert.Contains(t, console.String(), "written")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	lvl, err = ParseLevel(" Error ")
	require.NoError(t, err)
	assert.Equal(t, zapcore.ErrorLevel, lvl)

	_, err = ParseLevel("nope")
	assert.Error(t, err)
}
