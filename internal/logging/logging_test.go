package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/panbanda/mood/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewTo_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewTo(&buf, config.LogConfig{Level: "info", Encoding: "console"})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("loaded", zap.Int("files", 3))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "loaded")
	assert.Contains(t, out, `"files": 3`)
}

func TestNewTo_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewTo(&buf, config.LogConfig{Level: "DEBUG", Encoding: "json"})
	require.NoError(t, err)

	logger.Debug("class metrics", zap.String("class", "A1"))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "class metrics", entry["msg"])
	assert.Equal(t, "A1", entry["class"])
}

func TestNewTo_Invalid(t *testing.T) {
	_, err := NewTo(&bytes.Buffer{}, config.LogConfig{Level: "loud"})
	assert.Error(t, err)

	_, err = NewTo(&bytes.Buffer{}, config.LogConfig{Level: "warn", Encoding: "xml"})
	assert.Error(t, err)
}

func TestNew_DefaultConfig(t *testing.T) {
	logger, err := New(config.DefaultConfig().Log)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
