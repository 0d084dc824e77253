package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caaatisgood/expo/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)

	l.Info("dropped")
	l.Warn("kept", "module", "Calculator")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "Calculator", rec["module"])
}

func TestNew_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.LoggingConfig{}, &buf)

	l.Debug("hidden")
	l.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}
