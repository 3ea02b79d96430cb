package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "prod")

	log.Info("hello", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "portfolio", entry["service"])
	assert.Equal(t, "prod", entry["environment"])
	assert.Equal(t, "value", entry["key"])
}

func TestNew_LocalWritesText(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "local")

	log.Debug("debugging")

	assert.Contains(t, buf.String(), "msg=debugging")
	assert.Contains(t, buf.String(), "service=portfolio")
}

func TestNew_SetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	log := New("local")
	assert.Same(t, log, slog.Default())
}
