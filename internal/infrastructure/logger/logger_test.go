package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", "json")

	log.Debug("debug message", map[string]interface{}{"key1": "value1"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "debug message", entry["msg"])
	assert.Equal(t, "value1", entry["key1"])
	assert.Contains(t, entry, "time")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "json")

	log.Debug("should not appear", nil)
	log.Info("should not appear either", nil)
	assert.Empty(t, buf.String())

	log.Warn("warning message", nil)
	assert.Contains(t, buf.String(), "warning message")

	buf.Reset()
	log.Error("error message", nil)
	assert.Contains(t, buf.String(), "error message")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "bogus", "json")

	log.Debug("hidden", nil)
	assert.Empty(t, buf.String())

	log.Info("visible", nil)
	assert.Contains(t, buf.String(), "visible")
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "json")

	log.WithField("run_id", "abc").Info("with field", nil)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc", entry["run_id"])
	assert.Equal(t, "with field", entry["msg"])
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "json")

	log.WithFields(map[string]interface{}{
		"app":     "salespipe",
		"version": "1.0.0",
	}).Info("with fields", nil)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "salespipe", entry["app"])
	assert.Equal(t, "1.0.0", entry["version"])
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		Discard().Error("dropped", map[string]interface{}{"k": "v"})
	})
}

func TestDefaultLogger(t *testing.T) {
	original := GetDefaultLogger()
	t.Cleanup(func() { SetDefaultLogger(original) })

	var buf bytes.Buffer
	replacement := New(&buf, "info", "text")
	SetDefaultLogger(replacement)
	assert.Equal(t, replacement, GetDefaultLogger())

	// A nil argument must not clobber the default.
	SetDefaultLogger(nil)
	assert.Equal(t, replacement, GetDefaultLogger())
}
