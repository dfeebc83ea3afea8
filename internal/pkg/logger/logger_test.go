package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(&buf, "info", true)
	require.NoError(t, err)

	l.WithFields(map[string]any{"booking_id": 42}).Info("booking %s", "confirmed")
	l.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "booking confirmed", entry["msg"])
	assert.Equal(t, float64(42), entry["booking_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestLogger_InvalidLevel(t *testing.T) {
	_, err := NewWithWriter(&bytes.Buffer{}, "loud", false)
	assert.Error(t, err)
}
