package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(&buf, "debug", "json")
	require.NoError(t, err)

	l.Debug("source started", zap.String("source", "docker:api"))
	require.NoError(t, l.Sync())

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "debug", rec["level"])
	assert.Equal(t, "source started", rec["msg"])
	assert.Equal(t, "docker:api", rec["source"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(&buf, "warn", "console")
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown")
	require.NoError(t, l.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "WARN")
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := NewWithWriter(&bytes.Buffer{}, "loud", "console")
	assert.Error(t, err)

	_, err = NewWithWriter(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))

	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}
