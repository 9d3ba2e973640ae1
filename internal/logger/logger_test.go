package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(int(slog.LevelInfo), &buf)

	l.Debug("Dispatcher: hidden")
	l.Info("Dispatcher: shown", "request_id", "abc")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "request_id=abc")
}

func TestStdLogger_WritesThroughHandler(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(0, &buf)

	l.StdLogger(slog.LevelWarn).Print("zmq4: peer gone")

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "zmq4: peer gone")
}

func TestNewWithFile_WritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credcheck.log")
	l := NewWithFile(0, FileOptions{Path: path, MaxSizeMB: 1, MaxBackups: 1})

	l.Info("ServiceLoop: listening", "endpoint", "tcp://*:8080")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ServiceLoop: listening")
}

func TestNewWithFile_NoPath(t *testing.T) {
	l := NewWithFile(0, FileOptions{})
	assert.NotNil(t, l.Logger)
	assert.NoError(t, l.Close())
}
