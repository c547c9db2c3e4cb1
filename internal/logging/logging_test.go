package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriterOutputIsJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New().FromWriter(&buf).Level("debug").Make()
	require.NoError(t, err)

	l.Debug().Str("entity", "abc").Msg("selected")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "selected", line["message"])
	require.Equal(t, "abc", line["entity"])
	require.Contains(t, line, "time")
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l, err := New().FromWriter(&buf).Level("warn").Make()
	require.NoError(t, err)

	l.Info().Msg("hidden")
	require.Zero(t, buf.Len())
}

func TestFromPathCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "watchlist.log")
	l, err := New().FromPath(path).Make()
	require.NoError(t, err)

	l.Info().Msg("hello")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "hello")
}

func TestBadLevel(t *testing.T) {
	_, err := New().Level("loud").Make()
	require.Error(t, err)
}
