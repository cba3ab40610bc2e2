package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONToFallback(t *testing.T) {
	var buf bytes.Buffer

	res, err := New(Config{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)
	defer res.Close()

	logger := Component(res.Logger, "search")
	logger.Debug().Str("key", "AAPL").Msg("lookup issued")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "search", entry["component"])
	assert.Equal(t, "AAPL", entry["key"])
	assert.Equal(t, "lookup issued", entry["message"])
	assert.False(t, res.UsingFile)
}

func TestNew_LevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer

	res, err := New(Config{Level: "chatty", Format: "json"}, &buf)
	require.NoError(t, err)

	assert.Equal(t, zerolog.InfoLevel, res.Logger.GetLevel())
	res.Logger.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "stocksearch.log")

	res, err := New(Config{Level: "info", File: path}, os.Stderr)
	require.NoError(t, err)
	res.Logger.Info().Msg("hello file")
	require.NoError(t, res.Close())
	require.NoError(t, res.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
	assert.True(t, res.UsingFile)
	assert.Equal(t, path, res.FilePath)
}

func TestNew_UnwritableFileFallsBack(t *testing.T) {
	var buf bytes.Buffer
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))

	res, err := New(Config{Format: "json", File: filepath.Join(blocker, "x.log")}, &buf)
	require.Error(t, err)
	require.NotNil(t, res)

	res.Logger.Info().Msg("still logging")
	assert.Contains(t, buf.String(), "still logging")
	assert.False(t, res.UsingFile)
}

func TestRequestID(t *testing.T) {
	id := NewRequestID()
	assert.True(t, ValidRequestID(id))
	assert.False(t, ValidRequestID("not-a-uuid"))

	ctx := ContextWithRequestID(context.Background(), id)
	assert.Equal(t, id, RequestIDFromContext(ctx))

	generated := RequestIDFromContext(context.Background())
	assert.True(t, ValidRequestID(generated))
	assert.NotEqual(t, id, generated)
}
