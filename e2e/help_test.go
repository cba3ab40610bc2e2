//go:build e2e && unix

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpCommand(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	output, err := tf.Run("--help")
	require.NoError(t, err, "Help command should run without error")

	assert.Contains(t, output, "Usage")
	assert.Contains(t, output, "serve")
	assert.Contains(t, output, "suggest")
	assert.Contains(t, output, "--backend")
}

func TestHelpOverlay(t *testing.T) {
	t.Parallel()
	backend := standardBackend()
	defer backend.Close()

	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp("--backend", backend.URL()))
	require.True(t, tf.Ready())

	require.NoError(t, tf.SendKeys(KeyF1))
	require.True(t, tf.SeePlain("stocksearch Help"), "F1 should open help")
	require.True(t, tf.SeePlain("Browsing"))

	require.NoError(t, tf.SendKeys(KeyEsc))
	tf.Snapshot()
	require.NoError(t, tf.Type("AA"))
	require.True(t, tf.SeePlain("AAPL"), "Typing should work again after closing help")
}
