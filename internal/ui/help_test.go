package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestHelpContentListsBindings(t *testing.T) {
	content := ansi.Strip(NewHelpRenderer(3).RenderHelpContent())

	assert.Contains(t, content, "Typing")
	assert.Contains(t, content, "Browsing")
	assert.Contains(t, content, "ctrl+p")
	assert.Contains(t, content, "edit query")
	assert.Contains(t, content, "once the query has 3 or more characters")
}

func TestHelpContentScrolls(t *testing.T) {
	r := NewHelpRenderer(2)
	full := strings.Split(r.RenderHelpContent(), "\n")

	top := ansi.Strip(r.renderHelpContent(10, 0))
	assert.Len(t, strings.Split(top, "\n"), 6)
	assert.Contains(t, top, "↓ (more below)")
	assert.NotContains(t, top, "↑ (more above)")

	bottom := ansi.Strip(r.renderHelpContent(10, len(full)))
	assert.Contains(t, bottom, "↑ (more above)")
	assert.NotContains(t, bottom, "↓ (more below)")

	all := r.renderHelpContent(len(full)+4, 0)
	assert.Equal(t, r.RenderHelpContent(), all)
}
