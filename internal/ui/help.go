package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"stocksearch/internal/ui/input/types"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	minFragmentLength int
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer(minFragmentLength int) *HelpRenderer {
	return &HelpRenderer{minFragmentLength: minFragmentLength}
}

type helpStyles struct {
	title   lipgloss.Style
	section lipgloss.Style
	key     lipgloss.Style
	desc    lipgloss.Style
	note    lipgloss.Style
}

func newHelpStyles() helpStyles {
	return helpStyles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		section: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginTop(1),
		key:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		desc: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		note: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")),
	}
}

// RenderHelpContent renders the full help text
func (r *HelpRenderer) RenderHelpContent() string {
	s := newHelpStyles()
	var help strings.Builder

	help.WriteString(s.title.Render("stocksearch Help"))
	help.WriteString("\n")

	writeBindings(&help, s, "Typing", types.QueryKeys())
	help.WriteString("\n")
	writeBindings(&help, s, "Browsing", types.BrowseKeys())
	help.WriteString("\n")

	help.WriteString(s.section.Render("Lookups"))
	help.WriteString("\n")
	help.WriteString(s.note.Render(fmt.Sprintf("  Suggestions are fetched once the query has %d or more characters.", r.minFragmentLength)))
	help.WriteString("\n")
	help.WriteString(s.note.Render("  Enter looks up the selection, or the query text when nothing is selected."))
	help.WriteString("\n")
	help.WriteString(s.note.Render("  Answers for text you have already changed are ignored."))

	return help.String()
}

// renderHelpContent renders the help text clipped to a window
func (r *HelpRenderer) renderHelpContent(height int, scrollOffset int) string {
	lines := strings.Split(r.RenderHelpContent(), "\n")
	totalLines := len(lines)

	// Account for popup border and padding
	visibleHeight := height - 4
	if visibleHeight < 5 {
		visibleHeight = 5
	}
	if totalLines <= visibleHeight {
		return strings.Join(lines, "\n")
	}

	maxOffset := totalLines - visibleHeight
	if scrollOffset > maxOffset {
		scrollOffset = maxOffset
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}

	endLine := scrollOffset + visibleHeight
	visibleLines := append([]string(nil), lines[scrollOffset:endLine]...)

	more := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if scrollOffset > 0 {
		visibleLines[0] = more.Render("↑ (more above)")
	}
	if endLine < totalLines {
		visibleLines[len(visibleLines)-1] = more.Render("↓ (more below)")
	}
	return strings.Join(visibleLines, "\n")
}

func writeBindings(b *strings.Builder, s helpStyles, title string, keys types.KeyMap) {
	b.WriteString(s.section.Render(title))
	b.WriteString("\n")

	var rows []key.Binding
	for _, group := range keys.FullHelp() {
		rows = append(rows, group...)
	}

	width := 0
	for _, k := range rows {
		if w := lipgloss.Width(k.Help().Key); w > width {
			width = w
		}
	}
	for i, k := range rows {
		pad := strings.Repeat(" ", width-lipgloss.Width(k.Help().Key)+2)
		fmt.Fprintf(b, "  %s%s%s", s.key.Render(k.Help().Key), pad, s.desc.Render(k.Help().Desc))
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
}
