package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stocksearch/internal/domain"
)

// ReadyMarker is printed for terminal test harnesses once the first frame is drawn
const ReadyMarker = "__READY__"

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width             int
	Height            int
	Input             string // rendered text box
	ModeName          string
	QueryText         string
	MinFragmentLength int
	Suggestions       []string
	Highlight         int
	MaxVisible        int
	Selection         string
	Detail            domain.DetailRecord
	SuggestInFlight   bool
	DetailInFlight    bool
	Spinner           string
	FailureText       string
	StatusMessage     string
	ShortHelp         string
	ShowHelp          bool
	HelpContent       string
	Ready             bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		popupRender: NewPopupRenderer(styles),
	}
}

// Styles exposes the renderer's palette
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	if state.ShowHelp {
		return r.popupRender.RenderPopup(state.HelpContent, state.Height, state.Width)
	}

	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n\n")
	content.WriteString(state.Input)
	content.WriteString("\n")
	content.WriteString(r.renderSelection(state))
	content.WriteString("\n\n")
	content.WriteString(r.renderSuggestions(state))

	if !state.Detail.IsZero() {
		content.WriteString("\n\n")
		content.WriteString(r.RenderDetailCard(state.Detail, state.Width))
	}

	if state.FailureText != "" {
		content.WriteString("\n\n")
		content.WriteString(r.styles.StatusError.Render(state.FailureText))
	}
	if state.StatusMessage != "" {
		content.WriteString("\n")
		content.WriteString(r.styles.StatusLoading.Render(state.StatusMessage))
	}

	footer := r.styles.Help.Render(state.ShortHelp)
	if state.Ready {
		footer += " " + r.styles.Dim.Render(ReadyMarker)
	}

	// Push the footer to the bottom of the screen
	currentLines := strings.Count(content.String(), "\n") + 1
	availableLines := state.Height - 2
	if availableLines <= 0 {
		availableLines = 22
	}
	if padding := availableLines - currentLines - 1; padding > 0 {
		content.WriteString(strings.Repeat("\n", padding))
	}
	content.WriteString("\n")
	content.WriteString(footer)

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	return mainStyle.Render(content.String())
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("stocksearch")

	var indicators []string
	if state.SuggestInFlight {
		indicators = append(indicators, fmt.Sprintf("%s Searching", state.Spinner))
	}
	if state.DetailInFlight {
		indicators = append(indicators, fmt.Sprintf("%s Resolving", state.Spinner))
	}
	if state.ModeName != "" {
		indicators = append(indicators, fmt.Sprintf("[%s]", state.ModeName))
	}
	if len(indicators) == 0 {
		return logo
	}

	right := r.styles.Dim.Render(strings.Join(indicators, " | "))
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

func (r *Renderer) renderSelection(state ViewState) string {
	if state.Selection != "" {
		return r.styles.Label.Render("Selected: ") + r.styles.Selection.Render(state.Selection)
	}
	if state.QueryText != "" {
		return r.styles.Dim.Render(fmt.Sprintf("No selection; enter looks up %q", state.QueryText))
	}
	return r.styles.Dim.Render("No selection")
}

func (r *Renderer) renderSuggestions(state ViewState) string {
	if len([]rune(state.QueryText)) < state.MinFragmentLength && len(state.Suggestions) == 0 {
		return r.styles.Dim.Render(fmt.Sprintf("Type at least %d characters for suggestions", state.MinFragmentLength))
	}
	if len(state.Suggestions) == 0 {
		if state.SuggestInFlight {
			return r.styles.Dim.Render("Searching...")
		}
		return r.styles.Dim.Render("No suggestions")
	}

	start, end := window(len(state.Suggestions), state.Highlight, state.MaxVisible)
	lines := make([]string, 0, end-start+2)
	if start > 0 {
		lines = append(lines, r.styles.Dim.Render(fmt.Sprintf("  ↑ %d more", start)))
	}
	for i := start; i < end; i++ {
		lines = append(lines, r.renderSuggestion(state.Suggestions[i], i == state.Highlight, state.Suggestions[i] == state.Selection))
	}
	if end < len(state.Suggestions) {
		lines = append(lines, r.styles.Dim.Render(fmt.Sprintf("  ↓ %d more", len(state.Suggestions)-end)))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderSuggestion(text string, highlighted, selected bool) string {
	cursor := "  "
	if highlighted {
		cursor = "› "
	}
	mark := "  "
	if selected {
		mark = r.styles.Selection.Render("✓ ")
	}
	label := text
	if highlighted {
		label = r.styles.HighlightBg.Render(r.styles.Highlight.Render(text))
	}
	return cursor + mark + label
}

// window returns the visible slice bounds keeping the highlight in view
func window(total, highlight, size int) (int, int) {
	if size <= 0 || total <= size {
		return 0, total
	}
	start := 0
	if highlight >= size {
		start = highlight - size + 1
	}
	return start, start + size
}
