package input

import "stocksearch/internal/search"

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State     search.State
	Highlight int
	HelpShown bool
}

// HighlightIndex returns the highlighted suggestion row, -1 for none
func (c *ModelContext) HighlightIndex() int {
	if c.Highlight < 0 || c.Highlight >= len(c.State.Suggestions) {
		return -1
	}
	return c.Highlight
}

// SuggestionCount returns the number of suggestions on screen
func (c *ModelContext) SuggestionCount() int {
	return len(c.State.Suggestions)
}

// HighlightedSuggestion returns the highlighted suggestion, or ""
func (c *ModelContext) HighlightedSuggestion() string {
	if i := c.HighlightIndex(); i >= 0 {
		return c.State.Suggestions[i]
	}
	return ""
}

// HasSelection reports whether a suggestion is committed
func (c *ModelContext) HasSelection() bool {
	return c.State.Selection != ""
}

// CanRequestDetail reports whether enter would issue a lookup
func (c *ModelContext) CanRequestDetail() bool {
	return c.State.CanRequestDetail()
}

// HasDetail reports whether a record is on screen
func (c *ModelContext) HasDetail() bool {
	return !c.State.Detail.IsZero()
}

// ShowingHelp reports whether the help overlay is open
func (c *ModelContext) ShowingHelp() bool {
	return c.HelpShown
}
