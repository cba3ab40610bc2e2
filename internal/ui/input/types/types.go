package types

import tea "github.com/charmbracelet/bubbletea"

// Mode represents an input mode
type Mode int

const (
	// ModeQuery edits the query text; the text box has focus
	ModeQuery Mode = iota
	// ModeBrowse moves through suggestions with single-key bindings
	ModeBrowse
)

// Action represents a command the model should execute
type Action interface {
	Type() string
}

// Context provides read-only access to model state needed for input handling
type Context interface {
	HighlightIndex() int
	SuggestionCount() int
	HighlightedSuggestion() string
	HasSelection() bool
	CanRequestDetail() bool
	HasDetail() bool
	ShowingHelp() bool
}

// ModeHandler handles input for a specific mode
type ModeHandler interface {
	// HandleKey processes a key message and returns actions and whether to consume the event
	HandleKey(msg tea.KeyMsg, ctx Context) ([]Action, bool)

	// Enter is called when entering this mode
	Enter(ctx Context) []Action

	// Exit is called when leaving this mode
	Exit(ctx Context) []Action

	// Name returns the mode name for display
	Name() string
}
