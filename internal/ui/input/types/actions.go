package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// SelectHighlightedAction makes the highlighted suggestion the selection
type SelectHighlightedAction struct {
	Identifier string
}

func (a SelectHighlightedAction) Type() string { return "select_highlighted" }

type ClearSelectionAction struct{}

func (a ClearSelectionAction) Type() string { return "clear_selection" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

// Command actions
type RequestDetailAction struct{}

func (a RequestDetailAction) Type() string { return "request_detail" }

type OpenDetailPagerAction struct{}

func (a OpenDetailPagerAction) Type() string { return "open_detail_pager" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
