package modes

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"stocksearch/internal/ui/input/types"
)

// QueryMode edits the query text. Keys it does not bind fall through to
// the text box.
type QueryMode struct {
	keys      types.KeyMap
	textInput *textinput.Model
}

func NewQueryMode(ti *textinput.Model) *QueryMode {
	return &QueryMode{keys: types.QueryKeys(), textInput: ti}
}

func (m *QueryMode) Name() string {
	return "query"
}

// Keys returns the bindings shown in help
func (m *QueryMode) Keys() types.KeyMap {
	return m.keys
}

func (m *QueryMode) Enter(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Focus()
		m.textInput.CursorEnd()
	}
	return nil
}

func (m *QueryMode) Exit(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Blur()
	}
	return nil
}

func (m *QueryMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	return handleShared(m.keys, msg, ctx, true)
}

// handleShared covers the bindings both modes have in common
func handleShared(keys types.KeyMap, msg tea.KeyMsg, ctx types.Context, force bool) ([]types.Action, bool) {
	switch {
	case key.Matches(msg, keys.Quit):
		return []types.Action{types.QuitAction{Force: force || msg.Type == tea.KeyCtrlC}}, true

	case key.Matches(msg, keys.Help):
		return []types.Action{types.ToggleHelpAction{}}, true

	case key.Matches(msg, keys.Up):
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case key.Matches(msg, keys.Down):
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case key.Matches(msg, keys.Select):
		if id := ctx.HighlightedSuggestion(); id != "" {
			return []types.Action{types.SelectHighlightedAction{Identifier: id}}, true
		}
		return nil, true

	case key.Matches(msg, keys.ClearSelection):
		if ctx.HasSelection() {
			return []types.Action{types.ClearSelectionAction{}}, true
		}
		return nil, true

	case key.Matches(msg, keys.Detail):
		if ctx.CanRequestDetail() {
			return []types.Action{types.RequestDetailAction{}}, true
		}
		return nil, true

	case key.Matches(msg, keys.Pager):
		if ctx.HasDetail() {
			return []types.Action{types.OpenDetailPagerAction{}}, true
		}
		return nil, true

	case key.Matches(msg, keys.Browse):
		return []types.Action{types.ChangeModeAction{Mode: types.ModeBrowse}}, true

	case key.Matches(msg, keys.Edit):
		return []types.Action{types.ChangeModeAction{Mode: types.ModeQuery}}, true
	}

	return nil, false
}
