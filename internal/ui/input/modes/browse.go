package modes

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"stocksearch/internal/ui/input/types"
)

// BrowseMode walks the suggestion list with single keys
type BrowseMode struct {
	keys        types.KeyMap
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewBrowseMode() *BrowseMode {
	return &BrowseMode{keys: types.BrowseKeys()}
}

func (m *BrowseMode) Name() string {
	return "browse"
}

// Keys returns the bindings shown in help
func (m *BrowseMode) Keys() types.KeyMap {
	return m.keys
}

func (m *BrowseMode) Enter(ctx types.Context) []types.Action {
	m.lastKeyWasG = false
	return nil
}

func (m *BrowseMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *BrowseMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "g":
		if m.lastKeyWasG && time.Since(m.lastGTime) < 500*time.Millisecond {
			m.lastKeyWasG = false
			return []types.Action{types.NavigateAction{Direction: "home"}}, true
		}
		m.lastKeyWasG = true
		m.lastGTime = time.Now()
		return nil, true

	case "G":
		m.lastKeyWasG = false
		return []types.Action{types.NavigateAction{Direction: "end"}}, true
	}
	m.lastKeyWasG = false

	if actions, ok := handleShared(m.keys, msg, ctx, false); ok {
		return actions, true
	}

	// Unbound keys are swallowed so stray typing does nothing
	return nil, true
}
