package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"stocksearch/internal/ui/input/modes"
	"stocksearch/internal/ui/input/types"
)

// keyed is implemented by modes that publish their bindings
type keyed interface {
	Keys() types.KeyMap
}

type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	textInput   *textinput.Model
	lastText    string
}

// New creates a handler that starts in query mode with a focused text box
func New(placeholder string, charLimit int) *Handler {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = charLimit
	ti.Focus()

	h := &Handler{
		currentMode: types.ModeQuery,
		textInput:   &ti,
		modes:       make(map[types.Mode]types.ModeHandler),
	}

	h.modes[types.ModeQuery] = modes.NewQueryMode(h.textInput)
	h.modes[types.ModeBrowse] = modes.NewBrowseMode()

	return h
}

// HandleKey routes a key to the current mode. Keys the query mode leaves
// unbound edit the text box; a changed value yields an UpdateTextAction.
func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)

	var cmd tea.Cmd
	var allActions []types.Action

	for _, action := range actions {
		if changeMode, ok := action.(types.ChangeModeAction); ok {
			if changeMode.Mode == h.currentMode {
				continue
			}
			allActions = append(allActions, h.modes[h.currentMode].Exit(ctx)...)
			h.currentMode = changeMode.Mode
			allActions = append(allActions, h.modes[h.currentMode].Enter(ctx)...)
			if h.currentMode == types.ModeQuery {
				cmd = textinput.Blink
			}
			allActions = append(allActions, action)
		} else {
			allActions = append(allActions, action)
		}
	}

	if !consumed && h.currentMode == types.ModeQuery {
		*h.textInput, cmd = h.textInput.Update(msg)
		if text := h.textInput.Value(); text != h.lastText {
			h.lastText = text
			allActions = append(allActions, types.UpdateTextAction{Text: text})
		}
	}

	return allActions, cmd
}

// Update handles non-keyboard messages for the text box, such as cursor blink
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if h.currentMode != types.ModeQuery {
		return nil
	}
	var cmd tea.Cmd
	*h.textInput, cmd = h.textInput.Update(msg)
	return cmd
}

// Init returns the initial command for the handler
func (h *Handler) Init() tea.Cmd {
	return textinput.Blink
}

// CurrentMode returns the active input mode
func (h *Handler) CurrentMode() types.Mode {
	return h.currentMode
}

// ModeName returns the active mode's display name
func (h *Handler) ModeName() string {
	if m := h.modes[h.currentMode]; m != nil {
		return m.Name()
	}
	return ""
}

// Keys returns the active mode's bindings
func (h *Handler) Keys() types.KeyMap {
	if k, ok := h.modes[h.currentMode].(keyed); ok {
		return k.Keys()
	}
	return types.KeyMap{}
}

// TextInput returns the shared text box
func (h *Handler) TextInput() *textinput.Model {
	return h.textInput
}

