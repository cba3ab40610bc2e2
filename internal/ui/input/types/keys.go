package types

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists every binding of the search screen. Query mode uses the
// chorded variants so printable keys stay available for typing.
type KeyMap struct {
	Up             key.Binding
	Down           key.Binding
	Select         key.Binding
	ClearSelection key.Binding
	Detail         key.Binding
	Pager          key.Binding
	Browse         key.Binding
	Edit           key.Binding
	Help           key.Binding
	Quit           key.Binding
}

// QueryKeys are active while typing
func QueryKeys() KeyMap {
	return KeyMap{
		Up:             key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑/ctrl+p", "previous")),
		Down:           key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓/ctrl+n", "next")),
		Select:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "select")),
		ClearSelection: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear selection")),
		Detail:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "look up")),
		Pager:          key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open record")),
		Browse:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "browse")),
		Help:           key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit:           key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// BrowseKeys are active while the text box is blurred
func BrowseKeys() KeyMap {
	return KeyMap{
		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next")),
		Select:         key.NewBinding(key.WithKeys("tab", " "), key.WithHelp("space", "select")),
		ClearSelection: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear selection")),
		Detail:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "look up")),
		Pager:          key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open record")),
		Edit:           key.NewBinding(key.WithKeys("/", "i"), key.WithHelp("/", "edit query")),
		Help:           key.NewBinding(key.WithKeys("?", "f1"), key.WithHelp("?", "help")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return k.enabled(k.Select, k.Detail, k.Browse, k.Edit, k.Help, k.Quit)
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.enabled(k.Up, k.Down, k.Select, k.ClearSelection),
		k.enabled(k.Detail, k.Pager),
		k.enabled(k.Browse, k.Edit, k.Help, k.Quit),
	}
}

func (k KeyMap) enabled(bindings ...key.Binding) []key.Binding {
	out := make([]key.Binding, 0, len(bindings))
	for _, b := range bindings {
		if len(b.Keys()) > 0 {
			out = append(out, b)
		}
	}
	return out
}
