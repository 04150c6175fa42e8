package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings the root model handles before a tab sees a key.
type KeyMap struct {
	Tabs    [4]key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Refetch key.Binding
	Compact key.Binding
	Help    key.Binding
	Close   key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the global bindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{
		NextTab: key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab/→", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab/←", "previous tab")),
		Refetch: key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refetch trending")),
		Compact: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "compact history")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	for i := range km.Tabs {
		id := TabID(i)
		digit := string(rune('1' + i))
		km.Tabs[i] = key.NewBinding(key.WithKeys(digit), key.WithHelp(digit, id.String()))
	}
	return km
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Refetch, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.Tabs[:],
		{k.NextTab, k.PrevTab},
		{k.Refetch, k.Compact, k.Help, k.Quit},
	}
}
