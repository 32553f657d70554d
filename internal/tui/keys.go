package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PrevLevel key.Binding
	NextLevel key.Binding
	Junior    key.Binding
	Mid       key.Binding
	Senior    key.Binding
	Up        key.Binding
	Down      key.Binding
	Increment key.Binding
	Decrement key.Binding
	Reset     key.Binding
	ResetAll  key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PrevLevel: key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/h", "prev level")),
		NextLevel: key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "next level")),
		Junior:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "junior")),
		Mid:       key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "mid")),
		Senior:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "senior")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Increment: key.NewBinding(key.WithKeys("+", "=", "y"), key.WithHelp("+/y", "yes")),
		Decrement: key.NewBinding(key.WithKeys("-", "_", "n"), key.WithHelp("-/n", "undo yes")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset level")),
		ResetAll:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset all")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextLevel, k.Down, k.Increment, k.Decrement, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevLevel, k.NextLevel, k.Junior, k.Mid, k.Senior},
		{k.Up, k.Down, k.Increment, k.Decrement},
		{k.Reset, k.ResetAll, k.Help, k.Quit},
	}
}
