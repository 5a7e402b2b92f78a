package cli

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Up      key.Binding
	Down    key.Binding
	New     key.Binding
	Hold    key.Binding
	Resume  key.Binding
	Finish  key.Binding
	Memo    key.Binding
	Delete  key.Binding
	Clear   key.Binding
	Unit    key.Binding
	Sort    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTab: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab", "prev tab")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new session")),
		Hold:    key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hold")),
		Resume:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
		Finish:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish")),
		Memo:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit memo")),
		Delete:  key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Clear:   key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear log")),
		Unit:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unit")),
		Sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("esc", "n"), key.WithHelp("esc", "cancel")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// tabKeys narrows the help bar to the bindings that act on the given tab.
type tabKeys struct {
	keyMap
	tab tab
}

func (k tabKeys) ShortHelp() []key.Binding {
	switch k.tab {
	case tabMeasure:
		return []key.Binding{k.New, k.NextTab, k.Help, k.Quit}
	case tabExecuting:
		return []key.Binding{k.Hold, k.Finish, k.Memo, k.Delete, k.NextTab, k.Help, k.Quit}
	case tabHolding:
		return []key.Binding{k.Resume, k.Finish, k.Unit, k.Sort, k.NextTab, k.Help, k.Quit}
	default:
		return []key.Binding{k.Delete, k.Clear, k.Unit, k.NextTab, k.Help, k.Quit}
	}
}

func (k tabKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Up, k.Down},
		{k.New, k.Hold, k.Resume, k.Finish, k.Memo},
		{k.Delete, k.Clear, k.Unit, k.Sort},
		{k.Help, k.Quit},
	}
}
