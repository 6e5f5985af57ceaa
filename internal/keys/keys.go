package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// View switching
	ViewShorts     key.Binding
	ViewChallenges key.Binding
	ViewArchive    key.Binding

	// Feed actions
	Like      key.Binding
	NextClip  key.Binding
	PrevClip  key.Binding
	SwitchTab key.Binding

	// Challenge actions
	Toggle key.Binding
	Edit   key.Binding
	New    key.Binding
	Save   key.Binding
	Delete key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		ViewShorts: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "shorts"),
		),
		ViewChallenges: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "challenges"),
		),
		ViewArchive: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "giveaways"),
		),
		Like: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "like clip"),
		),
		NextClip: key.NewBinding(
			key.WithKeys("J", "pgdown"),
			key.WithHelp("J", "next clip"),
		),
		PrevClip: key.NewBinding(
			key.WithKeys("K", "pgup"),
			key.WithHelp("K", "previous clip"),
		),
		SwitchTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "trending/best"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle done"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.ViewShorts, k.ViewChallenges, k.ViewArchive, k.Help, k.Refresh},
		{k.Like, k.NextClip, k.PrevClip, k.SwitchTab},
		{k.Toggle, k.Edit, k.New, k.Save, k.Delete},
	}
}
