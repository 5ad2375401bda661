// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	// Navigation
	Up         key.Binding
	Down       key.Binding
	SwitchPane key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	FollowLink key.Binding
	ClearFocus key.Binding

	// Editing
	Edit   key.Binding
	Revert key.Binding
	Save   key.Binding
	Reload key.Binding

	// Review
	ToggleChanges key.Binding
	ToggleDialog  key.Binding
	ToggleBounds  key.Binding

	// General
	Logs key.Binding
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		SwitchPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("ctrl+u", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("ctrl+d", "scroll down"),
		),
		FollowLink: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to linked field"),
		),
		ClearFocus: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear focus"),
		),

		Edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("enter", "edit field"),
		),
		Revert: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "revert change"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),

		ToggleChanges: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "review changes"),
		),
		ToggleDialog: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "changes as dialog"),
		),
		ToggleBounds: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "show clip bounds"),
		),

		Logs: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "logs (debug)"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchPane, k.FollowLink, k.ToggleChanges, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.SwitchPane, k.ScrollUp, k.ScrollDown},
		{k.FollowLink, k.ClearFocus, k.Edit, k.Revert},
		{k.ToggleChanges, k.ToggleDialog, k.ToggleBounds, k.Save, k.Reload},
		{k.Logs, k.Help, k.Quit},
	}
}

// EditKeyMap is active while a field is being edited.
type EditKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultEditKeyMap returns the bindings used by the inline editor.
func DefaultEditKeyMap() EditKeyMap {
	return EditKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
