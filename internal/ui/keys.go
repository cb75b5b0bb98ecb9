package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Back      key.Binding

	// View switching
	Home     key.Binding
	Pets     key.Binding
	Services key.Binding
	Wishlist key.Binding
	History  key.Binding

	// Lists
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Search key.Binding
	Select key.Binding

	// Item actions
	Adopt key.Binding
	Book  key.Binding
	Save  key.Binding

	// Account
	Login  key.Binding
	Logout key.Binding

	// Forms
	NextField  key.Binding
	PrevField  key.Binding
	SwitchAuth key.Binding
	Submit     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "Quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "Back"),
		),

		Home: key.NewBinding(
			key.WithKeys("H", "home"),
			key.WithHelp("H", "Home"),
		),
		Pets: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Pets"),
		),
		Services: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Services"),
		),
		Wishlist: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "Wishlist"),
		),
		History: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "History"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open"),
		),

		Adopt: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Adopt"),
		),
		Book: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Book"),
		),
		Save: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Save to wishlist"),
		),

		Login: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Log in"),
		),
		Logout: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Log out"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		SwitchAuth: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "Log in / sign up"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Submit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Home, k.Pets, k.Services, k.Wishlist, k.History, k.Back},
		{k.Up, k.Down, k.Top, k.Bottom, k.Search, k.Select},
		{k.Adopt, k.Book, k.Save},
		{k.Login, k.Logout, k.SwitchAuth},
		{k.Help, k.Quit},
	}
}
