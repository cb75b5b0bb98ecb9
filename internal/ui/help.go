package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/onlypets/onlypets/internal/flow"
)

var helpTitles = []string{"Navigation", "Lists", "Items", "Account", "General"}

// renderHelp renders the help overlay from the key map.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	groups := m.keys.FullHelp()
	for i, group := range groups {
		if i < len(helpTitles) {
			b.WriteString(styles.AccentText.Bold(true).Render(helpTitles[i]))
			b.WriteString("\n")
		}
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(styles.KeyHint.Width(12).Render(h.Key))
			b.WriteString(styles.Text.Render(h.Desc))
			b.WriteString("\n")
		}
		if i < len(groups)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(40)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// contextBindings are the keys shown in the footer for the current view.
func (m Model) contextBindings() []key.Binding {
	k := m.keys
	if m.searching {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "Search")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "Stop searching")),
		}
	}
	switch m.machine.State() {
	case flow.Home:
		return []key.Binding{k.Pets, k.Services, k.Select, k.Wishlist, k.History, m.accountBinding(), k.Help, k.Quit}
	case flow.BrowsingPets, flow.BrowsingServices:
		return []key.Binding{k.Up, k.Down, k.Select, k.Search, k.Back, m.accountBinding(), k.Help}
	case flow.ItemDetails:
		item := m.machine.Flow().Item
		if item.Pet != nil {
			return []key.Binding{k.Adopt, k.Save, k.Back, m.accountBinding(), k.Help}
		}
		return []key.Binding{k.Book, k.Back, m.accountBinding(), k.Help}
	case flow.AuthPrompt:
		return []key.Binding{k.Submit, k.NextField, k.SwitchAuth, withHelp(k.Back, "esc", "Cancel")}
	case flow.AdoptionForm:
		return []key.Binding{withHelp(k.Submit, "enter", "Submit application"), k.Back}
	case flow.BookingSchedule:
		return []key.Binding{withHelp(k.Submit, "enter", "Book"), withHelp(k.Back, "esc", "Back")}
	case flow.Confirmation:
		return []key.Binding{withHelp(k.Select, "enter", "Done")}
	case flow.Wishlist:
		return []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Help}
	case flow.History:
		return []key.Binding{k.Back, k.Logout, k.Help}
	}
	return k.ShortHelp()
}

func (m Model) accountBinding() key.Binding {
	if m.machine.Session().Authenticated {
		return m.keys.Logout
	}
	return m.keys.Login
}

func withHelp(b key.Binding, keys, desc string) key.Binding {
	b.SetHelp(keys, desc)
	return b
}
