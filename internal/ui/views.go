package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/onlypets/onlypets/internal/catalog"
	"github.com/onlypets/onlypets/internal/flow"
)

const nameWidth = 18

// renderMain renders header, content, notice and footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	if line := m.renderNotice(); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Styles().Footer.Render(m.help.ShortHelpView(m.contextBindings())))
	return b.String()
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	session := m.machine.Session()

	left := styles.Logo.Render("OnlyPets") + "  " + styles.MutedText.Render(m.machine.State().String())

	var right string
	if session.Authenticated {
		right = styles.Text.Render(session.DisplayName) + "  " + styles.KeyHint.Render("[o]") + styles.MutedText.Render(" Log out")
	} else {
		right = styles.MutedText.Render(flow.GuestName) + "  " + styles.KeyHint.Render("[l]") + styles.MutedText.Render(" Log in")
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderNotice() string {
	if m.notice == nil {
		return ""
	}
	styles := m.theme.Styles()
	text := m.notice.text
	if m.notice.title != "" {
		text = m.notice.title + ": " + text
	}
	return " " + styles.Notice(m.notice.level).Render(text)
}

// renderContent renders the main area based on the current state.
func (m Model) renderContent() string {
	switch m.machine.State() {
	case flow.Home:
		return m.renderHome()
	case flow.BrowsingPets:
		return m.renderBrowse("Pets", m.pets, m.petsQuery)
	case flow.BrowsingServices:
		return m.renderBrowse("Services", m.services, m.servicesQuery)
	case flow.ItemDetails:
		return m.renderDetails()
	case flow.AuthPrompt:
		return m.renderAuth()
	case flow.AdoptionForm:
		return m.renderAdoptionForm()
	case flow.BookingSchedule:
		return m.renderBookingSchedule()
	case flow.Confirmation:
		return m.renderConfirmation()
	case flow.Wishlist:
		return m.renderWishlist()
	case flow.History:
		return m.renderHistory()
	default:
		return ""
	}
}

func (m Model) renderHome() string {
	styles := m.theme.Styles()
	pets := headOf(m.featuredPets, m.featuredCount)
	services := headOf(m.featuredServices, m.featuredCount)

	var b strings.Builder
	b.WriteString(styles.Title.Render("Featured pets"))
	b.WriteString("\n")
	b.WriteString(m.renderItems(pets, m.cursor, "Loading pets..."))
	b.WriteString("\n\n")
	b.WriteString(styles.Title.Render("Featured services"))
	b.WriteString("\n")
	b.WriteString(m.renderItems(services, m.cursor-len(pets), "Loading services..."))
	return b.String()
}

func (m Model) renderBrowse(title string, items []catalog.Item, query string) string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Title.Render(title))
	switch {
	case m.searching:
		b.WriteString("  ")
		b.WriteString(m.search.View())
	case query != "":
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("  matching %q", query)))
	}
	b.WriteString("\n")
	if m.searching && m.machine.State() == flow.BrowsingPets {
		b.WriteString(styles.FaintText.Render("  filters: breed:<breed> age:N or age:N-M"))
		b.WriteString("\n")
	}
	empty := "Nothing to show."
	if query != "" {
		empty = fmt.Sprintf("No %s match %q.", strings.ToLower(title), query)
	}
	b.WriteString(m.renderItems(items, m.cursor, empty))
	return b.String()
}

// renderItems draws one line per item, highlighting the row at cursor.
func (m Model) renderItems(items []catalog.Item, cursor int, empty string) string {
	styles := m.theme.Styles()
	if len(items) == 0 {
		return styles.FaintText.Render("  " + empty)
	}
	lines := make([]string, len(items))
	for i, item := range items {
		line := "  " + padRight(truncate(item.Name(), nameWidth), nameWidth) + "  " + item.Summary()
		if i == cursor {
			lines[i] = styles.Selected.Render(padRight(line, m.width-2))
		} else {
			lines[i] = styles.Text.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderDetails() string {
	styles := m.theme.Styles()
	item := m.machine.Flow().Item
	var b strings.Builder
	b.WriteString(styles.Title.Render(item.Name()))
	b.WriteString("\n")
	b.WriteString(m.itemFacts(item))
	b.WriteString("\n\n")
	switch item.Kind {
	case catalog.KindPet:
		b.WriteString(styles.KeyHint.Render("[a]") + " Adopt   " + styles.KeyHint.Render("[v]") + " Save to wishlist")
	case catalog.KindService:
		b.WriteString(styles.KeyHint.Render("[b]") + " Book")
	}
	return styles.Panel.Render(b.String())
}

// itemFacts lists the fields of a pet or service with its wrapped description.
func (m Model) itemFacts(item catalog.Item) string {
	styles := m.theme.Styles()
	var rows []string
	var description string
	switch {
	case item.Pet != nil:
		rows = append(rows, fact(styles, "Breed", item.Pet.Breed))
		if item.Pet.Age > 0 {
			rows = append(rows, fact(styles, "Age", fmt.Sprintf("%d years", item.Pet.Age)))
		}
		description = item.Pet.Description
	case item.Service != nil:
		rows = append(rows, fact(styles, "Price", item.Service.PriceLabel()))
		description = item.Service.Description
	}
	if description != "" {
		rows = append(rows, "")
		for _, line := range wrap(description, clampWidth(m.width-8, 20, 72)) {
			rows = append(rows, styles.Text.Render(line))
		}
	}
	return strings.Join(rows, "\n")
}

func fact(styles Styles, label, value string) string {
	return styles.MutedText.Render(padRight(label, 8)) + styles.Text.Render(value)
}

func (m Model) renderAuth() string {
	styles := m.theme.Styles()
	signup := m.machine.AuthView() == flow.AuthSignup

	title, other := "Log in", "ctrl+t to create an account"
	if signup {
		title, other = "Sign up", "ctrl+t to log in instead"
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n")
	if pending, ok := m.machine.Pending(); ok {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("You'll continue to %s %s after logging in.", pending.Kind, pending.Item.Name())))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	labels := [fieldCount]string{"Username", "Email", "Password"}
	for _, f := range m.authOrder() {
		label := styles.MutedText.Render(padRight(labels[f], 10))
		if f == m.authFocus {
			label = styles.AccentText.Render(padRight(labels[f], 10))
		}
		b.WriteString(label)
		b.WriteString(m.authFields[f].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(other))
	return styles.Panel.Render(b.String())
}

func (m Model) renderAdoptionForm() string {
	styles := m.theme.Styles()
	item := m.machine.Flow().Item
	var b strings.Builder
	b.WriteString(styles.Title.Render("Adopt " + item.Name()))
	b.WriteString("\n")
	b.WriteString(m.itemFacts(item))
	b.WriteString("\n\n")
	b.WriteString(fact(styles, "Adopter", m.machine.Session().DisplayName))
	b.WriteString("\n\n")
	b.WriteString(styles.KeyHint.Render("[enter]") + " Submit application")
	return styles.Panel.Render(b.String())
}

func (m Model) renderBookingSchedule() string {
	styles := m.theme.Styles()
	item := m.machine.Flow().Item
	var b strings.Builder
	b.WriteString(styles.Title.Render("Book " + item.Name()))
	b.WriteString("\n")
	b.WriteString(m.itemFacts(item))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render(padRight("Date", 10)))
	b.WriteString(m.date.View())
	b.WriteString("\n\n")
	b.WriteString(styles.KeyHint.Render("[enter]") + " Book")
	return styles.Panel.Render(b.String())
}

func (m Model) renderConfirmation() string {
	styles := m.theme.Styles()
	fc := m.machine.Flow()
	var headline, detail string
	switch fc.Kind {
	case flow.Booking:
		headline = "Booking confirmed"
		detail = fmt.Sprintf("%s on %s for %s.", fc.Item.Name(), fc.Date, fc.Item.Summary())
	default:
		headline = "Application submitted"
		detail = fmt.Sprintf("Your adoption application for %s has been submitted.", fc.Item.Name())
	}
	var b strings.Builder
	b.WriteString(styles.SuccessText.Render(headline))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(detail))
	b.WriteString("\n\n")
	b.WriteString(styles.KeyHint.Render("[enter]") + " Done")
	return styles.Panel.Render(b.String())
}

func (m Model) renderWishlist() string {
	styles := m.theme.Styles()
	title := "Wishlist"
	if !m.machine.Session().Authenticated {
		title = "Wishlist (saved on this computer)"
	}
	return styles.Title.Render(title) + "\n" + m.renderItems(m.wishlist, m.cursor, "No saved pets yet. Press v on a pet to save it.")
}

func (m Model) renderHistory() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Title.Render("History"))
	b.WriteString("\n")
	switch {
	case !m.historyLoaded:
		b.WriteString(styles.FaintText.Render("  Loading..."))
		return b.String()
	case m.history.Empty():
		b.WriteString(styles.FaintText.Render("  No adoptions or bookings yet."))
		return b.String()
	}

	b.WriteString(styles.AccentText.Render("Adoptions"))
	b.WriteString("\n")
	if len(m.history.Adoptions) == 0 {
		b.WriteString(styles.FaintText.Render("  none"))
		b.WriteString("\n")
	}
	for _, a := range m.history.Adoptions {
		b.WriteString(styles.Text.Render("  " + a.AdoptedOn + "  " + padRight(truncate(a.Pet.Name, nameWidth), nameWidth) + "  " + a.Pet.Breed))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.AccentText.Render("Bookings"))
	b.WriteString("\n")
	if len(m.history.Bookings) == 0 {
		b.WriteString(styles.FaintText.Render("  none"))
	}
	for i, bk := range m.history.Bookings {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.Text.Render("  " + bk.Date + "  " + padRight(truncate(bk.Service.Name, nameWidth), nameWidth) + "  " + bk.Service.PriceLabel()))
	}
	return b.String()
}
