package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/onlypets/onlypets/internal/flow"
)

// applyEffects carries out machine effects in order.
func (m *Model) applyEffects(effects []flow.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, effect := range effects {
		switch e := effect.(type) {
		case flow.Navigate:
			cmds = append(cmds, m.navigate(e.To))
		case flow.SwitchAuth:
			m.notice = nil
			m.authFields[fieldEmail].SetValue("")
			m.authFields[fieldPassword].SetValue("")
			cmds = append(cmds, m.focusAuth(fieldUsername))
		case flow.Populate:
			m.populate(e)
		case flow.ShowHistory:
			m.history = e.History
			m.historyLoaded = true
		case flow.Notify:
			m.notice = &notice{level: e.Level, title: e.Title, text: e.Text}
			m.logger.Debug("notice", zap.String("title", e.Title), zap.String("text", e.Text))
		case flow.Submit:
			m.submit(e)
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) submit(e flow.Submit) {
	if m.dispatcher == nil {
		return
	}
	handle, ok := m.dispatcher.Submit(e.Request)
	if !ok {
		return
	}
	m.logger.Debug("submitted",
		zap.Stringer("op", handle.Op),
		zap.String("correlation", handle.Correlation.String()),
	)
}

func (m *Model) navigate(to flow.State) tea.Cmd {
	m.cursor = 0
	m.notice = nil
	m.searching = false
	m.search.Blur()
	m.date.Blur()
	for i := range m.authFields {
		m.authFields[i].Blur()
	}

	switch to {
	case flow.AuthPrompt:
		for i := range m.authFields {
			m.authFields[i].SetValue("")
		}
		if m.lastUsername != "" {
			m.authFields[fieldUsername].SetValue(m.lastUsername)
			return m.focusAuth(fieldPassword)
		}
		return m.focusAuth(fieldUsername)
	case flow.BookingSchedule:
		m.date.SetValue("")
		return m.date.Focus()
	case flow.History:
		m.historyLoaded = false
	case flow.Wishlist:
		m.wishlist = nil
	}
	return nil
}

func (m *Model) populate(e flow.Populate) {
	switch e.Region {
	case flow.RegionPets:
		m.pets = e.Items
		m.petsQuery = e.Query
		if e.Query == "" {
			m.featuredPets = e.Items
		}
	case flow.RegionServices:
		m.services = e.Items
		m.servicesQuery = e.Query
		if e.Query == "" {
			m.featuredServices = e.Items
		}
	case flow.RegionWishlist:
		m.wishlist = e.Items
	}
	m.cursor = clamp(m.cursor, len(m.visibleItems()))
}
