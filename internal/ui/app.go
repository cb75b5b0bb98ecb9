package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/onlypets/onlypets/internal/catalog"
	"github.com/onlypets/onlypets/internal/dispatch"
	"github.com/onlypets/onlypets/internal/flow"
	"github.com/onlypets/onlypets/internal/prefs"
)

// Dispatcher is the part of the work dispatcher the UI drives.
type Dispatcher interface {
	Submit(req dispatch.Request) (dispatch.Handle, bool)
	Results() <-chan dispatch.Result
}

// Options configures the UI.
type Options struct {
	Context       context.Context
	Dispatcher    Dispatcher
	Logger        *zap.Logger
	FeaturedCount int
	PrefsPath     string // empty disables remembering the last username
}

const (
	fieldUsername = iota
	fieldEmail
	fieldPassword
	fieldCount
)

const defaultFeaturedCount = 4

type notice struct {
	level flow.Level
	title string
	text  string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	dispatcher    Dispatcher
	logger        *zap.Logger
	prefsPath     string
	featuredCount int
	lastUsername  string

	machine flow.Machine

	keys     keyMap
	help     help.Model
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool

	featuredPets     []catalog.Item
	featuredServices []catalog.Item
	pets             []catalog.Item
	services         []catalog.Item
	wishlist         []catalog.Item
	petsQuery        string
	servicesQuery    string
	history          catalog.History
	historyLoaded    bool
	cursor           int

	searching  bool
	search     textinput.Model
	authFields [fieldCount]textinput.Model
	authFocus  int
	date       textinput.Model

	notice *notice
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	featured := opts.FeaturedCount
	if featured <= 0 {
		featured = defaultFeaturedCount
	}

	var last string
	if opts.PrefsPath != "" {
		last = prefs.Load(opts.PrefsPath).LastUsername
	}

	m := Model{
		dispatcher:    opts.Dispatcher,
		logger:        logger.Named("ui"),
		prefsPath:     opts.PrefsPath,
		featuredCount: featured,
		lastUsername:  last,
		machine:       flow.New(),
		keys:          DefaultKeyMap(),
		help:          help.New(),
		theme:         defaultTheme(),
	}
	m.initInputs()
	return m
}

func (m *Model) initInputs() {
	m.search = textinput.New()
	m.search.Prompt = "/ "
	m.search.Placeholder = "name or breed"
	m.search.CharLimit = 64

	placeholders := [fieldCount]string{"username", "email", "password"}
	for i := range m.authFields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 64
		m.authFields[i] = in
	}
	m.authFields[fieldPassword].EchoMode = textinput.EchoPassword
	m.authFields[fieldPassword].EchoCharacter = '•'

	m.date = textinput.New()
	m.date.Prompt = ""
	m.date.Placeholder = "YYYY-MM-DD"
	m.date.CharLimit = 10
}

// Machine exposes the flow state for tests and status rendering.
func (m Model) Machine() flow.Machine { return m.machine }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return startMsg{} },
		waitForResult(m.resultsChan()),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.search.Width = clampWidth(msg.Width/3, 16, 40)
		return m, nil

	case startMsg:
		cmd := m.applyEffects(m.machine.Init())
		return m, cmd

	case resultMsg:
		cmd := m.applyResult(dispatch.Result(msg))
		return m, tea.Batch(cmd, waitForResult(m.resultsChan()))

	case inboxClosedMsg:
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m *Model) intent(in flow.Intent) tea.Cmd {
	next, effects := m.machine.Update(in)
	m.machine = next
	return m.applyEffects(effects)
}

func (m *Model) applyResult(res dispatch.Result) tea.Cmd {
	wasAuthenticated := m.machine.Session().Authenticated
	next, effects := m.machine.Apply(res)
	m.machine = next
	if session := next.Session(); !wasAuthenticated && session.Authenticated {
		m.rememberUsername(session.DisplayName)
	}
	return m.applyEffects(effects)
}

func (m *Model) rememberUsername(name string) {
	m.lastUsername = name
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.LastUsername = name }); err != nil {
		m.logger.Warn("save prefs failed", zap.Error(err))
	}
}

// handleKey routes keyboard input to the focused input or the view keys.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch m.machine.State() {
	case flow.AuthPrompt:
		return m.handleAuthKey(msg)
	case flow.BookingSchedule:
		return m.handleDateKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.cursor = clamp(m.cursor-1, len(m.visibleItems()))
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.cursor = clamp(m.cursor+1, len(m.visibleItems()))
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = clamp(len(m.visibleItems())-1, len(m.visibleItems()))
		return m, nil
	case key.Matches(msg, m.keys.Home):
		cmd := m.intent(flow.GoHome{})
		return m, cmd
	case key.Matches(msg, m.keys.Pets):
		cmd := m.intent(flow.OpenPets{})
		return m, cmd
	case key.Matches(msg, m.keys.Services):
		cmd := m.intent(flow.OpenServices{})
		return m, cmd
	case key.Matches(msg, m.keys.Wishlist):
		cmd := m.intent(flow.OpenWishlist{})
		return m, cmd
	case key.Matches(msg, m.keys.History):
		cmd := m.intent(flow.OpenHistory{})
		return m, cmd
	case key.Matches(msg, m.keys.Search):
		cmd := m.startSearch()
		return m, cmd
	case key.Matches(msg, m.keys.Select):
		cmd := m.selectCurrent()
		return m, cmd
	case key.Matches(msg, m.keys.Adopt):
		cmd := m.intent(flow.AdoptClicked{})
		return m, cmd
	case key.Matches(msg, m.keys.Book):
		cmd := m.intent(flow.BookClicked{})
		return m, cmd
	case key.Matches(msg, m.keys.Save):
		cmd := m.intent(flow.SaveToWishlist{})
		return m, cmd
	case key.Matches(msg, m.keys.Login):
		cmd := m.intent(flow.ShowAuth{})
		return m, cmd
	case key.Matches(msg, m.keys.Logout):
		cmd := m.intent(flow.Logout{})
		return m, cmd
	case key.Matches(msg, m.keys.Back):
		cmd := m.intent(flow.Back{})
		return m, cmd
	}
	return m, nil
}

// selectCurrent maps enter to the intent of the current view.
func (m *Model) selectCurrent() tea.Cmd {
	switch m.machine.State() {
	case flow.Home, flow.BrowsingPets, flow.BrowsingServices, flow.Wishlist:
		items := m.visibleItems()
		if len(items) == 0 {
			return nil
		}
		return m.intent(flow.SelectItem{Item: items[clamp(m.cursor, len(items))]})
	case flow.AdoptionForm:
		return m.intent(flow.SubmitAdoption{})
	case flow.Confirmation:
		return m.intent(flow.Dismiss{})
	}
	return nil
}

func (m *Model) startSearch() tea.Cmd {
	switch m.machine.State() {
	case flow.BrowsingPets:
		m.search.SetValue(m.petsQuery)
	case flow.BrowsingServices:
		m.search.SetValue(m.servicesQuery)
	default:
		return nil
	}
	m.searching = true
	m.search.CursorEnd()
	return m.search.Focus()
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		cmd := m.intent(flow.Search{Query: m.search.Value()})
		return m, cmd
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "esc":
		cmd := m.intent(flow.CancelAuth{})
		return m, cmd
	case key.Matches(msg, m.keys.SwitchAuth):
		view := flow.AuthSignup
		if m.machine.AuthView() == flow.AuthSignup {
			view = flow.AuthLogin
		}
		cmd := m.intent(flow.SwitchAuthView{View: view})
		return m, cmd
	case key.Matches(msg, m.keys.NextField):
		cmd := m.moveAuthFocus(1)
		return m, cmd
	case key.Matches(msg, m.keys.PrevField):
		cmd := m.moveAuthFocus(-1)
		return m, cmd
	case key.Matches(msg, m.keys.Submit):
		username := m.authFields[fieldUsername].Value()
		password := m.authFields[fieldPassword].Value()
		if m.machine.AuthView() == flow.AuthSignup {
			cmd := m.intent(flow.SubmitSignup{
				Username: username,
				Email:    m.authFields[fieldEmail].Value(),
				Password: password,
			})
			return m, cmd
		}
		cmd := m.intent(flow.SubmitLogin{Username: username, Password: password})
		return m, cmd
	}
	var cmd tea.Cmd
	m.authFields[m.authFocus], cmd = m.authFields[m.authFocus].Update(msg)
	return m, cmd
}

func (m Model) handleDateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		cmd := m.intent(flow.Back{})
		return m, cmd
	case "enter":
		cmd := m.intent(flow.SelectDate{Date: m.date.Value()})
		return m, cmd
	}
	var cmd tea.Cmd
	m.date, cmd = m.date.Update(msg)
	return m, cmd
}

// authOrder lists the fields of the current auth view in tab order.
func (m Model) authOrder() []int {
	if m.machine.AuthView() == flow.AuthSignup {
		return []int{fieldUsername, fieldEmail, fieldPassword}
	}
	return []int{fieldUsername, fieldPassword}
}

func (m *Model) moveAuthFocus(delta int) tea.Cmd {
	order := m.authOrder()
	pos := 0
	for i, f := range order {
		if f == m.authFocus {
			pos = i
		}
	}
	pos = (pos + delta + len(order)) % len(order)
	return m.focusAuth(order[pos])
}

func (m *Model) focusAuth(field int) tea.Cmd {
	for i := range m.authFields {
		m.authFields[i].Blur()
	}
	m.authFocus = field
	return m.authFields[field].Focus()
}

// visibleItems is the selectable list of the current view.
func (m Model) visibleItems() []catalog.Item {
	switch m.machine.State() {
	case flow.Home:
		return append(headOf(m.featuredPets, m.featuredCount), headOf(m.featuredServices, m.featuredCount)...)
	case flow.BrowsingPets:
		return m.pets
	case flow.BrowsingServices:
		return m.services
	case flow.Wishlist:
		return m.wishlist
	}
	return nil
}

func (m Model) resultsChan() <-chan dispatch.Result {
	if m.dispatcher == nil {
		return nil
	}
	return m.dispatcher.Results()
}

func headOf(items []catalog.Item, n int) []catalog.Item {
	if len(items) <= n {
		return items[:len(items):len(items)]
	}
	return items[:n:n]
}

func clampWidth(w, lo, hi int) int {
	if w < lo {
		return lo
	}
	if w > hi {
		return hi
	}
	return w
}

// Messages

type startMsg struct{}

type resultMsg dispatch.Result

type inboxClosedMsg struct{}

// Commands

// waitForResult blocks on the dispatcher inbox and delivers one result to
// Update, which re-arms it.
func waitForResult(results <-chan dispatch.Result) tea.Cmd {
	if results == nil {
		return nil
	}
	return func() tea.Msg {
		res, ok := <-results
		if !ok {
			return inboxClosedMsg{}
		}
		return resultMsg(res)
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
