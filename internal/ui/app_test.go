package ui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/onlypets/onlypets/internal/catalog"
	"github.com/onlypets/onlypets/internal/dispatch"
	"github.com/onlypets/onlypets/internal/flow"
	"github.com/onlypets/onlypets/internal/prefs"
)

type fakeDispatcher struct {
	submitted []dispatch.Request
	busy      map[dispatch.Op]bool
	results   chan dispatch.Result
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{busy: map[dispatch.Op]bool{}, results: make(chan dispatch.Result, 8)}
}

func (f *fakeDispatcher) Submit(req dispatch.Request) (dispatch.Handle, bool) {
	if f.busy[req.Op()] {
		return dispatch.Handle{}, false
	}
	f.submitted = append(f.submitted, req)
	return dispatch.Handle{Op: req.Op(), Correlation: uuid.New()}, true
}

func (f *fakeDispatcher) Results() <-chan dispatch.Result { return f.results }

func (f *fakeDispatcher) last() dispatch.Request {
	if len(f.submitted) == 0 {
		return nil
	}
	return f.submitted[len(f.submitted)-1]
}

var (
	samplePets = []catalog.Pet{
		{ID: 1, Name: "Buddy", Breed: "Golden Retriever", Age: 3},
		{ID: 2, Name: "Whiskers", Breed: "Siamese Cat", Age: 2},
	}
	sampleServices = []catalog.Service{
		{ID: 1, Name: "Grooming", PriceCents: 5000},
	}
)

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func result(req dispatch.Request, value any) resultMsg {
	return resultMsg(dispatch.Result{Op: req.Op(), Correlation: uuid.New(), Request: req, Value: value})
}

func started(t *testing.T, fd *fakeDispatcher, opts Options) Model {
	t.Helper()
	opts.Dispatcher = fd
	if opts.Logger == nil {
		opts.Logger = zaptest.NewLogger(t)
	}
	m := New(opts)
	return send(t, m,
		tea.WindowSizeMsg{Width: 100, Height: 30},
		startMsg{},
		result(dispatch.ListPets{}, samplePets),
		result(dispatch.ListServices{}, sampleServices),
	)
}

func logIn(t *testing.T, fd *fakeDispatcher, m Model) Model {
	t.Helper()
	m = send(t, m, runes("l"))
	require.Equal(t, flow.AuthPrompt, m.Machine().State())
	m = send(t, m, runes("alice"), tab, runes("password1"), enter)
	require.Equal(t, dispatch.Login{Username: "alice", Password: "password1"}, fd.last())
	account := catalog.Account{ID: 7, Username: "alice"}
	return send(t, m, result(fd.last(), dispatch.LoginResult{OK: true, Account: account}))
}

func TestStartLoadsFeaturedRows(t *testing.T) {
	fd := newFakeDispatcher()
	m := started(t, fd, Options{})

	assert.Equal(t, []dispatch.Request{dispatch.ListPets{}, dispatch.ListServices{}}, fd.submitted)
	view := m.View()
	assert.Contains(t, view, "Featured pets")
	assert.Contains(t, view, "Buddy")
	assert.Contains(t, view, "Grooming")
	assert.Contains(t, view, flow.GuestName)
}

func TestSelectFromHome(t *testing.T) {
	fd := newFakeDispatcher()
	m := started(t, fd, Options{})

	m = send(t, m, runes("j"), enter)
	require.Equal(t, flow.ItemDetails, m.Machine().State())
	assert.Equal(t, "Whiskers", m.Machine().Flow().Item.Name())
	assert.Contains(t, m.View(), "Siamese Cat")

	m = send(t, m, esc)
	assert.Equal(t, flow.Home, m.Machine().State())
}

func TestGuestAdoptionResumesAfterLogin(t *testing.T) {
	fd := newFakeDispatcher()
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	m := started(t, fd, Options{PrefsPath: prefsPath})

	m = send(t, m, enter, runes("a"))
	require.Equal(t, flow.AuthPrompt, m.Machine().State())
	assert.Contains(t, m.View(), "continue to adopt Buddy")

	m = send(t, m, runes("alice"), tab, runes("password1"), enter)
	require.Equal(t, dispatch.Login{Username: "alice", Password: "password1"}, fd.last())

	account := catalog.Account{ID: 7, Username: "alice"}
	m = send(t, m, result(fd.last(), dispatch.LoginResult{OK: true, Account: account}))
	assert.Equal(t, flow.AdoptionForm, m.Machine().State())
	assert.Equal(t, dispatch.MergeGuestWishlist{UserID: 7}, fd.last())
	assert.Equal(t, "alice", prefs.Load(prefsPath).LastUsername)

	m = send(t, m, enter)
	assert.Equal(t, dispatch.RecordAdoption{UserID: 7, PetID: 1}, fd.last())
	m = send(t, m, result(fd.last(), nil))
	assert.Equal(t, flow.Confirmation, m.Machine().State())
	assert.Contains(t, m.View(), "Application submitted")
}

func TestLastUsernameIsPrefilled(t *testing.T) {
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	require.NoError(t, prefs.Save(prefsPath, prefs.Prefs{LastUsername: "alice"}))

	fd := newFakeDispatcher()
	m := started(t, fd, Options{PrefsPath: prefsPath})
	m = send(t, m, runes("l"), runes("password1"), enter)
	assert.Equal(t, dispatch.Login{Username: "alice", Password: "password1"}, fd.last())
}

func TestRememberedUsernameSurvivesAdoptPrompt(t *testing.T) {
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	require.NoError(t, prefs.Save(prefsPath, prefs.Prefs{LastUsername: "alice"}))

	fd := newFakeDispatcher()
	m := started(t, fd, Options{PrefsPath: prefsPath})
	m = send(t, m, enter, runes("a"))
	require.Equal(t, flow.AuthPrompt, m.Machine().State())

	m = send(t, m, runes("password1"), enter)
	assert.Equal(t, dispatch.Login{Username: "alice", Password: "password1"}, fd.last())
	assert.Equal(t, flow.AuthPrompt, m.Machine().State())
}

func TestInvalidLoginShowsNotice(t *testing.T) {
	fd := newFakeDispatcher()
	m := started(t, fd, Options{})
	m = send(t, m, runes("l"), enter)
	assert.Contains(t, m.View(), "Please enter both username and password.")
	assert.IsType(t, dispatch.ListServices{}, fd.last(), "validation failures never reach the dispatcher")

	m = send(t, m, result(dispatch.Login{Username: "alice"}, dispatch.LoginResult{}))
	assert.Contains(t, m.View(), "Invalid username or password.")
	assert.Equal(t, flow.AuthPrompt, m.Machine().State())

	m = send(t, m, esc)
	assert.Equal(t, flow.Home, m.Machine().State())
}

func TestSignupSwitchesBackToLogin(t *testing.T) {
	fd := newFakeDispatcher()
	m := started(t, fd, Options{})
	m = send(t, m, runes("l"), tea.KeyMsg{Type: tea.KeyCtrlT})
	require.Equal(t, flow.AuthSignup, m.Machine().AuthView())

	m = send(t, m, runes("bob"), tab, runes("bob@example.com"), tab, runes("password1"), enter)
	require.Equal(t, dispatch.Signup{Username: "bob", Email: "bob@example.com", Password: "password1"}, fd.last())

	m = send(t, m, result(fd.last(), dispatch.SignupResult{Created: true}))
	assert.Equal(t, flow.AuthLogin, m.Machine().AuthView())
	assert.Contains(t, m.View(), "Account created successfully!")
}

func TestSearchSubmitsQuery(t *testing.T) {
	fd := newFakeDispatcher()
	m := started(t, fd, Options{})

	m = send(t, m, runes("p"))
	require.Equal(t, flow.BrowsingPets, m.Machine().State())
	m = send(t, m, runes("/"), runes("cat"), enter)
	assert.Equal(t, dispatch.ListPets{Query: "cat"}, fd.last())

	m = send(t, m, result(dispatch.ListPets{Query: "cat"}, []catalog.Pet{samplePets[1]}))
	view := m.View()
	assert.Contains(t, view, "Whiskers")
	assert.NotContains(t, view, "Buddy")
}

func TestPetSearchWithFilters(t *testing.T) {
	fd := newFakeDispatcher()
	m := started(t, fd, Options{})

	m = send(t, m, runes("p"), runes("/"))
	assert.Contains(t, m.View(), "breed:<breed>")
	m = send(t, m, runes("breed:beagle"), enter)
	req, ok := fd.last().(dispatch.ListPets)
	require.True(t, ok)
	assert.Equal(t, "beagle", req.Filter.Breed)
	assert.Empty(t, req.Query)

	m = send(t, m, result(req, []catalog.Pet{}))
	assert.Contains(t, m.View(), "breed:beagle")
}

func TestBusySubmissionIsIgnored(t *testing.T) {
	fd := newFakeDispatcher()
	m := started(t, fd, Options{})
	fd.busy[dispatch.OpListPets] = true

	m = send(t, m, runes("p"))
	assert.Equal(t, flow.BrowsingPets, m.Machine().State())
	assert.Equal(t, dispatch.ListServices{}, fd.last())
}

func TestBookingThroughKeys(t *testing.T) {
	fd := newFakeDispatcher()
	m := logIn(t, fd, started(t, fd, Options{}))
	require.True(t, m.Machine().Session().Authenticated)
	assert.Contains(t, m.View(), "alice")

	m = send(t, m, runes("s"))
	m = send(t, m, result(dispatch.ListServices{}, sampleServices), enter, runes("b"))
	require.Equal(t, flow.BookingSchedule, m.Machine().State())

	m = send(t, m, runes("2025-06-01"), enter)
	assert.Equal(t, dispatch.RecordBooking{UserID: 7, ServiceID: 1, Date: "2025-06-01"}, fd.last())

	m = send(t, m, result(fd.last(), nil))
	assert.Equal(t, flow.Confirmation, m.Machine().State())
	assert.Contains(t, m.View(), "2025-06-01")

	m = send(t, m, enter)
	assert.Equal(t, flow.Home, m.Machine().State())
}

func TestHistoryView(t *testing.T) {
	fd := newFakeDispatcher()
	m := logIn(t, fd, started(t, fd, Options{}))

	m = send(t, m, runes("y"))
	require.Equal(t, dispatch.LoadHistory{UserID: 7}, fd.last())
	assert.Contains(t, m.View(), "Loading...")

	history := catalog.History{
		Adoptions: []catalog.Adoption{{Pet: samplePets[0], AdoptedOn: "2025-05-20"}},
		Bookings:  []catalog.Booking{{Service: sampleServices[0], Date: "2025-06-01"}},
	}
	m = send(t, m, result(fd.last(), history))
	view := m.View()
	assert.Contains(t, view, "2025-05-20")
	assert.Contains(t, view, "$50.00")
}

func TestHelpOverlay(t *testing.T) {
	fd := newFakeDispatcher()
	m := started(t, fd, Options{})
	m = send(t, m, runes("?"))
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
	m = send(t, m, runes("x"))
	assert.False(t, strings.Contains(m.View(), "Keyboard Shortcuts"))
}

func TestWaitForResult(t *testing.T) {
	ch := make(chan dispatch.Result, 1)
	ch <- dispatch.Result{Op: dispatch.OpListPets}
	cmd := waitForResult(ch)
	require.NotNil(t, cmd)
	msg, ok := cmd().(resultMsg)
	require.True(t, ok)
	assert.Equal(t, dispatch.OpListPets, msg.Op)

	close(ch)
	assert.IsType(t, inboxClosedMsg{}, cmd())
	assert.Nil(t, waitForResult(nil))
}

func TestViewHelpers(t *testing.T) {
	assert.Equal(t, "Golden R...", truncate("Golden Retriever", 11))
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, 0, clamp(-1, 3))
	assert.Equal(t, 2, clamp(5, 3))
	assert.Equal(t, []string{"a friendly", "dog"}, wrap("a friendly dog", 10))
}
