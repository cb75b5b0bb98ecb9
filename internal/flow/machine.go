package flow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/onlypets/onlypets/internal/auth"
	"github.com/onlypets/onlypets/internal/catalog"
	"github.com/onlypets/onlypets/internal/dispatch"
)

// Machine is the storefront's navigation and journey state. It is a value:
// Update and Apply return the next machine together with the effects the
// presentation adapter should carry out.
type Machine struct {
	state    State
	authView AuthView
	session  Session
	flow     FlowContext

	// authReturn is where CancelAuth goes when no item is selected.
	authReturn State
	// detailsReturn is where Back from ItemDetails goes.
	detailsReturn State
}

// New returns a machine on Home with an anonymous session.
func New() Machine {
	return Machine{
		state:         Home,
		session:       GuestSession(),
		authReturn:    Home,
		detailsReturn: Home,
	}
}

// State returns the current navigation state.
func (m Machine) State() State { return m.state }

// AuthView returns the auth sub-view shown while in AuthPrompt.
func (m Machine) AuthView() AuthView { return m.authView }

// Session returns the login state.
func (m Machine) Session() Session { return m.session }

// Flow returns the journey in progress.
func (m Machine) Flow() FlowContext { return m.flow }

// Pending returns the deferred action, if any.
func (m Machine) Pending() (PendingAction, bool) {
	if m.flow.Pending == nil {
		return PendingAction{}, false
	}
	return *m.flow.Pending, true
}

// Init returns the effects that load the featured rows of Home.
func (m Machine) Init() []Effect {
	return []Effect{
		Navigate{To: Home},
		submit(dispatch.ListPets{}),
		submit(dispatch.ListServices{}),
	}
}

// Update applies a user intent.
func (m Machine) Update(in Intent) (Machine, []Effect) {
	switch in := in.(type) {
	case OpenPets:
		if !m.state.browsable() {
			return m, nil
		}
		return m.leaveItem().goTo(BrowsingPets, submit(dispatch.ListPets{}))
	case OpenServices:
		if !m.state.browsable() {
			return m, nil
		}
		return m.leaveItem().goTo(BrowsingServices, submit(dispatch.ListServices{}))
	case GoHome:
		if !m.state.browsable() {
			return m, nil
		}
		return m.leaveItem().goTo(Home)
	case Search:
		switch m.state {
		case BrowsingPets:
			query, filter, err := catalog.ParsePetSearch(in.Query)
			if err != nil {
				return m, []Effect{warn("Search", fmt.Sprintf("Could not search: %v.", err))}
			}
			return m, []Effect{submit(dispatch.ListPets{Query: query, Filter: filter})}
		case BrowsingServices:
			return m, []Effect{submit(dispatch.ListServices{Query: in.Query})}
		}
		return m, nil
	case SelectItem:
		return m.selectItem(in.Item)
	case AdoptClicked:
		return m.startAction(Adopt)
	case BookClicked:
		return m.startAction(Book)
	case ShowAuth:
		if m.session.Authenticated || m.state == AuthPrompt {
			return m, nil
		}
		return m.promptAuth()
	case SwitchAuthView:
		if m.state != AuthPrompt || m.authView == in.View {
			return m, nil
		}
		m.authView = in.View
		return m, []Effect{SwitchAuth{View: in.View}}
	case SubmitLogin:
		return m.submitLogin(in)
	case SubmitSignup:
		return m.submitSignup(in)
	case CancelAuth:
		if m.state != AuthPrompt {
			return m, nil
		}
		return m.cancelAuth()
	case SubmitAdoption:
		if m.state != AdoptionForm || !m.session.Authenticated || m.flow.Item.Kind != catalog.KindPet {
			return m, nil
		}
		return m, []Effect{submit(dispatch.RecordAdoption{
			UserID: m.session.UserID,
			PetID:  m.flow.Item.ID(),
		})}
	case SelectDate:
		return m.selectDate(in.Date)
	case Dismiss:
		if m.state != Confirmation {
			return m, nil
		}
		m.flow = FlowContext{}
		return m.goTo(Home)
	case Logout:
		return m.logout()
	case SaveToWishlist:
		if m.state != ItemDetails || m.flow.Item.Kind != catalog.KindPet {
			return m, nil
		}
		petID := m.flow.Item.ID()
		if m.session.Authenticated {
			return m, []Effect{submit(dispatch.AddToWishlist{UserID: m.session.UserID, PetID: petID})}
		}
		return m, []Effect{submit(dispatch.SaveGuestWishlist{PetID: petID})}
	case OpenWishlist:
		if !m.state.browsable() {
			return m, nil
		}
		return m.leaveItem().goTo(Wishlist, submit(dispatch.LoadWishlist{UserID: m.session.UserID}))
	case OpenHistory:
		if !m.state.browsable() {
			return m, nil
		}
		if !m.session.Authenticated {
			next, effects := m.promptAuth()
			return next, append(effects, info("History", "Please log in to view your history."))
		}
		return m.leaveItem().goTo(History, submit(dispatch.LoadHistory{UserID: m.session.UserID}))
	case Back:
		return m.back()
	}
	return m, nil
}

// Apply folds a dispatcher result into the machine.
func (m Machine) Apply(res dispatch.Result) (Machine, []Effect) {
	if res.Failed() {
		return m.applyFailure(res)
	}
	switch res.Op {
	case dispatch.OpListPets:
		pets, _ := res.Value.([]catalog.Pet)
		req, _ := res.Request.(dispatch.ListPets)
		label := req.Query
		if !req.Filter.Empty() {
			label = strings.TrimSpace(label + " " + req.Filter.String())
		}
		return m, []Effect{Populate{Region: RegionPets, Query: label, Items: catalog.PetItems(pets)}}
	case dispatch.OpListServices:
		services, _ := res.Value.([]catalog.Service)
		req, _ := res.Request.(dispatch.ListServices)
		return m, []Effect{Populate{Region: RegionServices, Query: req.Query, Items: catalog.ServiceItems(services)}}
	case dispatch.OpVerifyUser:
		login, _ := res.Value.(dispatch.LoginResult)
		return m.applyLogin(login)
	case dispatch.OpCreateUser:
		signup, _ := res.Value.(dispatch.SignupResult)
		if !signup.Created {
			return m, []Effect{fail("Sign up", "Username or email already exists.")}
		}
		effects := []Effect{info("Sign up", "Account created successfully! Please log in.")}
		if m.state == AuthPrompt && m.authView != AuthLogin {
			m.authView = AuthLogin
			effects = append([]Effect{SwitchAuth{View: AuthLogin}}, effects...)
		}
		return m, effects
	case dispatch.OpRecordAdoption:
		req, _ := res.Request.(dispatch.RecordAdoption)
		return m.applyRecorded(AdoptionForm, req.PetID, "")
	case dispatch.OpRecordBooking:
		req, _ := res.Request.(dispatch.RecordBooking)
		return m.applyRecorded(BookingSchedule, req.ServiceID, req.Date)
	case dispatch.OpAddToWishlist, dispatch.OpSaveGuestWishlist:
		return m, []Effect{info("Wishlist", "Saved to your wishlist.")}
	case dispatch.OpLoadWishlist:
		req, _ := res.Request.(dispatch.LoadWishlist)
		if req.UserID != m.session.UserID {
			return m, nil
		}
		pets, _ := res.Value.([]catalog.Pet)
		return m, []Effect{Populate{Region: RegionWishlist, Items: catalog.PetItems(pets)}}
	case dispatch.OpMergeGuestWishlist:
		merged, _ := res.Value.(dispatch.MergeResult)
		if merged.Merged == 0 {
			return m, nil
		}
		return m, []Effect{info("Wishlist", fmt.Sprintf("Moved %d saved %s to your account.", merged.Merged, plural(merged.Merged, "pet", "pets")))}
	case dispatch.OpLoadHistory:
		req, _ := res.Request.(dispatch.LoadHistory)
		if !m.session.Authenticated || req.UserID != m.session.UserID {
			return m, nil
		}
		history, _ := res.Value.(catalog.History)
		return m, []Effect{ShowHistory{History: history}}
	}
	return m, nil
}

func (m Machine) applyFailure(res dispatch.Result) (Machine, []Effect) {
	if res.Op == dispatch.OpMergeGuestWishlist {
		return m, []Effect{warn("Wishlist", "Your saved pets could not be moved to your account. They will be tried again next login.")}
	}
	return m, []Effect{fail("Data access error", DataAccessErrorText)}
}

func (m Machine) applyLogin(login dispatch.LoginResult) (Machine, []Effect) {
	if !login.OK {
		return m, []Effect{fail("Login", "Invalid username or password.")}
	}
	wasPrompting := m.state == AuthPrompt
	m.session = Session{
		Authenticated: true,
		UserID:        login.Account.ID,
		DisplayName:   login.Account.Username,
	}
	welcome := info("Login", fmt.Sprintf("Welcome back, %s!", login.Account.Username))

	var next Machine
	var nav []Effect
	switch pending := m.flow.Pending; {
	case pending != nil:
		item := pending.Item
		target := AdoptionForm
		if pending.Kind == Book {
			target = BookingSchedule
		}
		m.flow = FlowContext{Kind: kindFor(item), Item: item}
		m.detailsReturn = browseStateFor(item)
		next, nav = m.goTo(target)
	case wasPrompting:
		m.flow = FlowContext{}
		next, nav = m.goTo(Home)
	default:
		next = m
	}
	effects := append(nav, welcome, submit(dispatch.MergeGuestWishlist{UserID: next.session.UserID}))
	return next, effects
}

func (m Machine) applyRecorded(form State, itemID int64, date string) (Machine, []Effect) {
	if m.state != form || m.flow.Item.ID() != itemID {
		return m, []Effect{info("Saved", "Your request has been recorded.")}
	}
	name := m.flow.Item.Name()
	var text string
	if form == AdoptionForm {
		text = fmt.Sprintf("Your adoption application for %s has been submitted!", name)
	} else {
		m.flow.Date = date
		text = fmt.Sprintf("%s is booked for %s.", name, date)
	}
	next, nav := m.goTo(Confirmation)
	return next, append(nav, info("Confirmed", text))
}

func (m Machine) selectItem(item catalog.Item) (Machine, []Effect) {
	if !item.Valid() {
		return m, nil
	}
	switch m.state {
	case Home, BrowsingPets, BrowsingServices, Wishlist:
		m.detailsReturn = m.state
	case ItemDetails:
	default:
		m.detailsReturn = browseStateFor(item)
	}
	m.flow.Kind = kindFor(item)
	m.flow.Item = item
	m.flow.Date = ""
	return m.goTo(ItemDetails)
}

func (m Machine) startAction(kind ActionKind) (Machine, []Effect) {
	want := catalog.KindPet
	if kind == Book {
		want = catalog.KindService
	}
	if m.state != ItemDetails || m.flow.Item.Kind != want {
		return m, nil
	}
	if !m.session.Authenticated {
		if m.flow.Pending == nil {
			m.flow.Pending = &PendingAction{Kind: kind, Item: m.flow.Item}
		}
		verb := "adopt a pet"
		if kind == Book {
			verb = "book a service"
		}
		next, effects := m.promptAuth()
		return next, append(effects, info("Login required", fmt.Sprintf("Please log in or create an account to %s.", verb)))
	}
	if kind == Book {
		return m.goTo(BookingSchedule)
	}
	return m.goTo(AdoptionForm)
}

func (m Machine) promptAuth() (Machine, []Effect) {
	m.authReturn = m.state
	m.authView = AuthLogin
	return m.goTo(AuthPrompt)
}

func (m Machine) submitLogin(in SubmitLogin) (Machine, []Effect) {
	if m.state != AuthPrompt || m.authView != AuthLogin {
		return m, nil
	}
	form, err := auth.ValidateLogin(auth.LoginForm{Username: in.Username, Password: in.Password})
	if err != nil {
		return m, []Effect{warn("Login", validationText(err))}
	}
	return m, []Effect{submit(dispatch.Login{Username: form.Username, Password: form.Password})}
}

func (m Machine) submitSignup(in SubmitSignup) (Machine, []Effect) {
	if m.state != AuthPrompt || m.authView != AuthSignup {
		return m, nil
	}
	form, err := auth.ValidateSignup(auth.SignupForm{Username: in.Username, Email: in.Email, Password: in.Password})
	if err != nil {
		return m, []Effect{warn("Sign up", validationText(err))}
	}
	return m, []Effect{submit(dispatch.Signup{Username: form.Username, Email: form.Email, Password: form.Password})}
}

func (m Machine) cancelAuth() (Machine, []Effect) {
	m.flow.Pending = nil
	if m.flow.HasItem() {
		return m.goTo(ItemDetails)
	}
	target := m.authReturn
	if target == AuthPrompt || !target.browsable() {
		target = Home
	}
	return m.goTo(target)
}

func (m Machine) selectDate(date string) (Machine, []Effect) {
	if m.state != BookingSchedule || !m.session.Authenticated || m.flow.Item.Kind != catalog.KindService {
		return m, nil
	}
	form, err := auth.ValidateBooking(auth.BookingForm{Date: date})
	if err != nil {
		return m, []Effect{warn("Booking", validationText(err))}
	}
	return m, []Effect{submit(dispatch.RecordBooking{
		UserID:    m.session.UserID,
		ServiceID: m.flow.Item.ID(),
		Date:      form.Date,
	})}
}

func (m Machine) logout() (Machine, []Effect) {
	var effects []Effect
	if m.session.Authenticated {
		m.session = GuestSession()
		effects = append(effects, info("Logout", "You have been successfully logged out."))
	}
	m.flow = FlowContext{}
	m.detailsReturn = Home
	next, nav := m.goTo(Home)
	return next, append(nav, effects...)
}

func (m Machine) back() (Machine, []Effect) {
	switch m.state {
	case BrowsingPets, BrowsingServices, Wishlist, History:
		return m.goTo(Home)
	case ItemDetails:
		target := m.detailsReturn
		return m.leaveItem().goTo(target)
	case AdoptionForm, BookingSchedule:
		return m.goTo(ItemDetails)
	case AuthPrompt:
		return m.cancelAuth()
	case Confirmation:
		return m.Update(Dismiss{})
	}
	return m, nil
}

// leaveItem drops the item under consideration. The pending action survives
// until login or cancellation.
func (m Machine) leaveItem() Machine {
	m.flow.Kind = NoFlow
	m.flow.Item = catalog.Item{}
	m.flow.Date = ""
	m.detailsReturn = Home
	return m
}

func (m Machine) goTo(s State, extra ...Effect) (Machine, []Effect) {
	m.state = s
	return m, append([]Effect{Navigate{To: s}}, extra...)
}

func browseStateFor(item catalog.Item) State {
	if item.Kind == catalog.KindService {
		return BrowsingServices
	}
	return BrowsingPets
}

func validationText(err error) string {
	var verr *auth.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
