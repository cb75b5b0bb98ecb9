package flow

import "github.com/onlypets/onlypets/internal/catalog"

// State is the current navigation state.
type State int

const (
	Home State = iota
	BrowsingPets
	BrowsingServices
	ItemDetails
	AuthPrompt
	AdoptionForm
	BookingSchedule
	Confirmation
	Wishlist
	History
)

var stateNames = [...]string{
	Home:             "Home",
	BrowsingPets:     "BrowsingPets",
	BrowsingServices: "BrowsingServices",
	ItemDetails:      "ItemDetails",
	AuthPrompt:       "AuthPrompt",
	AdoptionForm:     "AdoptionForm",
	BookingSchedule:  "BookingSchedule",
	Confirmation:     "Confirmation",
	Wishlist:         "Wishlist",
	History:          "History",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// browsable states accept navigation intents.
func (s State) browsable() bool {
	switch s {
	case Home, BrowsingPets, BrowsingServices, ItemDetails, Wishlist, History:
		return true
	}
	return false
}

// AuthView is the sub-view shown inside AuthPrompt.
type AuthView int

const (
	AuthLogin AuthView = iota
	AuthSignup
)

func (v AuthView) String() string {
	if v == AuthSignup {
		return "signup"
	}
	return "login"
}

// Kind is the guided journey in progress.
type Kind int

const (
	NoFlow Kind = iota
	Adoption
	Booking
)

func (k Kind) String() string {
	switch k {
	case Adoption:
		return "adoption"
	case Booking:
		return "booking"
	default:
		return "none"
	}
}

// kindFor maps a catalog item to the journey it starts.
func kindFor(item catalog.Item) Kind {
	switch item.Kind {
	case catalog.KindPet:
		return Adoption
	case catalog.KindService:
		return Booking
	}
	return NoFlow
}

// ActionKind is the click that can be deferred until login.
type ActionKind int

const (
	Adopt ActionKind = iota + 1
	Book
)

func (a ActionKind) String() string {
	switch a {
	case Adopt:
		return "adopt"
	case Book:
		return "book"
	}
	return "none"
}

// PendingAction is an Adopt or Book click made while logged out.
type PendingAction struct {
	Kind ActionKind
	Item catalog.Item
}

// FlowContext is the journey in progress. Kind is never NoFlow while Item is set.
// Pending is only ever set while the session is anonymous.
type FlowContext struct {
	Kind    Kind
	Item    catalog.Item
	Pending *PendingAction
	Date    string // booking date once recorded
}

// HasItem reports whether an item is under consideration.
func (f FlowContext) HasItem() bool {
	return f.Item.Valid()
}

// Session is the single login state of the running application.
type Session struct {
	Authenticated bool
	UserID        int64
	DisplayName   string
}

// GuestName is shown while nobody is logged in.
const GuestName = "Guest"

// GuestSession returns the anonymous session.
func GuestSession() Session {
	return Session{DisplayName: GuestName}
}
