package flow

import (
	"github.com/onlypets/onlypets/internal/catalog"
	"github.com/onlypets/onlypets/internal/dispatch"
)

// Effect is an instruction for the presentation adapter.
type Effect interface {
	isEffect()
}

// Region is a list area the presentation fills.
type Region int

const (
	RegionPets Region = iota + 1
	RegionServices
	RegionWishlist
)

// Level grades a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

type (
	// Navigate switches the visible view. Arriving at AuthPrompt always
	// shows a fresh login form.
	Navigate struct{ To State }
	// SwitchAuth changes the auth sub-view.
	SwitchAuth struct{ View AuthView }
	// Populate replaces the contents of a list region.
	Populate struct {
		Region Region
		Query  string
		Items  []catalog.Item
	}
	// ShowHistory fills the history view.
	ShowHistory struct{ History catalog.History }
	// Notify shows a message.
	Notify struct {
		Level Level
		Title string
		Text  string
	}
	// Submit hands a request to the dispatcher.
	Submit struct{ Request dispatch.Request }
)

func (Navigate) isEffect()    {}
func (SwitchAuth) isEffect()  {}
func (Populate) isEffect()    {}
func (ShowHistory) isEffect() {}
func (Notify) isEffect()      {}
func (Submit) isEffect()      {}

// DataAccessErrorText is shown for every failed data access operation.
const DataAccessErrorText = "An error occurred while accessing the database."

func info(title, text string) Notify {
	return Notify{Level: LevelInfo, Title: title, Text: text}
}

func warn(title, text string) Notify {
	return Notify{Level: LevelWarning, Title: title, Text: text}
}

func fail(title, text string) Notify {
	return Notify{Level: LevelError, Title: title, Text: text}
}

func submit(req dispatch.Request) Submit {
	return Submit{Request: req}
}
