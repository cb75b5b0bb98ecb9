package flow

import "github.com/onlypets/onlypets/internal/catalog"

// Intent is something the user asked for.
type Intent interface {
	isIntent()
}

type (
	// OpenPets shows the full pet list.
	OpenPets struct{}
	// OpenServices shows the full service list.
	OpenServices struct{}
	// GoHome returns to the landing page.
	GoHome struct{}
	// Back leaves the current view.
	Back struct{}
	// Search filters the list being browsed.
	Search struct{ Query string }
	// SelectItem opens the details of a card.
	SelectItem struct{ Item catalog.Item }
	// AdoptClicked is the Adopt button on a pet.
	AdoptClicked struct{}
	// BookClicked is the Book button on a service.
	BookClicked struct{}
	// ShowAuth is the header Login button.
	ShowAuth struct{}
	// SwitchAuthView toggles between login and signup.
	SwitchAuthView struct{ View AuthView }
	// SubmitLogin sends credentials.
	SubmitLogin struct{ Username, Password string }
	// SubmitSignup registers a new account.
	SubmitSignup struct{ Username, Email, Password string }
	// CancelAuth closes the auth prompt and drops any pending action.
	CancelAuth struct{}
	// SubmitAdoption confirms the adoption form.
	SubmitAdoption struct{}
	// SelectDate books the service for Date (YYYY-MM-DD).
	SelectDate struct{ Date string }
	// Dismiss closes the confirmation.
	Dismiss struct{}
	// Logout ends the session.
	Logout struct{}
	// SaveToWishlist saves the pet being viewed.
	SaveToWishlist struct{}
	// OpenWishlist shows saved pets.
	OpenWishlist struct{}
	// OpenHistory shows past adoptions and bookings.
	OpenHistory struct{}
)

func (OpenPets) isIntent()       {}
func (OpenServices) isIntent()   {}
func (GoHome) isIntent()         {}
func (Back) isIntent()           {}
func (Search) isIntent()         {}
func (SelectItem) isIntent()     {}
func (AdoptClicked) isIntent()   {}
func (BookClicked) isIntent()    {}
func (ShowAuth) isIntent()       {}
func (SwitchAuthView) isIntent() {}
func (SubmitLogin) isIntent()    {}
func (SubmitSignup) isIntent()   {}
func (CancelAuth) isIntent()     {}
func (SubmitAdoption) isIntent() {}
func (SelectDate) isIntent()     {}
func (Dismiss) isIntent()        {}
func (Logout) isIntent()         {}
func (SaveToWishlist) isIntent() {}
func (OpenWishlist) isIntent()   {}
func (OpenHistory) isIntent()    {}
