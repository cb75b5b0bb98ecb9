package dispatch

import "github.com/onlypets/onlypets/internal/catalog"

// Op names a kind of data access operation. The busy-drop policy allows one
// in-flight request per Op.
type Op int

const (
	OpListPets Op = iota + 1
	OpListServices
	OpVerifyUser
	OpCreateUser
	OpRecordAdoption
	OpRecordBooking
	OpAddToWishlist
	OpSaveGuestWishlist
	OpLoadWishlist
	OpMergeGuestWishlist
	OpLoadHistory
)

var opNames = map[Op]string{
	OpListPets:           "list pets",
	OpListServices:       "list services",
	OpVerifyUser:         "verify user",
	OpCreateUser:         "create user",
	OpRecordAdoption:     "record adoption",
	OpRecordBooking:      "record booking",
	OpAddToWishlist:      "add to wishlist",
	OpSaveGuestWishlist:  "save guest wishlist",
	OpLoadWishlist:       "load wishlist",
	OpMergeGuestWishlist: "merge guest wishlist",
	OpLoadHistory:        "load history",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown op"
}

// Request is a unit of work for the dispatcher.
type Request interface {
	Op() Op
}

// ListPets fetches pets matching Query, when it is not blank, and Filter.
type ListPets struct {
	Query  string
	Filter catalog.PetFilter
}

// ListServices fetches services, filtered by Query when it is not blank.
type ListServices struct{ Query string }

// Login verifies credentials and loads the account on success.
type Login struct {
	Username string
	Password string
}

// Signup creates an account.
type Signup struct {
	Username string
	Email    string
	Password string
}

// RecordAdoption stores an adoption application.
type RecordAdoption struct {
	UserID int64
	PetID  int64
}

// RecordBooking stores a booking for Date (YYYY-MM-DD).
type RecordBooking struct {
	UserID    int64
	ServiceID int64
	Date      string
}

// AddToWishlist saves a pet on the account wishlist.
type AddToWishlist struct {
	UserID int64
	PetID  int64
}

// SaveGuestWishlist saves a pet on the local guest wishlist.
type SaveGuestWishlist struct{ PetID int64 }

// LoadWishlist resolves a wishlist to pets. A zero UserID loads the guest wishlist.
type LoadWishlist struct{ UserID int64 }

// MergeGuestWishlist moves the guest wishlist into the account wishlist.
type MergeGuestWishlist struct{ UserID int64 }

// LoadHistory fetches adoptions and bookings for the account.
type LoadHistory struct{ UserID int64 }

func (ListPets) Op() Op           { return OpListPets }
func (ListServices) Op() Op       { return OpListServices }
func (Login) Op() Op              { return OpVerifyUser }
func (Signup) Op() Op             { return OpCreateUser }
func (RecordAdoption) Op() Op     { return OpRecordAdoption }
func (RecordBooking) Op() Op      { return OpRecordBooking }
func (AddToWishlist) Op() Op      { return OpAddToWishlist }
func (SaveGuestWishlist) Op() Op  { return OpSaveGuestWishlist }
func (LoadWishlist) Op() Op       { return OpLoadWishlist }
func (MergeGuestWishlist) Op() Op { return OpMergeGuestWishlist }
func (LoadHistory) Op() Op        { return OpLoadHistory }

// LoginResult is the value of a completed Login. Account is only meaningful when OK.
type LoginResult struct {
	OK      bool
	Account catalog.Account
}

// SignupResult is the value of a completed Signup. Created is false for a taken
// username or email.
type SignupResult struct {
	Created bool
}

// MergeResult is the value of a completed MergeGuestWishlist.
type MergeResult struct {
	Merged int
}
