// Package catalog holds the read-only value types shown by the storefront.
package catalog

import (
	"fmt"
	"strings"
)

// Pet is an adoptable animal as stored in the catalog.
type Pet struct {
	ID          int64
	Name        string
	Breed       string
	Age         int
	Description string
	ImagePath   string
}

// Service is a bookable pet service.
type Service struct {
	ID          int64
	Name        string
	Description string
	PriceCents  int64
}

// PriceLabel formats the price as dollars.
func (s Service) PriceLabel() string {
	return fmt.Sprintf("$%d.%02d", s.PriceCents/100, s.PriceCents%100)
}

// Kind distinguishes pets from services.
type Kind int

const (
	KindPet Kind = iota + 1
	KindService
)

func (k Kind) String() string {
	switch k {
	case KindPet:
		return "pet"
	case KindService:
		return "service"
	default:
		return "unknown"
	}
}

// Item is a snapshot of one catalog entry. Exactly one of Pet or Service is set,
// matching Kind.
type Item struct {
	Kind    Kind
	Pet     *Pet
	Service *Service
}

// PetItem wraps a pet.
func PetItem(p Pet) Item {
	return Item{Kind: KindPet, Pet: &p}
}

// ServiceItem wraps a service.
func ServiceItem(s Service) Item {
	return Item{Kind: KindService, Service: &s}
}

// ID returns the identifier of the wrapped record, or zero for an empty item.
func (i Item) ID() int64 {
	switch {
	case i.Kind == KindPet && i.Pet != nil:
		return i.Pet.ID
	case i.Kind == KindService && i.Service != nil:
		return i.Service.ID
	default:
		return 0
	}
}

// Name returns the display name of the wrapped record.
func (i Item) Name() string {
	switch {
	case i.Kind == KindPet && i.Pet != nil:
		return i.Pet.Name
	case i.Kind == KindService && i.Service != nil:
		return i.Service.Name
	default:
		return ""
	}
}

// Valid reports whether the item carries a record matching its kind.
func (i Item) Valid() bool {
	return i.ID() != 0
}

// Summary is a one-line description used by cards and confirmations.
func (i Item) Summary() string {
	switch {
	case i.Kind == KindPet && i.Pet != nil:
		parts := []string{i.Pet.Breed}
		if i.Pet.Age > 0 {
			parts = append(parts, fmt.Sprintf("%d yrs", i.Pet.Age))
		}
		return strings.Join(parts, " · ")
	case i.Kind == KindService && i.Service != nil:
		return i.Service.PriceLabel()
	default:
		return ""
	}
}

// PetItems wraps every pet in an Item.
func PetItems(pets []Pet) []Item {
	if len(pets) == 0 {
		return nil
	}
	out := make([]Item, len(pets))
	for i, p := range pets {
		out[i] = PetItem(p)
	}
	return out
}

// ServiceItems wraps every service in an Item.
func ServiceItems(services []Service) []Item {
	if len(services) == 0 {
		return nil
	}
	out := make([]Item, len(services))
	for i, s := range services {
		out[i] = ServiceItem(s)
	}
	return out
}

// Account is the public view of a registered user.
type Account struct {
	ID       int64
	Username string
	Email    string
}

// Adoption is one entry of a user's adoption history.
type Adoption struct {
	Pet       Pet
	AdoptedOn string
}

// Booking is one entry of a user's booking history.
type Booking struct {
	Service Service
	Date    string
}

// History groups a user's past transactions.
type History struct {
	Adoptions []Adoption
	Bookings  []Booking
}

// Empty reports whether there is nothing to show.
func (h History) Empty() bool {
	return len(h.Adoptions) == 0 && len(h.Bookings) == 0
}
