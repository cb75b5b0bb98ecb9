package store

import (
	"time"

	"github.com/onlypets/onlypets/internal/catalog"
)

// PetModel is the GORM model for the pets table.
type PetModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"type:text;not null"`
	Breed       string `gorm:"type:text;not null"`
	Age         int    `gorm:"not null"`
	Description string `gorm:"type:text"`
	ImagePath   string `gorm:"type:text"`
}

func (PetModel) TableName() string { return "pets" }

// ServiceModel is the GORM model for the services table.
type ServiceModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"type:text;not null"`
	Description string `gorm:"type:text"`
	PriceCents  int64  `gorm:"not null;default:0"`
}

func (ServiceModel) TableName() string { return "services" }

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"type:text;not null;uniqueIndex"`
	Email        string    `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:text;not null"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime"`
}

func (UserModel) TableName() string { return "users" }

// WishlistModel is one saved pet. The composite unique index makes inserts idempotent.
type WishlistModel struct {
	ID     int64 `gorm:"primaryKey;autoIncrement"`
	UserID int64 `gorm:"not null;uniqueIndex:ux_wishlist_user_pet,priority:1"`
	PetID  int64 `gorm:"not null;uniqueIndex:ux_wishlist_user_pet,priority:2"`
}

func (WishlistModel) TableName() string { return "user_wishlist" }

// AdoptionModel records an adoption application.
type AdoptionModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	UserID       int64  `gorm:"not null;index"`
	PetID        int64  `gorm:"not null"`
	AdoptionDate string `gorm:"type:text;not null"`
}

func (AdoptionModel) TableName() string { return "user_adoptions" }

// BookingModel records a service booking.
type BookingModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	UserID      int64  `gorm:"not null;index"`
	ServiceID   int64  `gorm:"not null"`
	BookingDate string `gorm:"type:text;not null"`
}

func (BookingModel) TableName() string { return "user_bookings" }

func allModels() []any {
	return []any{
		&PetModel{},
		&ServiceModel{},
		&UserModel{},
		&WishlistModel{},
		&AdoptionModel{},
		&BookingModel{},
	}
}

// --- Conversions ---

func toPet(m PetModel) catalog.Pet {
	return catalog.Pet{
		ID:          m.ID,
		Name:        m.Name,
		Breed:       m.Breed,
		Age:         m.Age,
		Description: m.Description,
		ImagePath:   m.ImagePath,
	}
}

func toService(m ServiceModel) catalog.Service {
	return catalog.Service{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		PriceCents:  m.PriceCents,
	}
}

func toPets(models []PetModel) []catalog.Pet {
	out := make([]catalog.Pet, len(models))
	for i, m := range models {
		out[i] = toPet(m)
	}
	return out
}

func toServices(models []ServiceModel) []catalog.Service {
	out := make([]catalog.Service, len(models))
	for i, m := range models {
		out[i] = toService(m)
	}
	return out
}
