package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/onlypets/onlypets/internal/auth"
	"github.com/onlypets/onlypets/internal/catalog"
)

const dateLayout = "2006-01-02"

// Queries runs the storefront operations on a single connection.
type Queries struct {
	db     *gorm.DB
	logger *zap.Logger
	hasher auth.Hasher
	now    func() time.Time
}

// ListPets returns pets whose name or breed contains query and that pass filter.
// A blank query and an empty filter return every pet.
func (q *Queries) ListPets(query string, filter catalog.PetFilter) ([]catalog.Pet, error) {
	var models []PetModel
	tx := q.db.Order("id")
	if query = strings.TrimSpace(query); query != "" {
		like := "%" + query + "%"
		tx = tx.Where("name LIKE ? OR breed LIKE ?", like, like)
	}
	if breed := strings.TrimSpace(filter.Breed); breed != "" {
		tx = tx.Where("LOWER(breed) = LOWER(?)", breed)
	}
	if filter.AgeMin != nil {
		tx = tx.Where("age >= ?", *filter.AgeMin)
	}
	if filter.AgeMax != nil {
		tx = tx.Where("age <= ?", *filter.AgeMax)
	}
	if err := tx.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	return toPets(models), nil
}

// ListServices returns services whose name contains query, or all services when query is blank.
func (q *Queries) ListServices(query string) ([]catalog.Service, error) {
	var models []ServiceModel
	tx := q.db.Order("id")
	if query = strings.TrimSpace(query); query != "" {
		tx = tx.Where("name LIKE ?", "%"+query+"%")
	}
	if err := tx.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return toServices(models), nil
}

// PetsByID returns the pets with the given ids in the order of ids. Unknown ids are skipped.
func (q *Queries) PetsByID(ids []int64) ([]catalog.Pet, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []PetModel
	if err := q.db.Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("pets by id: %w", err)
	}
	byID := make(map[int64]PetModel, len(models))
	for _, m := range models {
		byID[m.ID] = m
	}
	out := make([]catalog.Pet, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			out = append(out, toPet(m))
		}
	}
	return out, nil
}

// VerifyUser checks the credentials and returns the user id on success.
func (q *Queries) VerifyUser(username, password string) (int64, bool, error) {
	var user UserModel
	err := q.db.Select("id", "password_hash").Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			q.logger.Warn("failed authentication attempt", zap.String("username", username))
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("verify user: %w", err)
	}
	if !q.hasher.Verify(password, user.PasswordHash) {
		q.logger.Warn("failed authentication attempt", zap.String("username", username))
		return 0, false, nil
	}
	q.logger.Info("user authenticated", zap.String("username", username), zap.Int64("user_id", user.ID))
	return user.ID, true, nil
}

// CreateUser registers an account. It reports false when the username or email is taken.
func (q *Queries) CreateUser(username, email, password string) (bool, error) {
	var taken int64
	if err := q.db.Model(&UserModel{}).
		Where("username = ? OR email = ?", username, email).
		Count(&taken).Error; err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}
	if taken > 0 {
		q.logger.Warn("username or email already exists", zap.String("username", username))
		return false, nil
	}

	hash, err := q.hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}
	user := UserModel{Username: username, Email: email, PasswordHash: hash}
	if err := q.db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			q.logger.Warn("username or email already exists", zap.String("username", username))
			return false, nil
		}
		return false, fmt.Errorf("create user: %w", err)
	}
	q.logger.Info("new user added", zap.String("username", username), zap.Int64("user_id", user.ID))
	return true, nil
}

// GetUser fetches the public account fields.
func (q *Queries) GetUser(userID int64) (catalog.Account, error) {
	var user UserModel
	if err := q.db.Select("id", "username", "email").Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Account{}, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return catalog.Account{}, fmt.Errorf("get user: %w", err)
	}
	return catalog.Account{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}

// RecordAdoption stores an adoption application dated today.
func (q *Queries) RecordAdoption(userID, petID int64) error {
	row := AdoptionModel{UserID: userID, PetID: petID, AdoptionDate: q.now().UTC().Format(dateLayout)}
	if err := q.db.Create(&row).Error; err != nil {
		return fmt.Errorf("record adoption: %w", err)
	}
	q.logger.Info("adoption recorded", zap.Int64("user_id", userID), zap.Int64("pet_id", petID))
	return nil
}

// RecordBooking stores a booking for the given date.
func (q *Queries) RecordBooking(userID, serviceID int64, date string) error {
	row := BookingModel{UserID: userID, ServiceID: serviceID, BookingDate: date}
	if err := q.db.Create(&row).Error; err != nil {
		return fmt.Errorf("record booking: %w", err)
	}
	q.logger.Info("booking recorded",
		zap.Int64("user_id", userID),
		zap.Int64("service_id", serviceID),
		zap.String("date", date),
	)
	return nil
}

// AddToWishlist saves a pet for the user. Saving the same pet twice is a no-op.
func (q *Queries) AddToWishlist(userID, petID int64) error {
	row := WishlistModel{UserID: userID, PetID: petID}
	if err := q.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("add to wishlist: %w", err)
	}
	return nil
}

// GetWishlist returns the saved pet ids in the order they were added.
func (q *Queries) GetWishlist(userID int64) ([]int64, error) {
	var ids []int64
	if err := q.db.Model(&WishlistModel{}).
		Where("user_id = ?", userID).
		Order("id").
		Pluck("pet_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("get wishlist: %w", err)
	}
	return ids, nil
}

type adoptionRow struct {
	PetID        int64
	Name         string
	Breed        string
	Age          int
	Description  string
	ImagePath    string
	AdoptionDate string
}

// ListAdoptions returns the user's adoption history, oldest first.
func (q *Queries) ListAdoptions(userID int64) ([]catalog.Adoption, error) {
	var rows []adoptionRow
	err := q.db.Table("user_adoptions AS ua").
		Select("p.id AS pet_id, p.name, p.breed, p.age, p.description, p.image_path, ua.adoption_date").
		Joins("JOIN pets AS p ON p.id = ua.pet_id").
		Where("ua.user_id = ?", userID).
		Order("ua.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list adoptions: %w", err)
	}
	out := make([]catalog.Adoption, len(rows))
	for i, r := range rows {
		out[i] = catalog.Adoption{
			Pet: catalog.Pet{
				ID:          r.PetID,
				Name:        r.Name,
				Breed:       r.Breed,
				Age:         r.Age,
				Description: r.Description,
				ImagePath:   r.ImagePath,
			},
			AdoptedOn: r.AdoptionDate,
		}
	}
	return out, nil
}

type bookingRow struct {
	ServiceID   int64
	Name        string
	Description string
	PriceCents  int64
	BookingDate string
}

// ListBookings returns the user's booking history, oldest first.
func (q *Queries) ListBookings(userID int64) ([]catalog.Booking, error) {
	var rows []bookingRow
	err := q.db.Table("user_bookings AS ub").
		Select("s.id AS service_id, s.name, s.description, s.price_cents, ub.booking_date").
		Joins("JOIN services AS s ON s.id = ub.service_id").
		Where("ub.user_id = ?", userID).
		Order("ub.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	out := make([]catalog.Booking, len(rows))
	for i, r := range rows {
		out[i] = catalog.Booking{
			Service: catalog.Service{
				ID:          r.ServiceID,
				Name:        r.Name,
				Description: r.Description,
				PriceCents:  r.PriceCents,
			},
			Date: r.BookingDate,
		}
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
