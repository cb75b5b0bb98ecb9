package dispatch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/onlypets/onlypets/internal/catalog"
)

// DataAccess is the set of catalog, account and transaction operations the
// workers need. Implementations are blocking and bound to one connection.
type DataAccess interface {
	ListPets(query string, filter catalog.PetFilter) ([]catalog.Pet, error)
	ListServices(query string) ([]catalog.Service, error)
	PetsByID(ids []int64) ([]catalog.Pet, error)
	VerifyUser(username, password string) (int64, bool, error)
	CreateUser(username, email, password string) (bool, error)
	GetUser(userID int64) (catalog.Account, error)
	RecordAdoption(userID, petID int64) error
	RecordBooking(userID, serviceID int64, date string) error
	AddToWishlist(userID, petID int64) error
	GetWishlist(userID int64) ([]int64, error)
	ListAdoptions(userID int64) ([]catalog.Adoption, error)
	ListBookings(userID int64) ([]catalog.Booking, error)
}

// Connector hands out a connection-bound DataAccess for the duration of fn and
// releases the connection when fn returns.
type Connector interface {
	Do(ctx context.Context, fn func(DataAccess) error) error
}

// ConnectorFunc adapts a function to Connector.
type ConnectorFunc func(ctx context.Context, fn func(DataAccess) error) error

// Do calls f.
func (f ConnectorFunc) Do(ctx context.Context, fn func(DataAccess) error) error {
	return f(ctx, fn)
}

// GuestList is the guest wishlist file.
type GuestList interface {
	Load() (ids []int64, exists bool, err error)
	Add(petID int64) ([]int64, error)
	Drain(fn func(ids []int64) error) (int, error)
}

// Executor runs one request to completion.
type Executor interface {
	Execute(ctx context.Context, req Request) (any, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, req Request) (any, error)

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, req Request) (any, error) {
	return f(ctx, req)
}

// StoreExecutor executes requests against the database and the guest wishlist.
type StoreExecutor struct {
	conn   Connector
	guest  GuestList
	logger *zap.Logger
}

// NewStoreExecutor builds a StoreExecutor.
func NewStoreExecutor(conn Connector, guest GuestList, logger *zap.Logger) *StoreExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreExecutor{conn: conn, guest: guest, logger: logger}
}

// Execute implements Executor.
func (e *StoreExecutor) Execute(ctx context.Context, req Request) (any, error) {
	switch r := req.(type) {
	case ListPets:
		var pets []catalog.Pet
		err := e.conn.Do(ctx, func(da DataAccess) error {
			var err error
			pets, err = da.ListPets(r.Query, r.Filter)
			return err
		})
		return pets, err

	case ListServices:
		var services []catalog.Service
		err := e.conn.Do(ctx, func(da DataAccess) error {
			var err error
			services, err = da.ListServices(r.Query)
			return err
		})
		return services, err

	case Login:
		var res LoginResult
		err := e.conn.Do(ctx, func(da DataAccess) error {
			id, ok, err := da.VerifyUser(r.Username, r.Password)
			if err != nil || !ok {
				return err
			}
			acct, err := da.GetUser(id)
			if err != nil {
				return err
			}
			res = LoginResult{OK: true, Account: acct}
			return nil
		})
		return res, err

	case Signup:
		var res SignupResult
		err := e.conn.Do(ctx, func(da DataAccess) error {
			created, err := da.CreateUser(r.Username, r.Email, r.Password)
			res.Created = created
			return err
		})
		return res, err

	case RecordAdoption:
		return nil, e.conn.Do(ctx, func(da DataAccess) error {
			return da.RecordAdoption(r.UserID, r.PetID)
		})

	case RecordBooking:
		return nil, e.conn.Do(ctx, func(da DataAccess) error {
			return da.RecordBooking(r.UserID, r.ServiceID, r.Date)
		})

	case AddToWishlist:
		return nil, e.conn.Do(ctx, func(da DataAccess) error {
			return da.AddToWishlist(r.UserID, r.PetID)
		})

	case SaveGuestWishlist:
		if e.guest == nil {
			return nil, fmt.Errorf("guest wishlist unavailable")
		}
		return e.guest.Add(r.PetID)

	case LoadWishlist:
		return e.loadWishlist(ctx, r.UserID)

	case MergeGuestWishlist:
		return e.mergeGuestWishlist(ctx, r.UserID)

	case LoadHistory:
		var h catalog.History
		err := e.conn.Do(ctx, func(da DataAccess) error {
			var err error
			if h.Adoptions, err = da.ListAdoptions(r.UserID); err != nil {
				return err
			}
			h.Bookings, err = da.ListBookings(r.UserID)
			return err
		})
		return h, err
	}
	return nil, fmt.Errorf("unsupported request %T", req)
}

func (e *StoreExecutor) loadWishlist(ctx context.Context, userID int64) ([]catalog.Pet, error) {
	var ids []int64
	if userID == 0 {
		if e.guest == nil {
			return nil, nil
		}
		var err error
		if ids, _, err = e.guest.Load(); err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, nil
		}
	}

	var pets []catalog.Pet
	err := e.conn.Do(ctx, func(da DataAccess) error {
		if userID != 0 {
			var err error
			if ids, err = da.GetWishlist(userID); err != nil {
				return err
			}
		}
		var err error
		pets, err = da.PetsByID(ids)
		return err
	})
	return pets, err
}

// mergeGuestWishlist inserts every guest entry for userID and deletes the guest
// file only after all inserts succeeded. A missing file is a no-op.
func (e *StoreExecutor) mergeGuestWishlist(ctx context.Context, userID int64) (MergeResult, error) {
	if e.guest == nil {
		return MergeResult{}, nil
	}
	n, err := e.guest.Drain(func(ids []int64) error {
		return e.conn.Do(ctx, func(da DataAccess) error {
			for _, id := range ids {
				if err := da.AddToWishlist(userID, id); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return MergeResult{}, err
	}
	if n > 0 {
		e.logger.Info("guest wishlist merged", zap.Int64("user_id", userID), zap.Int("pets", n))
	}
	return MergeResult{Merged: n}, nil
}
