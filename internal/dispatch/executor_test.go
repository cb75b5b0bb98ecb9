package dispatch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/onlypets/onlypets/internal/auth"
	"github.com/onlypets/onlypets/internal/catalog"
	"github.com/onlypets/onlypets/internal/dispatch"
	"github.com/onlypets/onlypets/internal/guestlist"
	"github.com/onlypets/onlypets/internal/store"
)

type fixture struct {
	store    *store.Store
	guest    *guestlist.Store
	exec     *dispatch.StoreExecutor
	acquired atomic.Int32
	released atomic.Int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	logger := zaptest.NewLogger(t)

	st, err := store.Open(store.Options{
		Path:   filepath.Join(dir, "onlypets.db"),
		Logger: logger,
		Hasher: auth.BcryptHasher{Cost: bcrypt.MinCost},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	require.NoError(t, st.Seed(context.Background()))

	guest, err := guestlist.New(filepath.Join(dir, "guest.toml"))
	require.NoError(t, err)

	f := &fixture{store: st, guest: guest}
	conn := dispatch.ConnectorFunc(func(ctx context.Context, fn func(dispatch.DataAccess) error) error {
		f.acquired.Add(1)
		defer f.released.Add(1)
		return st.Do(ctx, func(q *store.Queries) error { return fn(q) })
	})
	f.exec = dispatch.NewStoreExecutor(conn, guest, logger)
	return f
}

func (f *fixture) run(t *testing.T, req dispatch.Request) any {
	t.Helper()
	v, err := f.exec.Execute(context.Background(), req)
	require.NoError(t, err)
	return v
}

func (f *fixture) signupAndLogin(t *testing.T, username string) catalog.Account {
	t.Helper()
	res := f.run(t, dispatch.Signup{Username: username, Email: username + "@example.com", Password: "password1"})
	require.True(t, res.(dispatch.SignupResult).Created)
	login := f.run(t, dispatch.Login{Username: username, Password: "password1"}).(dispatch.LoginResult)
	require.True(t, login.OK)
	return login.Account
}

func TestMergeGuestWishlist_SetSemanticsAndDeletesFile(t *testing.T) {
	f := newFixture(t)
	acct := f.signupAndLogin(t, "carol")

	const p1, p2 = int64(1), int64(2)
	f.run(t, dispatch.AddToWishlist{UserID: acct.ID, PetID: p2})
	require.NoError(t, os.WriteFile(f.guest.Path(), []byte("pets = [1, 2, 1]\n"), 0o644))

	res := f.run(t, dispatch.MergeGuestWishlist{UserID: acct.ID}).(dispatch.MergeResult)
	assert.Equal(t, 2, res.Merged)

	pets := f.run(t, dispatch.LoadWishlist{UserID: acct.ID}).([]catalog.Pet)
	ids := make([]int64, len(pets))
	for i, p := range pets {
		ids[i] = p.ID
	}
	assert.ElementsMatch(t, []int64{p1, p2}, ids)

	_, err := os.Stat(f.guest.Path())
	assert.True(t, errors.Is(err, os.ErrNotExist), "guest file still present: %v", err)

	// A second merge finds nothing to do.
	res = f.run(t, dispatch.MergeGuestWishlist{UserID: acct.ID}).(dispatch.MergeResult)
	assert.Zero(t, res.Merged)
}

func TestLogin_WrongPasswordIsAResultNotAnError(t *testing.T) {
	f := newFixture(t)
	f.signupAndLogin(t, "dave")

	res := f.run(t, dispatch.Login{Username: "dave", Password: "nope"}).(dispatch.LoginResult)
	assert.False(t, res.OK)

	dup := f.run(t, dispatch.Signup{Username: "dave", Email: "x@example.com", Password: "password1"}).(dispatch.SignupResult)
	assert.False(t, dup.Created)
}

func TestGuestWishlistRoundTrip(t *testing.T) {
	f := newFixture(t)

	pets := f.run(t, dispatch.LoadWishlist{}).([]catalog.Pet)
	assert.Empty(t, pets)

	f.run(t, dispatch.SaveGuestWishlist{PetID: 4})
	f.run(t, dispatch.SaveGuestWishlist{PetID: 1})
	f.run(t, dispatch.SaveGuestWishlist{PetID: 4})

	pets = f.run(t, dispatch.LoadWishlist{}).([]catalog.Pet)
	require.Len(t, pets, 2)
	assert.Equal(t, "Luna", pets[0].Name)
	assert.Equal(t, "Buddy", pets[1].Name)
}

func TestHistoryAfterTransactions(t *testing.T) {
	f := newFixture(t)
	acct := f.signupAndLogin(t, "erin")

	f.run(t, dispatch.RecordAdoption{UserID: acct.ID, PetID: 5})
	f.run(t, dispatch.RecordBooking{UserID: acct.ID, ServiceID: 1, Date: "2025-06-01"})

	h := f.run(t, dispatch.LoadHistory{UserID: acct.ID}).(catalog.History)
	require.Len(t, h.Adoptions, 1)
	require.Len(t, h.Bookings, 1)
	assert.Equal(t, "Rocky", h.Adoptions[0].Pet.Name)
	assert.Equal(t, "Grooming", h.Bookings[0].Service.Name)
	assert.Equal(t, "2025-06-01", h.Bookings[0].Date)
}

func TestListPetsAppliesFilter(t *testing.T) {
	f := newFixture(t)
	three := 3
	pets := f.run(t, dispatch.ListPets{Query: "cat", Filter: catalog.PetFilter{AgeMin: &three}}).([]catalog.Pet)
	require.Len(t, pets, 1)
	assert.Equal(t, "Chloe", pets[0].Name)

	pets = f.run(t, dispatch.ListPets{Filter: catalog.PetFilter{Breed: "labrador"}}).([]catalog.Pet)
	require.Len(t, pets, 1)
	assert.Equal(t, "Rocky", pets[0].Name)
}

func TestConnectionsReleasedOnEveryPath(t *testing.T) {
	f := newFixture(t)

	f.run(t, dispatch.ListPets{Query: "cat"})
	f.run(t, dispatch.ListServices{})
	f.run(t, dispatch.Login{Username: "ghost", Password: "password1"})
	require.NoError(t, f.store.Close())
	_, err := f.exec.Execute(context.Background(), dispatch.ListPets{})
	require.Error(t, err)

	assert.Equal(t, f.acquired.Load(), f.released.Load())
	assert.Equal(t, int32(4), f.acquired.Load())
}

type unknownRequest struct{}

func (unknownRequest) Op() dispatch.Op { return dispatch.Op(99) }

func TestExecute_UnknownRequest(t *testing.T) {
	f := newFixture(t)
	_, err := f.exec.Execute(context.Background(), unknownRequest{})
	assert.Error(t, err)
	assert.Equal(t, "unknown op", dispatch.Op(99).String())
}
