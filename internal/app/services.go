package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/onlypets/onlypets/internal/auth"
	"github.com/onlypets/onlypets/internal/config"
	"github.com/onlypets/onlypets/internal/dispatch"
	"github.com/onlypets/onlypets/internal/guestlist"
	"github.com/onlypets/onlypets/internal/store"
)

// Services are the long-lived collaborators behind the UI.
type Services struct {
	Store      *store.Store
	Guest      *guestlist.Store
	Dispatcher *dispatch.Dispatcher
	logger     *zap.Logger
}

// Open connects the database, prepares the schema and sample catalog, and
// starts the dispatcher. Any failure here is fatal for the application.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	policy, err := dispatch.ParsePolicy(cfg.DispatchPolicy)
	if err != nil {
		return nil, fmt.Errorf("dispatch policy: %w", err)
	}

	st, err := store.Open(store.Options{
		Path:   cfg.DBPath,
		Logger: logger.Named("store"),
		Hasher: auth.BcryptHasher{},
	})
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	if cfg.SeedSampleData {
		if err := st.Seed(ctx); err != nil {
			_ = st.Close()
			return nil, err
		}
	}

	guest, err := guestlist.New(cfg.GuestWishlistPath)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("guest wishlist: %w", err)
	}

	logger.Debug("guest wishlist", zap.String("path", guest.Path()))

	exec := dispatch.NewStoreExecutor(connector(st), guest, logger.Named("executor"))
	d := dispatch.New(exec, dispatch.Options{Policy: policy, Logger: logger.Named("dispatch")})

	return &Services{Store: st, Guest: guest, Dispatcher: d, logger: logger}, nil
}

// Close waits for in-flight work and then closes the database.
func (s *Services) Close() {
	drained := make(chan int)
	go func() {
		n := 0
		for range s.Dispatcher.Results() {
			n++
		}
		drained <- n
	}()
	s.Dispatcher.Close()
	if n := <-drained; n > 0 {
		s.logger.Debug("discarded results at shutdown", zap.Int("count", n))
	}
	if err := s.Store.Close(); err != nil {
		s.logger.Warn("close database", zap.Error(err))
	}
}

// connector binds each worker call to its own pooled connection.
func connector(st *store.Store) dispatch.Connector {
	return dispatch.ConnectorFunc(func(ctx context.Context, fn func(dispatch.DataAccess) error) error {
		return st.Do(ctx, func(q *store.Queries) error { return fn(q) })
	})
}
