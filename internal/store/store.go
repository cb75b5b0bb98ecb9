// Package store is the relational data access layer for the storefront.
// It keeps the catalog, accounts, wishlists and transactions in a local SQLite
// database through GORM.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/onlypets/onlypets/internal/auth"
)

// ErrNotFound is returned when a lookup by id matches nothing.
var ErrNotFound = errors.New("record not found")

// Options configure Open.
type Options struct {
	Path   string // database file; ":memory:" is not supported because workers use separate connections
	Logger *zap.Logger
	Hasher auth.Hasher
	Now    func() time.Time
}

// Store owns the connection pool. Queries run on a connection pinned for the
// duration of one Do call.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
	hasher auth.Hasher
	now    func() time.Time
}

// Open creates the database directory if needed and connects to the SQLite file.
func Open(opts Options) (*Store, error) {
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return nil, fmt.Errorf("database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	hasher := opts.Hasher
	if hasher == nil {
		hasher = auth.BcryptHasher{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database opened", zap.String("path", path))
	return &Store{db: db, logger: logger, hasher: hasher, now: now}, nil
}

// Migrate creates or updates the schema.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	s.logger.Info("database tables checked/created")
	return nil
}

// Do pins one pooled connection, runs fn with queries bound to it and releases
// the connection when fn returns, whether it failed or not.
func (s *Store) Do(ctx context.Context, fn func(q *Queries) error) error {
	return s.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		// Each query starts from a fresh statement on the pinned pool.
		db := conn.Session(&gorm.Session{NewDB: true})
		return fn(&Queries{db: db, logger: s.logger, hasher: s.hasher, now: s.now})
	})
}

// Close releases the pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
