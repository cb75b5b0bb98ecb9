package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/onlypets/onlypets/internal/config"
	"github.com/onlypets/onlypets/internal/logging"
	"github.com/onlypets/onlypets/internal/ui"
)

// Options configure the OnlyPets application.
type Options struct {
	ConfigPath string
	DBPath     string // overrides db_path from the config file
	Debug      bool   // forces debug logging
}

// Run boots the storefront until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.DBPath != "" {
		cfg.DBPath = opts.DBPath
	}

	logger, err := logging.New(logging.Options{Path: cfg.LogPath, Level: cfg.LogLevel, Debug: opts.Debug})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	svc, err := Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		return err
	}
	defer svc.Close()

	logger.Info("storefront started",
		zap.String("db", cfg.DBPath),
		zap.Stringer("policy", svc.Dispatcher.Policy()),
	)
	err = ui.Run(ui.Options{
		Context:       ctx,
		Dispatcher:    svc.Dispatcher,
		Logger:        logger,
		FeaturedCount: cfg.FeaturedCount,
		PrefsPath:     cfg.PrefsPath,
	})
	logger.Info("storefront stopped", zap.Error(err))
	return err
}
