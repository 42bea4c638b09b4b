package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-deflection/internal/seed"
	"github.com/spec-kit/ticket-deflection/internal/service"
)

// Options selects the background workers to start.
type Options struct {
	Notifications *service.NotificationService
	// SeedSource is nil unless seed hot reload is enabled.
	SeedSource SeedSource
	SeedDir    string
	Importer   seed.Importer
}

// Start subscribes the notification handlers and starts the seed reloader
// when a seed source is configured.
func Start(ctx context.Context, opts Options, logger *zap.Logger) error {
	if opts.Notifications != nil {
		opts.Notifications.RegisterHandlers()
	}
	if opts.SeedSource == nil || opts.SeedDir == "" {
		return nil
	}
	return StartSeedWorker(ctx, opts.SeedSource, opts.SeedDir, opts.Importer, logger)
}

// SeedSource yields paths of changed seed files.
type SeedSource interface {
	Watch(ctx context.Context, dir string) (<-chan string, error)
}

// StartSeedWorker re-imports seed files from dir whenever they change.
// It returns once watching has started; imports run until ctx is done.
func StartSeedWorker(ctx context.Context, source SeedSource, dir string, importer seed.Importer, logger *zap.Logger) error {
	changed, err := source.Watch(ctx, dir)
	if err != nil {
		return err
	}
	go func() {
		for path := range changed {
			ReloadSeedFile(ctx, path, importer, logger)
		}
	}()
	logger.Info("watching knowledge seed directory", zap.String("dir", dir))
	return nil
}

// ReloadSeedFile imports the articles of a single seed file.
func ReloadSeedFile(ctx context.Context, path string, importer seed.Importer, logger *zap.Logger) seed.Report {
	articles, err := seed.LoadFile(path)
	if err != nil {
		logger.Warn("seed file unreadable", zap.String("file", path), zap.Error(err))
		return seed.Report{}
	}
	report, err := seed.Import(ctx, importer, articles)
	if err != nil {
		logger.Warn("seed import incomplete", zap.String("file", path), zap.Error(err))
	}
	logger.Info("seed file imported",
		zap.String("file", path),
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed))
	return report
}
