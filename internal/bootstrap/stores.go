package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-deflection/internal/api/http/handlers"
	"github.com/spec-kit/ticket-deflection/internal/config"
	"github.com/spec-kit/ticket-deflection/internal/persistence"
	"github.com/spec-kit/ticket-deflection/internal/repository"
	"github.com/spec-kit/ticket-deflection/internal/sqlite"
)

// Stores holds the record store selected by configuration.
type Stores struct {
	Tickets   repository.TicketRepository
	Knowledge repository.KnowledgeRepository
	Activity  repository.ActivityRepository
	Checks    []handlers.DependencyCheck

	closers []func()
}

// OpenStores connects the configured driver and applies its migrations.
func OpenStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		return openPostgres(ctx, cfg.Postgres, logger)
	case config.StoreDriverSQLite:
		return openSQLite(cfg.SQLite, logger)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Stores, error) {
	pg, err := persistence.NewPostgres(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			pg.Close()
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}
	}

	pool := pg.PoolHandle()
	return &Stores{
		Tickets:   repository.NewTicketRepository(pool),
		Knowledge: repository.NewKnowledgeRepository(pool),
		Activity:  repository.NewActivityRepository(pool),
		Checks:    []handlers.DependencyCheck{{Name: "postgres", Ping: pg.Ping}},
		closers:   []func(){pg.Close},
	}, nil
}

func openSQLite(cfg config.SQLiteConfig, logger *zap.Logger) (*Stores, error) {
	db, err := sqlite.New(cfg.Path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("using sqlite store", zap.String("path", cfg.Path))
	return NewSQLiteStores(db), nil
}

// NewSQLiteStores wraps an open SQLite database.
func NewSQLiteStores(db *sqlite.DB) *Stores {
	return &Stores{
		Tickets:   sqlite.NewTicketRepository(db),
		Knowledge: sqlite.NewKnowledgeRepository(db),
		Activity:  sqlite.NewActivityRepository(db),
		Checks:    []handlers.DependencyCheck{{Name: "sqlite", Ping: db.PingContext}},
		closers:   []func(){func() { _ = db.Close() }},
	}
}

// Close releases store connections.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}
