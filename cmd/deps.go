package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/monthly-budget/db"
	"github.com/frahmantamala/monthly-budget/internal"
	"github.com/frahmantamala/monthly-budget/internal/budget"
	"github.com/frahmantamala/monthly-budget/internal/budget/memory"
	budgetSqlite "github.com/frahmantamala/monthly-budget/internal/budget/sqlite"
	"github.com/frahmantamala/monthly-budget/internal/core/events"
	"github.com/frahmantamala/monthly-budget/pkg/logger"
)

type Dependencies struct {
	Config *internal.Config
	SQLDB  *sql.DB // nil with the memory driver
	Store  *budget.Store
	Bus    *events.EventBus
	Logger *slog.Logger
}

// initializeDependencies loads config, opens and migrates the state file and
// returns a loaded store.
func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Init(logger.Options{
		Env:    config.App.Env,
		Level:  config.Observability.Logging.Level,
		Format: config.Observability.Logging.Format,
	})

	deps := &Dependencies{
		Config: config,
		Bus:    events.NewEventBus(lg),
		Logger: lg,
	}
	registerEventHandlers(deps.Bus, lg)

	repo, err := deps.initRepository(ctx)
	if err != nil {
		return nil, err
	}

	deps.Store = budget.NewStore(repo,
		budget.WithLogger(lg),
		budget.WithEventBus(deps.Bus),
		budget.WithStorageKey(config.Storage.Key),
		budget.WithDefaultCurrency(config.App.Currency),
	)
	if err := deps.Store.Load(); err != nil {
		// the store is usable; the next mutation retries the write
		lg.Warn("initial state could not be saved", "error", err)
	}
	return deps, nil
}

func (d *Dependencies) initRepository(ctx context.Context) (budget.RepositoryAPI, error) {
	if d.Config.Storage.Driver == internal.StorageDriverMemory {
		d.Logger.Debug("using in-memory state; nothing will be saved")
		return memory.NewStateRepository(), nil
	}

	gdb, err := db.Open(d.Config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.Migrate(ctx, gdb, false); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	d.SQLDB = sqlDB
	return budgetSqlite.NewStateRepository(gdb), nil
}

func (d *Dependencies) Close() {
	if d.SQLDB == nil {
		return
	}
	if err := d.SQLDB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}
