package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JonMunkholm/catalog-import/internal/config"
	"github.com/JonMunkholm/catalog-import/internal/importer"
	"github.com/JonMunkholm/catalog-import/internal/logging"
	"github.com/JonMunkholm/catalog-import/internal/storage"
	"github.com/JonMunkholm/catalog-import/internal/storage/postgres"
	"github.com/JonMunkholm/catalog-import/internal/storage/sqlstore"
)

// database is a storage.DB that can be pinged and closed.
type database interface {
	storage.DB
	Ping(ctx context.Context) error
}

// app holds the wired dependencies shared by the commands.
type app struct {
	cfg      *config.Config
	db       database
	close    func()
	registry *prometheus.Registry
	history  *storage.History
	importer *importer.Importer
}

// newApp loads configuration, sets up logging, opens the database and builds
// the importer.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded",
		"driver", cfg.Database.Driver,
		"mode", cfg.Import.Mode,
		"import_max_concurrent", cfg.Import.MaxConcurrent,
		"metrics_enabled", cfg.Metrics.Enabled,
	)

	db, closeDB, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, db: db, close: closeDB, history: storage.NewHistory(db)}

	var metrics *importer.Metrics
	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		if metrics, err = importer.NewMetrics(a.registry); err != nil {
			closeDB()
			return nil, err
		}
	}

	mode, err := importer.ParseMode(cfg.Import.Mode)
	if err != nil {
		closeDB()
		return nil, err
	}

	a.importer = importer.New(storage.NewProcessor(db, slog.Default()), importer.Options{
		Callbacks:           cfg.Callbacks(),
		SourceDateFormat:    cfg.Import.SourceDateFormat,
		LenientNumeric:      cfg.Import.LenientNumeric,
		StoreID:             cfg.Import.StoreID,
		WebsiteID:           cfg.Import.WebsiteID,
		StockID:             cfg.Import.StockID,
		Mode:                mode,
		DefaultAttributeSet: cfg.Import.DefaultAttributeSet,
		Limiter:             importer.NewLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime),
		Metrics:             metrics,
		History:             a.history,
	})
	return a, nil
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (database, func(), error) {
	switch cfg.Driver {
	case "postgres":
		pool, err := postgres.Connect(ctx, postgres.PoolConfig{
			URL:             cfg.URL,
			MaxConns:        cfg.MaxConns,
			MinConns:        cfg.MinConns,
			MaxConnLifetime: cfg.MaxConnLifetime,
			MaxConnIdleTime: cfg.MaxConnIdleTime,
		})
		if err != nil {
			return nil, nil, err
		}
		slog.Info("connected to database", "driver", cfg.Driver)
		return postgres.New(pool), pool.Close, nil

	default:
		db, err := sqlstore.Open(ctx, cfg.Driver, cfg.URL, sqlstore.PoolConfig{
			MaxOpenConns:    cfg.MaxConns,
			MaxIdleConns:    cfg.MinConns,
			ConnMaxLifetime: cfg.MaxConnLifetime,
			ConnMaxIdleTime: cfg.MaxConnIdleTime,
		})
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if err := db.Close(); err != nil {
				slog.Warn("close database", "error", err)
			}
		}

		if cfg.Bootstrap {
			if err := sqlstore.Bootstrap(ctx, db, true); err != nil {
				closeDB()
				return nil, nil, err
			}
			slog.Info("database schema bootstrapped")
		}
		slog.Info("connected to database", "driver", cfg.Driver)
		return db, closeDB, nil
	}
}
