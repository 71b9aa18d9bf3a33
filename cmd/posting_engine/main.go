package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	portssvc "github.com/commercio/posting_engine/internal/core/ports/services"
	"github.com/commercio/posting_engine/internal/core/services"
	"github.com/commercio/posting_engine/internal/notify"
	platformclock "github.com/commercio/posting_engine/internal/platform/clock"
	"github.com/commercio/posting_engine/internal/platform/config"
	"github.com/commercio/posting_engine/internal/repositories/database/pgsql"
	"github.com/commercio/posting_engine/pkg/database"
)

// main provisions the posting engine: it applies migrations and wires the
// service container against a live database, then reports readiness. The
// container is what embedding applications consume; there is no transport
// surface here.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		os.Exit(1)
	}

	clock, err := platformclock.New(cfg.BusinessTimezone)
	if err != nil {
		logger.Error("Failed to load business timezone", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var notifier portssvc.NotificationsGateway = notify.NewSlogNotifier()
	if cfg.NotifyWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.NotifyWebhookURL, cfg.NotifyTimeout)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	// Constructing the container verifies every service wires cleanly
	// against the live schema before reporting ready.
	_ = services.NewServiceContainer(repos, notifier, clock, cfg.TxTimeout, cfg.AcceptOnFullPurchasePayment)

	logger.Info("Posting engine ready",
		slog.Duration("txTimeout", cfg.TxTimeout),
		slog.String("businessTimezone", cfg.BusinessTimezone),
		slog.Bool("acceptOnFullPurchasePayment", cfg.AcceptOnFullPurchasePayment),
	)
}

// runMigrations applies all pending "up" migrations through a temporary
// database/sql connection compatible with the pgx pool.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		logger.Error("Failed to ping database for migrations", slog.String("error", err.Error()))
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		return err
	}
	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		logger.Error("Migration source error", slog.String("error", sourceErr.Error()))
		return sourceErr
	}
	if dbErr != nil {
		logger.Error("Migration database error", slog.String("error", dbErr.Error()))
		return dbErr
	}
	return nil
}
