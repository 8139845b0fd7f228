package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/neurotriage/stroke-triage-server/internal/api"
	"github.com/neurotriage/stroke-triage-server/internal/config"
	"github.com/neurotriage/stroke-triage-server/internal/database"
	"github.com/neurotriage/stroke-triage-server/internal/domain"
	"github.com/neurotriage/stroke-triage-server/internal/records"
	"github.com/neurotriage/stroke-triage-server/internal/repository"
	"github.com/neurotriage/stroke-triage-server/internal/service"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := newLogger(&cfg.Logging)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the record store selected by configuration.
	store, err := openStore(ctx, configManager, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open record store")
	}
	defer store.Close()

	// Wire the evaluation engines.
	scoring := service.NewScoringService(logger)
	decision := service.NewDecisionService(configManager.GetGuidelines(), configManager.GetFacility(), logger)
	evaluator, err := service.NewEvaluator(scoring, decision, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create evaluator")
	}

	server := api.NewServer(configManager, store, evaluator, logger)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	logger.WithFields(logrus.Fields{
		"host":     cfg.Server.Host,
		"port":     cfg.Server.Port,
		"driver":   cfg.Database.Driver,
		"facility": cfg.Facility.Name,
	}).Info("Starting stroke triage server")

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

// openStore opens the configured record store backend: a pgx pool with
// migrations applied for "postgres", the embedded store for "sqlite".
func openStore(ctx context.Context, configManager *config.Manager, logger *logrus.Logger) (domain.RecordStore, error) {
	dbCfg := configManager.GetDatabaseConfig()

	switch dbCfg.Driver {
	case "postgres":
		runner, err := database.NewMigrationRunner(configManager.GetDatabaseURL(), dbCfg.MigrationsPath, logger)
		if err != nil {
			return nil, err
		}
		if err := runner.Up(); err != nil {
			runner.Close()
			return nil, err
		}
		runner.Close()

		db, err := database.NewConnection(ctx, dbCfg, logger)
		if err != nil {
			return nil, err
		}
		return repository.NewStore(db, logger), nil
	default:
		return records.NewSQLiteStore(dbCfg.SQLitePath, logger)
	}
}

// newLogger builds the process logger from configuration.
func newLogger(cfg *domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}
