package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"formflow/internal/config"
	"formflow/internal/filter"
	"formflow/internal/handler"
	"formflow/internal/logging"
	"formflow/internal/repository/postgres"
	"formflow/internal/router"
	"formflow/internal/service"
	"formflow/internal/validator"
)

func main() {
	if err := run(); err != nil {
		log.Fatal("server exited", "err", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	activityRepo := postgres.NewActivityRepo(db)
	instanceRepo := postgres.NewInstanceRepo(db)
	optionRepo := postgres.NewOptionSourceRepo(db)

	// Register option sources
	options := validator.NewOptionRegistry()
	names, err := optionRepo.Names(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load option sources: %w", err)
	}
	for _, name := range names {
		options.Register(optionRepo.Provider(name))
	}
	options.SetResolver(optionRepo.Provider)
	logger.Info("option sources registered", "sources", options.Names())

	// Initialize validation
	dataFilter := filter.NewRestrictedFilter(cfg.Validation.RestrictedReader, logger.WithPrefix("filter"))
	factory := validator.NewFactory(options, logger.WithPrefix("factory"))
	engine := validator.NewEngine(dataFilter, logger.WithPrefix("engine"))

	// Initialize services
	validationSvc := service.NewValidationService(activityRepo, instanceRepo, factory, engine, cfg.Validation, logger)

	// Initialize handlers
	validationH := handler.NewValidationHandler(validationSvc, logger)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, logger, validationH, healthH)

	logger.Info("server starting", "addr", cfg.Server.Port, "environment", cfg.Server.Environment)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
