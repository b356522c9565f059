package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atscore/internal/cli"
	"atscore/internal/config"
	"atscore/internal/errors"
	"atscore/internal/observability"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; real environment variables still apply
	_ = godotenv.Load()

	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		logger.LogError(err, "Failed to apply Vault secrets")
		os.Exit(1)
	}
	if err := cfg.ValidateSecrets(); err != nil {
		logger.LogError(err, "Invalid configuration")
		os.Exit(1)
	}

	obs, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, cli.Version))
	if err != nil {
		logger.LogError(err, "Failed to initialize observability")
		os.Exit(1)
	}

	logger.Debug("Starting atscore",
		"version", cli.Version,
		"log_level", cfg.App.LogLevel,
		"ai_enabled", cfg.AI.Enabled,
		"ai_provider", cfg.AI.Provider,
		"scoring_strategy", cfg.Analysis.ScoringStrategy,
		"cache_backend", cfg.Cache.Backend)

	runErr := cli.Execute(ctx, cfg, logger, obs.Metrics())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := obs.Shutdown(shutdownCtx); err != nil {
		logger.LogError(err, "Failed to shut down observability")
	}

	if runErr != nil {
		logger.LogError(runErr, "Application execution failed")
		cancel()
		stop()
		os.Exit(1)
	}
}
