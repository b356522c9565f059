package cli

import (
	"context"
	"fmt"

	"atscore/internal/config"
	"atscore/internal/errors"
	"atscore/internal/observability"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}
type metricsKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}
var metricsKey = metricsKeyType{}

var rootCmd = &cobra.Command{
	Use:   "atscore",
	Short: "Score resumes for applicant tracking system compatibility",
	Long: `atscore scores a resume the way an applicant tracking system reads it.
It checks structure, layout, fonts and content, compares the resume with a job
description when one is given, and can refine the verdict with an AI model.`,
	SilenceUsage: true,
}

// Execute runs the root command. metrics may be nil.
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger, metrics *observability.Metrics) error {
	// Attach shared state to the context, making it available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	ctx = context.WithValue(ctx, metricsKey, metrics)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok && cfg != nil {
		return cfg, nil
	}
	return nil, fmt.Errorf("config not found in context")
}

func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok && logger != nil {
		return logger, nil
	}
	return nil, fmt.Errorf("logger not found in context")
}

// metrics are optional
func getMetricsFromContext(ctx context.Context) *observability.Metrics {
	metrics, _ := ctx.Value(metricsKey).(*observability.Metrics)
	return metrics
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
