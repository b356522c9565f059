package analyzer

import (
	"context"
	stderrors "errors"

	"atscore/internal/ai"
	"atscore/internal/cache"
	"atscore/internal/config"
	"atscore/internal/errors"
	"atscore/internal/observability"
	"atscore/internal/scoring"
	"atscore/internal/watch"
)

// SetupOptions are per-invocation overrides of the loaded configuration
type SetupOptions struct {
	DisableAI bool
}

// Setup builds an Analyzer and its collaborators from cfg. The returned
// close func releases the cache backend and stops the prompt watcher.
func Setup(ctx context.Context, cfg *config.Config, opts SetupOptions, metrics *observability.Metrics, logger *errors.Logger) (*Analyzer, func() error, error) {
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return stderrors.Join(errs...)
	}

	strategy, err := scoring.StrategyByName(cfg.Analysis.ScoringStrategy)
	if err != nil {
		return nil, closeAll, err
	}

	analysisCache, closeCache, err := cache.Open(ctx, cfg.Cache, metrics, logger)
	if err != nil {
		return nil, closeAll, err
	}
	closers = append(closers, closeCache)

	var adapter *ai.Adapter
	switch {
	case opts.DisableAI || !cfg.AI.Enabled:
		logger.Info("AI enrichment disabled, using heuristic scoring only")
	case cfg.AI.APIKey == "":
		logger.Warn("AI enrichment enabled but no API key is configured, using heuristic scoring only",
			"provider", cfg.AI.Provider)
	default:
		adapter, err = setupAdapter(ctx, cfg.AI, metrics, logger, &closers)
		if err != nil {
			_ = closeAll()
			return nil, func() error { return nil }, err
		}
	}

	a := New(Options{
		Strategy:    strategy,
		Cache:       analysisCache,
		Adapter:     adapter,
		AITimeout:   cfg.AI.Timeout,
		TempDir:     cfg.Analysis.TempDir,
		MaxFileSize: cfg.App.MaxFileSize,
		Metrics:     metrics,
		Logger:      logger,
	})
	return a, closeAll, nil
}

func setupAdapter(ctx context.Context, cfg config.AIConfig, metrics *observability.Metrics, logger *errors.Logger, closers *[]func() error) (*ai.Adapter, error) {
	generator, err := ai.NewGeminiGenerator(ctx, cfg, metrics, logger)
	if err != nil {
		return nil, err
	}

	store, err := config.NewPromptStore(cfg.CustomPrompts)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "Cannot load prompt files", err)
	}

	if cfg.CustomPrompts.WatchFiles && len(store.Files()) > 0 {
		watcher, err := watch.New(store.Files(), 0, func() {
			if err := store.Reload(); err != nil {
				logger.LogError(err, "Prompt reload failed, keeping previous prompts")
				return
			}
			logger.Info("Prompt files reloaded")
		}, logger)
		if err != nil {
			return nil, err
		}
		if err := watcher.Start(); err != nil {
			return nil, err
		}
		*closers = append(*closers, watcher.Stop)
	}

	builder := ai.NewPromptBuilder(store, cfg.CustomPrompts, ai.TruncationFromConfig(cfg.Truncation))
	params := ai.GenerationParams{
		Temperature:     cfg.Temperature,
		TopP:            cfg.TopP,
		MaxOutputTokens: cfg.MaxOutputTokens,
	}
	return ai.NewAdapter(generator, builder, params, logger), nil
}
