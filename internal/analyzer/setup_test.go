package analyzer

import (
	"context"
	"testing"

	"atscore/internal/config"
	"atscore/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupConfig() *config.Config {
	return &config.Config{
		AI:       config.AIConfig{Enabled: true, Provider: "gemini"},
		Analysis: config.AnalysisConfig{ScoringStrategy: "fallback"},
		Cache:    config.CacheConfig{Enabled: true, Backend: "memory", MaxEntries: 10},
	}
}

func TestSetupWithoutAPIKeyFallsBackToHeuristic(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(*config.Config)
		opts SetupOptions
	}{
		{"enabled without key", func(*config.Config) {}, SetupOptions{}},
		{"disabled per run", func(c *config.Config) { c.AI.APIKey = "key" }, SetupOptions{DisableAI: true}},
		{"disabled in config", func(c *config.Config) { c.AI.Enabled = false }, SetupOptions{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := setupConfig()
			tt.cfg(cfg)

			a, closeFn, err := Setup(context.Background(), cfg, tt.opts, nil, nil)
			require.NoError(t, err)
			defer func() { assert.NoError(t, closeFn()) }()

			assert.False(t, a.adapter.Enabled())

			resp, err := a.Analyze(context.Background(), types.AnalysisRequest{
				FilePath: writeFile(t, "john.txt", johnDoe),
				Mode:     types.ModeGeneral,
			})
			require.NoError(t, err)
			assert.True(t, resp.Success)
			assert.False(t, resp.AIEnhanced)
			assert.Equal(t, types.SchemeFallback, resp.ScoringScheme)
		})
	}
}

func TestSetupRejectsUnknownStrategy(t *testing.T) {
	cfg := setupConfig()
	cfg.Analysis.ScoringStrategy = "weighted"

	_, closeFn, err := Setup(context.Background(), cfg, SetupOptions{}, nil, nil)
	require.Error(t, err)
	assert.NoError(t, closeFn())
}
