package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretReader struct {
	secrets map[string]string
	err     error
	reads   int
}

func (f *fakeSecretReader) ReadString(path, key string) (string, error) {
	f.reads++
	if f.err != nil {
		return "", f.err
	}
	return f.secrets[path+"#"+key], nil
}

func TestVaultToken(t *testing.T) {
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token \n"), 0600))
	blankFile := filepath.Join(dir, "blank")
	require.NoError(t, os.WriteFile(blankFile, []byte(" \n"), 0600))

	tests := []struct {
		name    string
		cfg     VaultConfig
		want    string
		wantErr string
	}{
		{"inline wins", VaultConfig{Token: "inline", TokenFile: tokenFile}, "inline", ""},
		{"file is trimmed", VaultConfig{TokenFile: tokenFile}, "file-token", ""},
		{"missing file", VaultConfig{TokenFile: filepath.Join(dir, "nope")}, "", "failed to read vault token file"},
		{"blank file", VaultConfig{TokenFile: blankFile}, "", "vault token is required"},
		{"nothing configured", VaultConfig{}, "", "vault token is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := vaultToken(tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringField(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		want    string
		wantErr string
	}{
		{"kv2 value", map[string]any{"data": map[string]any{"api_key": "k"}}, "k", ""},
		{"no version metadata needed", map[string]any{"data": map[string]any{"api_key": "k"}, "metadata": nil}, "k", ""},
		{"kv1 layout", map[string]any{"api_key": "k"}, "", "not a KVv2 secret"},
		{"missing key", map[string]any{"data": map[string]any{"other": "k"}}, "", `key "api_key" not found`},
		{"not a string", map[string]any{"data": map[string]any{"api_key": 42}}, "", "not a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := stringField(tt.raw, "secret/data/atscore/gemini", "api_key")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{AI: AIConfig{APIKey: "env-key"}}
	require.NoError(t, ApplyVaultSecrets(cfg, nil))
	assert.Equal(t, "env-key", cfg.AI.APIKey)
}

func TestApplySecrets(t *testing.T) {
	t.Run("gemini key and redis url applied", func(t *testing.T) {
		cfg := &Config{
			Vault: VaultConfig{Secrets: VaultSecrets{GeminiKey: "secret/data/atscore/gemini", Redis: "secret/data/atscore/redis"}},
		}
		reader := &fakeSecretReader{secrets: map[string]string{
			"secret/data/atscore/gemini#api_key": "vault-gemini-key",
			"secret/data/atscore/redis#url":      "redis://cache:6379/0",
		}}

		require.NoError(t, applySecrets(reader, cfg, nil))
		assert.Equal(t, "vault-gemini-key", cfg.AI.APIKey)
		assert.Equal(t, "redis://cache:6379/0", cfg.Cache.RedisURL)
	})

	t.Run("unset paths are not read", func(t *testing.T) {
		cfg := &Config{AI: AIConfig{APIKey: "env-key"}}
		reader := &fakeSecretReader{err: assert.AnError}

		require.NoError(t, applySecrets(reader, cfg, nil))
		assert.Equal(t, "env-key", cfg.AI.APIKey)
		assert.Zero(t, reader.reads)
	})

	t.Run("empty secret keeps existing value", func(t *testing.T) {
		cfg := &Config{
			AI:    AIConfig{APIKey: "env-key"},
			Vault: VaultConfig{Secrets: VaultSecrets{GeminiKey: "secret/data/atscore/gemini"}},
		}

		require.NoError(t, applySecrets(&fakeSecretReader{}, cfg, nil))
		assert.Equal(t, "env-key", cfg.AI.APIKey)
	})

	t.Run("read failure is returned", func(t *testing.T) {
		cfg := &Config{
			Vault: VaultConfig{Secrets: VaultSecrets{Redis: "secret/data/atscore/redis"}},
		}

		err := applySecrets(&fakeSecretReader{err: assert.AnError}, cfg, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load Redis URL from vault")
		assert.ErrorIs(t, err, assert.AnError)
	})
}
