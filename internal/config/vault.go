package config

import (
	"fmt"
	"os"
	"strings"

	"atscore/internal/errors"

	"github.com/hashicorp/vault/api"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets names the KVv2 paths secrets are read from. Empty paths are
// skipped.
type VaultSecrets struct {
	GeminiKey string `mapstructure:"geminiKey"` // key "api_key"
	Redis     string `mapstructure:"redis"`     // key "url"
}

// secretReader reads one string field of a KVv2 secret
type secretReader interface {
	ReadString(path, key string) (string, error)
}

// vaultReader reads KVv2 secrets through the Vault HTTP API
type vaultReader struct {
	logical *api.Logical
	logger  *errors.Logger
}

func newVaultReader(cfg VaultConfig, logger *errors.Logger) (*vaultReader, error) {
	apiConfig := api.DefaultConfig()
	if cfg.Address != "" {
		apiConfig.Address = cfg.Address
	}
	client, err := api.NewClient(apiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	token, err := vaultToken(cfg)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().Health()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vault at %s: %w", client.Address(), err)
	}
	if health.Sealed {
		return nil, fmt.Errorf("vault at %s is sealed", client.Address())
	}
	logger.Info("Connected to Vault", "address", client.Address(), "version", health.Version)

	return &vaultReader{logical: client.Logical(), logger: logger}, nil
}

// vaultToken prefers the inline token and falls back to the token file
func vaultToken(cfg VaultConfig) (string, error) {
	token := cfg.Token
	if token == "" && cfg.TokenFile != "" {
		raw, err := os.ReadFile(cfg.TokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(raw))
	}
	if token == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}
	return token, nil
}

func (r *vaultReader) ReadString(path, key string) (string, error) {
	secret, err := r.logical.Read(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret %s: %w", path, err)
	}
	if secret == nil {
		return "", fmt.Errorf("secret not found at path: %s", path)
	}
	r.logger.Debug("Read secret from Vault", "path", path, "key", key)
	return stringField(secret.Data, path, key)
}

// stringField pulls key out of the "data" envelope of a KVv2 response
func stringField(raw map[string]any, path, key string) (string, error) {
	data, ok := raw["data"].(map[string]any)
	if !ok {
		return "", fmt.Errorf("secret at %s is not a KVv2 secret (no data field)", path)
	}
	value, ok := data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %s", key, path)
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("key %q in secret %s is %T, not a string", key, path, value)
	}
	return s, nil
}

// ApplyVaultSecrets overwrites config fields with the secrets configured
// under vault.secrets. It does nothing when Vault is disabled.
func ApplyVaultSecrets(cfg *Config, logger *errors.Logger) error {
	if !cfg.Vault.Enabled {
		logger.Debug("Vault integration disabled, skipping secret loading")
		return nil
	}

	reader, err := newVaultReader(cfg.Vault, logger)
	if err != nil {
		logger.LogError(err, "Failed to initialize Vault client")
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}
	return applySecrets(reader, cfg, logger)
}

// vaultTarget binds a secret path to the config field it fills
type vaultTarget struct {
	name string
	path string
	key  string
	dst  *string
}

func applySecrets(reader secretReader, cfg *Config, logger *errors.Logger) error {
	targets := []vaultTarget{
		{name: "Gemini API key", path: cfg.Vault.Secrets.GeminiKey, key: "api_key", dst: &cfg.AI.APIKey},
		{name: "Redis URL", path: cfg.Vault.Secrets.Redis, key: "url", dst: &cfg.Cache.RedisURL},
	}

	for _, t := range targets {
		if t.path == "" {
			continue
		}
		value, err := reader.ReadString(t.path, t.key)
		if err != nil {
			logger.LogError(err, "Failed to load secret from Vault", "secret", t.name, "path", t.path)
			return fmt.Errorf("failed to load %s from vault: %w", t.name, err)
		}
		if value == "" {
			logger.Warn("Empty secret in Vault, keeping configured value", "secret", t.name, "path", t.path)
			continue
		}
		*t.dst = value
		logger.Info("Secret loaded from Vault", "secret", t.name)
	}
	return nil
}
