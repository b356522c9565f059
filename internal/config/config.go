package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// API Key Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (ATSCORE_AI_APIKEY, then legacy GEMINI_API_KEY)
// 4. Default values - Lowest priority
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Analysis      AnalysisConfig      `mapstructure:"analysis"`
	Cache         CacheConfig         `mapstructure:"cache"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AIConfig holds the enrichment collaborator configuration
type AIConfig struct {
	Enabled          bool                 `mapstructure:"enabled"`
	Provider         string               `mapstructure:"provider"`
	Model            string               `mapstructure:"model"`
	Timeout          time.Duration        `mapstructure:"timeout"`
	APIKey           string               `mapstructure:"apiKey"`
	MaxRetries       int                  `mapstructure:"maxRetries"`
	Temperature      float32              `mapstructure:"temperature"`
	TopP             float32              `mapstructure:"topP"`
	MaxOutputTokens  int32                `mapstructure:"maxOutputTokens"`
	UseSystemPrompts bool                 `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig         `mapstructure:"customPrompts"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
	RateLimit        RateLimitConfig      `mapstructure:"rateLimit"`
	Truncation       TruncationConfig     `mapstructure:"truncation"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// RateLimitConfig bounds outgoing AI requests
type RateLimitConfig struct {
	Enabled        bool `mapstructure:"enabled"`        // Enable/disable rate limiting
	RequestsPerMin int  `mapstructure:"requestsPerMin"` // Requests allowed per minute
	BurstCapacity  int  `mapstructure:"burstCapacity"`  // Burst capacity for token bucket
}

// TruncationConfig caps how much text is embedded in a prompt
type TruncationConfig struct {
	ResumeChars         int `mapstructure:"resumeChars"`
	JobDescriptionChars int `mapstructure:"jobDescriptionChars"`
}

// PromptConfig holds customizable prompts. Inline text wins over the
// built-in defaults, a file wins over inline text.
type PromptConfig struct {
	SystemPrompt     string `mapstructure:"systemPrompt"`
	SystemPromptFile string `mapstructure:"systemPromptFile"`
	UserPrompt       string `mapstructure:"userPrompt"`
	UserPromptFile   string `mapstructure:"userPromptFile"`
	WatchFiles       bool   `mapstructure:"watchFiles"`
}

// AnalysisConfig holds pipeline settings
type AnalysisConfig struct {
	ScoringStrategy string `mapstructure:"scoringStrategy"` // "fallback" (default) or "advanced"
	DefaultMode     string `mapstructure:"defaultMode"`
	TempDir         string `mapstructure:"tempDir"` // empty means os.TempDir()
}

// CacheConfig holds analysis cache settings
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Backend    string        `mapstructure:"backend"` // "memory" or "redis"
	MaxEntries int           `mapstructure:"maxEntries"`
	RedisURL   string        `mapstructure:"redisURL"`
	KeyPrefix  string        `mapstructure:"keyPrefix"`
	TTL        time.Duration `mapstructure:"ttl"` // 0 keeps entries until evicted
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool             `mapstructure:"enabled"`
	ServiceName     string           `mapstructure:"serviceName"`
	ServiceVersion  string           `mapstructure:"serviceVersion"`
	ServiceInstance string           `mapstructure:"serviceInstance"`
	ConsoleOutput   bool             `mapstructure:"consoleOutput"`
	SampleRate      float64          `mapstructure:"sampleRate"`
	Tracing         TracingConfig    `mapstructure:"tracing"`
	Metrics         MetricsConfig    `mapstructure:"metrics"`
	Console         ConsoleConfig    `mapstructure:"console"`
	Prometheus      PrometheusConfig `mapstructure:"prometheus"`
	OTLP            OTLPConfig       `mapstructure:"otlp"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := viper.New()

	setDefaults(v)
	log.Println("[CONFIG] Applied default configuration values")

	v.SetEnvPrefix("ATSCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	log.Println("[CONFIG] Configured environment variable handling with prefix 'ATSCORE'")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/atscore/")
	v.AddConfigPath("$HOME/.atscore")
	v.AddConfigPath(".")
	log.Println("[CONFIG] Configured config file search paths: /etc/atscore/, $HOME/.atscore, .")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
	}

	return unmarshalConfig(v, configFileUsed)
}

// unmarshalConfig finishes loading from a prepared viper instance
func unmarshalConfig(v *viper.Viper, configFileUsed string) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	log.Println("[CONFIG] Successfully unmarshaled configuration")

	config.applyFallbacks()
	log.Println("[CONFIG] Applied configuration fallbacks and environment variable overrides")

	config.logConfigurationSources(configFileUsed)

	if err := config.validatePromptFiles(); err != nil {
		return nil, fmt.Errorf("prompt file validation failed: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// AI Configuration
	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.maxRetries", 2)
	v.SetDefault("ai.temperature", 0.1) // near zero keeps the reply structure stable
	v.SetDefault("ai.topP", 0.95)
	v.SetDefault("ai.maxOutputTokens", 2048)
	v.SetDefault("ai.useSystemPrompts", true)
	v.SetDefault("ai.customPrompts.watchFiles", false)

	v.SetDefault("ai.circuitBreaker.enabled", true)
	v.SetDefault("ai.circuitBreaker.maxRequests", 3)
	v.SetDefault("ai.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("ai.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("ai.circuitBreaker.minRequests", 3)
	v.SetDefault("ai.circuitBreaker.failureThreshold", 0.6)

	v.SetDefault("ai.rateLimit.enabled", true)
	v.SetDefault("ai.rateLimit.requestsPerMin", 30)
	v.SetDefault("ai.rateLimit.burstCapacity", 5)

	v.SetDefault("ai.truncation.resumeChars", 12000)
	v.SetDefault("ai.truncation.jobDescriptionChars", 6000)

	// Analysis Configuration
	v.SetDefault("analysis.scoringStrategy", "fallback")
	v.SetDefault("analysis.defaultMode", "general")
	v.SetDefault("analysis.tempDir", "")

	// Cache Configuration
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.maxEntries", 1000)
	v.SetDefault("cache.redisURL", "")
	v.SetDefault("cache.keyPrefix", "atscore:analysis:")
	v.SetDefault("cache.ttl", 0)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "text")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 5*1024*1024) // 5MB

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.geminiKey", "")
	v.SetDefault("vault.secrets.redis", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.serviceName", "atscore")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)
	v.SetDefault("observability.prometheus.enabled", false)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.AI.Enabled {
		if c.AI.Provider != "gemini" {
			return fmt.Errorf("unsupported AI provider: %s", c.AI.Provider)
		}
		if c.AI.Timeout <= 0 {
			return fmt.Errorf("AI timeout must be positive")
		}
		if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
			return fmt.Errorf("AI temperature must be within [0, 2], got %v", c.AI.Temperature)
		}
	}

	if c.AI.Truncation.ResumeChars <= 0 || c.AI.Truncation.JobDescriptionChars <= 0 {
		return fmt.Errorf("truncation budgets must be positive")
	}

	switch c.Analysis.ScoringStrategy {
	case "advanced", "fallback":
	default:
		return fmt.Errorf("invalid scoring strategy: %s (must be 'advanced' or 'fallback')", c.Analysis.ScoringStrategy)
	}

	switch c.Analysis.DefaultMode {
	case "general", "job-specific":
	default:
		return fmt.Errorf("invalid default mode: %s", c.Analysis.DefaultMode)
	}

	if c.Cache.Enabled {
		switch c.Cache.Backend {
		case "memory":
			if c.Cache.MaxEntries <= 0 {
				return fmt.Errorf("cache maxEntries must be positive for the memory backend")
			}
		case "redis":
		default:
			return fmt.Errorf("invalid cache backend: %s (must be 'memory' or 'redis')", c.Cache.Backend)
		}
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	return nil
}

// ValidateSecrets checks the secrets that may arrive late from Vault. Call it
// after ApplyVaultSecrets. A missing AI key is not an error: analysis falls
// back to heuristic scoring.
func (c *Config) ValidateSecrets() error {
	if c.Cache.Enabled && c.Cache.Backend == "redis" && c.Cache.RedisURL == "" {
		return fmt.Errorf("cache redisURL is required for the redis backend")
	}
	return nil
}

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	if c.AI.APIKey == "" {
		c.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}

	// Set console output based on log level if not explicitly configured
	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

// generateServiceInstanceID generates a unique service instance ID
func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		"ATSCORE_AI_APIKEY",
		"ATSCORE_AI_ENABLED",
		"ATSCORE_AI_MODEL",
		"ATSCORE_ANALYSIS_SCORINGSTRATEGY",
		"ATSCORE_CACHE_BACKEND",
		"ATSCORE_CACHE_REDISURL",
		"ATSCORE_APP_LOGLEVEL",
		"ATSCORE_VAULT_ENABLED",
		"GEMINI_API_KEY", // Legacy support
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			if isSensitiveEnv(envVar) {
				log.Printf("[CONFIG]   %s=***MASKED***", envVar)
			} else {
				log.Printf("[CONFIG]   %s=%s", envVar, value)
			}
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] AI Enabled: %t", c.AI.Enabled)
	log.Printf("[CONFIG] AI Provider: %s", c.AI.Provider)
	log.Printf("[CONFIG] AI Model: %s", c.AI.Model)
	if c.AI.APIKey != "" {
		log.Println("[CONFIG] AI API Key: ***CONFIGURED***")
	} else {
		log.Println("[CONFIG] AI API Key: ***NOT SET***")
	}
	log.Printf("[CONFIG] Scoring Strategy: %s", c.Analysis.ScoringStrategy)
	log.Printf("[CONFIG] Cache: enabled=%t backend=%s", c.Cache.Enabled, c.Cache.Backend)
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)
	log.Println("[CONFIG] =====================================")
}

func isSensitiveEnv(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "key") || strings.Contains(lower, "redisurl")
}

// Masked returns a copy safe for printing, with secrets replaced
func (c *Config) Masked() Config {
	out := *c
	out.AI.APIKey = maskSecret(c.AI.APIKey)
	out.Vault.Token = maskSecret(c.Vault.Token)
	out.Cache.RedisURL = maskSecret(c.Cache.RedisURL)
	return out
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "***MASKED***"
}
