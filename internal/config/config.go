package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/samvaad-ai/samvaad/internal/domain"
)

// Config holds the samvaad API configuration.
type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	Database     DatabaseConfig     `yaml:"database"`
	Embedding    EmbeddingConfig    `yaml:"embedding"`
	Generation   GenerationConfig   `yaml:"generation"`
	Retrieval    RetrievalConfig    `yaml:"retrieval"`
	Conversation ConversationConfig `yaml:"conversation"`
	Auth         AuthConfig         `yaml:"auth"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings. Empty addrs means the
// service runs without Redis: retrieval uses the in-process fallback only.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // openai, hash (default: hash)
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	TimeoutSec int    `yaml:"timeout_sec"`
	Cache      bool   `yaml:"cache"`
}

// GenerationConfig holds chat completion settings. Empty api_key disables
// model generation; replies come from the local pattern composer.
type GenerationConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
	TimeoutSec  int     `yaml:"timeout_sec"`
}

// RetrievalConfig holds knowledge search settings.
type RetrievalConfig struct {
	VectorTopK   int `yaml:"vector_top_k"`
	FallbackTopK int `yaml:"fallback_top_k"`
}

// ConversationConfig holds dialogue store settings. TTLSec of 0 disables
// eviction entirely.
type ConversationConfig struct {
	TTLSec           int `yaml:"ttl_sec"`
	SweepIntervalSec int `yaml:"sweep_interval_sec"`
	HistoryWindow    int `yaml:"history_window"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "hash"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = domain.DefaultVectorDimensions
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 10
	}
	if c.Generation.Model == "" {
		c.Generation.Model = "gpt-3.5-turbo"
	}
	if c.Generation.MaxTokens <= 0 {
		c.Generation.MaxTokens = 500
	}
	if c.Generation.Temperature <= 0 {
		c.Generation.Temperature = 0.7
	}
	if c.Generation.TimeoutSec <= 0 {
		c.Generation.TimeoutSec = 15
	}
	if c.Retrieval.VectorTopK <= 0 {
		c.Retrieval.VectorTopK = 5
	}
	if c.Retrieval.FallbackTopK <= 0 {
		c.Retrieval.FallbackTopK = 3
	}
	if c.Conversation.SweepIntervalSec <= 0 {
		c.Conversation.SweepIntervalSec = 300
	}
	if c.Conversation.HistoryWindow <= 0 {
		c.Conversation.HistoryWindow = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Embedding.Provider {
	case "hash":
		// no credentials needed
	case "openai":
		if c.Embedding.Model == "" {
			return fmt.Errorf("embedding.model is required when embedding.provider is openai")
		}
	default:
		return fmt.Errorf("embedding.provider must be \"openai\" or \"hash\", got %q", c.Embedding.Provider)
	}
	if c.Conversation.TTLSec < 0 {
		return fmt.Errorf("conversation.ttl_sec must not be negative, got %d", c.Conversation.TTLSec)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
