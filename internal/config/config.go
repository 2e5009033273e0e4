package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the searchd configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Redis     RedisConfig     `yaml:"redis"`
	DocStore  ServiceConfig   `yaml:"docstore"`
	VecIndex  ServiceConfig   `yaml:"vecindex"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Auth      AuthConfig      `yaml:"auth"`
	Cache     CacheConfig     `yaml:"cache"`
	Search    SearchConfig    `yaml:"search"`
	Logging   LoggingConfig   `yaml:"logging"`
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

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// ServiceConfig holds settings for an internal HTTP collaborator
// (document service, vector index service).
type ServiceConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// CacheConfig holds the TTL cache namespace settings.
type CacheConfig struct {
	ResponseTTLSec   int `yaml:"response_ttl_sec"`
	ResponseMax      int `yaml:"response_max_entries"`
	EmbeddingTTLSec  int `yaml:"embedding_ttl_sec"`
	SuggestionTTLSec int `yaml:"suggestion_ttl_sec"`
	DocumentTTLSec   int `yaml:"document_ttl_sec"`
}

// SearchConfig holds retrieval and pagination limits.
type SearchConfig struct {
	KeywordFetchLimit int `yaml:"keyword_fetch_limit"`
	SemanticTopK      int `yaml:"semantic_top_k"`
	MaxPerGroup       int `yaml:"max_per_group"`
	DefaultPerPage    int `yaml:"default_per_page"`
	MaxPerPage        int `yaml:"max_per_page"`
	QueryLogSample    int `yaml:"query_log_sample"`
	QueryLogMax       int `yaml:"query_log_max"`
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
	if c.Redis.ReadinessTimeout <= 0 {
		c.Redis.ReadinessTimeout = 10
	}
	if c.DocStore.TimeoutSec <= 0 {
		c.DocStore.TimeoutSec = 5
	}
	if c.VecIndex.TimeoutSec <= 0 {
		c.VecIndex.TimeoutSec = 5
	}
	if c.Cache.ResponseTTLSec <= 0 {
		c.Cache.ResponseTTLSec = 300 // 5 min
	}
	if c.Cache.ResponseMax <= 0 {
		c.Cache.ResponseMax = 1000
	}
	if c.Cache.EmbeddingTTLSec <= 0 {
		c.Cache.EmbeddingTTLSec = 3600 // 1 hour
	}
	if c.Cache.SuggestionTTLSec <= 0 {
		c.Cache.SuggestionTTLSec = 600 // 10 min
	}
	if c.Cache.DocumentTTLSec <= 0 {
		c.Cache.DocumentTTLSec = 120
	}
	if c.Search.KeywordFetchLimit <= 0 {
		c.Search.KeywordFetchLimit = 100
	}
	if c.Search.SemanticTopK <= 0 {
		c.Search.SemanticTopK = 50
	}
	if c.Search.MaxPerGroup <= 0 {
		c.Search.MaxPerGroup = 3
	}
	if c.Search.DefaultPerPage <= 0 {
		c.Search.DefaultPerPage = 20
	}
	if c.Search.MaxPerPage <= 0 {
		c.Search.MaxPerPage = 100
	}
	if c.Search.QueryLogSample <= 0 {
		c.Search.QueryLogSample = 200
	}
	if c.Search.QueryLogMax <= 0 {
		c.Search.QueryLogMax = 5000
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Redis.Addrs) == 0 {
		return fmt.Errorf("redis.addrs is required")
	}
	if c.DocStore.BaseURL == "" {
		return fmt.Errorf("docstore.base_url is required")
	}
	if c.VecIndex.BaseURL == "" {
		return fmt.Errorf("vecindex.base_url is required")
	}
	if c.Search.DefaultPerPage > c.Search.MaxPerPage {
		return fmt.Errorf("search.default_per_page %d exceeds search.max_per_page %d",
			c.Search.DefaultPerPage, c.Search.MaxPerPage)
	}
	return nil
}

// ResponseTTL returns the response cache TTL as a duration.
func (c *CacheConfig) ResponseTTL() time.Duration { return secs(c.ResponseTTLSec) }

// EmbeddingTTL returns the embedding cache TTL as a duration.
func (c *CacheConfig) EmbeddingTTL() time.Duration { return secs(c.EmbeddingTTLSec) }

// SuggestionTTL returns the suggestion cache TTL as a duration.
func (c *CacheConfig) SuggestionTTL() time.Duration { return secs(c.SuggestionTTLSec) }

// DocumentTTL returns the document cache TTL as a duration.
func (c *CacheConfig) DocumentTTL() time.Duration { return secs(c.DocumentTTLSec) }

func secs(n int) time.Duration { return time.Duration(n) * time.Second }

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
