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

// Index drivers.
const (
	DriverBleve = "bleve"
	DriverRedis = "redis"
)

// Config holds the bizsearch configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Endpoints  EndpointsConfig  `yaml:"endpoints"`
	Index      IndexConfig      `yaml:"index"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds admin API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings. Port serves the gateway, AdminPort
// the index admin API, health and metrics.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	AdminPort       int `yaml:"admin_port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// UpstreamConfig locates the backend API gateway list requests are proxied to.
type UpstreamConfig struct {
	BaseURL string `yaml:"base_url"`
}

// EndpointsConfig locates the backend APIs used for enrichment.
type EndpointsConfig struct {
	Catalog EndpointConfig `yaml:"catalog"`
}

// EndpointConfig locates one backend API.
type EndpointConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
	SSL  bool   `yaml:"ssl"`
}

// IndexConfig selects and tunes the index driver.
type IndexConfig struct {
	Driver     string      `yaml:"driver"` // bleve, redis (default: bleve)
	Root       string      `yaml:"root"`
	BufferSize int         `yaml:"buffer_size"`
	BatchSize  int         `yaml:"batch_size"`
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig holds the redis driver connection settings.
type RedisConfig struct {
	Addrs     []string `yaml:"addrs"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	DB        int      `yaml:"db"`
	KeyPrefix string   `yaml:"key_prefix"`
}

// EnrichmentConfig tunes catalog lookups.
type EnrichmentConfig struct {
	TimeoutMs   int     `yaml:"timeout_ms"`
	CacheSize   int     `yaml:"cache_size"` // -1 disables the category cache
	CacheTTLSec int     `yaml:"cache_ttl_sec"`
	RateLimit   float64 `yaml:"rate_limit"` // lookups per second, 0 = unlimited
	Burst       int     `yaml:"burst"`
}

// Timeout returns the lookup timeout.
func (e EnrichmentConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutMs) * time.Millisecond
}

// CacheTTL returns the category cache TTL.
func (e EnrichmentConfig) CacheTTL() time.Duration {
	return time.Duration(e.CacheTTLSec) * time.Second
}

// KafkaConfig holds the change-notification consumer settings.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
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
	if c.HTTP.AdminPort <= 0 {
		c.HTTP.AdminPort = 9090
	}
	if c.Index.Driver == "" {
		c.Index.Driver = DriverBleve
	}
	if c.Index.Root == "" && c.Index.Driver == DriverBleve {
		c.Index.Root = "data"
	}
	if c.Index.BufferSize <= 0 {
		c.Index.BufferSize = 64
	}
	if c.Index.BatchSize <= 0 {
		c.Index.BatchSize = 100
	}
	if c.Index.Redis.KeyPrefix == "" {
		c.Index.Redis.KeyPrefix = "bizsearch:"
	}
	if c.Endpoints.Catalog.Port <= 0 {
		c.Endpoints.Catalog.Port = 80
	}
	if c.Enrichment.TimeoutMs <= 0 {
		c.Enrichment.TimeoutMs = 5000
	}
	if c.Enrichment.CacheTTLSec <= 0 {
		c.Enrichment.CacheTTLSec = 600
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "bizsearch.changes"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "bizsearch"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.HTTP.AdminPort > 65535 || c.HTTP.AdminPort == c.HTTP.Port {
		return fmt.Errorf("http.admin_port must be a free port other than http.port, got %d", c.HTTP.AdminPort)
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	if c.Endpoints.Catalog.Host == "" {
		return fmt.Errorf("endpoints.catalog.host is required")
	}
	switch c.Index.Driver {
	case DriverBleve:
	case DriverRedis:
		if len(c.Index.Redis.Addrs) == 0 {
			return fmt.Errorf("index.redis.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("index.driver must be %q or %q, got %q", DriverBleve, DriverRedis, c.Index.Driver)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
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
