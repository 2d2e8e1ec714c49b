package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 8080},
		Upstream:  UpstreamConfig{BaseURL: "http://gateway:8000"},
		Endpoints: EndpointsConfig{Catalog: EndpointConfig{Host: "catalog"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"invalid port", func(c *Config) { c.HTTP.Port = 0 },
			"http.port must be between 1 and 65535, got 0"},
		{"admin port clash", func(c *Config) { c.HTTP.AdminPort = 8080 },
			"http.admin_port must be a free port other than http.port, got 8080"},
		{"missing upstream", func(c *Config) { c.Upstream.BaseURL = "" },
			"upstream.base_url is required"},
		{"missing catalog", func(c *Config) { c.Endpoints.Catalog.Host = "" },
			"endpoints.catalog.host is required"},
		{"unknown driver", func(c *Config) { c.Index.Driver = "sqlite" },
			`index.driver must be "bleve" or "redis", got "sqlite"`},
		{"redis without addrs", func(c *Config) { c.Index.Driver = DriverRedis },
			"index.redis.addrs is required for the redis driver"},
		{"kafka without brokers", func(c *Config) { c.Kafka.Enabled = true },
			"kafka.brokers is required when kafka is enabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), tt.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.AdminPort != 9090 {
		t.Errorf("expected AdminPort=9090, got %d", cfg.HTTP.AdminPort)
	}
	if cfg.Index.Driver != DriverBleve {
		t.Errorf("expected driver=%q, got %q", DriverBleve, cfg.Index.Driver)
	}
	if cfg.Index.Root != "data" {
		t.Errorf("expected root=data, got %q", cfg.Index.Root)
	}
	if cfg.Index.BufferSize != 64 || cfg.Index.BatchSize != 100 {
		t.Errorf("expected buffer=64 batch=100, got %d %d", cfg.Index.BufferSize, cfg.Index.BatchSize)
	}
	if cfg.Index.Redis.KeyPrefix != "bizsearch:" {
		t.Errorf("expected KeyPrefix=bizsearch:, got %q", cfg.Index.Redis.KeyPrefix)
	}
	if cfg.Enrichment.Timeout() != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", cfg.Enrichment.Timeout())
	}
	if cfg.Enrichment.CacheTTL() != 10*time.Minute {
		t.Errorf("expected cache ttl 10m, got %v", cfg.Enrichment.CacheTTL())
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		Index:      IndexConfig{Driver: DriverRedis, BufferSize: 8},
		Enrichment: EnrichmentConfig{CacheSize: -1, TimeoutMs: 250},
	}
	cfg.ApplyDefaults()

	if cfg.Index.Driver != DriverRedis {
		t.Errorf("driver overridden: %q", cfg.Index.Driver)
	}
	if cfg.Index.Root != "" {
		t.Errorf("redis driver must not get a root dir, got %q", cfg.Index.Root)
	}
	if cfg.Index.BufferSize != 8 {
		t.Errorf("buffer size overridden: %d", cfg.Index.BufferSize)
	}
	if cfg.Enrichment.CacheSize != -1 || cfg.Enrichment.TimeoutMs != 250 {
		t.Errorf("enrichment overridden: %+v", cfg.Enrichment)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("BIZSEARCH_TEST_HOST", "catalog.internal")

	got := string(expandEnvVars([]byte("host: ${BIZSEARCH_TEST_HOST}\nport: ${BIZSEARCH_TEST_UNSET:-8080}\n")))
	want := "host: catalog.internal\nport: 8080\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	data := []byte(`
http:
  port: 8080
upstream:
  base_url: http://gateway:8000
endpoints:
  catalog:
    host: ${BIZSEARCH_TEST_CATALOG:-catalog}
    port: 8081
kafka:
  enabled: false
`)
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), data, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoints.Catalog.Host != "catalog" || cfg.Endpoints.Catalog.Port != 8081 {
		t.Errorf("catalog endpoint = %+v", cfg.Endpoints.Catalog)
	}
	if cfg.Index.Driver != DriverBleve {
		t.Errorf("defaults not applied: %+v", cfg.Index)
	}
}
