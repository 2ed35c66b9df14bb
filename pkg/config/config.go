package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Address         string        `yaml:"address"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Mongo struct {
		URI            string        `yaml:"uri"`
		Database       string        `yaml:"database"`
		ConnectTimeout time.Duration `yaml:"connect_timeout"`
		QueryTimeout   time.Duration `yaml:"query_timeout"`
	} `yaml:"mongo"`

	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		PoolSize int    `yaml:"pool_size"`
	} `yaml:"redis"`

	Auth struct {
		AccessTokenSecret  string        `yaml:"access_token_secret"`
		RefreshTokenSecret string        `yaml:"refresh_token_secret"`
		AccessTokenTTL     time.Duration `yaml:"access_token_ttl"`
		RefreshTokenTTL    time.Duration `yaml:"refresh_token_ttl"`
		CookieDomain       string        `yaml:"cookie_domain"`
		CookieSecure       bool          `yaml:"cookie_secure"`
	} `yaml:"auth"`

	Media struct {
		Endpoint  string `yaml:"endpoint"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		Bucket    string `yaml:"bucket"`
		UseSSL    bool   `yaml:"use_ssl"`
		PublicURL string `yaml:"public_url"`
	} `yaml:"media"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Tracing struct {
		Enabled     bool    `yaml:"enabled"`
		JaegerURL   string  `yaml:"jaeger_url"`
		Environment string  `yaml:"environment"`
		SampleRate  float64 `yaml:"sample_rate"`
	} `yaml:"tracing"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	RateLimiting struct {
		Enabled           bool    `yaml:"enabled"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
		MaxConcurrent     int     `yaml:"max_concurrent"`
	} `yaml:"rate_limiting"`

	Pagination struct {
		DefaultLimit int `yaml:"default_limit"`
		MaxLimit     int `yaml:"max_limit"`
	} `yaml:"pagination"`
}

// Validate checks that configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	// Server
	if c.Server.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be > 0")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be > 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0")
	}

	// Mongo
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri must not be empty")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("mongo.database must not be empty")
	}
	if c.Mongo.ConnectTimeout <= 0 {
		return fmt.Errorf("mongo.connect_timeout must be > 0")
	}
	if c.Mongo.QueryTimeout <= 0 {
		return fmt.Errorf("mongo.query_timeout must be > 0")
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Address == "" {
			return fmt.Errorf("redis.address must not be empty when redis.enabled=true")
		}
		if c.Redis.PoolSize <= 0 {
			return fmt.Errorf("redis.pool_size must be > 0 when redis.enabled=true")
		}
	}

	// Auth
	if c.Auth.AccessTokenSecret == "" {
		return fmt.Errorf("auth.access_token_secret must not be empty")
	}
	if c.Auth.RefreshTokenSecret == "" {
		return fmt.Errorf("auth.refresh_token_secret must not be empty")
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be > 0")
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		return fmt.Errorf("auth.refresh_token_ttl must be > 0")
	}
	if c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		return fmt.Errorf("auth.refresh_token_ttl must be > auth.access_token_ttl")
	}

	// Media
	if c.Media.Endpoint == "" {
		return fmt.Errorf("media.endpoint must not be empty")
	}
	if c.Media.Bucket == "" {
		return fmt.Errorf("media.bucket must not be empty")
	}

	// Monitoring
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort <= 0 {
		return fmt.Errorf("monitoring.prometheus_port must be > 0 when prometheus_enabled=true")
	}

	// Tracing
	if c.Tracing.Enabled && c.Tracing.JaegerURL == "" {
		return fmt.Errorf("tracing.jaeger_url must not be empty when tracing.enabled=true")
	}

	// Logging
	if c.Logging.Level == "" {
		return fmt.Errorf("logging.level must not be empty")
	}

	// Rate limiting
	if c.RateLimiting.Enabled {
		if c.RateLimiting.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate_limiting.requests_per_second must be > 0 when rate limiting is enabled")
		}
		if c.RateLimiting.Burst <= 0 {
			return fmt.Errorf("rate_limiting.burst must be > 0 when rate limiting is enabled")
		}
		if c.RateLimiting.MaxConcurrent < 0 {
			return fmt.Errorf("rate_limiting.max_concurrent must be >= 0 when rate limiting is enabled")
		}
	}

	// Pagination
	if c.Pagination.DefaultLimit <= 0 {
		return fmt.Errorf("pagination.default_limit must be > 0")
	}
	if c.Pagination.MaxLimit < c.Pagination.DefaultLimit {
		return fmt.Errorf("pagination.max_limit must be >= pagination.default_limit")
	}

	return nil
}

// Load reads configuration from YAML file, applies defaults and env overrides.
func Load(configPath string) (*Config, error) {
	// If file does not exist, fall back to defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config yaml: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns configuration with sane defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.Address = ":8080"
	cfg.Server.ReadTimeout = 30 * time.Second
	cfg.Server.WriteTimeout = 30 * time.Second
	cfg.Server.ShutdownTimeout = 30 * time.Second

	cfg.Mongo.URI = "mongodb://localhost:27017"
	cfg.Mongo.Database = "vidtube"
	cfg.Mongo.ConnectTimeout = 10 * time.Second
	cfg.Mongo.QueryTimeout = 15 * time.Second

	cfg.Redis.Enabled = false
	cfg.Redis.Address = "localhost:6379"
	cfg.Redis.DB = 0
	cfg.Redis.PoolSize = 10

	cfg.Auth.AccessTokenSecret = "change-me-in-production"
	cfg.Auth.RefreshTokenSecret = "change-me-too-in-production"
	cfg.Auth.AccessTokenTTL = 15 * time.Minute
	cfg.Auth.RefreshTokenTTL = 10 * 24 * time.Hour // 10 days
	cfg.Auth.CookieSecure = true

	cfg.Media.Endpoint = "localhost:9000"
	cfg.Media.Bucket = "vidtube-media"
	cfg.Media.UseSSL = false
	cfg.Media.PublicURL = "http://localhost:9000/vidtube-media"

	cfg.Monitoring.PrometheusEnabled = true
	cfg.Monitoring.PrometheusPort = 9090

	cfg.Tracing.Enabled = false
	cfg.Tracing.JaegerURL = "http://localhost:14268/api/traces"
	cfg.Tracing.Environment = "development"
	cfg.Tracing.SampleRate = 1.0

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"

	cfg.RateLimiting.Enabled = false
	cfg.RateLimiting.RequestsPerSecond = 50
	cfg.RateLimiting.Burst = 100
	cfg.RateLimiting.MaxConcurrent = 0

	cfg.Pagination.DefaultLimit = 10
	cfg.Pagination.MaxLimit = 100

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("VIDTUBE_SERVER_ADDRESS"); addr != "" {
		c.Server.Address = addr
	}
	if uri := os.Getenv("VIDTUBE_MONGO_URI"); uri != "" {
		c.Mongo.URI = uri
	}
	if db := os.Getenv("VIDTUBE_MONGO_DATABASE"); db != "" {
		c.Mongo.Database = db
	}
	if level := os.Getenv("VIDTUBE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if secret := os.Getenv("VIDTUBE_ACCESS_TOKEN_SECRET"); secret != "" {
		c.Auth.AccessTokenSecret = secret
	}
	if secret := os.Getenv("VIDTUBE_REFRESH_TOKEN_SECRET"); secret != "" {
		c.Auth.RefreshTokenSecret = secret
	}
	if key := os.Getenv("VIDTUBE_MEDIA_ACCESS_KEY"); key != "" {
		c.Media.AccessKey = key
	}
	if key := os.Getenv("VIDTUBE_MEDIA_SECRET_KEY"); key != "" {
		c.Media.SecretKey = key
	}
	if addr := os.Getenv("VIDTUBE_REDIS_ADDRESS"); addr != "" {
		c.Redis.Address = addr
	}
}
