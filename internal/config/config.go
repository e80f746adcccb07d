package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	Web      WebConfig      `yaml:"web"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	NATS     NATSConfig     `yaml:"nats"`
	JWT      JWTConfig      `yaml:"jwt"`
	Session  SessionConfig  `yaml:"session"`
	Tenancy  TenancyConfig  `yaml:"tenancy"`
	Branding BrandingConfig `yaml:"branding"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig represents server identity configuration
type ServerConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"` // development | staging | production
}

// APIConfig represents API configuration
type APIConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// WebConfig represents console UI hosting configuration
type WebConfig struct {
	StaticDir string `yaml:"static_dir"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// RedisConfig represents Redis configuration
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// NATSConfig represents NATS configuration
type NATSConfig struct {
	URL               string        `yaml:"url"`
	Username          string        `yaml:"username"`
	Password          string        `yaml:"password"`
	MaxReconnects     int           `yaml:"max_reconnects"`
	ReconnectInterval time.Duration `yaml:"reconnect_interval"`
}

// JWTConfig represents JWT configuration
type JWTConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

// SessionConfig represents session lifetime configuration
type SessionConfig struct {
	// TTL is the absolute session lifetime, fixed at login and never
	// extended by activity
	TTL time.Duration `yaml:"ttl"`

	// CookieName carries the session token on console page navigation
	CookieName string `yaml:"cookie_name"`
}

// TenancyConfig represents tenant resolution configuration
type TenancyConfig struct {
	// QueryParam is the request parameter carrying the tenant selector
	QueryParam string `yaml:"query_param"`

	// DevFallback selects the first known tenant when no selector is
	// present. Only honored outside production.
	DevFallback bool `yaml:"dev_fallback"`

	// PlatformName is the suffix for tenant page titles
	PlatformName string `yaml:"platform_name"`
}

// BrandingConfig represents brand scoping configuration
type BrandingConfig struct {
	// OpenVisibility restores the legacy behavior where a brand-scoped
	// user without an assignment sees every brand. Off by default: an
	// unprovisioned user sees none.
	OpenVisibility bool `yaml:"open_visibility"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load loads configuration from file
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides
func (c *Config) applyEnvOverrides() {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		c.Database.DSN = dsn
	}

	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		c.Redis.Addr = redisAddr
	}

	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		c.NATS.URL = natsURL
	}

	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		c.JWT.Secret = jwtSecret
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Log.Level = logLevel
	}

	if env := os.Getenv("ENVIRONMENT"); env != "" {
		c.Server.Environment = env
	}
}

// setDefaults fills in defaults for optional settings
func (c *Config) setDefaults() {
	if c.Server.Name == "" {
		c.Server.Name = "warranty-console-server"
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "development"
	}

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 5 * time.Minute
	}

	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "warranty-console"
	}

	if c.Session.TTL == 0 {
		c.Session.TTL = 24 * time.Hour
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "console_session"
	}

	if c.Tenancy.QueryParam == "" {
		c.Tenancy.QueryParam = "tenant"
	}
	if c.Tenancy.PlatformName == "" {
		c.Tenancy.PlatformName = "WarrantyHub"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// validate rejects configurations that cannot work
func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}

	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid environment: %s", c.Server.Environment)
	}

	if c.IsProduction() && c.Tenancy.DevFallback {
		return fmt.Errorf("tenancy dev_fallback cannot be enabled in production")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
