// Package config loads gateway configuration from a YAML file with
// environment-variable overrides for deployment-specific values.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the gateway.
type Config struct {
	Server ServerConfig `yaml:"server"`
	SQL    SQLConfig    `yaml:"sql"`
	Token  TokenConfig  `yaml:"token"`
	Routes RoutesConfig `yaml:"routes"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// Timeouts in seconds.
	ReadTimeout  int `yaml:"read_timeout"`
	WriteTimeout int `yaml:"write_timeout"`
	IdleTimeout  int `yaml:"idle_timeout"`
	// MaxBodyBytes caps request body size; zero disables the limit.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
	// Per-IP token bucket rate limiting; zero disables it.
	RateBurst     int `yaml:"rate_burst"`
	RatePerSecond int `yaml:"rate_per_second"`
}

// SQLConfig contains SQL Server connection settings.
type SQLConfig struct {
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Encrypt  bool   `yaml:"encrypt"`
	// TrustServerCertificate skips certificate validation when Encrypt is on.
	TrustServerCertificate bool `yaml:"trust_server_certificate"`

	MaxOpenConns    int `yaml:"max_open_conns"`
	MaxIdleConns    int `yaml:"max_idle_conns"`
	ConnMaxLifetime int `yaml:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int `yaml:"conn_max_idle_time"` // minutes
}

// TokenConfig contains the shared token secret and lifetimes.
type TokenConfig struct {
	Secret    string `yaml:"secret"`
	Algorithm string `yaml:"algorithm"`
	// TTLs in seconds.
	AccessTTL  int `yaml:"access_ttl"`
	RefreshTTL int `yaml:"refresh_ttl"`
}

// RoutesConfig points at the static route table.
type RoutesConfig struct {
	Path string `yaml:"path"`
}

// ErrMissingSecret is returned when no token secret is configured.
// The gateway cannot start without one.
var ErrMissingSecret = errors.New("config: token secret is not configured")

// Load reads the YAML file at path, applies defaults and environment
// overrides, and validates the result. A missing file is not an error as
// long as the environment supplies everything required.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// fall through to env-only configuration
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 1 << 20
	}
	if c.SQL.Port == 0 {
		c.SQL.Port = 1433
	}
	if c.SQL.MaxOpenConns == 0 {
		c.SQL.MaxOpenConns = 50
	}
	if c.SQL.MaxIdleConns == 0 {
		c.SQL.MaxIdleConns = 25
	}
	if c.SQL.ConnMaxLifetime == 0 {
		c.SQL.ConnMaxLifetime = 15
	}
	if c.SQL.ConnMaxIdleTime == 0 {
		c.SQL.ConnMaxIdleTime = 5
	}
	if c.Token.Algorithm == "" {
		c.Token.Algorithm = "HS256"
	}
	if c.Token.AccessTTL == 0 {
		c.Token.AccessTTL = 900 // 15 minutes
	}
	if c.Token.RefreshTTL == 0 {
		c.Token.RefreshTTL = 604800 // 7 days
	}
	if c.Routes.Path == "" {
		c.Routes.Path = "config/routes.yaml"
	}
}

func (c *Config) applyEnvOverrides() {
	overrideString(&c.Server.Addr, "SPGATE_ADDR")
	overrideString(&c.SQL.Server, "SPGATE_SQL_SERVER")
	overrideInt(&c.SQL.Port, "SPGATE_SQL_PORT")
	overrideString(&c.SQL.User, "SPGATE_SQL_USER")
	overrideString(&c.SQL.Password, "SPGATE_SQL_PASSWORD")
	overrideString(&c.SQL.Database, "SPGATE_SQL_DATABASE")
	overrideString(&c.Token.Secret, "SPGATE_TOKEN_SECRET")
	overrideString(&c.Token.Algorithm, "SPGATE_TOKEN_ALGORITHM")
	overrideInt(&c.Token.AccessTTL, "SPGATE_ACCESS_TTL")
	overrideInt(&c.Token.RefreshTTL, "SPGATE_REFRESH_TTL")
	overrideString(&c.Routes.Path, "SPGATE_ROUTES_PATH")
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Token.Secret) == "" {
		return ErrMissingSecret
	}
	if c.Token.AccessTTL < 0 || c.Token.RefreshTTL < 0 {
		return errors.New("config: token TTLs must be positive")
	}
	return nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
