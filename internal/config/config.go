package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	// CORSOrigin is sent as Access-Control-Allow-Origin; "*" allows any map page.
	CORSOrigin string `yaml:"cors_origin"`
}

type StorageConfig struct {
	Driver   string         `yaml:"driver"`
	Key      string         `yaml:"key"`
	Path     string         `yaml:"path"`
	Postgres DatabaseConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// AuthConfig protects mutating API routes. An empty key leaves them open,
// which is the expected setup behind tsnet.
type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Default returns the configuration used when no file is given: a local
// SQLite file and port 8080.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Host: "127.0.0.1", Port: 8080, CORSOrigin: "*"},
		Storage: StorageConfig{Driver: DriverSQLite, Key: "workouts", Path: "mapty.db"},
		Tailscale: TailscaleConfig{
			Hostname: "mapty",
			StateDir: "tsnet-state",
		},
	}
}

// Load reads config from a YAML file on top of Default, then applies
// environment variable overrides. An empty path skips the file.
// Env vars use the prefix MAPTY_ and underscore-separated paths:
//
//	MAPTY_SERVER_HOST, MAPTY_SERVER_PORT, MAPTY_SERVER_CORS_ORIGIN,
//	MAPTY_STORAGE_DRIVER, MAPTY_STORAGE_KEY, MAPTY_STORAGE_PATH,
//	MAPTY_DB_HOST, MAPTY_DB_PORT, MAPTY_DB_NAME, MAPTY_DB_USER,
//	MAPTY_DB_PASSWORD, MAPTY_DB_SSLMODE,
//	MAPTY_REDIS_ADDR, MAPTY_REDIS_PASSWORD, MAPTY_REDIS_DB, MAPTY_REDIS_PREFIX,
//	MAPTY_AUTH_API_KEY, MAPTY_TAILSCALE_ENABLED, MAPTY_TAILSCALE_HOSTNAME
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setString := func(env string, dst *string) {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
	setInt := func(env string, dst *int) {
		if v := os.Getenv(env); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString("MAPTY_SERVER_HOST", &cfg.Server.Host)
	setInt("MAPTY_SERVER_PORT", &cfg.Server.Port)
	setString("MAPTY_SERVER_CORS_ORIGIN", &cfg.Server.CORSOrigin)

	setString("MAPTY_STORAGE_DRIVER", &cfg.Storage.Driver)
	setString("MAPTY_STORAGE_KEY", &cfg.Storage.Key)
	setString("MAPTY_STORAGE_PATH", &cfg.Storage.Path)

	setString("MAPTY_DB_HOST", &cfg.Storage.Postgres.Host)
	setInt("MAPTY_DB_PORT", &cfg.Storage.Postgres.Port)
	setString("MAPTY_DB_NAME", &cfg.Storage.Postgres.Name)
	setString("MAPTY_DB_USER", &cfg.Storage.Postgres.User)
	setString("MAPTY_DB_PASSWORD", &cfg.Storage.Postgres.Password)
	setString("MAPTY_DB_SSLMODE", &cfg.Storage.Postgres.SSLMode)

	setString("MAPTY_REDIS_ADDR", &cfg.Storage.Redis.Addr)
	setString("MAPTY_REDIS_PASSWORD", &cfg.Storage.Redis.Password)
	setInt("MAPTY_REDIS_DB", &cfg.Storage.Redis.DB)
	setString("MAPTY_REDIS_PREFIX", &cfg.Storage.Redis.Prefix)

	setString("MAPTY_AUTH_API_KEY", &cfg.Auth.APIKey)

	if v := os.Getenv("MAPTY_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	setString("MAPTY_TAILSCALE_HOSTNAME", &cfg.Tailscale.Hostname)
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage.key is required")
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the sqlite driver")
		}
	case DriverPostgres:
		pg := c.Storage.Postgres
		if pg.Host == "" {
			return fmt.Errorf("storage.postgres.host is required")
		}
		if pg.Port == 0 {
			return fmt.Errorf("storage.postgres.port is required")
		}
		if pg.Name == "" {
			return fmt.Errorf("storage.postgres.name is required")
		}
		if pg.User == "" {
			return fmt.Errorf("storage.postgres.user is required")
		}
	case DriverRedis:
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required")
		}
	default:
		return fmt.Errorf("storage.driver %q is not one of memory, sqlite, postgres, redis", c.Storage.Driver)
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
