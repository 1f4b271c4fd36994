package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"waiter/pkg/logger"
)

// Config represents the complete service configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	Minio    MinioConfig    `toml:"minio"`
	Jobs     JobsConfig     `toml:"jobs"`
	Log      logger.Config  `toml:"log"`
}

type ServerConfig struct {
	Port                   int `toml:"port"`
	ShutdownTimeoutSeconds int `toml:"shutdown_timeout_seconds"`
}

type DatabaseConfig struct {
	URL             string `toml:"url"`
	MaxConns        int32  `toml:"max_conns"`
	MinConns        int32  `toml:"min_conns"`
	MaxConnLifetime string `toml:"max_conn_lifetime"`
	MaxConnIdleTime string `toml:"max_conn_idle_time"`
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// RedisConfig enables the product cache when Addr is set.
type RedisConfig struct {
	Addr              string `toml:"addr"`
	Password          string `toml:"password"`
	DB                int    `toml:"db"`
	ProductTTLSeconds int    `toml:"product_ttl_seconds"`
}

// MinioConfig enables product image uploads when Endpoint is set.
type MinioConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
	Bucket    string `toml:"bucket"`
}

// JobsConfig controls the paid-order purge. A zero retention disables it.
type JobsConfig struct {
	PurgeRetentionDays int    `toml:"purge_retention_days"`
	PurgeInterval      string `toml:"purge_interval"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                   8080,
			ShutdownTimeoutSeconds: 10,
		},
		Database: DatabaseConfig{
			AutoMigrate: true,
		},
		Redis: RedisConfig{
			ProductTTLSeconds: 300,
		},
		Minio: MinioConfig{
			Bucket: "waiter-products",
		},
		Jobs: JobsConfig{
			PurgeInterval: "24h",
		},
		Log: logger.DefaultConfig(),
	}
}

// Load reads an optional .env file, an optional TOML file and then applies
// environment overrides on top of the defaults.
func Load(filename string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Default()

	if filename == "" {
		filename = os.Getenv("WAITER_CONFIG")
	}
	if filename != "" {
		if _, err := toml.DecodeFile(filename, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		c.Redis.DB = db
	}

	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		c.Minio.Endpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		c.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Minio.SecretKey = v
	}
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		c.Minio.UseSSL = v == "true"
	}
	if v := os.Getenv("MINIO_BUCKET"); v != "" {
		c.Minio.Bucket = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = logger.ParseLevel(v)
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}

	if v := os.Getenv("PURGE_RETENTION_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PURGE_RETENTION_DAYS %q: %w", v, err)
		}
		c.Jobs.PurgeRetentionDays = days
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database url is required (set DATABASE_URL or [database].url)")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("port number %d is out of range: must be between 1 and 65535", c.Server.Port)
	}
	if c.Jobs.PurgeRetentionDays < 0 {
		return errors.New("purge_retention_days cannot be negative")
	}
	if _, err := c.PurgeInterval(); err != nil {
		return err
	}
	if _, err := parseOptionalDuration(c.Database.MaxConnLifetime); err != nil {
		return fmt.Errorf("invalid max_conn_lifetime: %w", err)
	}
	if _, err := parseOptionalDuration(c.Database.MaxConnIdleTime); err != nil {
		return fmt.Errorf("invalid max_conn_idle_time: %w", err)
	}
	return nil
}

// PurgeInterval returns how often the paid-order purge runs.
func (c *Config) PurgeInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Jobs.PurgeInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid purge_interval %q: %w", c.Jobs.PurgeInterval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("purge_interval must be positive")
	}
	return d, nil
}

func (c *Config) ProductCacheTTL() time.Duration {
	return time.Duration(c.Redis.ProductTTLSeconds) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}

func (c *Config) ConnLifetimes() (lifetime, idle time.Duration) {
	lifetime, _ = parseOptionalDuration(c.Database.MaxConnLifetime)
	idle, _ = parseOptionalDuration(c.Database.MaxConnIdleTime)
	return lifetime, idle
}

func parseOptionalDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
