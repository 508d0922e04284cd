// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"time"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache and dashboard session store)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// S3-compatible object storage holding the docs content tree.
	// When unset, content comes from DocsDir or the embedded copy.
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Prefix    string

	// Docs content
	DocsDir         string // local content tree, overrides the embedded one
	DocsEditBaseURL string // prefix of "edit this page" links
	MenusFile       string // path of the menu table inside the content tree

	// Logging
	LogFile   string // rotated log file; stderr only when empty
	LogFormat string // "text" or "json"
	LogLevel  string

	PageCacheTTL time.Duration
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "docstudio"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "docstudio"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "docstudio-docs"),
		S3Prefix:    os.Getenv("S3_PREFIX"),

		DocsDir:         os.Getenv("DOCS_DIR"),
		DocsEditBaseURL: os.Getenv("DOCS_EDIT_BASE_URL"),
		MenusFile:       envOrDefault("MENUS_FILE", "menus.yaml"),

		LogFile:   os.Getenv("LOG_FILE"),
		LogFormat: os.Getenv("LOG_FORMAT"),
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
	}

	ttl, err := time.ParseDuration(envOrDefault("PAGE_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("PAGE_CACHE_TTL: %w", err)
	}
	cfg.PageCacheTTL = ttl

	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
		if cfg.Env == "production" {
			cfg.LogFormat = "json"
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case "development", "production", "testing":
	default:
		return fmt.Errorf("APP_ENV must be development, production or testing, got %q", c.Env)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.PageCacheTTL < 0 {
		return fmt.Errorf("PAGE_CACHE_TTL must not be negative")
	}
	if c.Env == "production" && c.DBPassword == "changeme" {
		return fmt.Errorf("POSTGRES_PASSWORD must be set in production")
	}
	return nil
}

// DSN returns the PostgreSQL URL. Credentials are escaped.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// UsesS3 reports whether the docs content tree is read from object storage.
func (c *Config) UsesS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
