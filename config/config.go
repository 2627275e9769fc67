package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port         int
		BaseURL      string `mapstructure:"base_url"`
		AdminAPIKey  string `mapstructure:"admin_api_key"`
		ReadTimeout  string `mapstructure:"read_timeout"`
		WriteTimeout string `mapstructure:"write_timeout"`
	}
	Database struct {
		Driver string
		URL    string
	}
	Settings struct {
		Backend     string
		RedisURL    string `mapstructure:"redis_url"`
		RedisPrefix string `mapstructure:"redis_prefix"`
	}
	Sitemap struct {
		ExcludedPages  []string `mapstructure:"excluded_pages"`
		StrictNotFound bool     `mapstructure:"strict_not_found"`
	}
	Log struct {
		Level  string
		Pretty bool
		File   string
	}
}

// LoadConfig reads an optional .env file, then config.yaml from the
// given paths (default . and ./config), then SITEMAPD_* environment
// variables. A missing config file is not an error.
func LoadConfig(paths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("SITEMAPD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.admin_api_key", "")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.url", "sitemapd.db")
	v.SetDefault("settings.backend", "options")
	v.SetDefault("settings.redis_url", "redis://localhost:6379/0")
	v.SetDefault("settings.redis_prefix", "sitemapd:")
	v.SetDefault("sitemap.excluded_pages", []string{})
	v.SetDefault("sitemap.strict_not_found", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.file", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	switch c.Settings.Backend {
	case "options", "redis":
	default:
		return fmt.Errorf("unsupported settings backend %q", c.Settings.Backend)
	}

	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server.base_url must be an absolute http(s) URL, got %q", c.Server.BaseURL)
	}

	return nil
}

func (c *Config) GetReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 15*time.Second)
}

func (c *Config) GetWriteTimeout() time.Duration {
	return parseDuration(c.Server.WriteTimeout, 30*time.Second)
}

// ExcludedPages returns nil when none are configured so the content
// source applies its own default list.
func (c *Config) ExcludedPages() []string {
	if len(c.Sitemap.ExcludedPages) == 0 {
		return nil
	}
	return c.Sitemap.ExcludedPages
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return duration
}
