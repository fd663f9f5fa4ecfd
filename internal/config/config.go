// Package config resolves runtime settings from defaults, an optional
// YAML file, a .env file and PROCURE_* environment variables, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIBaseURL  = "http://localhost:3001/api"
	DefaultListenAddr  = "0.0.0.0:8080"
	DefaultHTTPTimeout = 30 * time.Second

	EnvFile = ".env"
)

type Config struct {
	APIBaseURL  string        `yaml:"api_base_url"`
	DBDriver    string        `yaml:"db_driver"`
	DBDSN       string        `yaml:"db_dsn"`
	ListenAddr  string        `yaml:"listen_addr"`
	LogLevel    string        `yaml:"log_level"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// Default returns the built-in settings. The sqlite file lives under the
// user's config directory.
func Default() Config {
	return Config{
		APIBaseURL:  DefaultAPIBaseURL,
		DBDriver:    "sqlite",
		DBDSN:       defaultSQLitePath(),
		ListenAddr:  DefaultListenAddr,
		LogLevel:    "info",
		HTTPTimeout: DefaultHTTPTimeout,
	}
}

func defaultSQLitePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "procure", "procure.db")
}

// Load builds the configuration. path names a YAML file; when empty,
// PROCURE_CONFIG is consulted and a missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", EnvFile, err)
	}

	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = os.Getenv("PROCURE_CONFIG")
		explicit = path != ""
	}
	if explicit {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PROCURE_API_BASE_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("PROCURE_DB_DRIVER"); v != "" {
		c.DBDriver = v
	}
	// POSTGRES_CONN is the variable the gateway deployment already sets.
	if v := os.Getenv("PROCURE_DB_DSN"); v != "" {
		c.DBDSN = v
	} else if v := os.Getenv("POSTGRES_CONN"); v != "" {
		c.DBDriver = "postgres"
		c.DBDSN = v
	}
	if v := os.Getenv("PROCURE_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("PROCURE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("PROCURE_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PROCURE_HTTP_TIMEOUT: %w", err)
		}
		c.HTTPTimeout = d
	}
	return nil
}

func (c *Config) Validate() error {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		return errors.New("config: api_base_url is required")
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unsupported db_driver %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return errors.New("config: db_dsn is required")
	}
	if c.HTTPTimeout < 0 {
		return errors.New("config: http_timeout must not be negative")
	}
	return nil
}

// EnsureDataDir creates the directory of a sqlite database file.
func (c *Config) EnsureDataDir() error {
	if c.DBDriver != "sqlite" || strings.HasPrefix(c.DBDSN, "file:") || c.DBDSN == ":memory:" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(c.DBDSN), 0o700)
}
