package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/youmna-rabie/fermi-events/internal/kv"
	"github.com/youmna-rabie/fermi-events/internal/notify"
	"github.com/youmna-rabie/fermi-events/internal/types"
)

// Config is the top-level fermi-events configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Catalog CatalogConfig `yaml:"catalog"`
	Notify  NotifyConfig  `yaml:"notify"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StorageConfig selects the key-value backend the store persists to.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	Dir    string `yaml:"dir"`
	DSN    string `yaml:"dsn"`
}

// Options converts the storage section into kv.Options.
func (s StorageConfig) Options() kv.Options {
	return kv.Options{Driver: s.Driver, Path: s.Path, Dir: s.Dir, DSN: s.DSN}
}

// CatalogConfig holds extra event catalog directories and the category filter.
type CatalogConfig struct {
	Dirs       []string `yaml:"dirs"`
	Categories []string `yaml:"categories"`
}

// NotifyConfig selects where registration notices are published.
type NotifyConfig struct {
	Driver        string `yaml:"driver"`
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// defaults applies sane defaults to zero-valued fields.
func (c *Config) defaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = kv.DriverAuto
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "fermi-events.db"
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = "data"
	}
	if c.Notify.Driver == "" {
		c.Notify.Driver = notify.DriverLog
	}
	if c.Notify.SubjectPrefix == "" {
		c.Notify.SubjectPrefix = notify.DefaultSubjectPrefix
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

var storageDrivers = []string{kv.DriverAuto, kv.DriverMemory, kv.DriverFile, kv.DriverSQLite, kv.DriverPostgres}

// validate checks required fields and value constraints.
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must be non-negative")
	}
	if !slices.Contains(storageDrivers, c.Storage.Driver) {
		return fmt.Errorf("storage.driver %q is not one of %v", c.Storage.Driver, storageDrivers)
	}
	if c.Storage.Driver == kv.DriverPostgres && c.Storage.DSN == "" {
		return fmt.Errorf("storage.dsn is required for the postgres driver")
	}
	for i, name := range c.Catalog.Categories {
		if !types.Category(name).Valid() {
			return fmt.Errorf("catalog.categories[%d]: unknown category %q", i, name)
		}
	}
	switch c.Notify.Driver {
	case notify.DriverLog:
	case notify.DriverNATS:
		if c.Notify.URL == "" {
			return fmt.Errorf("notify.url is required for the nats driver")
		}
	default:
		return fmt.Errorf("notify.driver %q is not one of [log nats]", c.Notify.Driver)
	}
	return nil
}

// expandEnv replaces ${VAR} references in secret-bearing fields with
// environment variable values. This allows keeping secrets out of YAML.
func (c *Config) expandEnv() {
	c.Storage.DSN = os.ExpandEnv(c.Storage.DSN)
	c.Notify.URL = os.ExpandEnv(c.Notify.URL)
}

// loadDotEnv reads a .env file next to the config into the environment.
// Variables already set are not overridden. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// Default returns the configuration used when no config file exists.
func Default() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	var cfg Config
	return finish(&cfg)
}

// Load reads a YAML config file, loads the .env file beside it, applies
// defaults, expands env vars, and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}
	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.defaults()
	cfg.expandEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}
