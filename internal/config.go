package internal

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	StorageDriverSQLite = "sqlite"
	StorageDriverMemory = "memory"

	DefaultStorageKey = "budget-app-state"
	DefaultCurrency   = "₹"
)

type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"http_server"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	Currency string `mapstructure:"currency"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	Key    string `mapstructure:"key"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Defaults returns the values used for every key missing from the config
// file and the environment.
func Defaults() map[string]any {
	return map[string]any{
		"app.env":                      "development",
		"app.currency":                 DefaultCurrency,
		"http_server.host":             "127.0.0.1",
		"http_server.port":             8080,
		"http_server.read_timeout":     10 * time.Second,
		"http_server.write_timeout":    10 * time.Second,
		"http_server.idle_timeout":     60 * time.Second,
		"storage.driver":               StorageDriverSQLite,
		"storage.path":                 "./data/budget.db",
		"storage.key":                  DefaultStorageKey,
		"observability.logging.level":  "info",
		"observability.logging.format": "text",
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.App.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("app config: %v", err))
	}

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Observability.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.Currency) == "" {
		return errors.New("currency symbol is required")
	}
	if utf8.RuneCountInString(c.Currency) > 8 {
		return errors.New("currency symbol must not exceed 8 characters")
	}
	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.IdleTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	return nil
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *StorageConfig) Validate() error {
	switch c.Driver {
	case StorageDriverSQLite:
		if strings.TrimSpace(c.Path) == "" {
			return errors.New("path is required for the sqlite driver")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("invalid driver %q: must be one of [%s %s]", c.Driver, StorageDriverSQLite, StorageDriverMemory)
	}
	if strings.TrimSpace(c.Key) == "" {
		return errors.New("key is required")
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid level %q: must be one of debug info warn error", c.Level)
	}
	switch c.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid format %q: must be json or text", c.Format)
	}
	return nil
}
