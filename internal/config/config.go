// ABOUTME: salesquest configuration management with backend selection.
// ABOUTME: Loads settings via viper (file + SALESQUEST_* env), validates them, and opens storage.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gookit/validate"
	"github.com/harperreed/salesquest/internal/charm"
	"github.com/harperreed/salesquest/internal/storage"
	"github.com/spf13/viper"
)

const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendCharm  = "charm"

	// DefaultSubscribeURL is the purchase page opened when the trial ends.
	DefaultSubscribeURL = "https://buy.stripe.com/7sI3fg97N5F5bxC9AF"
)

// Config stores salesquest configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "badger", or "charm".
	Backend string `json:"backend,omitempty" mapstructure:"backend" validate:"in:sqlite,badger,charm"`

	// DataDir is the root directory for local data.
	// SQLite puts salesquest.db here, badger uses a badger/ subdirectory.
	// Supports ~ expansion. Defaults to ~/.local/share/salesquest.
	DataDir string `json:"data_dir,omitempty" mapstructure:"data_dir"`

	// LogLevel is a zerolog level name. Defaults to warn.
	LogLevel string `json:"log_level,omitempty" mapstructure:"log_level" validate:"in:trace,debug,info,warn,error,fatal,panic,disabled"`

	// LogPretty switches logs to the console writer.
	LogPretty bool `json:"log_pretty,omitempty" mapstructure:"log_pretty"`

	// SubscribeURL overrides the subscription purchase link.
	SubscribeURL string `json:"subscribe_url,omitempty" mapstructure:"subscribe_url" validate:"url"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel returns the configured log level, defaulting to "warn".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "warn"
	}
	return c.LogLevel
}

// GetSubscribeURL returns the purchase link.
func (c *Config) GetSubscribeURL() string {
	if c.SubscribeURL == "" {
		return DefaultSubscribeURL
	}
	return c.SubscribeURL
}

// Validate checks field values.
func (c *Config) Validate() error {
	v := validate.Struct(c)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a KV implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.KV, error) {
	return OpenBackend(c.GetBackend(), c.GetDataDir())
}

// OpenBackend opens a named backend rooted at dataDir.
func OpenBackend(backend, dataDir string) (storage.KV, error) {
	switch backend {
	case BackendSQLite:
		return storage.Open(filepath.Join(dataDir, "salesquest.db"))
	case BackendBadger:
		return storage.OpenBadger(filepath.Join(dataDir, "badger"))
	case BackendCharm:
		return charm.InitClient()
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "salesquest", "config.json")
}

// Load reads config from disk, applies SALESQUEST_* environment overrides,
// and validates the result. A missing file yields defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(GetConfigPath())
	v.SetConfigType("json")

	v.SetEnvPrefix("SALESQUEST")
	for _, key := range []string{"backend", "data_dir", "log_level", "log_pretty", "subscribe_url"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
