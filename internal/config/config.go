// Package config handles the XDG configuration directory, the optional
// config.yaml file and the paths derived from them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"todo/internal/store"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// EnvPrefix prefixes environment overrides (TODO_STORAGE_BACKEND, ...).
	EnvPrefix = "TODO"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendDrive  = "drive"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `yaml:"-" mapstructure:"-"`

	// Debug enables debug logging.
	Debug bool `yaml:"-" mapstructure:"-"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"-" mapstructure:"-"`

	// Storage selects where the task list is persisted.
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
}

// StorageConfig configures the persistence backend.
type StorageConfig struct {
	// Backend is one of file, sqlite or drive.
	Backend string `yaml:"backend" mapstructure:"backend"`

	// Key is the name the task list is stored under.
	Key string `yaml:"key" mapstructure:"key"`

	// Path is the data directory (file) or database path (sqlite).
	// Empty means a default inside the config directory.
	Path string `yaml:"path,omitempty" mapstructure:"path"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:     dir,
		Storage: defaultStorage(),
	}, nil
}

func defaultStorage() StorageConfig {
	return StorageConfig{
		Backend: BackendFile,
		Key:     store.DefaultKey,
	}
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Load reads config.yaml from the config directory, if present, and applies
// TODO_* environment overrides on top of the defaults.
func (c *Config) Load() error {
	v := viper.New()
	def := defaultStorage()
	v.SetDefault("storage.backend", def.Backend)
	v.SetDefault("storage.key", def.Key)
	v.SetDefault("storage.path", def.Path)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if c.HasConfigFile() {
		v.SetConfigFile(c.ConfigPath())
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	}

	var loaded Config
	if err := v.Unmarshal(&loaded); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	c.Storage = loaded.Storage
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	return c.Validate()
}

// Validate checks the storage settings.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendDrive:
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}
	return store.ValidateKey(c.Storage.Key)
}

// StoragePath returns the data directory or database path for the selected
// backend.
func (c *Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	switch c.Storage.Backend {
	case BackendSQLite:
		return filepath.Join(c.Dir, "todo.db")
	default:
		return filepath.Join(c.Dir, "data")
	}
}

// YAML renders the effective settings.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// HasConfigFile checks if config.yaml exists.
func (c *Config) HasConfigFile() bool {
	_, err := os.Stat(c.ConfigPath())
	return err == nil
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
