package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrConfigNotFound is returned when no configuration is found
var ErrConfigNotFound = errors.New("configuration not found")

const (
	defaultTimeout        = 30
	defaultRetries        = 2
	defaultIndexThreshold = 100
	defaultMaxRetries     = 3
)

// Config holds the application configuration
type Config struct {
	Source  SourceConfig  `mapstructure:"source" yaml:"source"`
	Search  SearchConfig  `mapstructure:"search" yaml:"search"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
}

// SourceConfig describes where the company list is fetched from
type SourceConfig struct {
	Location string `mapstructure:"location" yaml:"location"` // URL or file path
	Timeout  int    `mapstructure:"timeout" yaml:"timeout"`   // timeout in seconds
	Retries  int    `mapstructure:"retries" yaml:"retries"`   // transport retries per fetch
}

// SearchConfig holds search engine settings
type SearchConfig struct {
	// Lists longer than this are searched through the substring index
	IndexThreshold int `mapstructure:"index_threshold" yaml:"index_threshold"`
}

// CacheConfig holds search cache settings
type CacheConfig struct {
	MaxEntries int `mapstructure:"max_entries" yaml:"max_entries"` // 0 = unbounded
}

// SessionConfig holds search session settings
type SessionConfig struct {
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`
}

func configDir() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "cfl")
}

// Load loads configuration from file, .env and environment variables
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir())
	viper.AddConfigPath(".") // Also check current directory

	// CFL_SOURCE_LOCATION overrides source.location
	viper.SetEnvPrefix("CFL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Defaults also register the keys for env lookup
	viper.SetDefault("source.location", "")
	viper.SetDefault("source.timeout", defaultTimeout)
	viper.SetDefault("source.retries", defaultRetries)
	viper.SetDefault("search.index_threshold", defaultIndexThreshold)
	viper.SetDefault("cache.max_entries", 0)
	viper.SetDefault("session.max_retries", defaultMaxRetries)

	// Try to read config file (it's okay if it doesn't exist)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Source.Location = strings.TrimSpace(cfg.Source.Location)
	if cfg.Source.Location == "" {
		return nil, ErrConfigNotFound
	}
	if !cfg.Source.IsRemote() {
		cfg.Source.Location = expandPath(cfg.Source.Location)
	}

	cfg.normalize()
	return &cfg, nil
}

// normalize replaces out-of-range values with defaults
func (c *Config) normalize() {
	if c.Source.Timeout <= 0 {
		c.Source.Timeout = defaultTimeout
	}
	if c.Source.Retries < 0 {
		c.Source.Retries = 0
	}
	if c.Search.IndexThreshold < 0 {
		c.Search.IndexThreshold = defaultIndexThreshold
	}
	if c.Cache.MaxEntries < 0 {
		c.Cache.MaxEntries = 0
	}
	if c.Session.MaxRetries < 0 {
		c.Session.MaxRetries = defaultMaxRetries
	}
}

// Default returns a configuration with every default applied for the given location
func Default(location string) *Config {
	cfg := &Config{Source: SourceConfig{Location: location}}
	cfg.Search.IndexThreshold = defaultIndexThreshold
	cfg.Session.MaxRetries = defaultMaxRetries
	cfg.Source.Retries = defaultRetries
	cfg.normalize()
	return cfg
}

// GetTimeout returns the fetch timeout as time.Duration
func (c *SourceConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// IsRemote reports whether the location is an http(s) URL
func (c *SourceConfig) IsRemote() bool {
	lower := strings.ToLower(c.Location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// expandPath expands ~ to home directory in paths
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home := os.Getenv("HOME")
		if len(path) == 1 {
			return home
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

// EnsureConfigDir ensures the config directory exists
func EnsureConfigDir() error {
	return os.MkdirAll(configDir(), 0755)
}

// ExampleConfigPath returns the path where the example config should be created
func ExampleConfigPath() string {
	return filepath.Join(configDir(), "config.yaml.example")
}

// FilePath returns the path Save writes to
func FilePath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// Save saves the current configuration to file
func (c *Config) Save() error {
	configPath := FilePath()

	// Ensure config dir exists
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set("source.location", c.Source.Location)
	viper.Set("source.timeout", c.Source.Timeout)
	viper.Set("source.retries", c.Source.Retries)
	viper.Set("search.index_threshold", c.Search.IndexThreshold)
	viper.Set("cache.max_entries", c.Cache.MaxEntries)
	viper.Set("session.max_retries", c.Session.MaxRetries)

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateExampleConfig creates an example configuration file
func CreateExampleConfig() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	exampleConfig := `# CFL Configuration File
# Place this file at ~/.config/cfl/config.yaml

source:
  # URL or local path of the company list (required)
  location: "https://example.com/list.jsonc"

  # Fetch timeout in seconds (optional, defaults to 30)
  timeout: 30

  # Transport retries per fetch (optional, defaults to 2)
  retries: 2

search:
  # Lists longer than this use the substring index (optional, defaults to 100)
  index_threshold: 100

cache:
  # Maximum cached searches, 0 keeps every result (optional, defaults to 0)
  max_entries: 0

session:
  # Manual reload attempts after a failed load (optional, defaults to 3)
  max_retries: 3

# Environment variables (or a .env file) can also be used:
# CFL_SOURCE_LOCATION=https://example.com/list.jsonc
# CFL_CACHE_MAX_ENTRIES=500
`

	examplePath := ExampleConfigPath()
	return os.WriteFile(examplePath, []byte(exampleConfig), 0644)
}
