package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"stocksearch/internal/eventbus"
)

// Environment overrides
const (
	EnvBackendURL = "STOCKSEARCH_BACKEND_URL"
	EnvLogLevel   = "STOCKSEARCH_LOG_LEVEL"
)

// Config represents the application configuration
type Config struct {
	Version int            `toml:"version"`
	Backend BackendConfig  `toml:"backend"`
	Search  SearchSettings `toml:"search"`
	Logging LoggingConfig  `toml:"logging"`
	Server  ServerConfig   `toml:"server"`
}

// BackendConfig points the client at the lookup service
type BackendConfig struct {
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
}

// SearchSettings tunes the search widget
type SearchSettings struct {
	MinFragmentLength     int `toml:"min_fragment_length"`
	MaxVisibleSuggestions int `toml:"max_visible_suggestions"`
}

// LoggingConfig controls the diagnostic log
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
	File   string `toml:"file"`
}

// ServerConfig configures the reference backend
type ServerConfig struct {
	Listen           string `toml:"listen"`
	Dataset          string `toml:"dataset"`
	MaxPrefixResults int    `toml:"max_prefix_results"`
}

// Duration is a time.Duration stored as a string such as "5s"
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath returns the per-user config file location
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "stocksearch", "config.toml")
}

// NewConfigService creates a config service for the given file; an empty
// path selects DefaultPath
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

// Path returns the file this service reads and writes
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, falling back to defaults when it does not exist
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	applyEnv(cfg, os.LookupEnv)

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:       cs.filePath,
			BackendURL: cfg.Backend.URL,
		})
	}

	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path. Missing keys keep
// their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects settings the application cannot run with
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return errors.New("backend.url must not be empty")
	}
	if c.Backend.Timeout < 0 {
		return errors.New("backend.timeout must be >= 0")
	}
	if c.Search.MinFragmentLength < 1 {
		return fmt.Errorf("search.min_fragment_length must be >= 1, got %d", c.Search.MinFragmentLength)
	}
	if c.Search.MaxVisibleSuggestions < 1 {
		return fmt.Errorf("search.max_visible_suggestions must be >= 1, got %d", c.Search.MaxVisibleSuggestions)
	}
	if c.Server.MaxPrefixResults < 0 {
		return fmt.Errorf("server.max_prefix_results must be >= 0, got %d", c.Server.MaxPrefixResults)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Backend: BackendConfig{
			URL:     "http://127.0.0.1:5000",
			Timeout: Duration(10 * time.Second),
		},
		Search: SearchSettings{
			MinFragmentLength:     2,
			MaxVisibleSuggestions: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "stocksearch.log",
		},
		Server: ServerConfig{
			Listen:           "127.0.0.1:5000",
			MaxPrefixResults: 4,
		},
	}
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvBackendURL); ok && v != "" {
		cfg.Backend.URL = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Logging.Level = v
	}
}
