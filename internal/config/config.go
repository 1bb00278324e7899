package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DEX_"

// Config represents the application configuration.
type Config struct {
	// HTTP server configuration
	Server ServerConfig `toml:"server"`

	// Game data configuration
	Data DataConfig `toml:"data"`

	// Per-client request limits
	RateLimit RateLimitConfig `toml:"rate_limit"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port           int      `toml:"port"`            // Listen port
	OpenBrowser    bool     `toml:"open_browser"`    // Open the frontend on startup
	FrontendURL    string   `toml:"frontend_url"`    // URL opened when open_browser is set
	AllowedOrigins []string `toml:"allowed_origins"` // CORS and websocket origins
}

// DataConfig contains dataset settings.
type DataConfig struct {
	Root         string `toml:"root"`          // Directory holding <game>/data
	DefaultGame  string `toml:"default_game"`  // Game preloaded at startup
	Watch        bool   `toml:"watch"`         // Reload games when files change
	PollInterval string `toml:"poll_interval"` // Backup poll for missed events (e.g., "10s", "0" disables)
	SelectionTTL string `toml:"selection_ttl"` // How long a session's selection is kept
}

// RateLimitConfig contains per-client rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			OpenBrowser:    false,
			FrontendURL:    "",
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*", "https://localhost:*"},
		},
		Data: DataConfig{
			Root:         "games",
			DefaultGame:  "",
			Watch:        true,
			PollInterval: "10s",
			SelectionTTL: "24h",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 20,
			Burst:             40,
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// DefaultPath returns ~/.fangame-dex/config.toml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".fangame-dex", "config.toml"), nil
}

// Load reads the config file at path (DefaultPath when empty), then applies
// a .env file from the working directory and DEX_* environment overrides.
// A missing config file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path (DefaultPath when empty).
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from DEX_* variables, e.g. DEX_SERVER_PORT or
// DEX_DATA_ROOT. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	if v, ok := get("SERVER_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sSERVER_PORT %q: %w", EnvPrefix, v, err)
		}
		c.Server.Port = port
	}
	if v, ok := get("SERVER_OPEN_BROWSER"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sSERVER_OPEN_BROWSER %q: %w", EnvPrefix, v, err)
		}
		c.Server.OpenBrowser = b
	}
	if v, ok := get("SERVER_FRONTEND_URL"); ok {
		c.Server.FrontendURL = v
	}
	if v, ok := get("SERVER_ALLOWED_ORIGINS"); ok {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowedOrigins = origins
	}
	if v, ok := get("DATA_ROOT"); ok {
		c.Data.Root = v
	}
	if v, ok := get("DATA_DEFAULT_GAME"); ok {
		c.Data.DefaultGame = v
	}
	if v, ok := get("DATA_WATCH"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sDATA_WATCH %q: %w", EnvPrefix, v, err)
		}
		c.Data.Watch = b
	}
	if v, ok := get("DATA_POLL_INTERVAL"); ok {
		c.Data.PollInterval = v
	}
	if v, ok := get("RATE_LIMIT_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sRATE_LIMIT_ENABLED %q: %w", EnvPrefix, v, err)
		}
		c.RateLimit.Enabled = b
	}
	if v, ok := get("RATE_LIMIT_RPS"); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sRATE_LIMIT_RPS %q: %w", EnvPrefix, v, err)
		}
		c.RateLimit.RequestsPerSecond = rps
	}
	if v, ok := get("DEBUG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sDEBUG %q: %w", EnvPrefix, v, err)
		}
		c.App.DebugMode = b
	}
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Server.Port)
	}

	if strings.TrimSpace(c.Data.Root) == "" {
		return fmt.Errorf("data root cannot be empty")
	}

	if _, err := c.GetPollInterval(); err != nil {
		return fmt.Errorf("invalid poll interval %q: %w", c.Data.PollInterval, err)
	}

	if _, err := c.GetSelectionTTL(); err != nil {
		return fmt.Errorf("invalid selection TTL %q: %w", c.Data.SelectionTTL, err)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("requests per second must be positive: %v", c.RateLimit.RequestsPerSecond)
		}
		if c.RateLimit.Burst < 1 {
			return fmt.Errorf("burst must be at least 1: %d", c.RateLimit.Burst)
		}
	}

	return nil
}

// GetPollInterval returns the watcher poll interval. "0" or "" disables it.
func (c *Config) GetPollInterval() (time.Duration, error) {
	return parseOptionalDuration(c.Data.PollInterval)
}

// GetSelectionTTL returns how long selections are kept. "0" or "" keeps
// them forever.
func (c *Config) GetSelectionTTL() (time.Duration, error) {
	return parseOptionalDuration(c.Data.SelectionTTL)
}

func parseOptionalDuration(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
