package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	App         AppConfig         `toml:"app"`
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Session     SessionConfig     `toml:"session"`
	HTTP        HTTPConfig        `toml:"http"`
	UI          UIConfig          `toml:"ui"`
}

// AppConfig locates the recipe application.
type AppConfig struct {
	BaseURL string `toml:"base_url"`
}

// CredentialsConfig contains the browser session used to talk to the recipe application.
type CredentialsConfig struct {
	CookiePath string `toml:"cookie_path"`
	CSRFToken  string `toml:"csrf_token"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// SessionConfig controls session-scoped storage.
type SessionConfig struct {
	ID  string `toml:"id"`
	TTL string `toml:"ttl"`
}

// HTTPConfig contains outbound HTTP settings.
type HTTPConfig struct {
	Timeout   string  `toml:"timeout"`
	RateLimit float64 `toml:"rate_limit"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	PerPage         int    `toml:"per_page"`
	NotificationTTL string `toml:"notification_ttl"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	if c.App.BaseURL == "" {
		return fmt.Errorf("%w: app.base_url is empty", ErrInvalidConfig)
	}
	if c.UI.PerPage <= 0 {
		return fmt.Errorf("%w: ui.per_page must be positive", ErrInvalidConfig)
	}
	for name, value := range map[string]string{
		"session.ttl":         c.Session.TTL,
		"http.timeout":        c.HTTP.Timeout,
		"ui.notification_ttl": c.UI.NotificationTTL,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
		}
	}
	return nil
}

// SessionTTL returns the idle lifetime of a session; zero disables purging.
func (c *Config) SessionTTL() time.Duration { return parseDuration(c.Session.TTL, 0) }

// HTTPTimeout returns the per-request timeout.
func (c *Config) HTTPTimeout() time.Duration { return parseDuration(c.HTTP.Timeout, 15*time.Second) }

// NotificationTTL returns how long a notification stays on screen.
func (c *Config) NotificationTTL() time.Duration {
	return parseDuration(c.UI.NotificationTTL, 3*time.Second)
}

// CookiePath returns the cookie file path with a leading ~ expanded.
func (c *Config) CookiePath() string {
	return ExpandHome(c.Credentials.CookiePath)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
