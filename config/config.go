// Package config provides configuration loading for burrow using TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "BURROW_CONFIG"

// DefaultHome is the start address when none is configured.
const DefaultHome = "gopher://dusted.dk:70/1/#DusteDs Home in Cyberspace"

// Display settings
type Display struct {
	Slack   int  `toml:"slack"` // rows kept free below each page
	Color   bool `toml:"color"`
	Columns int  `toml:"columns"` // used when the terminal size is unknown
	Rows    int  `toml:"rows"`
}

// Gopher fetching settings
type Fetcher struct {
	TimeoutSeconds int    `toml:"timeoutSeconds"`
	Proxy          string `toml:"proxy"`
	MaxBytes       int64  `toml:"maxBytes"`
}

// Session settings
type Session struct {
	Home string `toml:"home"`
}

// Log settings
type Log struct {
	Level  string `toml:"level"`
	File   string `toml:"file"`
	Format string `toml:"format"`
}

// Config is the main configuration struct
type Config struct {
	Display Display `toml:"display"`
	Fetcher Fetcher `toml:"fetcher"`
	Session Session `toml:"session"`
	Log     Log     `toml:"log"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Display: Display{
			Slack:   6,
			Color:   true,
			Columns: 80,
			Rows:    24,
		},
		Fetcher: Fetcher{
			TimeoutSeconds: 30,
			Proxy:          "",
			MaxBytes:       64 << 20,
		},
		Session: Session{
			Home: DefaultHome,
		},
		Log: Log{
			Level:  "info",
			File:   "",
			Format: "json",
		},
	}
}

// configDir returns the path to the config directory.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "burrow"), nil
}

// ConfigPath returns the path to the config file. BURROW_CONFIG wins over
// the default location.
func ConfigPath() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads configuration from the config path, falling back to defaults.
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return Default(), nil // Return defaults if we can't determine path
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path. A missing file yields defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	userCfg, md, err := loadFromTOML(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	result := merge(cfg, userCfg, md)
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return result, nil
}

// loadFromTOML loads a config from a TOML file.
func loadFromTOML(path string) (*Config, toml.MetaData, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, md, fmt.Errorf("parsing config TOML: %w", err)
	}
	return &cfg, md, nil
}

// merge overlays user settings onto defaults.
// Only non-zero values override defaults; booleans override when present.
func merge(defaults, user *Config, md toml.MetaData) *Config {
	result := *defaults

	if md.IsDefined("display", "slack") {
		result.Display.Slack = user.Display.Slack
	}
	if md.IsDefined("display", "color") {
		result.Display.Color = user.Display.Color
	}
	if user.Display.Columns != 0 {
		result.Display.Columns = user.Display.Columns
	}
	if user.Display.Rows != 0 {
		result.Display.Rows = user.Display.Rows
	}

	if user.Fetcher.TimeoutSeconds != 0 {
		result.Fetcher.TimeoutSeconds = user.Fetcher.TimeoutSeconds
	}
	if user.Fetcher.Proxy != "" {
		result.Fetcher.Proxy = user.Fetcher.Proxy
	}
	if user.Fetcher.MaxBytes != 0 {
		result.Fetcher.MaxBytes = user.Fetcher.MaxBytes
	}

	if user.Session.Home != "" {
		result.Session.Home = user.Session.Home
	}

	if user.Log.Level != "" {
		result.Log.Level = user.Log.Level
	}
	if user.Log.File != "" {
		result.Log.File = user.Log.File
	}
	if user.Log.Format != "" {
		result.Log.Format = user.Log.Format
	}

	return &result
}

// Validate rejects settings the browser cannot run with.
func (c *Config) Validate() error {
	if c.Display.Slack < 0 {
		return fmt.Errorf("display.slack must not be negative, got %d", c.Display.Slack)
	}
	if c.Display.Columns < 1 || c.Display.Rows < 1 {
		return fmt.Errorf("display.columns and display.rows must be positive")
	}
	if c.Fetcher.TimeoutSeconds < 0 {
		return fmt.Errorf("fetcher.timeoutSeconds must not be negative")
	}
	if c.Fetcher.MaxBytes < 0 {
		return fmt.Errorf("fetcher.maxBytes must not be negative")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// DefaultTOML returns the default config as a TOML string for reference.
func DefaultTOML() string {
	return `# burrow configuration
# Save to ~/.config/burrow/config.toml (or $BURROW_CONFIG) and customize
# Only include settings you want to change from defaults

# Display settings
[display]
slack = 6                     # Rows kept free below each page
color = true                  # Colored prompt, numbers and errors
columns = 80                  # Width used when the terminal size is unknown
rows = 24                     # Height used when the terminal size is unknown

# Gopher fetching settings
[fetcher]
timeoutSeconds = 30
proxy = ""                    # socks5://host:port (empty = ALL_PROXY or direct)
maxBytes = 67108864           # Largest reply accepted

# Session settings
[session]
home = "` + DefaultHome + `"

# Logging (the terminal is never used for logs)
[log]
level = "info"                # debug, info, warn, error
file = ""                     # Log file path (empty = no logging)
format = "json"               # json or console
`
}
