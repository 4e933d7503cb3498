// Package config loads tada settings from defaults, TOML files, the
// environment and command-line flags, in that order of precedence.
package config

// Default values.
const (
	DefaultTheme     = "classic"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultCharLimit = 200
)

// Config holds the full configuration for tada.
type Config struct {
	// Display
	Theme     string `toml:"theme"`
	Group     bool   `toml:"group"`
	CharLimit int    `toml:"char_limit"`

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	LogFile   string `toml:"log_file"`

	// File that was loaded last, if any. Not persisted.
	Source string `toml:"-"`
}

func setDefaults(cfg *Config) {
	cfg.Theme = DefaultTheme
	cfg.Group = false
	cfg.CharLimit = DefaultCharLimit
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogFile = ""
}

// Default returns a config with only defaults applied.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}
