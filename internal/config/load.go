package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const appDir = "tada"

// projectFiles are looked up in the working directory, first match wins.
var projectFiles = []string{"tada.toml", ".tada.toml"}

// Load builds the configuration:
// 1. Defaults
// 2. User config file ($XDG_CONFIG_HOME/tada/config.toml)
// 3. Project config file (tada.toml or .tada.toml in the working directory)
// 4. Environment variables
// 5. CLI flags
//
// A -config flag replaces steps 2 and 3 with the named file.
// It returns the remaining positional arguments.
func Load(fs *flag.FlagSet, args []string) (*Config, []string, error) {
	cfg := Default()

	f := registerFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("parsing flags: %w", err)
	}

	if f.configFile != "" {
		if err := loadConfigFile(cfg, expandPath(f.configFile)); err != nil {
			return nil, nil, fmt.Errorf("loading config file %s: %w", f.configFile, err)
		}
	} else {
		for _, p := range []string{findUserConfigFile(), findProjectConfigFile()} {
			if p == "" {
				continue
			}
			if err := loadConfigFile(cfg, p); err != nil {
				return nil, nil, fmt.Errorf("loading config file %s: %w", p, err)
			}
		}
	}

	loadFromEnv(cfg)
	f.apply(cfg, fs)

	if err := validate(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}

func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	cfg.Source = path
	return nil
}

func findUserConfigFile() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return existing(filepath.Join(dir, appDir, "config.toml"))
}

func findProjectConfigFile() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for _, name := range projectFiles {
		if p := existing(filepath.Join(wd, name)); p != "" {
			return p
		}
	}
	return ""
}

func existing(p string) string {
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TADA_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TADA_GROUP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Group = b
		}
	}
	if v := os.Getenv("TADA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TADA_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TADA_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

type flagValues struct {
	configFile string
	theme      string
	group      bool
	logLevel   string
	logFile    string
}

func registerFlags(fs *flag.FlagSet) *flagValues {
	f := &flagValues{}
	fs.StringVar(&f.configFile, "config", "", "path to a TOML config file")
	fs.StringVar(&f.theme, "theme", "", "color theme (classic, neon, mono)")
	fs.BoolVar(&f.group, "group", false, "group output by pending/done")
	fs.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.StringVar(&f.logFile, "log-file", "", "write logs to this file")
	return f
}

// apply copies only the flags that were set on the command line.
func (f *flagValues) apply(cfg *Config, fs *flag.FlagSet) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "theme":
			cfg.Theme = f.theme
		case "group":
			cfg.Group = f.group
		case "log-level":
			cfg.LogLevel = f.logLevel
		case "log-file":
			cfg.LogFile = f.logFile
		}
	})
	cfg.LogFile = expandPath(cfg.LogFile)
}

var errInvalid = errors.New("invalid config")

func validate(cfg *Config) error {
	if cfg.CharLimit < 0 {
		return fmt.Errorf("%w: char_limit must not be negative, got %d", errInvalid, cfg.CharLimit)
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "", "text", "json", "logfmt":
	default:
		return fmt.Errorf("%w: unknown log_format %q", errInvalid, cfg.LogFormat)
	}
	return nil
}

// Write prints the configuration as TOML.
func (c *Config) Write(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// expandPath expands a leading ~ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
