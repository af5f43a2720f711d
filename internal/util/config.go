package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxDepth      = 256
	DefaultLogLevel      = "none"
	DefaultJournalDriver = "sqlite3"
	DefaultServerAddr    = ":8080"
	ConfigFileName       = "config.toml"
	HistoryFileName      = ".kite_history"
)

type JournalConfig struct {
	Driver string `toml:"driver" yaml:"driver"`
	DSN    string `toml:"dsn" yaml:"dsn"` // empty disables the journal
}

type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

type Configuration struct {
	// set by -ldflags, never read from files
	Version   string `toml:"-" yaml:"-"`
	BuildDate string `toml:"-" yaml:"-"`
	Commit    string `toml:"-" yaml:"-"`

	KiteHome    string        `toml:"kite_home" yaml:"kite_home"`
	MaxDepth    int           `toml:"max_depth" yaml:"max_depth"`
	LogLevel    string        `toml:"log_level" yaml:"log_level"`
	LogFile     string        `toml:"log_file" yaml:"log_file"`
	LogJSON     bool          `toml:"log_json" yaml:"log_json"`
	Color       bool          `toml:"color" yaml:"color"`
	HistoryFile string        `toml:"history_file" yaml:"history_file"`
	Journal     JournalConfig `toml:"journal" yaml:"journal"`
	Server      ServerConfig  `toml:"server" yaml:"server"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Configuration {
	home, _ := os.UserHomeDir()
	return Configuration{
		KiteHome:    filepath.Join(home, ".kite"),
		MaxDepth:    DefaultMaxDepth,
		LogLevel:    DefaultLogLevel,
		Color:       true,
		HistoryFile: filepath.Join(home, HistoryFileName),
		Journal:     JournalConfig{Driver: DefaultJournalDriver},
		Server:      ServerConfig{Addr: DefaultServerAddr},
	}
}

// Load layers defaults, the config file and the environment. An empty path
// falls back to $KITE_CONFIG and then to $KITE_HOME/config.toml if present.
func Load(path string, getenv func(string) string) (Configuration, error) {
	config := Default()
	if home := getenv("KITE_HOME"); home != "" {
		config.KiteHome = home
	}

	path = ConfigPath(path, config.KiteHome, getenv)
	if path != "" {
		if err := config.LoadFile(path); err != nil {
			return config, err
		}
	}

	if err := config.ApplyEnv(getenv); err != nil {
		return config, err
	}
	return config, nil
}

// ConfigPath picks the config file to read, or "" when there is none.
func ConfigPath(path, kiteHome string, getenv func(string) string) string {
	if path != "" {
		return path
	}
	if path = getenv("KITE_CONFIG"); path != "" {
		return path
	}
	if kiteHome == "" {
		return ""
	}
	candidate := filepath.Join(kiteHome, ConfigFileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// LoadFile decodes a TOML or YAML file over the current values, picking the
// format by extension. Keys missing from the file keep their value.
func (c *Configuration) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	case ".toml", "":
		_, err = toml.Decode(string(data), c)
	default:
		return fmt.Errorf("config %q: unsupported format %q", path, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("decode config %q: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from KITE_* variables.
func (c *Configuration) ApplyEnv(getenv func(string) string) error {
	fields := map[string]*string{
		"KITE_HOME":           &c.KiteHome,
		"KITE_LOG_LEVEL":      &c.LogLevel,
		"KITE_LOG_FILE":       &c.LogFile,
		"KITE_HISTORY_FILE":   &c.HistoryFile,
		"KITE_JOURNAL_DRIVER": &c.Journal.Driver,
		"KITE_JOURNAL_DSN":    &c.Journal.DSN,
		"KITE_SERVER_ADDR":    &c.Server.Addr,
	}
	for name, field := range fields {
		if v := getenv(name); v != "" {
			*field = v
		}
	}

	if v := getenv("KITE_MAX_DEPTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("KITE_MAX_DEPTH: invalid depth %q", v)
		}
		c.MaxDepth = n
	}
	if v := getenv("KITE_LOG_JSON"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("KITE_LOG_JSON: %w", err)
		}
		c.LogJSON = b
	}
	if v := getenv("KITE_NO_COLOR"); v != "" {
		c.Color = false
	}
	return nil
}
