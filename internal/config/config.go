// Package config resolves planpilot's settings from flags, the
// environment, <data_dir>/config.yaml and defaults, in that order.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/example/planpilot/internal/apperr"
	"github.com/example/planpilot/internal/db"
)

// Configuration keys.
const (
	KeyDataDir      = "data_dir"
	KeySessionID    = "session_id"
	KeyLogLevel     = "log_level"
	KeySyncMarkdown = "sync_markdown"
	KeyRenderStyle  = "render_style"
)

// EnvPrefix prefixes every environment variable, e.g. PLANPILOT_DATA_DIR.
const EnvPrefix = "PLANPILOT"

// flagKeys maps command-line flag names to the keys they override.
var flagKeys = map[string]string{
	"data-dir":   KeyDataDir,
	"session-id": KeySessionID,
	"log-level":  KeyLogLevel,
}

// Config is the resolved configuration of one invocation.
type Config struct {
	DataDir      string
	SessionID    string
	LogLevel     slog.Level
	SyncMarkdown bool
	RenderStyle  string
}

// DatabasePath is the SQLite file inside the data directory.
func (c *Config) DatabasePath() string {
	return db.Path(c.DataDir)
}

// LockPath is the process lock file inside the data directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.DataDir, "planpilot.lock")
}

// DefaultDataDir returns ~/.planpilot.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".planpilot"), nil
}

// Load resolves the configuration. flags may be nil; flags that were not
// set on the command line do not override other sources.
// The data directory itself is never read from config.yaml, which lives
// inside it.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	defaultDir, err := DefaultDataDir()
	if err != nil {
		return nil, err
	}
	v.SetDefault(KeyDataDir, defaultDir)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeySyncMarkdown, true)
	v.SetDefault(KeyRenderStyle, "auto")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	dataDir := expandHome(v.GetString(KeyDataDir))
	if err := readConfigFile(v, filepath.Join(dataDir, "config.yaml")); err != nil {
		return nil, err
	}

	sessionID, err := sessionID(v)
	if err != nil {
		return nil, err
	}
	level, err := ParseLogLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, err
	}

	return &Config{
		DataDir:      dataDir,
		SessionID:    sessionID,
		LogLevel:     level,
		SyncMarkdown: v.GetBool(KeySyncMarkdown),
		RenderStyle:  v.GetString(KeyRenderStyle),
	}, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func sessionID(v *viper.Viper) (string, error) {
	if !v.IsSet(KeySessionID) {
		return "", apperr.InvalidInput("--session-id is required")
	}
	id := strings.TrimSpace(v.GetString(KeySessionID))
	if id == "" {
		return "", apperr.InvalidInput("--session-id is empty")
	}
	return id, nil
}

// ParseLogLevel accepts debug, info, warn and error in any case.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, apperr.InvalidInput("invalid log level: %s", s)
	}
	return level, nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
