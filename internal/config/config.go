package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ErrUnknownStore is returned by Validate for an unsupported store type.
var ErrUnknownStore = errors.New("config: unknown store type")

// MatcherConfig tunes fuzzy matching.
type MatcherConfig struct {
	MinScore float64 `yaml:"min_score" env:"MIN_SCORE"`
}

// StoreConfig selects and configures the record store implementation.
type StoreConfig struct {
	Type   string       `yaml:"type" env:"TYPE"`
	SQLite SQLiteConfig `yaml:"sqlite" envPrefix:"SQLITE_"`
}

// SQLiteConfig locates the SQLite record cache.
type SQLiteConfig struct {
	Path string `yaml:"path" env:"PATH"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// TUIConfig configures the interactive launcher.
type TUIConfig struct {
	MaxResults int  `yaml:"max_results" env:"MAX_RESULTS"`
	Watch      bool `yaml:"watch" env:"WATCH"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Matcher MatcherConfig `yaml:"matcher" envPrefix:"MATCHER_"`
	Store   StoreConfig   `yaml:"store" envPrefix:"STORE_"`
	Log     LogConfig     `yaml:"log" envPrefix:"LOG_"`
	TUI     TUIConfig     `yaml:"tui" envPrefix:"TUI_"`
}

// EnvPrefix prefixes every environment override, e.g. RESOLVER_STORE_TYPE.
const EnvPrefix = "RESOLVER_"

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Environment overrides are applied either way.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, applyEnv(cfg)
		}
		return nil, err
	}
	// Booleans cannot be told apart from unset after decoding, so seed them.
	cfg := AppConfig{TUI: TUIConfig{Watch: true}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/resolver/config.yaml.
// If neither exists, it writes defaults to ~/.config/resolver/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, applyEnv(cfg)
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks values defaults cannot repair.
func (c *AppConfig) Validate() error {
	switch c.Store.Type {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStore, c.Store.Type)
	}
	if c.Matcher.MinScore < 0 || c.Matcher.MinScore > 100 {
		return fmt.Errorf("config: matcher.min_score %v outside 0-100", c.Matcher.MinScore)
	}
	return nil
}

// NewLogger builds the slog logger described by cfg, writing to w.
func NewLogger(cfg LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func applyEnv(cfg *AppConfig) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	dir, err := defaultUserDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func defaultUserDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "resolver"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Matcher: MatcherConfig{MinScore: 80},
		Store:   StoreConfig{Type: "sqlite"},
		Log:     LogConfig{Level: "info", Format: "text"},
		TUI:     TUIConfig{MaxResults: 30, Watch: true},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Matcher.MinScore == 0 {
		cfg.Matcher.MinScore = 80
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "sqlite"
	}
	if cfg.Store.Type == "sqlite" && cfg.Store.SQLite.Path == "" {
		if dir, err := defaultUserDir(); err == nil {
			cfg.Store.SQLite.Path = filepath.Join(dir, "records.db")
		} else {
			cfg.Store.SQLite.Path = "records.db"
		}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.TUI.MaxResults == 0 {
		cfg.TUI.MaxResults = 30
	}
}
