// Package config loads and saves the savearn TOML configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds all savearn configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Storage    StorageConfig    `toml:"storage"`
	Server     ServerConfig     `toml:"server"`
	Identity   IdentityConfig   `toml:"identity"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	UserID      string `toml:"user_id"`
	DataDir     string `toml:"data_dir,omitempty"`
	DefaultDays int    `toml:"default_days"`
}

// StorageConfig selects where entries live.
type StorageConfig struct {
	Backend     string `toml:"backend"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr            string `toml:"addr"`
	JWTSecret       string `toml:"jwt_secret,omitempty"`
	AllowAnonymous  bool   `toml:"allow_anonymous"`
	AnonymousUser   string `toml:"anonymous_user,omitempty"`
	DefaultPageSize int    `toml:"default_page_size"`
	MaxPageSize     int    `toml:"max_page_size"`
}

// IdentityConfig points at the user directory that serves profiles.
type IdentityConfig struct {
	BaseURL string       `toml:"base_url,omitempty"`
	APIKey  string       `toml:"api_key,omitempty"`
	Users   []StaticUser `toml:"users,omitempty"`
}

// StaticUser is a profile declared directly in the config file.
type StaticUser struct {
	ID            string `toml:"id"`
	Email         string `toml:"email"`
	Name          string `toml:"name"`
	EmailVerified bool   `toml:"email_verified"`
	Status        string `toml:"status,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			UserID:      "local",
			DefaultDays: 14,
		},
		Storage: StorageConfig{
			Backend: BackendFile,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8787",
			AnonymousUser:   "temp-user-id",
			DefaultPageSize: 50,
			MaxPageSize:     200,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "savearn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "savearn")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultDataDir returns the XDG data directory used when none is configured.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "savearn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "savearn")
}

// DataDir returns the configured data directory or the default.
func (c Config) DataDir() string {
	if c.General.DataDir != "" {
		return expandHome(c.General.DataDir)
	}
	return DefaultDataDir()
}

// SQLitePath returns the configured database path or one inside DataDir.
func (c Config) SQLitePath() string {
	if c.Storage.SQLitePath != "" {
		return expandHome(c.Storage.SQLitePath)
	}
	return filepath.Join(c.DataDir(), "savearn.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied on top in both cases.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	ApplyEnv(&cfg)
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is fine.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg from SAVEARN_* environment variables.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("SAVEARN_USER"); v != "" {
		cfg.General.UserID = v
	}
	if v := os.Getenv("SAVEARN_JWT_SECRET"); v != "" {
		cfg.Server.JWTSecret = v
	}
	if v := os.Getenv("SAVEARN_IDENTITY_API_KEY"); v != "" {
		cfg.Identity.APIKey = v
	}
	if v := os.Getenv("SAVEARN_POSTGRES_DSN"); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv("SAVEARN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.General.UserID) == "" {
		problems = append(problems, "general.user_id must not be empty")
	}
	if c.General.DefaultDays < 1 {
		problems = append(problems, fmt.Sprintf("general.default_days %d: must be at least 1", c.General.DefaultDays))
	}

	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			problems = append(problems, "storage.postgres_dsn is required for the postgres backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("storage.backend %q: must be one of file, sqlite, postgres", c.Storage.Backend))
	}

	if c.Server.DefaultPageSize < 1 {
		problems = append(problems, "server.default_page_size must be at least 1")
	}
	if c.Server.MaxPageSize < c.Server.DefaultPageSize {
		problems = append(problems, fmt.Sprintf("server.max_page_size %d: must not be below default_page_size %d",
			c.Server.MaxPageSize, c.Server.DefaultPageSize))
	}
	if c.Server.AllowAnonymous && c.Server.AnonymousUser == "" {
		problems = append(problems, "server.anonymous_user is required when allow_anonymous is set")
	}

	if c.Identity.BaseURL != "" {
		u, err := url.Parse(c.Identity.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			problems = append(problems, fmt.Sprintf("identity.base_url %q: must be an http(s) URL", c.Identity.BaseURL))
		}
	}
	seen := make(map[string]bool)
	for i, u := range c.Identity.Users {
		switch {
		case u.ID == "":
			problems = append(problems, fmt.Sprintf("identity.users[%d]: id is required", i))
		case seen[u.ID]:
			problems = append(problems, fmt.Sprintf("identity.users[%d]: duplicate id %q", i, u.ID))
		}
		seen[u.ID] = true
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q: must be text or json", c.Log.Format))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration:\n  - " + strings.Join(problems, "\n  - "))
	}
	return nil
}

// Mask hides all but the last four characters of a secret.
func Mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
