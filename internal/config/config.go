package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ReminderConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Time     string   `mapstructure:"time"`     // "17:00"
	Workdays []string `mapstructure:"workdays"` // ["Sat","Sun"]
	Holidays []string `mapstructure:"holidays"` // ["2025-12-25"]
	Timezone string   `mapstructure:"timezone"` // e.g. "Europe/Paris" (optional)
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// Account modes select the backend the client store talks to.
const (
	AccountLocal   = "local"   // sqlite on this machine
	AccountOnline  = "online"  // HTTP API
	AccountOffline = "offline" // diskv cache only, no user
)

type AccountConfig struct {
	Mode  string `mapstructure:"mode"`
	Email string `mapstructure:"email"` // local mode: which user to act as
}

type OfflineConfig struct {
	Path string `mapstructure:"path"`
}

type SessionConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type Config struct {
	Theme    string         `mapstructure:"theme"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	API      APIConfig      `mapstructure:"api"`
	Account  AccountConfig  `mapstructure:"account"`
	Offline  OfflineConfig  `mapstructure:"offline"`
	Session  SessionConfig  `mapstructure:"session"`
	Log      LogConfig      `mapstructure:"log"`
}

func Default() Config {
	return Config{
		Theme: "default",
		Reminder: ReminderConfig{
			Enabled:  false,
			Time:     "10:00",
			Workdays: []string{"Sat"},
			Holidays: []string{},
			Timezone: "",
		},
		Server:   ServerConfig{Addr: "localhost:8080"},
		Database: DatabaseConfig{Path: ""},
		API:      APIConfig{BaseURL: "http://localhost:8080"},
		Account:  AccountConfig{Mode: AccountLocal},
		Offline:  OfflineConfig{Path: ""},
		Session:  SessionConfig{Secret: "", TTL: 30 * 24 * time.Hour},
		Log:      LogConfig{Level: "info"},
	}
}

// DataDir is where the database, offline cache and credentials live.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	base := filepath.Join(home, ".local", "share", "shoppingify")
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", err
	}
	return base, nil
}

func xdgConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv("SHOPPINGIFY_CONFIG")); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "shoppingify")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the default config file location.
func Load() (Config, error) {
	path, err := xdgConfigPath()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile reads config from path; a missing file yields the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvPrefix("SHOPPINGIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// defaults
	v.SetDefault("theme", cfg.Theme)
	v.SetDefault("reminder.enabled", cfg.Reminder.Enabled)
	v.SetDefault("reminder.time", cfg.Reminder.Time)
	v.SetDefault("reminder.workdays", cfg.Reminder.Workdays)
	v.SetDefault("reminder.holidays", cfg.Reminder.Holidays)
	v.SetDefault("reminder.timezone", cfg.Reminder.Timezone)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("account.mode", cfg.Account.Mode)
	v.SetDefault("account.email", cfg.Account.Email)
	v.SetDefault("offline.path", cfg.Offline.Path)
	v.SetDefault("session.secret", cfg.Session.Secret)
	v.SetDefault("session.ttl", cfg.Session.TTL)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.development", cfg.Log.Development)

	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, fmt.Errorf("config read: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config unmarshal: %w", err)
	}

	// normalize workdays
	for i, d := range cfg.Reminder.Workdays {
		d = strings.ToLower(strings.TrimSpace(d))
		if len(d) >= 3 {
			d = d[:3]
		}
		if d != "" {
			d = strings.ToUpper(d[:1]) + d[1:]
		}
		cfg.Reminder.Workdays[i] = d
	}
	cfg.Account.Mode = strings.ToLower(strings.TrimSpace(cfg.Account.Mode))
	switch cfg.Account.Mode {
	case AccountLocal, AccountOnline, AccountOffline:
	default:
		return cfg, fmt.Errorf("unknown account.mode %q (want local|online|offline)", cfg.Account.Mode)
	}
	return cfg, nil
}

func (c Config) Location() *time.Location {
	if tz := strings.TrimSpace(c.Reminder.Timezone); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.Local
}

// DatabasePath resolves database.path, defaulting into DataDir.
func (c Config) DatabasePath() (string, error) {
	if p := strings.TrimSpace(c.Database.Path); p != "" {
		return p, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "shoppingify.db"), nil
}

// OfflinePath resolves offline.path, defaulting into DataDir.
func (c Config) OfflinePath() (string, error) {
	if p := strings.TrimSpace(c.Offline.Path); p != "" {
		return p, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "offline"), nil
}
