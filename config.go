package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultAddr            = ":8080"
	defaultSitePath        = "site.yaml"
	defaultDBPath          = "portfolio.db"
	defaultRetention       = 365 * 24 * time.Hour
	defaultCleanupSchedule = "30 3 * * *"
)

// appConfig is the server's runtime configuration. The site content
// itself lives in the site document.
type appConfig struct {
	Addr            string        `mapstructure:"addr"`
	SitePath        string        `mapstructure:"site"`
	Watch           bool          `mapstructure:"watch"`
	Analytics       bool          `mapstructure:"analytics"`
	DBPath          string        `mapstructure:"db-path"`
	HashSalt        string        `mapstructure:"hash-salt"`
	Retention       time.Duration `mapstructure:"retention"`
	CleanupSchedule string        `mapstructure:"cleanup-schedule"`
	AdminUsername   string        `mapstructure:"admin-username"`
	AdminPassword   string        `mapstructure:"admin-password"`
	SecureCookies   bool          `mapstructure:"secure-cookies"`
	LogLevel        string        `mapstructure:"log-level"`
	ShowVersion     bool          `mapstructure:"version"`
	ConfigPath      string        `mapstructure:"-"`
}

// loadConfig layers defaults, an optional settings file, PORTFOLIO_*
// environment variables and flags, in increasing priority. PORT is
// honoured for hosts that only set that.
func loadConfig(args []string) (appConfig, error) {
	var cfg appConfig

	fs := pflag.NewFlagSet("portfolio", pflag.ContinueOnError)
	fs.String("config", "", "settings file (yaml, toml or json)")
	fs.String("addr", defaultAddr, "listen address")
	fs.String("site", defaultSitePath, "site document; the built-in one is used when missing")
	fs.Bool("watch", true, "reload the site document when it changes")
	fs.Bool("analytics", true, "record privacy-conscious visitor statistics")
	fs.String("db-path", defaultDBPath, "sqlite database for visitor statistics")
	fs.String("hash-salt", "", "salt for visitor IP hashes (random per start when empty)")
	fs.Duration("retention", defaultRetention, "how long visitor records are kept")
	fs.String("cleanup-schedule", defaultCleanupSchedule, "cron schedule for the retention sweep")
	fs.String("admin-username", "", "admin dashboard username")
	fs.String("admin-password", "", "admin dashboard password")
	fs.Bool("secure-cookies", false, "mark cookies Secure")
	fs.String("log-level", "info", "debug, info, warn or error")
	fs.Bool("version", false, "print version information")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	v := viper.New()
	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return cfg, fmt.Errorf("bind flags: %w", err)
	}

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read settings: %w", err)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode settings: %w", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	if port := os.Getenv("PORT"); port != "" && !fs.Changed("addr") && !v.InConfig("addr") && os.Getenv("PORTFOLIO_ADDR") == "" {
		cfg.Addr = ":" + port
	}
	if cfg.Retention <= 0 {
		return cfg, fmt.Errorf("invalid retention: %s", cfg.Retention)
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid log-level %q", s)
	}
	return level, nil
}

func newLogger(level string) *slog.Logger {
	l, err := parseLogLevel(level)
	if err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
