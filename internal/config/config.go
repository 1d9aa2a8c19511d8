// Package config assembles server settings from defaults, an optional YAML
// file, a .env file, the environment and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"
)

// Config holds the server settings.
type Config struct {
	Port            string        `yaml:"port"`
	DBPath          string        `yaml:"db_path"`
	LogLevel        string        `yaml:"log_level"`
	StaticDir       string        `yaml:"static_dir"`
	SessionMaxAge   time.Duration `yaml:"session_max_age"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	Pretty          bool          `yaml:"pretty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:            "8080",
		DBPath:          "games.db",
		LogLevel:        "info",
		StaticDir:       "web",
		SessionMaxAge:   time.Hour,
		CleanupInterval: time.Minute,
	}
}

// Load layers the YAML file at path (skipped when empty) and the .env file
// at dotenv (skipped when empty or missing) over the defaults, then applies
// the environment. Variables already set in the environment win over .env.
func Load(path, dotenv string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str("PORT", &c.Port)
	str("DB_PATH", &c.DBPath)
	str("LOG_LEVEL", &c.LogLevel)
	str("STATIC_DIR", &c.StaticDir)
	if err := dur("SESSION_MAX_AGE", &c.SessionMaxAge); err != nil {
		return err
	}
	if err := dur("CLEANUP_INTERVAL", &c.CleanupInterval); err != nil {
		return err
	}
	if v, ok := lookup("LOG_PRETTY"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LOG_PRETTY: %w", err)
		}
		c.Pretty = b
	}
	return nil
}

// Flag names.
const (
	FlagPort            = "port"
	FlagDBPath          = "db"
	FlagLogLevel        = "log-level"
	FlagStaticDir       = "static"
	FlagSessionMaxAge   = "session-max-age"
	FlagCleanupInterval = "cleanup-interval"
	FlagPretty          = "pretty"
)

// RegisterFlags declares the override flags on flags.
func RegisterFlags(flags *pflag.FlagSet) {
	d := Default()
	flags.StringP(FlagPort, "p", d.Port, "Port to listen on")
	flags.String(FlagDBPath, d.DBPath, "Path of the SQLite database")
	flags.String(FlagLogLevel, d.LogLevel, "Log level (debug, info, warn, error)")
	flags.String(FlagStaticDir, d.StaticDir, "Directory of static files to serve, empty to disable")
	flags.Duration(FlagSessionMaxAge, d.SessionMaxAge, "Idle time after which a session is removed")
	flags.Duration(FlagCleanupInterval, d.CleanupInterval, "How often idle sessions are swept")
	flags.Bool(FlagPretty, false, "Human-readable console logs")
}

// ApplyFlags overrides c with every flag set on the command line.
func (c *Config) ApplyFlags(flags *pflag.FlagSet) error {
	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case FlagPort:
			c.Port, err = flags.GetString(f.Name)
		case FlagDBPath:
			c.DBPath, err = flags.GetString(f.Name)
		case FlagLogLevel:
			c.LogLevel, err = flags.GetString(f.Name)
		case FlagStaticDir:
			c.StaticDir, err = flags.GetString(f.Name)
		case FlagSessionMaxAge:
			c.SessionMaxAge, err = flags.GetDuration(f.Name)
		case FlagCleanupInterval:
			c.CleanupInterval, err = flags.GetDuration(f.Name)
		case FlagPretty:
			c.Pretty, err = flags.GetBool(f.Name)
		}
	})
	return err
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.DBPath == "" {
		return errors.New("database path is required")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.SessionMaxAge <= 0 || c.CleanupInterval <= 0 {
		return errors.New("session max age and cleanup interval must be positive")
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return lvl, nil
}

// Addr is the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}
