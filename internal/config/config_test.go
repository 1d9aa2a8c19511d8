package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DB_PATH", "LOG_LEVEL", "STATIC_DIR", "SESSION_MAX_AGE", "CLEANUP_INTERVAL", "LOG_PRETTY"} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "games.yaml", "port: \"9000\"\nsession_max_age: 30m\npretty: true\n")
	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" || cfg.SessionMaxAge != 30*time.Minute || !cfg.Pretty {
		t.Fatalf("YAML not applied: %+v", cfg)
	}
	if cfg.DBPath != "games.db" {
		t.Fatalf("unset keys should keep defaults, got %q", cfg.DBPath)
	}
}

func TestLoadMissingYAML(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), ""); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "games.yaml", "port: \"9000\"\nlog_level: warn\n")
	t.Setenv("PORT", "9100")
	t.Setenv("CLEANUP_INTERVAL", "5s")
	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9100" || cfg.LogLevel != "warn" || cfg.CleanupInterval != 5*time.Second {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestBadEnvDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_MAX_AGE", "forever")
	if _, err := Load("", ""); err == nil {
		t.Fatal("expected a duration error")
	}
}

func TestDotenv(t *testing.T) {
	clearEnv(t)
	// godotenv leaves present variables alone, even empty ones
	os.Unsetenv("DB_PATH")
	t.Setenv("STATIC_DIR", "public")
	path := writeFile(t, ".env", "DB_PATH=/tmp/from-dotenv.db\nSTATIC_DIR=ignored\n")
	cfg, err := Load("", path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/from-dotenv.db" {
		t.Fatalf("expected the .env database path, got %q", cfg.DBPath)
	}
	if cfg.StaticDir != "public" {
		t.Fatalf("the environment should win over .env, got %q", cfg.StaticDir)
	}
}

func TestMissingDotenvIsIgnored(t *testing.T) {
	clearEnv(t)
	if _, err := Load("", filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("missing .env should be ignored: %v", err)
	}
}

func TestFlagsOverride(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	if err := flags.Parse([]string{"--port", "7000", "--pretty", "--session-max-age", "2h"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg := Default()
	cfg.DBPath = "from-env.db"
	if err := cfg.ApplyFlags(flags); err != nil {
		t.Fatalf("ApplyFlags: %v", err)
	}
	if cfg.Port != "7000" || !cfg.Pretty || cfg.SessionMaxAge != 2*time.Hour {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if cfg.DBPath != "from-env.db" {
		t.Fatalf("unset flags must not override, got %q", cfg.DBPath)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Port = "" }},
		{"bad port", func(c *Config) { c.Port = "http" }},
		{"no db", func(c *Config) { c.DBPath = "" }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"zero age", func(c *Config) { c.SessionMaxAge = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected %s to fail", tc.name)
			}
		})
	}
}
