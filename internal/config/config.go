// Package config loads server settings from an optional YAML file with
// environment variables layered on top.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"taskeve/internal/util"
)

// Config holds every runtime knob for the server.
type Config struct {
	Addr          string
	DBPath        string
	StaticDir     string
	SessionSecret string
	SessionTTL    time.Duration
}

// fileConfig is the on-disk shape; durations are strings like "24h".
type fileConfig struct {
	Addr          string `yaml:"addr"`
	DBPath        string `yaml:"db_path"`
	StaticDir     string `yaml:"static_dir"`
	SessionSecret string `yaml:"session_secret"`
	SessionTTL    string `yaml:"session_ttl"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Addr:       ":8080",
		DBPath:     "data/taskeve.db",
		StaticDir:  "web/dist",
		SessionTTL: 24 * time.Hour,
	}
}

// Load reads the YAML file at path (when it exists) over the defaults,
// then applies TASKEVE_* environment overrides. A missing file is not an
// error; an unreadable or malformed one is.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			var fc fileConfig
			if err := yaml.Unmarshal(data, &fc); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
			if fc.Addr != "" {
				cfg.Addr = fc.Addr
			}
			if fc.DBPath != "" {
				cfg.DBPath = fc.DBPath
			}
			if fc.StaticDir != "" {
				cfg.StaticDir = fc.StaticDir
			}
			if fc.SessionSecret != "" {
				cfg.SessionSecret = fc.SessionSecret
			}
			if fc.SessionTTL != "" {
				ttl, err := time.ParseDuration(fc.SessionTTL)
				if err != nil {
					return Config{}, fmt.Errorf("parse session_ttl: %w", err)
				}
				cfg.SessionTTL = ttl
			}
		}
	}

	cfg.Addr = util.EnvOrDefault("TASKEVE_ADDR", cfg.Addr)
	cfg.DBPath = util.EnvOrDefault("TASKEVE_DB_PATH", cfg.DBPath)
	cfg.StaticDir = util.EnvOrDefault("TASKEVE_STATIC_DIR", cfg.StaticDir)
	cfg.SessionSecret = util.EnvOrDefault("TASKEVE_SESSION_SECRET", cfg.SessionSecret)

	if raw := os.Getenv("TASKEVE_SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse TASKEVE_SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = ttl
	}

	return cfg, nil
}
