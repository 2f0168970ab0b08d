// Package config loads service configuration from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidPort         = errors.New("server.port must be between 1 and 65535")
	ErrMissingCatalogPath  = errors.New("catalog.path is required")
	ErrMissingBookmarkFile = errors.New("bookmarks.file is required when bookmarks.database_url is not set")
)

// Config is the complete service configuration. Environment variables
// override individual fields after the file is loaded.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Bookmarks BookmarksConfig `yaml:"bookmarks"`
	Auth      AuthConfig      `yaml:"auth"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type CatalogConfig struct {
	// Path to the event CSV loaded at startup and on admin reload.
	Path string `yaml:"path"`
}

type BookmarksConfig struct {
	// File holds the bookmark id set, one id per line.
	File string `yaml:"file"`
	// DatabaseURL switches persistence to Postgres when set.
	DatabaseURL string `yaml:"database_url"`
}

type AuthConfig struct {
	// File is the username:hash secret protecting the admin endpoints.
	File string `yaml:"file"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		},
		Catalog: CatalogConfig{
			Path: "events.csv",
		},
		Bookmarks: BookmarksConfig{
			File: "bookmarks.txt",
		},
		Auth: AuthConfig{
			File: "auth.secret",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path means
// defaults only.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the service cannot run with.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return ErrInvalidPort
	}
	if c.Catalog.Path == "" {
		return ErrMissingCatalogPath
	}
	if c.Bookmarks.DatabaseURL == "" && c.Bookmarks.File == "" {
		return ErrMissingBookmarkFile
	}
	return nil
}
