/*
Package config manages TOML configuration for the sentencebuilder CLI.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the entire config structure.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Import   ImportConfig   `toml:"import"`
	Suggest  SuggestConfig  `toml:"suggest"`
	Generate GenerateConfig `toml:"generate"`
}

// DatabaseConfig locates the corpus database.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// ImportConfig holds import pipeline options.
type ImportConfig struct {
	Workers int `toml:"workers"`
}

// SuggestConfig holds autocomplete options.
type SuggestConfig struct {
	DefaultLimit     int    `toml:"default_limit"`
	DefaultAlgorithm string `toml:"default_algorithm"`
}

// GenerateConfig holds sentence generation options.
type GenerateConfig struct {
	MaxWords         int    `toml:"max_words"`
	DefaultAlgorithm string `toml:"default_algorithm"`
}

// Default returns a Config with built-in values.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "sentencebuilder.db",
		},
		Import: ImportConfig{
			Workers: 4,
		},
		Suggest: SuggestConfig{
			DefaultLimit:     3,
			DefaultAlgorithm: "bigram",
		},
		Generate: GenerateConfig{
			MaxWords:         20,
			DefaultAlgorithm: "smart-trigram",
		},
	}
}

// DefaultPath returns [UserConfigDir]/sentencebuilder/config.toml, or an
// empty string when the user config directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "sentencebuilder", "config.toml")
}

// Load reads a TOML file over the built-in defaults, so a partial file only
// overrides the keys it names.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadWithPriority loads config with priority:
// 1. Custom path from --config flag (an error here is fatal)
// 2. Default path, when the file exists
// 3. Built-in defaults
func LoadWithPriority(customPath string) (*Config, string, error) {
	if customPath != "" {
		cfg, err := Load(customPath)
		if err != nil {
			return nil, "", err
		}
		return cfg, customPath, nil
	}
	defaultPath := DefaultPath()
	if defaultPath != "" {
		if _, err := os.Stat(defaultPath); err == nil {
			cfg, err := Load(defaultPath)
			if err != nil {
				return nil, "", err
			}
			return cfg, defaultPath, nil
		}
	}
	return Default(), "", nil
}

// Save writes the config as TOML, creating the parent directory if needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

func (c *Config) validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Import.Workers < 1 {
		return fmt.Errorf("import.workers must be >= 1, got %d", c.Import.Workers)
	}
	if c.Suggest.DefaultLimit < 1 {
		return fmt.Errorf("suggest.default_limit must be >= 1, got %d", c.Suggest.DefaultLimit)
	}
	if c.Generate.MaxWords < 1 {
		return fmt.Errorf("generate.max_words must be >= 1, got %d", c.Generate.MaxWords)
	}
	return nil
}
