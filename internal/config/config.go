// Package config loads vaultgraph's YAML configuration: store location,
// scan concurrency, analysis thresholds, and optional remote-vault git
// settings. Defaults are filled in first, then overlaid with whatever the
// YAML file sets, then validated via struct tags with validator/v10.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is vaultgraph's top-level configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" validate:"required"`
	Scan    ScanConfig    `yaml:"scan" validate:"required"`
	Graph   GraphConfig   `yaml:"graph" validate:"required"`
	GitSync GitSyncConfig `yaml:"git_sync"`
	API     APIConfig     `yaml:"api" validate:"required"`
}

// StoreConfig locates the persisted SQLite database file.
type StoreConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// ScanConfig tunes the Scanner's worker pool.
type ScanConfig struct {
	Concurrency int `yaml:"concurrency" validate:"min=1"`
	BatchSize   int `yaml:"batch_size" validate:"min=1"`
}

// GraphConfig tunes analysis thresholds that would otherwise be
// Facade-level constants.
type GraphConfig struct {
	HubDegreeThreshold int `yaml:"hub_degree_threshold" validate:"min=1"`
	ClusterMinSize     int `yaml:"cluster_min_size" validate:"min=1"`
}

// GitSyncConfig optionally points at a remote vault to fetch before
// scanning (gitsync, a domain addition beyond the distilled spec).
type GitSyncConfig struct {
	Enabled      bool   `yaml:"enabled"`
	RepoURL      string `yaml:"repo_url" validate:"required_if=Enabled true"`
	Branch       string `yaml:"branch"`
	LocalPath    string `yaml:"local_path" validate:"required_if=Enabled true"`
	ShallowClone bool   `yaml:"shallow_clone"`
}

// APIConfig configures the optional read-only inspection server.
type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr" validate:"required_if=Enabled true"`
}

var validate = validator.New()

// Default returns a Config with the same kind of sensible defaults the
// teacher's DefaultConfig ships.
func Default() *Config {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}

	return &Config{
		Store: StoreConfig{
			Path: filepath.Join(configDir, "vaultgraph", "vault_db"),
		},
		Scan: ScanConfig{
			Concurrency: 4,
			BatchSize:   100,
		},
		Graph: GraphConfig{
			HubDegreeThreshold: 10,
			ClusterMinSize:     2,
		},
		API: APIConfig{
			Enabled: false,
			Addr:    "localhost:8686",
		},
	}
}

// LoadFromYAML loads configuration from path, overlaying it on Default(),
// then validates the result.
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromYAMLOrDefault loads path if it exists, otherwise returns
// defaults untouched.
func LoadFromYAMLOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return LoadFromYAML(path)
}

// Validate runs struct-tag validation over the whole config tree.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	return nil
}
