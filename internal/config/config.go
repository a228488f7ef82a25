package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Well-known file names inside a ledger directory.
const (
	FileName       = "coffer.yaml"
	LedgerFileName = "ledger.json"
	BackupDirName  = "backups"
	LogDirName     = "logs"
	ExportDirName  = "exports"
)

// Config represents the top-level coffer.yaml configuration.
type Config struct {
	Ledger  LedgerConfig  `yaml:"ledger"`
	Backups BackupsConfig `yaml:"backups"`
	Git     GitConfig     `yaml:"git"`
}

// LedgerConfig carries the account-limit defaults applied at creation time.
// All amounts are integer cents.
type LedgerConfig struct {
	DefaultMaxBalance     int64 `yaml:"default_max_balance"`
	DefaultMaxTransaction int64 `yaml:"default_max_transaction"`
	DefaultOverdraftLimit int64 `yaml:"default_overdraft_limit"`
}

// BackupsConfig controls snapshot backup rotation.
type BackupsConfig struct {
	Retention int `yaml:"retention"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a coffer.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default() *Config {
	return &Config{
		Ledger: LedgerConfig{
			DefaultMaxBalance:     DefaultMaxBalance,
			DefaultMaxTransaction: DefaultMaxTransaction,
			DefaultOverdraftLimit: DefaultOverdraftLimit,
		},
		Backups: BackupsConfig{
			Retention: DefaultBackupRetention,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Coffer",
			AuthorEmail: "ledger@coffer.dev",
		},
	}
}

// Validate checks the loaded values the same way ValidatePolicy checks the
// compiled-in defaults.
func (c *Config) Validate() error {
	if err := CheckAccountLimits(c.Ledger.DefaultMaxBalance, c.Ledger.DefaultMaxTransaction, c.Ledger.DefaultOverdraftLimit); err != nil {
		return err
	}
	if c.Backups.Retention < 0 {
		return fmt.Errorf("backup retention must not be negative, got %d", c.Backups.Retention)
	}
	return nil
}
