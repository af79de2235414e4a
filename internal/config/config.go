package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"pavecraft/internal/match"
	"pavecraft/internal/network"
	"pavecraft/internal/weights"
)

// FileName is the project config looked up in the working directory.
const FileName = "pavecraft.yaml"

type ProjectConfig struct {
	Project  string         `yaml:"project"`
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	Catalog  string         `yaml:"catalog"`
	Import   ImportConfig   `yaml:"import"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type DatabaseConfig struct {
	DSN       string `yaml:"dsn"`
	ProjectID string `yaml:"project_id"`
}

type ImportConfig struct {
	WeightMode     string  `yaml:"weight_mode"`
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`
	FuzzyMargin    float64 `yaml:"fuzzy_margin"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}

	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		if !strings.HasPrefix(dsn, "sqlite://") && !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
			return fmt.Errorf("unsupported database dsn scheme: %s", dsn)
		}
		if strings.TrimSpace(cfg.Database.ProjectID) == "" {
			return fmt.Errorf("database project_id is required with a dsn")
		}
	}

	if cfg.Import.WeightMode != "" {
		if _, ok := weights.ParseMode(cfg.Import.WeightMode); !ok {
			return fmt.Errorf("unknown import weight_mode: %s", cfg.Import.WeightMode)
		}
	}
	if err := checkRatio("fuzzy_threshold", cfg.Import.FuzzyThreshold); err != nil {
		return err
	}
	if err := checkRatio("fuzzy_margin", cfg.Import.FuzzyMargin); err != nil {
		return err
	}

	if cfg.Logging.Level != "" {
		if _, err := ParseLevel(cfg.Logging.Level); err != nil {
			return err
		}
	}

	return nil
}

// Zero means "use the default".
func checkRatio(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("import %s must be in (0, 1]: %g", name, v)
	}
	return nil
}

// WeightMode returns the configured current weight mode, or fallback.
func (c *ProjectConfig) WeightMode(fallback network.WeightMode) network.WeightMode {
	if mode, ok := weights.ParseMode(c.Import.WeightMode); ok {
		return mode
	}
	return fallback
}

func (c *ProjectConfig) MatchConfig() match.Config {
	return match.Config{
		FuzzyThreshold: c.Import.FuzzyThreshold,
		FuzzyMargin:    c.Import.FuzzyMargin,
	}
}

func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level: %s", s)
	}
	return level, nil
}
