// Package config layers defaults, the YAML config file and DEVCLEAN_*
// environment variables into the settings of a run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/eliteGoblin/devclean/internal/domain"
	"github.com/eliteGoblin/devclean/internal/usecase"
)

// Environment variables read by ApplyEnv.
const (
	EnvWorkers    = "DEVCLEAN_WORKERS"
	EnvMaxDepth   = "DEVCLEAN_MAX_DEPTH"
	EnvCategories = "DEVCLEAN_CATEGORIES"
	EnvLogLevel   = "DEVCLEAN_LOG_LEVEL"
)

// Config holds user-tunable settings before they are resolved against a root.
type Config struct {
	Workers    int      `yaml:"workers"`    // 0 = one per logical CPU
	MaxDepth   int      `yaml:"max_depth"`  // -1 = unlimited
	Categories []string `yaml:"categories"` // node, rust, python, java, all
	LogLevel   string   `yaml:"log_level"`
	Parallel   bool     `yaml:"parallel"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Workers:    0,
		MaxDepth:   domain.NoDepthLimit,
		Categories: []string{"all"},
		LogLevel:   "warn",
		Parallel:   true,
	}
}

// fileConfig distinguishes absent keys from zero values.
type fileConfig struct {
	Workers    *int     `yaml:"workers"`
	MaxDepth   *int     `yaml:"max_depth"`
	Categories []string `yaml:"categories"`
	LogLevel   *string  `yaml:"log_level"`
	Parallel   *bool    `yaml:"parallel"`
}

// Load reads path on top of the defaults. A missing file yields the
// defaults unless mustExist is set; a malformed file is always an error.
func Load(path string, mustExist bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !mustExist {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.MaxDepth != nil {
		cfg.MaxDepth = *fc.MaxDepth
	}
	if len(fc.Categories) > 0 {
		cfg.Categories = fc.Categories
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.Parallel != nil {
		cfg.Parallel = *fc.Parallel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv exports variables from envFile into the process environment.
// Variables already set win, and a missing file is ignored.
func LoadDotEnv(envFile string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	return nil
}

// ApplyEnv overrides cfg with any DEVCLEAN_* variables that are set.
func (c *Config) ApplyEnv() error {
	if v, ok := lookup(EnvWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	if v, ok := lookup(EnvMaxDepth); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxDepth, err)
		}
		c.MaxDepth = n
	}
	if v, ok := lookup(EnvCategories); ok {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		c.Categories = parts
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	return c.Validate()
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Validate checks every field without touching the filesystem.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.MaxDepth < domain.NoDepthLimit {
		return fmt.Errorf("max_depth must be >= 0 or %d for unlimited, got %d", domain.NoDepthLimit, c.MaxDepth)
	}
	if _, err := domain.ParseCategories(c.Categories); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.WarnLevel, fmt.Errorf("invalid log_level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}
	return level, nil
}

// EffectiveWorkers returns the configured worker count, forcing one worker
// when parallelism is off.
func (c *Config) EffectiveWorkers() int {
	if !c.Parallel {
		return 1
	}
	return c.Workers
}

// Resolve produces the pipeline input for root. The root is made absolute
// and resolved through symlinks once here; the walk below it follows none.
func Resolve(c *Config, root string, dryRun bool) (domain.ScanConfig, error) {
	if err := c.Validate(); err != nil {
		return domain.ScanConfig{}, err
	}
	categories, _ := domain.ParseCategories(c.Categories)

	abs, err := filepath.Abs(root)
	if err != nil {
		return domain.ScanConfig{}, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	if err := usecase.ValidateRoot(abs); err != nil {
		return domain.ScanConfig{}, err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return domain.ScanConfig{}, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	return domain.ScanConfig{
		RootPath:   resolved,
		Categories: categories,
		MaxDepth:   c.MaxDepth,
		DryRun:     dryRun,
		Workers:    c.EffectiveWorkers(),
	}, nil
}
