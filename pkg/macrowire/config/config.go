package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/macrowire/pkg/macrowire/internalerr"
)

// Store backends.
const (
	StoreJSONL  = "jsonl"
	StoreSQLite = "sqlite"
)

// Defaults for the paging and bucket limits.
const (
	DefaultPerPage        = 30
	DefaultLimitPerSource = 6
	DefaultLimitPerTopic  = 10
)

// Environment variables that override the file.
const (
	EnvDataDir  = "MACROWIRE_DATA_DIR"
	EnvStore    = "MACROWIRE_STORE"
	EnvLogLevel = "MACROWIRE_LOG_LEVEL"
)

// Config describes where the pipeline's files live and how views are sized.
type Config struct {
	DataDir        string `yaml:"data_dir"`
	NewsFile       string `yaml:"news_file"`
	IndexFile      string `yaml:"index_file"`
	Store          string `yaml:"store"`
	SQLitePath     string `yaml:"sqlite_path,omitempty"`
	PerPage        int    `yaml:"per_page"`
	LimitPerSource int    `yaml:"limit_per_source"`
	LimitPerTopic  int    `yaml:"limit_per_topic"`
	LogLevel       string `yaml:"log_level"`
}

// Default returns the configuration used when no file exists. The data
// directory sits next to the working directory, where the crawler writes it.
func Default() Config {
	return Config{
		DataDir:        filepath.Join("..", "data"),
		NewsFile:       "news.jsonl",
		IndexFile:      "index.json",
		Store:          StoreJSONL,
		PerPage:        DefaultPerPage,
		LimitPerSource: DefaultLimitPerSource,
		LimitPerTopic:  DefaultLimitPerTopic,
		LogLevel:       "info",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/macrowire/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "macrowire", "config.yaml")
}

// NewsPath is the JSONL record store path.
func (c Config) NewsPath() string {
	return c.resolve(c.NewsFile)
}

// IndexPath is the status index path.
func (c Config) IndexPath() string {
	return c.resolve(c.IndexFile)
}

// DatabasePath is the SQLite record store path.
func (c Config) DatabasePath() string {
	if c.SQLitePath != "" {
		return c.resolve(c.SQLitePath)
	}
	return filepath.Join(c.DataDir, "news.db")
}

func (c Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path means DefaultPath. A missing file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidConfig, path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// defaults only
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStore)); v != "" {
		cfg.Store = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
}

// Validate checks the configuration for values the readers cannot use.
func (c *Config) Validate() error {
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	switch c.Store {
	case StoreJSONL, StoreSQLite:
	default:
		return fmt.Errorf("%w: unknown store %q (valid: jsonl, sqlite)", internalerr.ErrInvalidConfig, c.Store)
	}

	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir is required", internalerr.ErrInvalidConfig)
	}
	if c.NewsFile == "" {
		return fmt.Errorf("%w: news_file is required", internalerr.ErrInvalidConfig)
	}
	if c.IndexFile == "" {
		return fmt.Errorf("%w: index_file is required", internalerr.ErrInvalidConfig)
	}

	if c.PerPage <= 0 {
		return fmt.Errorf("%w: per_page must be positive, got %d", internalerr.ErrInvalidConfig, c.PerPage)
	}
	if c.LimitPerSource <= 0 {
		return fmt.Errorf("%w: limit_per_source must be positive, got %d", internalerr.ErrInvalidConfig, c.LimitPerSource)
	}
	if c.LimitPerTopic <= 0 {
		return fmt.Errorf("%w: limit_per_topic must be positive, got %d", internalerr.ErrInvalidConfig, c.LimitPerTopic)
	}
	return nil
}
