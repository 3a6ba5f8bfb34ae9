// Package config handles configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/spetr/coderag/pkg/types"
)

// Config represents the complete configuration.
type Config struct {
	Collector CollectorConfig `mapstructure:"collector" yaml:"collector"`
	Embedding EmbeddingConfig `mapstructure:"embedding" yaml:"embedding"`
	Search    SearchConfig    `mapstructure:"search" yaml:"search"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// CollectorConfig contains document collection options.
type CollectorConfig struct {
	MaxFileSize string `mapstructure:"max_file_size" yaml:"max_file_size"` // e.g. "1MB"; empty means no limit
	Workers     int    `mapstructure:"workers" yaml:"workers"`             // 0 uses NumCPU
}

// EmbeddingConfig contains embedding provider configuration.
type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider" yaml:"provider"`     // openai, hash
	Model      string `mapstructure:"model" yaml:"model"`           // model name
	Endpoint   string `mapstructure:"endpoint" yaml:"endpoint"`     // OpenAI-compatible API endpoint
	APIKey     string `mapstructure:"api_key" yaml:"api_key"`       // API key
	BatchSize  int    `mapstructure:"batch_size" yaml:"batch_size"` // texts per request
	Dimensions int    `mapstructure:"dimensions" yaml:"dimensions"` // 0 uses the model default
}

// SearchConfig contains search defaults.
type SearchConfig struct {
	DefaultLimit int `mapstructure:"default_limit" yaml:"default_limit"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text, json
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Collector: CollectorConfig{
			MaxFileSize: "1MB",
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			BatchSize: 100,
		},
		Search: SearchConfig{
			DefaultLimit: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the given file (or coderag.yaml in the
// working directory when path is empty), layered over defaults and
// CODERAG_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CODERAG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("coderag")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("collector.max_file_size", def.Collector.MaxFileSize)
	v.SetDefault("collector.workers", def.Collector.Workers)
	v.SetDefault("embedding.provider", def.Embedding.Provider)
	v.SetDefault("embedding.model", def.Embedding.Model)
	v.SetDefault("embedding.batch_size", def.Embedding.BatchSize)
	v.SetDefault("search.default_limit", def.Search.DefaultLimit)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
}

// Validate checks the configuration and returns all problems found.
func Validate(cfg *Config) []error {
	var errs []error

	switch cfg.Embedding.Provider {
	case "openai", "hash":
	default:
		errs = append(errs, fmt.Errorf("%w: unknown embedding provider %q", types.ErrInvalidConfig, cfg.Embedding.Provider))
	}

	if cfg.Embedding.BatchSize < 0 {
		errs = append(errs, fmt.Errorf("%w: embedding batch_size must be >= 0", types.ErrInvalidConfig))
	}

	if cfg.Search.DefaultLimit <= 0 {
		errs = append(errs, fmt.Errorf("%w: search default_limit must be > 0", types.ErrInvalidConfig))
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: unknown log level %q", types.ErrInvalidConfig, cfg.Logging.Level))
	}

	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: unknown log format %q", types.ErrInvalidConfig, cfg.Logging.Format))
	}

	if cfg.Collector.MaxFileSize != "" {
		if _, err := ParseSize(cfg.Collector.MaxFileSize); err != nil {
			errs = append(errs, fmt.Errorf("%w: %v", types.ErrInvalidConfig, err))
		}
	}

	return errs
}

// ParseSize converts a human-readable size like "512KB" or "1MB" to bytes.
// A bare number is taken as bytes; an empty string means no limit (0).
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, nil
	}

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1 << 30
		s = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1 << 20
		s = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1 << 10
		s = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		s = strings.TrimSuffix(s, "B")
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid size: negative value %d", n)
	}
	return n * multiplier, nil
}
