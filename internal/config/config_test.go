package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetr/coderag/pkg/types"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.Empty(t, Validate(DefaultConfig()))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.Embedding.Provider = "bedrock" }},
		{"zero search limit", func(c *Config) { c.Search.DefaultLimit = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad max file size", func(c *Config) { c.Collector.MaxFileSize = "ten megs" }},
		{"negative batch size", func(c *Config) { c.Embedding.BatchSize = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			errs := Validate(cfg)
			require.NotEmpty(t, errs)
			assert.ErrorIs(t, errs[0], types.ErrInvalidConfig)
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"1024", 1024, false},
		{"10B", 10, false},
		{"1KB", 1 << 10, false},
		{"1MB", 1 << 20, false},
		{"2GB", 2 << 30, false},
		{"512kb", 512 << 10, false},
		{" 4 MB ", 4 << 20, false},
		{"lots", 0, true},
		{"-1KB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSize(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coderag.yaml")
	yaml := `
embedding:
  provider: hash
  dimensions: 64
collector:
  max_file_size: 2MB
search:
  default_limit: 5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "hash", cfg.Embedding.Provider)
	assert.Equal(t, 64, cfg.Embedding.Dimensions)
	assert.Equal(t, "2MB", cfg.Collector.MaxFileSize)
	assert.Equal(t, 5, cfg.Search.DefaultLimit)

	// Unset keys keep their defaults.
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 100, cfg.Embedding.BatchSize)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
