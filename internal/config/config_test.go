package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Nil(t, cfg.RecursionDepth)
	assert.False(t, cfg.DeleteXMLs)
	assert.Equal(t, DefaultWorkers, cfg.NumWorkers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.NoProgress)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xml2json.yaml")
	content := `recursion_depth: 0
delete_xmls: true
num_workers: 8
log_level: debug
no_progress: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.RecursionDepth)
	assert.Equal(t, 0, *cfg.RecursionDepth)
	assert.True(t, cfg.DeleteXMLs)
	assert.Equal(t, 8, cfg.NumWorkers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.NoProgress)
	assert.NoError(t, cfg.Validate())
}

func TestLoadPartialFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xml2json.yaml")
	require.NoError(t, os.WriteFile(path, []byte("delete_xmls: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Nil(t, cfg.RecursionDepth)
	assert.Equal(t, DefaultWorkers, cfg.NumWorkers)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("num_workers: [1, 2\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "min workers", mutate: func(c *Config) { c.NumWorkers = 1 }},
		{name: "max workers", mutate: func(c *Config) { c.NumWorkers = 20 }},
		{name: "zero workers", mutate: func(c *Config) { c.NumWorkers = 0 }, wantErr: true},
		{name: "21 workers", mutate: func(c *Config) { c.NumWorkers = 21 }, wantErr: true},
		{name: "depth zero", mutate: func(c *Config) { c.RecursionDepth = intPtr(0) }},
		{name: "negative depth", mutate: func(c *Config) { c.RecursionDepth = intPtr(-1) }, wantErr: true},
		{name: "unknown level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
