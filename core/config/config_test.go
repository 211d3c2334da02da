package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"country-cache/feature/countries/sources"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15, cfg.Sources.TimeoutSeconds)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 100, cfg.Database.BatchSize)
	assert.Equal(t, "fs", cfg.Artifact.Backend)
	assert.Equal(t, "./cache", cfg.Artifact.Dir)
	assert.Equal(t, "summary", cfg.Artifact.Key)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SOURCES_COUNTRIES_URL", "https://restcountries.example/v2/all")
	t.Setenv("SOURCES_RATES_URL", "https://rates.example/latest/USD")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("SERVER_PORT", "5000")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://restcountries.example/v2/all", cfg.Sources.CountriesURL)
	assert.Equal(t, "https://rates.example/latest/USD", cfg.Sources.RatesURL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	content := "ARTIFACT_KEY=overview\nLOG_FORMAT=console\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("ARTIFACT_KEY")
		os.Unsetenv("LOG_FORMAT")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "overview", cfg.Artifact.Key)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestValidate_MissingSourceURL(t *testing.T) {
	t.Setenv("SOURCES_COUNTRIES_URL", "")
	t.Setenv("SOURCES_RATES_URL", "ftp://rates.example")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, sources.ErrConfiguration))
}
