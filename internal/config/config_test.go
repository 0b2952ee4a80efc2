package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FLIPFINDER_DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://api.brightmls.com/v2", cfg.MLS.BaseURL)
	assert.Empty(t, cfg.MLS.ClientID)
	assert.Equal(t, "https://www.redfin.com", cfg.Redfin.BaseURL)
	assert.Equal(t, "dc", cfg.Redfin.Market)
	assert.Equal(t, "12839", cfg.Redfin.RegionID)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("FLIPFINDER_DATA_DIR", dataDir)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BRIGHT_MLS_CLIENT_ID", "client")
	t.Setenv("BRIGHT_MLS_CLIENT_SECRET", "secret")
	t.Setenv("REDFIN_MARKET", "sf")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("EMAIL_SENDER", "deals@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "client", cfg.MLS.ClientID)
	assert.Equal(t, "secret", cfg.MLS.ClientSecret)
	assert.Equal(t, "sf", cfg.Redfin.Market)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, "deals@example.com", cfg.SMTP.Sender)
}

func TestLoad_CreatesDirectories(t *testing.T) {
	base := t.TempDir()
	t.Setenv("FLIPFINDER_DATA_DIR", filepath.Join(base, "data"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.DirExists(t, cfg.DataDir)
	assert.DirExists(t, cfg.OutputDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "output"), cfg.OutputDir)
}

func TestLoad_InvalidPortFallsBack(t *testing.T) {
	t.Setenv("FLIPFINDER_DATA_DIR", t.TempDir())
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestDatabasePath(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("FLIPFINDER_DATA_DIR", dataDir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.DataDir, "flipfinder.db"), cfg.DatabasePath())
}
