// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// MLSConfig holds Bright MLS API credentials and endpoint configuration.
// The connector is disabled when ClientID/ClientSecret are empty.
type MLSConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

// SMTPConfig holds outbound mail settings for deal notifications
type SMTPConfig struct {
	Server    string
	Port      int
	Sender    string
	Password  string
	Recipient string
}

// RedfinConfig holds parameters for the unofficial Redfin CSV endpoint
type RedfinConfig struct {
	BaseURL  string
	Market   string
	RegionID string
}

// Config holds application configuration
type Config struct {
	DataDir   string // Base directory for the database and generated reports (always absolute)
	OutputDir string // Directory for Excel files and dashboards (defaults to DataDir/output)
	LogLevel  string
	MLS       MLSConfig
	Redfin    RedfinConfig
	SMTP      SMTPConfig
}

// Load reads configuration from environment variables.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	// Data directory resolution:
	// 1. FLIPFINDER_DATA_DIR environment variable
	// 2. ~/.flipfinder as fallback
	// 3. Always resolved to an absolute path, created if missing
	dataDir := getEnv("FLIPFINDER_DATA_DIR", "")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".flipfinder")
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	outputDir := getEnv("FLIPFINDER_OUTPUT_DIR", filepath.Join(absDataDir, "output"))
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	cfg := &Config{
		DataDir:   absDataDir,
		OutputDir: outputDir,
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		MLS: MLSConfig{
			BaseURL:      getEnv("BRIGHT_MLS_API_URL", "https://api.brightmls.com/v2"),
			ClientID:     getEnv("BRIGHT_MLS_CLIENT_ID", ""),
			ClientSecret: getEnv("BRIGHT_MLS_CLIENT_SECRET", ""),
		},
		Redfin: RedfinConfig{
			BaseURL:  getEnv("REDFIN_BASE_URL", "https://www.redfin.com"),
			Market:   getEnv("REDFIN_MARKET", "dc"),
			RegionID: getEnv("REDFIN_REGION_ID", "12839"),
		},
		SMTP: SMTPConfig{
			Server:    getEnv("SMTP_SERVER", ""),
			Port:      getEnvAsInt("SMTP_PORT", 587),
			Sender:    getEnv("EMAIL_SENDER", ""),
			Password:  getEnv("EMAIL_PASSWORD", ""),
			Recipient: getEnv("EMAIL_RECIPIENT", ""),
		},
	}

	return cfg, nil
}

// DatabasePath returns the path of the SQLite database inside the data directory
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "flipfinder.db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
