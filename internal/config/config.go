package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port            int
	APIKey          string
	CORSAllowOrigin string
	LogLevel        string

	// Dataset location; the CSV file is the single source of truth.
	DataDir  string
	DataFile string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            envInt("PORT", 8888),
		APIKey:          envStr("API_KEY", ""),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		DataDir:         envStr("DATA_DIR", "data"),
		DataFile:        envStr("DATA_FILE", "nifty50_all.csv"),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("PORT %d is out of range", c.Port))
	}
	if c.DataDir == "" {
		errs = append(errs, "DATA_DIR must not be empty")
	}
	if c.DataFile == "" || strings.ContainsRune(c.DataFile, os.PathSeparator) {
		errs = append(errs, "DATA_FILE must be a bare file name")
	}
	if c.APIKey == "" {
		log.Warn().Msg("API_KEY not set, REST API has no authentication")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
