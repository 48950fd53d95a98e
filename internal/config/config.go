package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN       string
	Environment string

	// StrictRestrictedView gates class-restricted articles on class
	// membership. Disable only for deployments that kept the legacy
	// "any signed-in role" behavior.
	StrictRestrictedView bool

	MigrationsPath string
}

// Load reads configuration from a .env file if present, then from the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:                os.Getenv("DB_DSN"),
		Environment:          os.Getenv("ENV"),
		StrictRestrictedView: true,
		MigrationsPath:       os.Getenv("MIGRATIONS_PATH"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	if v := os.Getenv("STRICT_RESTRICTED_VIEW"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("STRICT_RESTRICTED_VIEW must be a boolean, got %q", v)
		}
		cfg.StrictRestrictedView = strict
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}
