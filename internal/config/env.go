package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays cfg with environment variables. A .env file in the
// working directory is loaded first when present; real environment variables
// win over .env entries, which is godotenv's default.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("HELIXDASH_API_URL"); v != "" {
		cfg.APIEndpointURL = v
	}
	if v := os.Getenv("HELIXDASH_STORAGE_URL"); v != "" {
		cfg.StorageEndpointURL = v
	}
	if v := os.Getenv("HELIXDASH_CACHE_DB"); v != "" {
		cfg.CacheDBPath = v
	}
	if v := os.Getenv("HELIXDASH_ENV"); v != "" {
		cfg.Environment = v
	}
}
