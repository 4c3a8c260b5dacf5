package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the helixdash CLI.
type Config struct {
	// APIEndpointURL is the base URL of the backend REST API.
	APIEndpointURL string
	// StorageEndpointURL is the base URL presigned object uploads are PUT to.
	StorageEndpointURL string
	// CacheDBPath locates the local sqlite query cache.
	CacheDBPath string
	// Environment selects log verbosity ("production" quiets debug output).
	Environment string

	RequestTimeout       time.Duration
	OnlineCheckInterval  time.Duration
	AnalysisPollInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIEndpointURL = "http://localhost:8000"
	c.StorageEndpointURL = "http://localhost:8000/storage/v1/object/sign/genomic-files"
	c.CacheDBPath = defaultCacheDBPath()
	c.Environment = "development"
	c.RequestTimeout = 15 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.AnalysisPollInterval = 2 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

func defaultCacheDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "helixdash", "cache.db")
	}
	return filepath.Join(home, ".helixdash", "cache.db")
}
