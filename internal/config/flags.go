package config

import (
	"flag"
	"os"
	"time"

	"github.com/helixdash/helixdash/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend API (default from Config)
//	-s string   base URL of the storage endpoint (default from Config)
//	-d string   path of the local cache database (default from Config)
//	-i int      online check interval in seconds (default from Config)
//
// os.Args is filtered through flagx.FilterArgs so flags owned by other
// components (like -c/-config) do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-d", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIEndpointURL, "a", cfg.APIEndpointURL, "base URL of the backend API")
	fs.StringVar(&cfg.StorageEndpointURL, "s", cfg.StorageEndpointURL, "base URL of the storage endpoint")
	fs.StringVar(&cfg.CacheDBPath, "d", cfg.CacheDBPath, "path of the local cache database")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
