// Package config loads runtime configuration for the helixdash CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables (see parseEnv), with an optional .env file
//     loaded through godotenv.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend API
//	-s string   base URL of the signed-object storage endpoint
//	-d string   path of the local query cache database
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_endpoint_url": "http://localhost:8000",
//	  "storage_endpoint_url": "http://localhost:8000/storage/v1/object/sign/genomic-files",
//	  "cache_db_path": "/home/user/.helixdash/cache.db",
//	  "request_timeout": "15s",
//	  "online_check_interval": "3s",
//	  "analysis_poll_interval": "2s"
//	}
//
// Environment variables
//
//	HELIXDASH_API_URL, HELIXDASH_STORAGE_URL, HELIXDASH_CACHE_DB,
//	HELIXDASH_ENV
package config
