package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/helixdash/helixdash/internal/flagx"
	"github.com/helixdash/helixdash/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so intervals can be strings like "3s" or integer
// nanoseconds. After parsing, values are copied into the runtime Config.
type JsonConfig struct {
	APIEndpointURL       string         `json:"api_endpoint_url"`
	StorageEndpointURL   string         `json:"storage_endpoint_url"`
	CacheDBPath          string         `json:"cache_db_path"`
	Environment          string         `json:"environment"`
	RequestTimeout       timex.Duration `json:"request_timeout"`
	OnlineCheckInterval  timex.Duration `json:"online_check_interval"`
	AnalysisPollInterval timex.Duration `json:"analysis_poll_interval"`
}

// parseJson overlays cfg with values from the JSON file selected via -c or
// -config. Absent flags mean no JSON is loaded. Fields missing from the file
// keep their earlier values. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIEndpointURL != "" {
		cfg.APIEndpointURL = jc.APIEndpointURL
	}
	if jc.StorageEndpointURL != "" {
		cfg.StorageEndpointURL = jc.StorageEndpointURL
	}
	if jc.CacheDBPath != "" {
		cfg.CacheDBPath = jc.CacheDBPath
	}
	if jc.Environment != "" {
		cfg.Environment = jc.Environment
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.AnalysisPollInterval.Duration > 0 {
		cfg.AnalysisPollInterval = time.Duration(jc.AnalysisPollInterval.Duration)
	}
}
