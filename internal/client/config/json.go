package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/mangareader/internal/flagx"
	"github.com/dmitrijs2005/mangareader/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "15s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	DatabasePath   string         `json:"database_path"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	SearchDebounce timex.Duration `json:"search_debounce"`
	LogLevel       string         `json:"log_level"`
	S3Region       string         `json:"s3_region"`
	S3Endpoint     string         `json:"s3_endpoint"`
	S3AccessKey    string         `json:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from -c or -config (flagx.JsonConfigFlags). Without
// one nothing is loaded. Only keys present with a non-zero value replace
// what earlier sources set. Read or unmarshal errors panic.
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

	overlay(&cfg.APIBaseURL, jc.APIBaseURL)
	overlay(&cfg.DatabasePath, jc.DatabasePath)
	overlay(&cfg.LogLevel, jc.LogLevel)
	overlay(&cfg.S3Region, jc.S3Region)
	overlay(&cfg.S3Endpoint, jc.S3Endpoint)
	overlay(&cfg.S3AccessKey, jc.S3AccessKey)
	overlay(&cfg.S3SecretKey, jc.S3SecretKey)
	overlay(&cfg.RequestTimeout, jc.RequestTimeout.Duration)
	overlay(&cfg.SearchDebounce, jc.SearchDebounce.Duration)
}

func overlay[T string | time.Duration](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
