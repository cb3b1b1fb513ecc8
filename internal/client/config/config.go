package config

import "time"

// Config holds runtime settings for the manga reader CLI.
//
// Fields:
//   - APIBaseURL: REST backend root including the /api segment.
//   - DatabasePath: local SQLite file holding the persisted session.
//   - RequestTimeout: per-request HTTP timeout.
//   - SearchDebounce: quiet period before a live search is sent.
//   - LogLevel: debug, info, warn or error.
//   - S3*: optional S3-compatible store for s3:// chapter archives.
type Config struct {
	APIBaseURL     string
	DatabasePath   string
	RequestTimeout time.Duration
	SearchDebounce time.Duration
	LogLevel       string

	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api"
	c.DatabasePath = "mangareader.db"
	c.RequestTimeout = 15 * time.Second
	c.SearchDebounce = 300 * time.Millisecond
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and a .env file), JSON (if present) and command-line flags
// (if present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
