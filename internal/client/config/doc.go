// Package config loads runtime configuration for the manga reader CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables (MANGA_API_URL, MANGA_DB_PATH, MANGA_LOG_LEVEL,
//     MANGA_REQUEST_TIMEOUT, MANGA_SEARCH_DEBOUNCE, MANGA_S3_*), after loading
//     a dotenv file named by -e/-env or ./.env if it exists.
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   REST API base URL, e.g. http://localhost:5000/api
//	-d string   local session database path
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "15s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:5000/api",
//	  "database_path": "mangareader.db",
//	  "request_timeout": "15s",
//	  "search_debounce": "300ms",
//	  "log_level": "info",
//	  "s3_endpoint": "http://localhost:9000",
//	  "s3_access_key": "minio",
//	  "s3_secret_key": "minio123"
//	}
//
// Primary API
//
//   - type Config                    : runtime settings
//   - func LoadConfig() *Config      : builds Config by applying all sources in order
//   - func (*Config) LoadDefaults()  : sets sensible defaults
package config
