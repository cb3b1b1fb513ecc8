package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/mangareader/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// Environment variables read by parseEnv.
const (
	EnvAPIURL         = "MANGA_API_URL"
	EnvDBPath         = "MANGA_DB_PATH"
	EnvLogLevel       = "MANGA_LOG_LEVEL"
	EnvRequestTimeout = "MANGA_REQUEST_TIMEOUT"
	EnvSearchDebounce = "MANGA_SEARCH_DEBOUNCE"
	EnvS3Region       = "MANGA_S3_REGION"
	EnvS3Endpoint     = "MANGA_S3_ENDPOINT"
	EnvS3AccessKey    = "MANGA_S3_ACCESS_KEY"
	EnvS3SecretKey    = "MANGA_S3_SECRET_KEY"
)

// parseEnv overlays Config with MANGA_* environment variables.
//
// A dotenv file is loaded first: the one named by -e/-env, or ./.env when
// present. Variables already set in the process environment win over the
// file. An explicitly named file that cannot be read, or a malformed
// duration, panics.
func parseEnv(cfg *Config) {
	loadEnvFile(flagx.EnvFileFlags())

	setString(&cfg.APIBaseURL, EnvAPIURL)
	setString(&cfg.DatabasePath, EnvDBPath)
	setString(&cfg.LogLevel, EnvLogLevel)
	setDuration(&cfg.RequestTimeout, EnvRequestTimeout)
	setDuration(&cfg.SearchDebounce, EnvSearchDebounce)
	setString(&cfg.S3Region, EnvS3Region)
	setString(&cfg.S3Endpoint, EnvS3Endpoint)
	setString(&cfg.S3AccessKey, EnvS3AccessKey)
	setString(&cfg.S3SecretKey, EnvS3SecretKey)
}

func loadEnvFile(path string) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
		return
	}

	if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		panic(err)
	}
	*dst = d
}
