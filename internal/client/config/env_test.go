package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv_Variables(t *testing.T) {
	clearEnv(t)
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Setenv(EnvAPIURL, " https://manga.example.org/api ")
	t.Setenv(EnvRequestTimeout, "20s")
	t.Setenv(EnvSearchDebounce, "150ms")
	t.Setenv(EnvS3Endpoint, "http://minio:9000")
	t.Setenv(EnvS3AccessKey, "minio")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "https://manga.example.org/api", cfg.APIBaseURL)
	assert.Equal(t, "mangareader.db", cfg.DatabasePath)
	assert.Equal(t, 20*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 150*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, "http://minio:9000", cfg.S3Endpoint)
	assert.Equal(t, "minio", cfg.S3AccessKey)
}

func Test_parseEnv_BadDurationPanics(t *testing.T) {
	clearEnv(t)
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Setenv(EnvRequestTimeout, "soon")
	require.Panics(t, func() { parseEnv(&Config{}) })
}

func Test_parseEnv_DotenvFile(t *testing.T) {
	clearEnv(t)
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	envFile := filepath.Join(t.TempDir(), "reader.env")
	require.NoError(t, os.WriteFile(envFile, []byte("MANGA_DB_PATH=/var/lib/reader.db\nMANGA_S3_REGION=eu-central-1\n"), 0o600))

	// Already-set variables win over the file.
	t.Setenv(EnvS3Region, "us-west-2")
	// godotenv only fills variables that are unset, so drop the empty placeholder.
	require.NoError(t, os.Unsetenv(EnvDBPath))

	os.Args = []string{"testbin", "-e", envFile}

	cfg := &Config{}
	parseEnv(cfg)

	assert.Equal(t, "/var/lib/reader.db", cfg.DatabasePath)
	assert.Equal(t, "us-west-2", cfg.S3Region)
}

func Test_parseEnv_MissingNamedFilePanics(t *testing.T) {
	clearEnv(t)
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-env", filepath.Join(t.TempDir(), "nope.env")}
	require.Panics(t, func() { parseEnv(&Config{}) })
}
