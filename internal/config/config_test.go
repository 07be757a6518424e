package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wildfire-data-service/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WILDFIRE_FALLBACK_PATH", "/data/fires.geojson")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/data/fires.geojson", cfg.FallbackPath)
	assert.Equal(t, "us-west-2", cfg.SourceRegion)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, domain.DefaultSampleSize, cfg.SampleSize)
	assert.Equal(t, int64(domain.DefaultSampleSeed), cfg.SampleSeed)
	assert.False(t, cfg.UseRemote())
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("WILDFIRE_SOURCE_BUCKET", "wildfire-data")
	t.Setenv("WILDFIRE_SOURCE_KEY", "usfs/fires.geojson")
	t.Setenv("WILDFIRE_SOURCE_REGION", "us-east-1")
	t.Setenv("WILDFIRE_SOURCE_ENDPOINT", "http://localhost:9000")
	t.Setenv("WILDFIRE_CACHE_TTL", "1h")
	t.Setenv("WILDFIRE_SAMPLE_SIZE", "2500")
	t.Setenv("WILDFIRE_SAMPLE_SEED", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "wildfire-data", cfg.SourceBucket)
	assert.Equal(t, "usfs/fires.geojson", cfg.SourceKey)
	assert.Equal(t, "us-east-1", cfg.SourceRegion)
	assert.Equal(t, "http://localhost:9000", cfg.SourceEndpoint)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 2500, cfg.SampleSize)
	assert.Equal(t, int64(7), cfg.SampleSeed)
	assert.True(t, cfg.UseRemote())
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source:
  bucket: wildfire-data
  key: usfs/fires.geojson
cache:
  ttl: 5m
sample:
  size: 1000
`), 0o600))
	t.Setenv("WILDFIRE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "wildfire-data", cfg.SourceBucket)
	assert.Equal(t, "usfs/fires.geojson", cfg.SourceKey)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 1000, cfg.SampleSize)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source:
  bucket: from-file
  key: usfs/fires.geojson
`), 0o600))
	t.Setenv("WILDFIRE_CONFIG", path)
	t.Setenv("WILDFIRE_SOURCE_BUCKET", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.SourceBucket)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("WILDFIRE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config file")
}

func TestLoad_NoSource(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no dataset source")
}

func TestLoad_BucketWithoutKey(t *testing.T) {
	t.Setenv("WILDFIRE_SOURCE_BUCKET", "wildfire-data")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source.key")
}

func TestLoad_InvalidCacheTTL(t *testing.T) {
	t.Setenv("WILDFIRE_FALLBACK_PATH", "/data/fires.geojson")
	t.Setenv("WILDFIRE_CACHE_TTL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.ttl")
}

func TestLoad_SampleSizeOutOfRange(t *testing.T) {
	for _, v := range []string{"99", "10001"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("WILDFIRE_FALLBACK_PATH", "/data/fires.geojson")
			t.Setenv("WILDFIRE_SAMPLE_SIZE", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "sample.size")
		})
	}
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("WILDFIRE_FALLBACK_PATH", "/data/fires.geojson")
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}
