package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/couchcryptid/wildfire-data-service/internal/domain"
)

// Config holds all service settings. Service-level settings come from plain
// environment variables; the dataset source section is layered from an
// optional YAML file (named by WILDFIRE_CONFIG) and WILDFIRE_-prefixed
// environment overrides.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Remote dataset source. Bucket unset means "use the local fallback".
	SourceBucket   string
	SourceKey      string
	SourceRegion   string
	SourceEndpoint string // S3-compatible endpoint override, empty for AWS

	// Local fallback dataset path, used when no bucket is configured.
	FallbackPath string

	// Dataset cache time-to-live; zero or negative means cache for the
	// process lifetime, refresh only on explicit request.
	CacheTTL time.Duration

	// Sampling defaults applied when a request omits the parameters.
	SampleSize int
	SampleSeed int64
}

// Load reads configuration, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path := os.Getenv("WILDFIRE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// WILDFIRE_SOURCE_BUCKET -> source.bucket, WILDFIRE_CACHE_TTL -> cache.ttl, ...
	envProvider := env.Provider("WILDFIRE_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "WILDFIRE_"))
		return strings.ReplaceAll(s, "_", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load config env: %w", err)
	}

	cacheTTL, err := parseTTL(k.String("cache.ttl"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SourceBucket:   k.String("source.bucket"),
		SourceKey:      k.String("source.key"),
		SourceRegion:   k.String("source.region"),
		SourceEndpoint: k.String("source.endpoint"),
		FallbackPath:   k.String("fallback.path"),

		CacheTTL:   cacheTTL,
		SampleSize: domain.DefaultSampleSize,
		SampleSeed: domain.DefaultSampleSeed,
	}

	if k.Exists("sample.size") {
		cfg.SampleSize = k.Int("sample.size")
	}
	if k.Exists("sample.seed") {
		cfg.SampleSeed = k.Int64("sample.seed")
	}

	if cfg.SourceRegion == "" {
		cfg.SourceRegion = "us-west-2"
	}
	if cfg.SourceBucket != "" && cfg.SourceKey == "" {
		return nil, errors.New("source.bucket is set but source.key is not")
	}
	if cfg.SourceBucket == "" && cfg.FallbackPath == "" {
		return nil, errors.New("no dataset source: set source.bucket/source.key or fallback.path")
	}
	if cfg.SampleSize < domain.MinSampleSize || cfg.SampleSize > domain.MaxSampleSize {
		return nil, fmt.Errorf("sample.size must be in [%d, %d]", domain.MinSampleSize, domain.MaxSampleSize)
	}

	return cfg, nil
}

// UseRemote reports whether the remote S3 source is configured.
func (c *Config) UseRemote() bool { return c.SourceBucket != "" }

func parseTTL(s string) (time.Duration, error) {
	if s == "" {
		return 15 * time.Minute, nil
	}
	ttl, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid cache.ttl %q: %w", s, err)
	}
	return ttl, nil
}
