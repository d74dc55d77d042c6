// Package config hydrates the service configuration with env > file > default
// precedence.
package config

import (
	"errors"
	"fmt"
	"time"
)

// UpstreamConfig configures the third-party API client.
type UpstreamConfig struct {
	BaseURL        string `koanf:"baseurl"`
	UserAgent      string `koanf:"useragent"`
	TimeoutSeconds int    `koanf:"timeoutseconds"`
}

// RedisCacheConfig configures the Redis cache backend.
type RedisCacheConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// CacheConfig selects and configures the object-store backend.
type CacheConfig struct {
	// Backend is one of "gcs", "redis" or "memory".
	Backend        string           `koanf:"backend"`
	KeyPrefix      string           `koanf:"keyprefix"`
	FreshnessHours int              `koanf:"freshnesshours"`
	Bucket         string           `koanf:"bucket"`
	Redis          RedisCacheConfig `koanf:"redis"`
}

// ScheduleConfig drives the acquisition runner.
type ScheduleConfig struct {
	// IntervalSeconds spaces acquisitions apart, satisfying the upstream's
	// minimum request spacing.
	IntervalSeconds int      `koanf:"intervalseconds"`
	Targets         []string `koanf:"targets"`
}

// RecordsConfig configures the downstream record store.
type RecordsConfig struct {
	Collection string `koanf:"collection"`
}

// EventsConfig configures outcome event publishing.
type EventsConfig struct {
	Enabled bool   `koanf:"enabled"`
	TopicID string `koanf:"topicid"`
}

// AuditConfig configures the BigQuery audit archive.
type AuditConfig struct {
	Enabled   bool   `koanf:"enabled"`
	DatasetID string `koanf:"datasetid"`
	TableID   string `koanf:"tableid"`
}

// Config is the effective runtime configuration.
type Config struct {
	LogLevel  string         `koanf:"loglevel"`
	HTTPPort  string         `koanf:"httpport"`
	ProjectID string         `koanf:"projectid"`
	Upstream  UpstreamConfig `koanf:"upstream"`
	Cache     CacheConfig    `koanf:"cache"`
	Schedule  ScheduleConfig `koanf:"schedule"`
	Records   RecordsConfig  `koanf:"records"`
	Events    EventsConfig   `koanf:"events"`
	Audit     AuditConfig    `koanf:"audit"`
}

// defaults is the baseline every load starts from, keyed by koanf path.
func defaults() map[string]any {
	return map[string]any{
		"loglevel":                 "info",
		"httpport":                 ":8080",
		"upstream.useragent":       "go-setcache/1.0",
		"upstream.timeoutseconds":  10,
		"cache.backend":            "gcs",
		"cache.keyprefix":          "sets",
		"cache.freshnesshours":     24,
		"schedule.intervalseconds": 120,
		"records.collection":       "set-records",
	}
}

// FreshnessWindow returns the cache freshness window as a duration.
func (c *Config) FreshnessWindow() time.Duration {
	return time.Duration(c.Cache.FreshnessHours) * time.Hour
}

// ScheduleInterval returns the acquisition spacing as a duration.
func (c *Config) ScheduleInterval() time.Duration {
	return time.Duration(c.Schedule.IntervalSeconds) * time.Second
}

// UpstreamTimeout returns the upstream request timeout as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.Upstream.TimeoutSeconds) * time.Second
}

// Validate checks the loaded configuration for the fields the runner cannot
// default its way around.
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return errors.New("config: upstream.baseurl is required")
	}
	if len(c.Schedule.Targets) == 0 {
		return errors.New("config: schedule.targets must name at least one request target")
	}
	if c.Schedule.IntervalSeconds <= 0 {
		return errors.New("config: schedule.intervalseconds must be positive")
	}
	switch c.Cache.Backend {
	case "gcs":
		if c.Cache.Bucket == "" {
			return errors.New("config: cache.bucket is required for the gcs backend")
		}
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return errors.New("config: cache.redis.addr is required for the redis backend")
		}
	case "memory":
		// nothing to check
	default:
		return fmt.Errorf("config: unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}
