package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Cache.Type != "memory" {
		t.Errorf("Cache.Type = %q, want memory", cfg.Cache.Type)
	}
	if cfg.Cache.TTL != 168*time.Hour {
		t.Errorf("Cache.TTL = %v, want 168h", cfg.Cache.TTL)
	}
	if cfg.DealFeed.MaxVendors != 5 {
		t.Errorf("DealFeed.MaxVendors = %d, want 5", cfg.DealFeed.MaxVendors)
	}
	if cfg.DealFeed.FetchConcurrency != 3 {
		t.Errorf("DealFeed.FetchConcurrency = %d, want 3", cfg.DealFeed.FetchConcurrency)
	}
	if cfg.DealFeed.VendorTimeout != 10*time.Second {
		t.Errorf("DealFeed.VendorTimeout = %v, want 10s", cfg.DealFeed.VendorTimeout)
	}
	if cfg.DealFeed.Locale != "fr-ca" {
		t.Errorf("DealFeed.Locale = %q, want fr-ca", cfg.DealFeed.Locale)
	}
	if cfg.Reference.Region != "Quebec" {
		t.Errorf("Reference.Region = %q, want Quebec", cfg.Reference.Region)
	}
	if cfg.Reference.ReloadTTL != 24*time.Hour {
		t.Errorf("Reference.ReloadTTL = %v, want 24h", cfg.Reference.ReloadTTL)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FRIGO_CACHE_TYPE", "redis")
	t.Setenv("FRIGO_CACHE_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("FRIGO_DEALFEED_MAX_VENDORS", "8")
	t.Setenv("FRIGO_REFERENCE_REGION", "Ontario")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Cache.Type != "redis" {
		t.Errorf("Cache.Type = %q, want redis", cfg.Cache.Type)
	}
	if cfg.Cache.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("Cache.RedisURL = %q", cfg.Cache.RedisURL)
	}
	if cfg.DealFeed.MaxVendors != 8 {
		t.Errorf("DealFeed.MaxVendors = %d, want 8", cfg.DealFeed.MaxVendors)
	}
	if cfg.Reference.Region != "Ontario" {
		t.Errorf("Reference.Region = %q, want Ontario", cfg.Reference.Region)
	}
}

func TestLoadValidation(t *testing.T) {
	t.Run("unknown cache type", func(t *testing.T) {
		t.Setenv("FRIGO_CACHE_TYPE", "memcached")
		if _, err := Load(); err == nil {
			t.Error("Load() with unknown cache type should fail")
		}
	})

	t.Run("redis without url", func(t *testing.T) {
		t.Setenv("FRIGO_CACHE_TYPE", "redis")
		if _, err := Load(); err == nil {
			t.Error("Load() with redis cache and no URL should fail")
		}
	})

	t.Run("non-positive concurrency", func(t *testing.T) {
		t.Setenv("FRIGO_DEALFEED_FETCH_CONCURRENCY", "0")
		if _, err := Load(); err == nil {
			t.Error("Load() with zero fetch concurrency should fail")
		}
	})
}
