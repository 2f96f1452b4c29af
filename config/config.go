package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the pricing engine.
type Config struct {
	DealFeed  DealFeedConfig
	Reference ReferenceConfig
	Cache     CacheConfig
	Log       LogConfig
}

// DealFeedConfig holds flyer deal feed configuration.
type DealFeedConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	Locale           string        `mapstructure:"locale"`
	MaxVendors       int           `mapstructure:"max_vendors"`
	FetchConcurrency int           `mapstructure:"fetch_concurrency"`
	VendorTimeout    time.Duration `mapstructure:"vendor_timeout"`
}

// ReferenceConfig holds government reference dataset configuration.
type ReferenceConfig struct {
	DatasetPath string        `mapstructure:"dataset_path"`
	Region      string        `mapstructure:"region"`
	ReloadTTL   time.Duration `mapstructure:"reload_ttl"`
}

// CacheConfig holds price cache configuration.
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from environment variables and an optional
// config file.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/frigomagique/")

	v.SetEnvPrefix("FRIGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; environment variables and defaults apply.
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dealfeed.base_url", "https://backflipp.wishabi.com/flipp")
	v.SetDefault("dealfeed.locale", "fr-ca")
	v.SetDefault("dealfeed.max_vendors", 5)
	v.SetDefault("dealfeed.fetch_concurrency", 3)
	v.SetDefault("dealfeed.vendor_timeout", "10s")

	v.SetDefault("reference.dataset_path", "")
	v.SetDefault("reference.region", "Quebec")
	v.SetDefault("reference.reload_ttl", "24h")

	v.SetDefault("cache.type", "memory")
	// Registered empty so the FRIGO_CACHE_REDIS_URL override binds.
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "168h") // 7 days

	v.SetDefault("log.level", "info")
}

func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}
	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("redis URL is required when cache type is 'redis'")
	}
	if config.DealFeed.FetchConcurrency <= 0 {
		return fmt.Errorf("deal feed fetch concurrency must be positive")
	}
	if config.DealFeed.MaxVendors <= 0 {
		return fmt.Errorf("deal feed max vendors must be positive")
	}
	return nil
}
