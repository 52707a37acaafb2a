// Package config loads application configuration and initializes logging.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Geocode   GeocodeConfig   `yaml:"geocode" mapstructure:"geocode"`
	Yelp      YelpConfig      `yaml:"yelp" mapstructure:"yelp"`
	Google    GoogleConfig    `yaml:"google" mapstructure:"google"`
	Waterfall WaterfallConfig `yaml:"waterfall" mapstructure:"waterfall"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// CacheConfig configures the result cache.
type CacheConfig struct {
	TTLSecs int `yaml:"ttl_secs" mapstructure:"ttl_secs"`
}

// SearchConfig configures query defaults and outbound call timeouts.
type SearchConfig struct {
	DefaultRadiusMiles float64 `yaml:"default_radius_miles" mapstructure:"default_radius_miles"`
	DefaultLimit       int     `yaml:"default_limit" mapstructure:"default_limit"`
	MaxLimit           int     `yaml:"max_limit" mapstructure:"max_limit"`
	TimeoutSecs        int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// GeocodeConfig configures the postal code lookup service.
type GeocodeConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// YelpConfig holds Yelp Fusion settings. An empty key means the provider is
// not configured.
type YelpConfig struct {
	Key       string  `yaml:"key" mapstructure:"key"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// GoogleConfig holds Google Places settings. An empty key means the provider
// is not configured.
type GoogleConfig struct {
	Key       string  `yaml:"key" mapstructure:"key"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// WaterfallConfig configures the fallback behavior.
type WaterfallConfig struct {
	PlaceholderPath string `yaml:"placeholder_path" mapstructure:"placeholder_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ZIPSEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("cache.ttl_secs", 600)
	v.SetDefault("search.default_radius_miles", 10)
	v.SetDefault("search.default_limit", 10)
	v.SetDefault("search.max_limit", 50)
	v.SetDefault("search.timeout_secs", 10)
	v.SetDefault("geocode.base_url", "https://api.zippopotam.us")
	v.SetDefault("yelp.key", "")
	v.SetDefault("yelp.base_url", "https://api.yelp.com")
	v.SetDefault("yelp.rate_limit", 5)
	v.SetDefault("google.key", "")
	v.SetDefault("google.base_url", "https://places.googleapis.com/v1")
	v.SetDefault("google.rate_limit", 10)
	v.SetDefault("waterfall.placeholder_path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
