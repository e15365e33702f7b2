// Package config loads the settings shared by the ingestion and query binaries.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Cache         CacheConfig         `mapstructure:"cache"`
	WriteBuffer   WriteBufferConfig   `mapstructure:"write_buffer"`
	Query         QueryConfig         `mapstructure:"query"`
}

type AppConfig struct {
	QueryAddr string `mapstructure:"query_addr"`
	OtlpAddr  string `mapstructure:"otlp_addr"`
	LogLevel  string `mapstructure:"log_level"`
}

type ElasticsearchConfig struct {
	Addresses        []string      `mapstructure:"addresses"`
	BootstrapRetries int           `mapstructure:"bootstrap_retries"`
	BootstrapWait    time.Duration `mapstructure:"bootstrap_wait"`
}

// CacheConfig sizes the ristretto node graph cache. MaxCost is counted in frame rows.
type CacheConfig struct {
	NumCounters int64         `mapstructure:"num_counters"`
	MaxCost     int64         `mapstructure:"max_cost"`
	TTL         time.Duration `mapstructure:"ttl"`
}

type WriteBufferConfig struct {
	Size int `mapstructure:"size"`
}

type QueryConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxSpans int           `mapstructure:"max_spans"`
}

var defaultSearchPaths = []string{".", "./config", "/etc/tracegraph"}

// Load reads config.yaml from the default search paths. Environment variables such as
// ELASTICSEARCH_ADDRESSES override file values.
func Load() (*Config, error) {
	return LoadFrom(defaultSearchPaths...)
}

func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.query_addr", ":8081")
	v.SetDefault("app.otlp_addr", ":4317")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("elasticsearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("elasticsearch.bootstrap_retries", 30)
	v.SetDefault("elasticsearch.bootstrap_wait", "5s")
	v.SetDefault("cache.num_counters", 10485760)
	v.SetDefault("cache.max_cost", 1048576)
	v.SetDefault("cache.ttl", "1m")
	v.SetDefault("write_buffer.size", 30)
	v.SetDefault("query.timeout", "10s")
	v.SetDefault("query.max_spans", 10000)
}

func (c *Config) validate() error {
	if len(c.Elasticsearch.Addresses) == 0 {
		return ErrNoElasticsearchAddress
	}
	if c.WriteBuffer.Size <= 0 {
		return fmt.Errorf("%w: write_buffer.size must be positive, got %d", ErrInvalidConfig, c.WriteBuffer.Size)
	}
	if c.Query.MaxSpans <= 0 {
		return fmt.Errorf("%w: query.max_spans must be positive, got %d", ErrInvalidConfig, c.Query.MaxSpans)
	}
	return nil
}

// IsDebug reports whether development logging was requested.
func (c *AppConfig) IsDebug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

var (
	ErrInvalidConfig          = errors.New("invalid configuration")
	ErrNoElasticsearchAddress = errors.New("no elasticsearch address configured")
)
