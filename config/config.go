// Package config provides Viper-based configuration management for imgcache
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"imgcache/domain"
)

// EnvPrefix namespaces environment overrides, e.g. IMGCACHE_SERVER_PORT.
const EnvPrefix = "IMGCACHE"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Transcode TranscodeConfig `mapstructure:"transcode"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	OTel      OTelConfig      `mapstructure:"otel"`

	// Presets replaces the compiled-in preset set when non-empty.
	Presets []domain.Preset `mapstructure:"presets"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Storage backends.
const (
	BackendLocal = "local"
	BackendMinio = "minio"
)

type StorageConfig struct {
	Backend   string      `mapstructure:"backend"`
	Root      string      `mapstructure:"root"`
	CacheRoot string      `mapstructure:"cache_root"`
	Minio     MinioConfig `mapstructure:"minio"`
}

type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Region    string `mapstructure:"region"`
	Prefix    string `mapstructure:"prefix"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type TranscodeConfig struct {
	MaxConcurrency int    `mapstructure:"max_concurrency"`
	MaxSourceSize  string `mapstructure:"max_source_size"`

	// MaxSourceBytes is MaxSourceSize parsed during validation.
	MaxSourceBytes int64 `mapstructure:"-"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type OTelConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	Environment string  `mapstructure:"environment"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".imgcache")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/imgcache")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("storage.backend", BackendLocal)
	v.SetDefault("storage.root", "./images")
	v.SetDefault("storage.cache_root", domain.DefaultCacheRoot)
	v.SetDefault("storage.minio.endpoint", "")
	v.SetDefault("storage.minio.bucket", "")
	v.SetDefault("storage.minio.access_key", "")
	v.SetDefault("storage.minio.secret_key", "")
	v.SetDefault("storage.minio.region", "us-east-1")
	v.SetDefault("storage.minio.prefix", "")
	v.SetDefault("storage.minio.use_ssl", true)

	v.SetDefault("transcode.max_concurrency", runtime.NumCPU())
	v.SetDefault("transcode.max_source_size", "40MB")

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.rps", 50.0)
	v.SetDefault("rate_limit.burst", 100)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.endpoint", "http://localhost:4318")
	v.SetDefault("otel.service_name", "imgcache")
	v.SetDefault("otel.environment", "development")
	v.SetDefault("otel.sample_ratio", 0.1)
}

// PresetRegistry builds the registry served by this configuration.
func (c *Config) PresetRegistry() (*domain.PresetRegistry, error) {
	if len(c.Presets) == 0 {
		return domain.DefaultPresetRegistry(), nil
	}
	return domain.NewPresetRegistry(c.Presets...)
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
