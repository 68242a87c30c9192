package config

import (
	"fmt"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
)

// validateConfig validates the loaded configuration values
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := validateStorageConfig(&config.Storage); err != nil {
		return fmt.Errorf("storage config validation failed: %w", err)
	}

	if err := validateTranscodeConfig(&config.Transcode); err != nil {
		return fmt.Errorf("transcode config validation failed: %w", err)
	}

	if err := validateRateLimitConfig(&config.RateLimit); err != nil {
		return fmt.Errorf("rate limit config validation failed: %w", err)
	}

	if err := validateLoggingConfig(&config.Logging); err != nil {
		return fmt.Errorf("logging config validation failed: %w", err)
	}

	if err := validateOTelConfig(&config.OTel); err != nil {
		return fmt.Errorf("otel config validation failed: %w", err)
	}

	if _, err := config.PresetRegistry(); err != nil {
		return fmt.Errorf("preset config validation failed: %w", err)
	}

	return nil
}

func validateServerConfig(config *ServerConfig) error {
	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", config.Port)
	}
	if config.ReadTimeout <= 0 || config.WriteTimeout <= 0 || config.IdleTimeout <= 0 {
		return fmt.Errorf("timeout values must be positive, got read=%v write=%v idle=%v",
			config.ReadTimeout, config.WriteTimeout, config.IdleTimeout)
	}
	if config.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %v", config.ShutdownTimeout)
	}
	return nil
}

func validateStorageConfig(config *StorageConfig) error {
	cacheRoot := path.Clean(config.CacheRoot)
	if config.CacheRoot == "" || cacheRoot == "." || strings.HasPrefix(cacheRoot, "/") || strings.HasPrefix(cacheRoot, "..") {
		return fmt.Errorf("cache_root must be a relative path inside the store, got %q", config.CacheRoot)
	}
	config.CacheRoot = cacheRoot

	switch config.Backend {
	case BackendLocal:
		if config.Root == "" {
			return fmt.Errorf("root is required for the local backend")
		}
	case BackendMinio:
		if config.Minio.Endpoint == "" {
			return fmt.Errorf("minio.endpoint is required for the minio backend")
		}
		if config.Minio.Bucket == "" {
			return fmt.Errorf("minio.bucket is required for the minio backend")
		}
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", BackendLocal, BackendMinio, config.Backend)
	}
	return nil
}

func validateTranscodeConfig(config *TranscodeConfig) error {
	if config.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", config.MaxConcurrency)
	}
	size, err := humanize.ParseBytes(config.MaxSourceSize)
	if err != nil {
		return fmt.Errorf("invalid max_source_size %q: %w", config.MaxSourceSize, err)
	}
	if size == 0 {
		return fmt.Errorf("max_source_size must be positive")
	}
	config.MaxSourceBytes = int64(size)
	return nil
}

func validateRateLimitConfig(config *RateLimitConfig) error {
	if !config.Enabled {
		return nil
	}
	if config.RPS <= 0 {
		return fmt.Errorf("rps must be positive, got %v", config.RPS)
	}
	if config.Burst < 1 {
		return fmt.Errorf("burst must be at least 1, got %d", config.Burst)
	}
	return nil
}

func validateLoggingConfig(config *LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(config.Level)] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", config.Level)
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(config.Format)] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", config.Format)
	}
	return nil
}

func validateOTelConfig(config *OTelConfig) error {
	if !config.Enabled {
		return nil
	}
	if config.Endpoint == "" {
		return fmt.Errorf("endpoint is required when otel is enabled")
	}
	if config.SampleRatio < 0 || config.SampleRatio > 1 {
		return fmt.Errorf("sample_ratio must be between 0 and 1, got %v", config.SampleRatio)
	}
	return nil
}
