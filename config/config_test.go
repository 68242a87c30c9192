package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "imgcache.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Address())
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, BackendLocal, cfg.Storage.Backend)
	assert.Equal(t, "cache", cfg.Storage.CacheRoot)
	assert.Equal(t, int64(40_000_000), cfg.Transcode.MaxSourceBytes)
	assert.GreaterOrEqual(t, cfg.Transcode.MaxConcurrency, 1)
	assert.False(t, cfg.OTel.Enabled)

	reg, err := cfg.PresetRegistry()
	require.NoError(t, err)
	thumb, ok := reg.Lookup("thumb")
	require.True(t, ok)
	assert.Equal(t, 400, thumb.MaxWidth)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("IMGCACHE_SERVER_PORT", "9090")
	t.Setenv("IMGCACHE_STORAGE_BACKEND", "minio")
	t.Setenv("IMGCACHE_STORAGE_MINIO_ENDPOINT", "minio:9000")
	t.Setenv("IMGCACHE_STORAGE_MINIO_BUCKET", "images")
	t.Setenv("IMGCACHE_TRANSCODE_MAX_SOURCE_SIZE", "8 MiB")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, BackendMinio, cfg.Storage.Backend)
	assert.Equal(t, "minio:9000", cfg.Storage.Minio.Endpoint)
	assert.Equal(t, "images", cfg.Storage.Minio.Bucket)
	assert.Equal(t, int64(8*1024*1024), cfg.Transcode.MaxSourceBytes)
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	p := writeConfig(t, `
server:
  port: 7000
  read_timeout: 5s
storage:
  root: /srv/images
  cache_root: derived/
logging:
  level: debug
  format: text
presets:
  - name: avatar
    max_width: 96
    max_height: 96
    quality: 80
`)

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/srv/images", cfg.Storage.Root)
	assert.Equal(t, "derived", cfg.Storage.CacheRoot)
	assert.Equal(t, "debug", cfg.Logging.Level)

	reg, err := cfg.PresetRegistry()
	require.NoError(t, err)
	_, ok := reg.Lookup("thumb")
	assert.False(t, ok, "configured presets replace the defaults")
	avatar, ok := reg.Lookup("avatar")
	require.True(t, ok)
	assert.Equal(t, 96, avatar.MaxHeight)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad port", "server:\n  port: 70000\n", "port must be between"},
		{"unknown backend", "storage:\n  backend: s3fs\n", "backend must be"},
		{"minio without bucket", "storage:\n  backend: minio\n  minio:\n    endpoint: minio:9000\n", "minio.bucket is required"},
		{"absolute cache root", "storage:\n  cache_root: /var/cache\n", "cache_root must be"},
		{"escaping cache root", "storage:\n  cache_root: ../cache\n", "cache_root must be"},
		{"bad size", "transcode:\n  max_source_size: lots\n", "invalid max_source_size"},
		{"zero concurrency", "transcode:\n  max_concurrency: 0\n", "max_concurrency"},
		{"bad level", "logging:\n  level: verbose\n", "invalid logging level"},
		{"rate limit without rps", "rate_limit:\n  enabled: true\n  rps: 0\n", "rps must be positive"},
		{"otel ratio", "otel:\n  enabled: true\n  sample_ratio: 2\n", "sample_ratio"},
		{"bad preset", "presets:\n  - name: a/b\n    max_width: 1\n    max_height: 1\n    quality: 50\n", `invalid preset "a/b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
