package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cuemby/nurseduty/pkg/log"
	"github.com/cuemby/nurseduty/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nurseduty.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "data", cfg.Storage.DataDir)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: "127.0.0.1:9000"
  rate_limit:
    requests_per_second: 5
    burst: 10
storage:
  backend: redis
  redis:
    addr: "redis:6379"
    timeout: 2s
log:
  level: debug
  json: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 5.0, cfg.Server.RateLimit.RequestsPerSecond)
	assert.Equal(t, 10, cfg.Server.RateLimit.Burst)
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "redis:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, 2*time.Second, cfg.Storage.Redis.Timeout)
	assert.Equal(t, storage.DefaultRedisPrefix, cfg.Storage.Redis.Prefix)

	lc := cfg.LoggerConfig()
	assert.Equal(t, log.DebugLevel, lc.Level)
	assert.True(t, lc.JSONOutput)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [not, a, map"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "storage:\n  backend: sqlite\n"))
	assert.ErrorContains(t, err, "unknown storage.backend")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "bolt", modify: func(c *Config) { c.Storage.Backend = BackendBolt }},
		{name: "empty addr", modify: func(c *Config) { c.Server.Addr = " " }, wantErr: "server.addr"},
		{name: "negative rate", modify: func(c *Config) { c.Server.RateLimit.Burst = -1 }, wantErr: "rate_limit"},
		{name: "empty data dir", modify: func(c *Config) { c.Storage.DataDir = "" }, wantErr: "data_dir"},
		{name: "unknown backend", modify: func(c *Config) { c.Storage.Backend = "s3" }, wantErr: "unknown storage.backend"},
		{name: "redis without addr", modify: func(c *Config) {
			c.Storage.Backend = BackendRedis
			c.Storage.Redis.Addr = ""
		}, wantErr: "redis.addr"},
		{name: "watch on bolt", modify: func(c *Config) {
			c.Storage.Backend = BackendBolt
			c.Storage.Watch = true
		}, wantErr: "storage.watch"},
		{name: "watch on file", modify: func(c *Config) { c.Storage.Watch = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestBoltPath(t *testing.T) {
	s := StorageConfig{DataDir: "data", BoltFile: "nurseduty.db"}
	assert.Equal(t, filepath.Join("data", "nurseduty.db"), s.BoltPath())

	abs := filepath.Join(t.TempDir(), "other.db")
	s.BoltFile = abs
	assert.Equal(t, abs, s.BoltPath())
}

func TestOpenBackend(t *testing.T) {
	dir := t.TempDir()

	b, err := StorageConfig{Backend: BackendFile, DataDir: dir}.OpenBackend()
	require.NoError(t, err)
	assert.Equal(t, "file", b.Name())

	b, err = StorageConfig{Backend: BackendBolt, DataDir: dir, BoltFile: storage.DefaultBoltFile}.OpenBackend()
	require.NoError(t, err)
	assert.Equal(t, "bolt", b.Name())
	require.NoError(t, b.Close())
	assert.FileExists(t, filepath.Join(dir, storage.DefaultBoltFile))

	_, err = StorageConfig{Backend: "tape"}.OpenBackend()
	assert.Error(t, err)
}
