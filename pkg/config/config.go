package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cuemby/nurseduty/pkg/log"
	"github.com/cuemby/nurseduty/pkg/storage"
	"github.com/go-redis/redis/v8"
	"gopkg.in/yaml.v3"
)

// Backend names accepted in storage.backend
const (
	BackendFile  = "file"
	BackendBolt  = "bolt"
	BackendRedis = "redis"
)

// Config is the nurseduty configuration file
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr        string          `yaml:"addr"`
	CORSOrigins []string        `yaml:"cors_origins"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig limits requests per client IP. Zero disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// StorageConfig selects and configures the document backend
type StorageConfig struct {
	Backend  string      `yaml:"backend"`
	DataDir  string      `yaml:"data_dir"`
	BoltFile string      `yaml:"bolt_file"`
	Redis    RedisConfig `yaml:"redis"`
	Watch    bool        `yaml:"watch"`
}

// RedisConfig configures the redis backend
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LogConfig configures pkg/log
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8000",
			CORSOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Backend:  BackendFile,
			DataDir:  storage.DefaultDataDir,
			BoltFile: storage.DefaultBoltFile,
			Redis: RedisConfig{
				Addr:    "localhost:6379",
				Prefix:  storage.DefaultRedisPrefix,
				Timeout: 5 * time.Second,
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// Callers that change the result afterwards must Validate it again.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values Load cannot fill in
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.RateLimit.RequestsPerSecond < 0 || c.Server.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("server.rate_limit values must not be negative"))
	}

	switch c.Storage.Backend {
	case BackendFile, BackendBolt:
		if strings.TrimSpace(c.Storage.DataDir) == "" {
			errs = append(errs, errors.New("storage.data_dir is required"))
		}
	case BackendRedis:
		if c.Storage.Redis.Addr == "" {
			errs = append(errs, errors.New("storage.redis.addr is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.backend %q (want file, bolt or redis)", c.Storage.Backend))
	}

	if c.Storage.Watch && c.Storage.Backend != BackendFile {
		errs = append(errs, errors.New("storage.watch needs the file backend"))
	}
	return errors.Join(errs...)
}

// LoggerConfig converts the log section for log.Init
func (c *Config) LoggerConfig() log.Config {
	return log.Config{
		Level:      log.ParseLevel(c.Log.Level),
		JSONOutput: c.Log.JSON,
	}
}

// BoltPath returns the bolt database file, resolved against the data dir
func (s StorageConfig) BoltPath() string {
	if filepath.IsAbs(s.BoltFile) {
		return s.BoltFile
	}
	return filepath.Join(s.DataDir, s.BoltFile)
}

// OpenBackend opens the configured backend
func (s StorageConfig) OpenBackend() (storage.Backend, error) {
	switch s.Backend {
	case BackendFile, "":
		return storage.NewFileBackend(s.DataDir), nil
	case BackendBolt:
		b, err := storage.NewBoltBackend(s.BoltPath())
		if err != nil {
			return nil, err
		}
		return b, nil
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     s.Redis.Addr,
			Password: s.Redis.Password,
			DB:       s.Redis.DB,
		})
		return storage.NewRedisBackend(client, s.Redis.Prefix, s.Redis.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", s.Backend)
	}
}
