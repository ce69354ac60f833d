// Package config loads the client configuration from file, environment and
// defaults, in that order of increasing precedence for env overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the sentinel binary.
type Config struct {
	Source SourceConfig `mapstructure:"source"`
	Sync   SyncConfig   `mapstructure:"sync"`
	Server ServerConfig `mapstructure:"server"`
	Logger LoggerConfig `mapstructure:"logger"`
}

// SourceConfig describes the remote snapshot service.
type SourceConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	ScanAttempts uint          `mapstructure:"scan_attempts"`
}

// SyncConfig tunes the polling cadence and the execution fallback.
type SyncConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	FallbackDelay time.Duration `mapstructure:"fallback_delay"`
}

// ServerConfig configures the bundled demo service (`sentinel serve`).
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Redis        RedisConfig   `mapstructure:"redis"`
}

// RedisConfig selects the optional Redis-backed hospital store.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggerConfig tunes slog output.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
}

// Load reads sentinel.yaml (cwd or ./configs) merged with SENTINEL_* env
// variables; a missing file means env and defaults only.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("sentinel")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("sentinel")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.base_url", "http://localhost:8000")
	v.SetDefault("source.timeout", 10*time.Second)
	v.SetDefault("source.scan_attempts", 3)
	v.SetDefault("sync.interval", 15*time.Second)
	v.SetDefault("sync.fallback_delay", 1500*time.Millisecond)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.redis.addr", "localhost:6379")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
}
