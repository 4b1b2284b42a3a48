package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// settings configures the daemon. Values come from defaults, an optional
// settings file and SEARCHD_* environment variables, in increasing priority.
type settings struct {
	GRPCAddr        string        `mapstructure:"grpc_addr"`
	HTTPAddr        string        `mapstructure:"http_addr"`
	LogLevel        string        `mapstructure:"log_level"`
	RateLimitRPS    float64       `mapstructure:"rate_limit_rps"` // 0 disables rate limiting
	RateBurst       int           `mapstructure:"rate_burst"`
	NotifyRetries   int           `mapstructure:"notify_retries"`
	StreamInterval  time.Duration `mapstructure:"stream_interval"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("grpc_addr", ":50051")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("rate_limit_rps", 10.0)
	v.SetDefault("rate_burst", 20)
	v.SetDefault("notify_retries", 5)
	v.SetDefault("stream_interval", "500ms")
	v.SetDefault("shutdown_timeout", "10s")

	v.SetEnvPrefix("searchd")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// loadSettings reads path when it is not empty. Without a path, a
// searchd.{yaml,toml,json} in the working directory is used if present.
func loadSettings(v *viper.Viper, path string) (*settings, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("searchd")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if s.RateLimitRPS < 0 {
		return nil, fmt.Errorf("rate_limit_rps must be non-negative, got %v", s.RateLimitRPS)
	}
	if s.RateLimitRPS > 0 && s.RateBurst < 1 {
		return nil, fmt.Errorf("rate_burst must be at least 1, got %d", s.RateBurst)
	}
	if s.StreamInterval <= 0 {
		return nil, fmt.Errorf("stream_interval must be positive, got %s", s.StreamInterval)
	}
	return &s, nil
}
