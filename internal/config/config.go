package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	defaultListenAddr     = ":8080"
	defaultDBPath         = ":memory:"
	defaultRequestTimeout = 5 * time.Second
	defaultCORSOrigins    = "*"

	// DefaultEnvFile is read, if present, before the process environment.
	DefaultEnvFile = ".env"

	keyListenAddr     = "cats_listen_addr"
	keyDBPath         = "cats_db_path"
	keyLogLevel       = "cats_log_level"
	keyRequestTimeout = "cats_request_timeout"
	keyCORSOrigins    = "cats_cors_origins"
)

// Config holds application configuration.
type Config struct {
	ListenAddr     string        `validate:"required"`
	DBPath         string        `validate:"required"`
	LogLevel       slog.Level
	RequestTimeout time.Duration `validate:"min=1ms,max=10m"`
	CORSOrigins    []string      `validate:"min=1,dive,required"`
}

// Load reads configuration from DefaultEnvFile and the environment.
func Load() (Config, error) {
	return LoadFile(DefaultEnvFile)
}

// LoadFile reads configuration from an env-format file, then from CATS_*
// environment variables, which take precedence. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	v.SetDefault(keyListenAddr, defaultListenAddr)
	v.SetDefault(keyDBPath, defaultDBPath)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyRequestTimeout, defaultRequestTimeout.String())
	v.SetDefault(keyCORSOrigins, defaultCORSOrigins)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	timeout, err := time.ParseDuration(v.GetString(keyRequestTimeout))
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", strings.ToUpper(keyRequestTimeout), err)
	}

	cfg := Config{
		ListenAddr:     v.GetString(keyListenAddr),
		DBPath:         v.GetString(keyDBPath),
		LogLevel:       parseLogLevel(v.GetString(keyLogLevel)),
		RequestTimeout: timeout,
		CORSOrigins:    splitList(v.GetString(keyCORSOrigins)),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, fs.ErrNotExist)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a structured JSON logger writing to w at the configured level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
