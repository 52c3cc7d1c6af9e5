package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	App      AppConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port    int
	GinMode string // debug, release, test
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	DatasetPath     string  // empty uses the embedded county dataset
	PageSize        int     // profiles requested per upstream page
	ScrollThreshold float64 // fraction scrolled before the next page is fetched
}

// UpstreamConfig describes the profile API this service fronts
type UpstreamConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// RedisConfig holds the connection settings for the notice flag store
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads configuration from .env, config file and environment variables
func Load() (*Config, error) {
	// A missing .env is fine, real environment variables still apply
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	// Set config file name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.listings")

	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("LISTINGS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.ginmode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("app.datasetPath", "")
	v.SetDefault("app.pageSize", 20)
	v.SetDefault("app.scrollThreshold", 0.8)
	v.SetDefault("upstream.baseURL", "http://localhost:9000/api")
	v.SetDefault("upstream.timeout", 10*time.Second)
	v.SetDefault("upstream.userAgent", "listings/1.0")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
}

// Validate checks values that would otherwise fail later in confusing ways
func (c *Config) Validate() error {
	if c.App.PageSize <= 0 {
		return fmt.Errorf("app.pageSize must be positive, got %d", c.App.PageSize)
	}
	if c.App.ScrollThreshold < 0 || c.App.ScrollThreshold > 1 {
		return fmt.Errorf("app.scrollThreshold must be between 0 and 1, got %v", c.App.ScrollThreshold)
	}
	if c.Upstream.BaseURL == "" {
		return errors.New("upstream.baseURL is required")
	}
	return nil
}

// GetServerAddr returns the server address in the format ":port"
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// NewLogger creates a new slog.Logger based on the configuration
func (c *Config) NewLogger() *slog.Logger {
	return c.NewLoggerTo(os.Stdout)
}

// NewLoggerTo is NewLogger with an explicit destination. The terminal browser
// logs to a file so output does not corrupt the screen.
func (c *Config) NewLoggerTo(w io.Writer) *slog.Logger {
	// Parse log level
	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Choose handler based on format
	var handler slog.Handler
	switch strings.ToLower(c.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default: // "text" or anything else
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
