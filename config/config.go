// Package config assembles process configuration from an optional .env file,
// the environment, and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config holds every runtime setting of the service.
type Config struct {
	Port            int
	LogLevel        slog.Level
	LogFormat       string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	ProbeTimeout    time.Duration
	MaxBodyBytes    int64
	CORSOrigins     []string
	BaseURL         string
	UpstreamURL     string
	UpstreamToken   string
	MongoURI        string
}

// Addr is the listen address on all interfaces.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:            8080,
		LogLevel:        slog.LevelInfo,
		LogFormat:       "json",
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		ProbeTimeout:    2 * time.Second,
		MaxBodyBytes:    1 << 20,
	}
}

// Lookup resolves an environment variable. os.LookupEnv satisfies it.
type Lookup func(key string) (string, bool)

// Load reads the .env file named by ENV_FILE (default ".env") when present,
// then the environment, then args. A missing .env file is not an error.
func Load(args []string) (Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load %s: %w", envFile, err)
	}
	return Parse(args, os.LookupEnv)
}

// Parse builds a Config from lookup and args without touching the process
// environment.
func Parse(args []string, lookup Lookup) (Config, error) {
	cfg := Defaults()
	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if err := applyFlags(&cfg, args); err != nil {
		return Config{}, err
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("config: port %d out of range", cfg.Port)
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return Config{}, fmt.Errorf("config: log format %q must be json or text", cfg.LogFormat)
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup Lookup) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: invalid duration for %s: %q", key, v))
				return
			}
			*dst = d
		}
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: invalid int for PORT: %q", v))
		} else {
			cfg.Port = port
		}
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("config: invalid LOG_LEVEL: %q", v))
		}
	}
	if v, ok := lookup("MAX_BODY_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: invalid int for MAX_BODY_BYTES: %q", v))
		} else {
			cfg.MaxBodyBytes = n
		}
	}
	if v, ok := lookup("CORS_ORIGINS"); ok {
		cfg.CORSOrigins = splitList(v)
	}

	str("LOG_FORMAT", &cfg.LogFormat)
	str("BASE_URL", &cfg.BaseURL)
	str("API_ENDPOINT", &cfg.UpstreamURL)
	str("API_TOKEN", &cfg.UpstreamToken)
	str("MONGO_URI", &cfg.MongoURI)
	dur("REQUEST_TIMEOUT", &cfg.RequestTimeout)
	dur("SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)
	dur("PROBE_TIMEOUT", &cfg.ProbeTimeout)

	return errors.Join(errs...)
}

func applyFlags(cfg *Config, args []string) error {
	fs := pflag.NewFlagSet("etlweaver", pflag.ContinueOnError)
	port := fs.IntP("port", "p", cfg.Port, "HTTP port to listen on")
	logLevel := fs.String("log-level", cfg.LogLevel.String(), "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (json or text)")
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "per-request timeout, 0 disables")
	fs.Int64Var(&cfg.MaxBodyBytes, "max-body-bytes", cfg.MaxBodyBytes, "maximum accepted request body size")
	fs.StringSliceVar(&cfg.CORSOrigins, "cors-origin", cfg.CORSOrigins, "allowed CORS origin, repeatable")
	fs.StringVar(&cfg.UpstreamURL, "upstream-url", cfg.UpstreamURL, "upstream API probed by /readyz")
	fs.StringVar(&cfg.MongoURI, "mongo-uri", cfg.MongoURI, "MongoDB sink pinged by /readyz")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	cfg.Port = *port
	if err := cfg.LogLevel.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("config: invalid --log-level: %q", *logLevel)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
