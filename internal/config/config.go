package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Http    *HTTPConfig
	Metrics *MetricsConfig

	LogLevel string

	// WriteLimitPerMin caps mutating requests per client IP; 0 disables the limit.
	WriteLimitPerMin int

	// DefaultWarehouses are opened at start-up.
	DefaultWarehouses []string
}

type HTTPConfig struct {
	Port              string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

type MetricsConfig struct {
	Enabled bool
	Token   string
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	const (
		defaultLogLevel   = "info"
		defaultWriteLimit = 60
	)

	http, err := loadHTTPConfig()
	if err != nil {
		return nil, fmt.Errorf("http config: %w", err)
	}

	metrics, err := loadMetricsConfig()
	if err != nil {
		return nil, fmt.Errorf("metrics config: %w", err)
	}

	writeLimit, err := parseIntEnv("WRITE_LIMIT_PER_MIN", defaultWriteLimit)
	if err != nil {
		return nil, err
	}
	if writeLimit < 0 {
		return nil, fmt.Errorf("WRITE_LIMIT_PER_MIN must not be negative, got %d", writeLimit)
	}

	return &Config{
		Http:              http,
		Metrics:           metrics,
		LogLevel:          getEnvOrDefault("LOG_LEVEL", defaultLogLevel),
		WriteLimitPerMin:  writeLimit,
		DefaultWarehouses: splitList(os.Getenv("DEFAULT_WAREHOUSES")),
	}, nil
}

func loadHTTPConfig() (*HTTPConfig, error) {
	const (
		defaultPort              = "8082"
		defaultReadHeaderTimeout = 5 * time.Second
		defaultShutdownTimeout   = 10 * time.Second
	)

	readHeaderTimeout, err := parseDurationEnv("HTTP_READ_HEADER_TIMEOUT", defaultReadHeaderTimeout)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDurationEnv("HTTP_SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		return nil, err
	}

	return &HTTPConfig{
		Port:              getEnvOrDefault("PORT", defaultPort),
		ReadHeaderTimeout: readHeaderTimeout,
		ShutdownTimeout:   shutdownTimeout,
	}, nil
}

func loadMetricsConfig() (*MetricsConfig, error) {
	enabled, err := parseBoolEnv("METRICS_ENABLED", true)
	if err != nil {
		return nil, err
	}

	return &MetricsConfig{
		Enabled: enabled,
		Token:   os.Getenv("METRICS_TOKEN"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
