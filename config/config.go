// Package config has the configuration file for the app
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment is the deployment environment the server runs in
type Environment int

const (
	EnvDevelopment Environment = iota
	EnvStaging
	EnvProduction
	EnvTest
)

// String returns the short name used in the ENV variable
func (e Environment) String() string {
	switch e {
	case EnvStaging:
		return "staging"
	case EnvProduction:
		return "prod"
	case EnvTest:
		return "test"
	default:
		return "dev"
	}
}

// ParseEnvironment converts an ENV value into an Environment
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dev", "development":
		return EnvDevelopment, nil
	case "staging":
		return EnvStaging, nil
	case "prod", "production":
		return EnvProduction, nil
	case "test":
		return EnvTest, nil
	}
	return EnvDevelopment, fmt.Errorf("ENV must be one of: [dev staging prod test], got: %s", s)
}

// Cache backends accepted by CACHE_BACKEND
const (
	CacheRedis  = "redis"
	CacheMemory = "memory"
	CacheNone   = "none"
)

// Config holds all application configuration
type Config struct {
	Port              string
	Address           string
	Env               Environment
	LogLevel          string
	LogRetentionWeeks int   // Number of weeks to keep log files
	MaxLogFileSize    int64 // Maximum log file size in bytes
	MaxRequestBody    int64 // Maximum request body size in bytes
	MaxHeaderSize     int64 // Maximum header size in bytes
	RequireProxy      bool  // Reject requests that did not come through the reverse proxy

	CacheBackend string
	RedisURL     string

	RxNormBaseURL            string
	OpenFDABaseURL           string
	RxNormTimeout            time.Duration
	RxNormInteractionTimeout time.Duration
	OpenFDATimeout           time.Duration
	UpstreamRate             float64 // outbound requests per second shared by RxNorm and OpenFDA

	ProbeIntervalMinutes int
	WarmupEnabled        bool
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	env, err := ParseEnvironment(getEnvWithDefault("ENV", "dev"))
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: invalid ENV: %w", err)
	}

	cfg := &Config{
		Port:              getEnvWithDefault("PORT", "8000"),
		Address:           getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:               env,
		LogLevel:          getEnvWithDefault("LOG_LEVEL", "info"),
		LogRetentionWeeks: getIntEnvWithDefault("LOG_RETENTION_WEEKS", 4),         // 4 weeks default
		MaxLogFileSize:    getInt64EnvWithDefault("MAX_LOG_FILE_SIZE", 104857600), // 100MB default
		MaxRequestBody:    getInt64EnvWithDefault("MAX_REQUEST_BODY", 1048576),    // 1MB default
		MaxHeaderSize:     getInt64EnvWithDefault("MAX_HEADER_SIZE", 1048576),     // 1MB default
		RequireProxy:      getBoolEnvWithDefault("REQUIRE_PROXY", false),

		RedisURL:     os.Getenv("REDIS_URL"),
		CacheBackend: strings.ToLower(getEnvWithDefault("CACHE_BACKEND", "")),

		RxNormBaseURL:            strings.TrimSuffix(getEnvWithDefault("RXNORM_BASE_URL", "https://rxnav.nlm.nih.gov/REST"), "/"),
		OpenFDABaseURL:           strings.TrimSuffix(getEnvWithDefault("OPENFDA_BASE_URL", "https://api.fda.gov"), "/"),
		RxNormTimeout:            getDurationEnvWithDefault("RXNORM_TIMEOUT", 10*time.Second),
		RxNormInteractionTimeout: getDurationEnvWithDefault("RXNORM_INTERACTION_TIMEOUT", 15*time.Second),
		OpenFDATimeout:           getDurationEnvWithDefault("OPENFDA_TIMEOUT", 10*time.Second),
		UpstreamRate:             getFloatEnvWithDefault("UPSTREAM_RATE", 10),

		ProbeIntervalMinutes: getIntEnvWithDefault("UPSTREAM_PROBE_INTERVAL_MINUTES", 15),
		WarmupEnabled:        getBoolEnvWithDefault("WARMUP_ENABLED", true),
	}

	// Redis only when a URL was given, unless the backend was forced
	if cfg.CacheBackend == "" {
		if cfg.RedisURL != "" {
			cfg.CacheBackend = CacheRedis
		} else {
			cfg.CacheBackend = CacheMemory
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return fmt.Errorf("invalid MAX_REQUEST_BODY: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxHeaderSize, "MAX_HEADER_SIZE"); err != nil {
		return fmt.Errorf("invalid MAX_HEADER_SIZE: %w", err)
	}

	if err := validateLogRetentionWeeks(cfg.LogRetentionWeeks); err != nil {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: %w", err)
	}

	if err := validateMaxLogFileSize(cfg.MaxLogFileSize); err != nil {
		return fmt.Errorf("invalid MAX_LOG_FILE_SIZE: %w", err)
	}

	if err := validateCacheBackend(cfg.CacheBackend, cfg.RedisURL); err != nil {
		return fmt.Errorf("invalid CACHE_BACKEND: %w", err)
	}

	if err := validateBaseURL(cfg.RxNormBaseURL); err != nil {
		return fmt.Errorf("invalid RXNORM_BASE_URL: %w", err)
	}

	if err := validateBaseURL(cfg.OpenFDABaseURL); err != nil {
		return fmt.Errorf("invalid OPENFDA_BASE_URL: %w", err)
	}

	for name, d := range map[string]time.Duration{
		"RXNORM_TIMEOUT":             cfg.RxNormTimeout,
		"RXNORM_INTERACTION_TIMEOUT": cfg.RxNormInteractionTimeout,
		"OPENFDA_TIMEOUT":            cfg.OpenFDATimeout,
	} {
		if err := validateTimeout(d); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	if cfg.UpstreamRate <= 0 || cfg.UpstreamRate > 100 {
		return fmt.Errorf("invalid UPSTREAM_RATE: must be between 0 and 100 requests/s, got: %v", cfg.UpstreamRate)
	}

	if cfg.ProbeIntervalMinutes < 1 || cfg.ProbeIntervalMinutes > 24*60 {
		return fmt.Errorf("invalid UPSTREAM_PROBE_INTERVAL_MINUTES: must be between 1 and 1440, got: %d", cfg.ProbeIntervalMinutes)
	}

	return nil
}

// validatePort validates the PORT environment variable
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	// Check for privileged ports
	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

// validateAddress validates the ADDRESS environment variable
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	if address == "127.0.0.1" || address == "::1" || address == "localhost" {
		return nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	if !ip.IsLoopback() && !ip.IsPrivate() && !ip.IsUnspecified() {
		return fmt.Errorf("ADDRESS %s is a public IP, consider using private network ranges for security", address)
	}

	return nil
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return fmt.Errorf("LOG_LEVEL cannot be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// validateSizeLimit validates size limit configuration values
func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}

	if size > 100*1024*1024 { // 100MB
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", configName, size)
	}

	return nil
}

// validateLogRetentionWeeks validates the LOG_RETENTION_WEEKS environment variable
func validateLogRetentionWeeks(weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be positive, got: %d", weeks)
	}

	if weeks > 52 {
		return fmt.Errorf("LOG_RETENTION_WEEKS is too large (max 52 weeks), got: %d", weeks)
	}

	return nil
}

// validateMaxLogFileSize validates the MAX_LOG_FILE_SIZE environment variable
func validateMaxLogFileSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE must be positive, got: %d", size)
	}

	// Minimum 1MB, maximum 1GB
	if size < 1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too small (min 1MB), got: %d bytes", size)
	}

	if size > 1024*1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too large (max 1GB), got: %d bytes", size)
	}

	return nil
}

// validateCacheBackend checks the backend name and that redis has a URL
func validateCacheBackend(backend, redisURL string) error {
	switch backend {
	case CacheMemory, CacheNone:
		return nil
	case CacheRedis:
		if redisURL == "" {
			return fmt.Errorf("REDIS_URL is required when CACHE_BACKEND is redis")
		}
		if _, err := url.Parse(redisURL); err != nil {
			return fmt.Errorf("REDIS_URL is not a valid URL: %w", err)
		}
		return nil
	}
	return fmt.Errorf("CACHE_BACKEND must be one of: [redis memory none], got: %s", backend)
}

// validateBaseURL requires an absolute http(s) URL
func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	return nil
}

func validateTimeout(d time.Duration) error {
	if d < 100*time.Millisecond {
		return fmt.Errorf("timeout is too small (min 100ms), got: %s", d)
	}
	if d > 2*time.Minute {
		return fmt.Errorf("timeout is too large (max 2m), got: %s", d)
	}
	return nil
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an environment variable as int with a default value
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getInt64EnvWithDefault gets an environment variable as int64 with a default value
func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnvWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnvWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getDurationEnvWithDefault accepts Go durations ("10s") or plain milliseconds ("10000")
func getDurationEnvWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	return []string{
		"PORT",
		"ADDRESS",
		"ENV",
		"LOG_LEVEL",
		"LOG_RETENTION_WEEKS",
		"MAX_LOG_FILE_SIZE",
		"MAX_REQUEST_BODY",
		"MAX_HEADER_SIZE",
		"CACHE_BACKEND",
		"REDIS_URL",
		"RXNORM_BASE_URL",
		"OPENFDA_BASE_URL",
		"RXNORM_TIMEOUT",
		"RXNORM_INTERACTION_TIMEOUT",
		"OPENFDA_TIMEOUT",
		"UPSTREAM_RATE",
		"UPSTREAM_PROBE_INTERVAL_MINUTES",
		"WARMUP_ENABLED",
	}
}
