package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer string // Issuer claim for tokens (default: auth-service)

	AccessKeyFile  string // Path to the access-token Ed25519 key (default: ./access.key)
	RefreshKeyFile string // Path to the refresh-token Ed25519 key (default: ./refresh.key)
	CookieSecret   string // Path to the cookie-signing secret file (default: ./cookie.key)
	PepperFile     string // Path to the password-hashing pepper file (default: ./pepper)
	DatabaseFile   string // Path to the SQLite database file (default: ./auth.db)

	AccessTokenTTL  time.Duration // Access token lifetime (default: 24h)
	RefreshTokenTTL time.Duration // Refresh token signature lifetime (default: 168h)
	SessionTTL      time.Duration // Hard cap on a session row's life (default: 720h)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	SecureCookies        bool          // Mark cookies Secure (default: true outside dev)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-session reap interval (default: 1h)
}

func LoadConfig() Config {
	env := getEnvOrDefault("ENV", "dev")

	return Config{
		Issuer: getEnvOrDefault("AUTH_ISSUER", "auth-service"),

		AccessKeyFile:  getEnvOrDefault("AUTH_ACCESS_KEY_FILE", "access.key"),
		RefreshKeyFile: getEnvOrDefault("AUTH_REFRESH_KEY_FILE", "refresh.key"),
		CookieSecret:   getEnvOrDefault("AUTH_COOKIE_SECRET_FILE", "cookie.key"),
		PepperFile:     getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),

		AccessTokenTTL:  getEnvDurationOrDefault("AUTH_ACCESS_TOKEN_TTL", 0),
		RefreshTokenTTL: getEnvDurationOrDefault("AUTH_REFRESH_TOKEN_TTL", 0),
		SessionTTL:      getEnvDurationOrDefault("AUTH_SESSION_TTL", 0),

		Env:                  env,
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		SecureCookies:        getEnvBoolOrDefault("AUTH_SECURE_COOKIES", env != "dev"),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
