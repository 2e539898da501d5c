package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ServerConfig holds all runtime configuration. Values come from environment
// variables; cmd/server loads a .env file first so local development mirrors
// production.
type ServerConfig struct {
	HTTPPort    string
	MongoURI    string
	MongoDBName string

	// RedisAddr selects the revocation store. When empty the service falls
	// back to the in-memory denylist, which is only suitable for a single
	// process.
	RedisAddr     string
	RedisPassword string

	JWTSecret     string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration
	BcryptCost    int

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	// BaseURL is the externally reachable base used in reset-password links.
	BaseURL string

	SentryDSN string
	AppEnv    string

	LogLevel  string
	LogPretty bool
}

// Load reads the configuration from the environment. JWT_SECRET and
// MONGO_URI have no usable defaults and cause an error when absent.
func Load() (*ServerConfig, error) {
	secret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return nil, err
	}
	mongoURI, err := mustEnv("MONGO_URI")
	if err != nil {
		return nil, err
	}

	cfg := &ServerConfig{
		HTTPPort:      envOrDefault("HTTP_PORT", "3000"),
		MongoURI:      mongoURI,
		MongoDBName:   envOrDefault("MONGO_DB_NAME", "auth_service"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     secret,
		TokenTTL:      envDurationOrDefault("JWT_TTL", time.Hour),
		ResetTokenTTL: envDurationOrDefault("RESET_TOKEN_TTL", 5*time.Minute),
		BcryptCost:    envIntOrDefault("BCRYPT_COST", bcrypt.DefaultCost),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      envOrDefault("SMTP_PORT", "587"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		EmailFrom:     os.Getenv("EMAIL_FROM"),
		BaseURL:       envOrDefault("BASE_URL", "http://localhost:3000"),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		AppEnv:        envOrDefault("APP_ENV", "development"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		LogPretty:     envBoolOrDefault("LOG_PRETTY", false),
	}

	return cfg, nil
}

func mustEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("missing required environment variable %s", key)
	}
	return value, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envBoolOrDefault(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDurationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
