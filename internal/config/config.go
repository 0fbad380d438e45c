package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database      DatabaseConfig
	Server        ServerConfig
	Auth          AuthConfig
	Email         EmailConfig
	Observability ObservabilityConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	StatementTimeout  time.Duration
	ApplicationName   string
	AutoMigrate       bool
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
	TrustedProxies []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	// WriteRateLimit is requests per minute per IP on report, comment and like writes
	WriteRateLimit int
}

// AuthConfig describes the identity provider whose bearer tokens we accept
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	Audience  string
}

type EmailConfig struct {
	Enabled     bool
	AWSRegion   string
	FromAddress string
	// BaseURL is the public site URL used in notification links
	BaseURL string
}

type ObservabilityConfig struct {
	LogLevel         string
	SentryDSN        string
	SentryEnv        string
	SentrySampleRate float64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	jwtSecret := getEnv("IDP_JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("IDP_JWT_SECRET is required")
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "wikiboard"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
			StatementTimeout:  getEnvAsDuration("DB_STATEMENT_TIMEOUT", 10*time.Second),
			ApplicationName:   getEnv("DB_APPLICATION_NAME", "wikiboard"),
			AutoMigrate:       getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			AllowedOrigins: parseAllowedOrigins(env),
			TrustedProxies: splitList(getEnv("TRUSTED_PROXIES", "")),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
			WriteRateLimit: getEnvAsInt("WRITE_RATE_LIMIT_PER_MINUTE", 30),
		},
		Auth: AuthConfig{
			JWTSecret: jwtSecret,
			Issuer:    getEnv("IDP_ISSUER", ""),
			Audience:  getEnv("IDP_AUDIENCE", ""),
		},
		Email: EmailConfig{
			Enabled:     getEnvAsBool("EMAIL_NOTIFICATIONS_ENABLED", false),
			AWSRegion:   getEnv("AWS_REGION", "us-east-1"),
			FromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),
			BaseURL:     strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:5173"), "/"),
		},
		Observability: ObservabilityConfig{
			LogLevel:         getEnv("LOG_LEVEL", "info"),
			SentryDSN:        getEnv("SENTRY_DSN", ""),
			SentryEnv:        getEnv("SENTRY_ENVIRONMENT", env),
			SentrySampleRate: getEnvAsFloat("SENTRY_SAMPLE_RATE", 1.0),
		},
	}

	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	if err := validateJWTSecret(jwtSecret, env); err != nil {
		return nil, err
	}

	if cfg.Email.Enabled && cfg.Email.FromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when EMAIL_NOTIFICATIONS_ENABLED is set")
	}

	return cfg, nil
}

// validateJWTSecret enforces minimum strength for the IdP signing secret
func validateJWTSecret(secret, env string) error {
	minLength := 16
	if env == "production" {
		minLength = 32 // 256 bits for HS256
	}

	if len(secret) < minLength {
		return fmt.Errorf("IDP_JWT_SECRET must be at least %d characters in %s environment (got %d)",
			minLength, env, len(secret))
	}

	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("IDP_JWT_SECRET cannot be a common weak value")
		}
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
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

func parseAllowedOrigins(env string) []string {
	if origins := splitList(getEnv("ALLOWED_ORIGINS", "")); len(origins) > 0 {
		return origins
	}
	if env == "production" {
		return []string{}
	}

	// Development: allow localhost variants
	return []string{
		"http://localhost:3000",
		"http://localhost:5173", // Vite default
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
}
