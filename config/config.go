package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Postgres. DatabaseURL wins in production.
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DatabaseURL string

	// Auth
	APISecret string
	TokenTTL  time.Duration

	// Social graph
	FollowRequestDedup bool

	// S3
	S3Bucket  string
	AWSRegion string

	// Mail
	SendgridAPIKey string
	MailFrom       string
	FrontendURL    string

	// Ops
	SentryDSN   string
	CORSOrigins []string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env only outside production. On Heroku, config comes from Config Vars.
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	port := getEnv("PORT", "")
	if port == "" {
		port = getEnv("API_PORT", "8888")
	}

	cfg := &Config{
		Port:               strings.TrimSpace(port),
		Env:                getEnv("APP_ENV", "development"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBName:             getEnv("DB_NAME", "wildography"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		APISecret:          getEnv("API_SECRET", ""),
		TokenTTL:           time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		FollowRequestDedup: getEnvBool("FOLLOW_REQUEST_DEDUP", false),
		S3Bucket:           strings.SplitN(getEnv("S3_BUCKET", ""), "/", 2)[0],
		AWSRegion:          getEnv("AWS_REGION", "us-east-2"),
		SendgridAPIKey:     getEnv("SENDGRID_API_KEY", ""),
		MailFrom:           getEnv("MAIL_FROM", "no-reply@wildography.app"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.APISecret == "" {
		return fmt.Errorf("API_SECRET is required")
	}
	if c.IsProduction() && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required in production")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL_HOURS must be positive")
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	if c.IsProduction() {
		dsn := c.DatabaseURL
		if dsn != "" && !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}
		return dsn
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

func splitCSV(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
