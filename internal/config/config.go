package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "change-this-secret-in-production"

type Config struct {
	DatabasePath    string
	Port            string
	JWTSecret       string
	JWTExpiresHours int
	CORSOrigins     []string
	Environment     string
	LogLevel        string
	StaticDir       string
	AppURL          string

	MailgunDomain      string
	MailgunAPIKey      string
	MailgunSenderEmail string
	MailgunSenderName  string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// win over it.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:       getEnv("DATABASE_PATH", "gearshed.db"),
		Port:               getEnv("PORT", "8080"),
		JWTSecret:          getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpiresHours:    getEnvInt("JWT_EXPIRES_HOURS", 24),
		CORSOrigins:        splitList(getEnv("CORS_ORIGIN", "http://localhost:5173")),
		Environment:        getEnv("ENVIRONMENT", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		StaticDir:          os.Getenv("STATIC_DIR"),
		AppURL:             getEnv("APP_URL", "http://localhost:5173"),
		MailgunDomain:      os.Getenv("MAILGUN_DOMAIN"),
		MailgunAPIKey:      os.Getenv("MAILGUN_API_KEY"),
		MailgunSenderEmail: os.Getenv("MAILGUN_SENDER_EMAIL"),
		MailgunSenderName:  getEnv("MAILGUN_SENDER_NAME", "Gearshed"),
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"http://localhost:5173"}
	}
	return cfg
}

// Validate rejects settings that must not reach production.
func (c *Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.JWTExpiresHours <= 0 {
		return errors.New("JWT_EXPIRES_HOURS must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) TokenDuration() time.Duration {
	return time.Duration(c.JWTExpiresHours) * time.Hour
}

// MailgunEnabled reports whether enough Mailgun settings are present to send email.
func (c *Config) MailgunEnabled() bool {
	return c.MailgunDomain != "" && c.MailgunAPIKey != "" && c.MailgunSenderEmail != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
