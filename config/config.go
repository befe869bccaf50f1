package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config holds all configuration for the application
type Config struct {
	Port        string
	Env         string
	CORSOrigins []string
	FrontendURL string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	MongoURL   string
	MongoDB    string

	JWTSecret          string
	TokenTTL           time.Duration
	AdminUsername      string
	AdminPassword      string
	SessionSecret      string
	GoogleClientID     string
	GoogleClientSecret string

	PayPalMode         string
	PayPalClientID     string
	PayPalClientSecret string
	PayPalCurrency     string

	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPassword      string
	NotificationEmail string

	GeminiAPIKey string
	GeminiModel  string
	PexelsAPIKey string

	UnviewedStatusFilter string
	NotifyWorkers        int
}

// LoadConfig loads configuration from the .env file (if any) and the environment
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %v", err)
	}
	workers, err := strconv.Atoi(getEnv("NOTIFY_WORKERS", "2"))
	if err != nil || workers < 1 {
		return nil, fmt.Errorf("invalid NOTIFY_WORKERS: %q", os.Getenv("NOTIFY_WORKERS"))
	}
	ttlDays, err := strconv.Atoi(getEnv("TOKEN_TTL_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL_DAYS: %v", err)
	}

	config := &Config{
		Port:        getEnv("PORT", "8001"),
		Env:         getEnv("ENV", "development"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),

		DBDriver:   getEnv("DB_DRIVER", DriverPostgres),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		MongoURL:   getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:    getEnv("MONGO_DB", "apebrain"),

		JWTSecret:          os.Getenv("JWT_SECRET"),
		TokenTTL:           time.Duration(ttlDays) * 24 * time.Hour,
		AdminUsername:      os.Getenv("ADMIN_USERNAME"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		SessionSecret:      getEnv("SESSION_SECRET", os.Getenv("JWT_SECRET")),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),

		PayPalMode:         getEnv("PAYPAL_MODE", "sandbox"),
		PayPalClientID:     os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalClientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),
		PayPalCurrency:     getEnv("PAYPAL_CURRENCY", "USD"),

		SMTPHost:          os.Getenv("SMTP_HOST"),
		SMTPPort:          smtpPort,
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPassword:      os.Getenv("SMTP_PASSWORD"),
		NotificationEmail: os.Getenv("NOTIFICATION_EMAIL"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash-lite"),
		PexelsAPIKey: os.Getenv("PEXELS_API_KEY"),

		UnviewedStatusFilter: getEnv("UNVIEWED_STATUS_FILTER", "completed"),
		NotifyWorkers:        workers,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the settings the server cannot start without
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBHost == "" || c.DBName == "" {
			return fmt.Errorf("DB_HOST and DB_NAME are required for the postgres driver")
		}
	case DriverMongo:
		if c.MongoURL == "" {
			return fmt.Errorf("MONGO_URL is required for the mongo driver")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// IsProduction reports whether the server runs with production settings
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
