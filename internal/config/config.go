package config

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds application configuration
type Config struct {
	Port        string
	DataDir     string
	DefaultDB   string
	LogLevel    string
	JWTSecret   string
	JWTTTL      time.Duration
	BcryptCost  int
	SMTPHost    string
	SMTPPort    string
	SMTPUser    string
	SMTPPass    string
	SenderEmail string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DataDir:     getEnv("DATA_DIR", "./data"),
		DefaultDB:   getEnv("DEFAULT_DB", "taxfree"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		BcryptCost:  bcrypt.DefaultCost,
		SMTPHost:    getEnv("SMTP_HOST", ""),
		SMTPPort:    getEnv("SMTP_PORT", "587"),
		SMTPUser:    getEnv("SMTP_USER", ""),
		SMTPPass:    getEnv("SMTP_PASS", ""),
		SenderEmail: getEnv("SENDER_EMAIL", ""),
	}

	// A baked-in signing secret would let anyone mint valid tokens,
	// so startup refuses to run without one.
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	ttl := getEnv("JWT_TTL", "168h")
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL %q: %w", ttl, err)
	}
	if d <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be positive, got %q", ttl)
	}
	cfg.JWTTTL = d

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
