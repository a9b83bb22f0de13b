package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string

	RedisURL string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	VerificationTokenTTL time.Duration
	ResetTokenTTL        time.Duration

	// PublicBaseURL is where the API is reachable; verification links point here.
	PublicBaseURL string
	// FrontendURL is where the web client lives; verification redirects and reset links point here.
	FrontendURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string

	AdminEmail    string
	AdminPassword string

	RateLimitAuth       int64
	RateLimitAuthWindow time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      getEnv("DB_NAME", "freelancehub"),
		DBPort:      getEnv("DB_PORT", "5432"),

		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),

		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:3000"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@freelancehub.local"),

		CloudinaryCloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:       os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret:    os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "freelancehub"),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@freelancehub.local"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin12345"),
	}

	var err error
	if cfg.SMTPPort, err = strconv.Atoi(getEnv("SMTP_PORT", "587")); err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	if cfg.RateLimitAuth, err = strconv.ParseInt(getEnv("RATE_LIMIT_AUTH", "10"), 10, 64); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_AUTH: %w", err)
	}

	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"JWT_ACCESS_TTL", "30m", &cfg.AccessTokenTTL},
		{"JWT_REFRESH_TTL", "168h", &cfg.RefreshTokenTTL},
		{"VERIFICATION_TOKEN_TTL", "24h", &cfg.VerificationTokenTTL},
		{"RESET_TOKEN_TTL", "1h", &cfg.ResetTokenTTL},
		{"RATE_LIMIT_AUTH_WINDOW", "1m", &cfg.RateLimitAuthWindow},
	}
	for _, d := range durations {
		if *d.dst, err = parseDuration(getEnv(d.key, d.fallback)); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
