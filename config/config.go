package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	OAuth      OAuthConfig
	Payment    PaymentConfig
	Assistant  AssistantConfig
	Cloudinary CloudinaryConfig
	Credits    CreditsConfig
	Admin      AdminConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	BaseURL      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	StateTTL           time.Duration
}

// PaymentConfig holds the checkout-session provider credentials. WebhookSecret
// signs provider callbacks; SignatureTolerance bounds the accepted timestamp
// skew on those signatures.
type PaymentConfig struct {
	APIBaseURL         string
	SecretKey          string
	WebhookSecret      string
	SuccessURL         string
	CancelURL          string
	SignatureTolerance time.Duration
}

type AssistantConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Referer string
	Title   string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type CreditsConfig struct {
	NewUserGrant  int
	GrantValidity time.Duration
}

// AdminConfig lists the emails allowed on /admin routes (comma-separated env).
type AdminConfig struct {
	Emails []string
}

type LogConfig struct {
	Level string
	Path  string
}

func Load() *Config {
	// Missing .env is fine in production; the platform sets env vars directly.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Env:          getEnv("SERVER_ENV", "development"),
			BaseURL:      getEnv("SERVER_BASE_URL", "http://localhost:8080"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_DSN", "travelkang:travelkang@tcp(localhost:3306)/travelkang?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    getInt("DATABASE_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getInt("DATABASE_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getDuration("DATABASE_CONN_MAX_LIFETIME", time.Hour),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  getDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getDuration("JWT_REFRESH_EXPIRY", 168*time.Hour),
			Issuer:        getEnv("JWT_ISSUER", "travelkang"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     getEnv("AUTH_GOOGLE_ID", ""),
			GoogleClientSecret: getEnv("AUTH_GOOGLE_SECRET", ""),
			GoogleRedirectURL:  getEnv("AUTH_GOOGLE_REDIRECT_URL", ""),
			StateTTL:           getDuration("AUTH_OAUTH_STATE_TTL", 10*time.Minute),
		},
		Payment: PaymentConfig{
			APIBaseURL:         getEnv("PAYMENT_API_BASE_URL", "https://api.payprovider.com"),
			SecretKey:          getEnv("PAYMENT_SECRET_KEY", ""),
			WebhookSecret:      getEnv("PAYMENT_WEBHOOK_SECRET", ""),
			SuccessURL:         getEnv("PAYMENT_SUCCESS_URL", "https://travelkang.com/pay-success"),
			CancelURL:          getEnv("PAYMENT_CANCEL_URL", "https://travelkang.com/products"),
			SignatureTolerance: getDuration("PAYMENT_SIGNATURE_TOLERANCE", 5*time.Minute),
		},
		Assistant: AssistantConfig{
			APIKey:  getEnv("OPENROUTER_API_KEY", ""),
			BaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			Model:   getEnv("OPENROUTER_MODEL", "qwen/qwen3-30b-a3b"),
			Referer: getEnv("WEB_URL", "https://travelkang.com"),
			Title:   "TravelKang - China Travel Assistant",
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		},
		Credits: CreditsConfig{
			NewUserGrant:  getInt("CREDITS_NEW_USER_GRANT", 100),
			GrantValidity: getDuration("CREDITS_GRANT_VALIDITY", 365*24*time.Hour),
		},
		Admin: AdminConfig{
			Emails: splitList(getEnv("ADMIN_EMAILS", "")),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Path:  getEnv("LOG_PATH", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
