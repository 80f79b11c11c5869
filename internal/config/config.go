package config

import (
	"os"
	"time"

	"eventora-service/internal/pkg/jwt"
)

type AppConfig struct {
	// Server
	HTTPAddr string
	BaseURL  string

	// MongoDB
	MongoURI string
	DBName   string

	// Redis
	RedisAddr string
	RedisPass string

	// Stripe
	StripeSecretKey string

	// JWT
	JWT jwt.Config

	// Cron
	ExpirySchedule string
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr: getEnv("HTTP_ADDR", ":8000"),
		BaseURL:  getEnv("BASE_URL", "http://localhost:5173/"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:   getEnv("DB_NAME", "eventora"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASS", ""),

		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),

		JWT: jwt.Config{
			Secret:   getEnv("JWT_SECRET", ""),
			Issuer:   "eventora-service",
			Audience: "eventora-users",
			TTL:      720 * time.Hour,
		},

		// Daily at midnight; matches the period-end truncation in the sweep.
		ExpirySchedule: getEnv("EXPIRY_SCHEDULE", "0 0 * * *"),
	}
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
