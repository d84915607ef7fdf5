package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// WebhookSecrets holds the per-gateway shared secrets. An empty secret means
// signature verification is disabled for that gateway (logged at WARN on
// every delivery).
type WebhookSecrets struct {
	Stripe   string
	Razorpay string
	Payu     string
	Cashfree string
	Upi      string
}

type Config struct {
	Port             string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string
	WebhookSecrets   WebhookSecrets
	WebhookTimeout   time.Duration
	KafkaBrokers     string
	KafkaTopic       string
}

func LoadConfig() (*Config, error) {
	// .env is optional; system environment wins in deployment.
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8087"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "Asia/Kolkata"),
		WebhookSecrets: WebhookSecrets{
			Stripe:   os.Getenv("STRIPE_WEBHOOK_SECRET"),
			Razorpay: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),
			Payu:     os.Getenv("PAYU_WEBHOOK_SECRET"),
			Cashfree: os.Getenv("CASHFREE_WEBHOOK_SECRET"),
			Upi:      os.Getenv("UPI_WEBHOOK_SECRET"),
		},
		WebhookTimeout: getDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		KafkaBrokers:   getEnv("KAFKA_BROKERS", "localhost:9092"),
		KafkaTopic:     getEnv("KAFKA_PAYMENT_EVENTS_TOPIC", "payment-events"),
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" {
		return nil, fmt.Errorf("missing required environment variables")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return d
}
