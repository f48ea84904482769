package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/amos-ugbedah/Jason-E-Commerce/internal/rates"
	"github.com/amos-ugbedah/Jason-E-Commerce/internal/store"
)

type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// CartStore selects the persistence backend: redis, mongo or memory.
	CartStore      string
	CartStorageKey string

	RedisAddr     string
	RedisPassword string

	MongoURI string
	MongoDB  string

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	MigrationsPath   string

	KafkaBrokers []string
	OrderTopic   string

	RateAPIBaseURL      string
	RateRefreshInterval time.Duration

	PaystackSecretKey string
	PaystackBaseURL   string
}

func Load() *Config {
	// Missing .env is fine; everything has a default or comes from the
	// real environment.
	_ = godotenv.Load()

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		CartStore:      getEnv("CART_STORE", "redis"),
		CartStorageKey: getEnv("CART_STORAGE_KEY", store.DefaultKey),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "jason_ecommerce"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getEnv("POSTGRES_DB", "jason_ecommerce"),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", "migrations"),

		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		OrderTopic:   getEnv("ORDER_TOPIC", "order-completed"),

		RateAPIBaseURL:      getEnv("RATE_API_BASE_URL", rates.DefaultBaseURL),
		RateRefreshInterval: getEnvDuration("RATE_REFRESH_INTERVAL", rates.DefaultInterval),

		PaystackSecretKey: getEnv("PAYSTACK_SECRET_KEY", ""),
		PaystackBaseURL:   getEnv("PAYSTACK_BASE_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
