package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Notification transport names accepted by NOTIFY_TRANSPORT.
const (
	NotifyTransportMemory = "memory"
	NotifyTransportRedis  = "redis"
)

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	DBDSN             string
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int

	// Booking policy defaults. Both can be overridden per deployment.
	MaxBookingMinutes int
	MaxAdvanceDays    int

	// Notification fan-out transport: "memory" (in-process hub) or "redis".
	NotifyTransport string
	RedisAddr       string
	RedisChannel    string

	// Local storage root for room photos.
	StoragePath string
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	// JWT secret is required for signing tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// JWT access token TTL, parse as time.Duration (e.g. "15m", "1h").
	ttlStr := getEnv("JWT_ACCESS_TOKEN_TTL", "15m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
	}
	cfg.JWTAccessTokenTTL = ttl

	// Bcrypt cost for password hashing (default: 12)
	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	// Longest single booking a student may request (default: 120 minutes)
	cfg.MaxBookingMinutes, err = getEnvAsInt("MAX_BOOKING_MINUTES", 120)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_BOOKING_MINUTES: %w", err)
	}

	// How far ahead a booking may start (default: 14 days)
	cfg.MaxAdvanceDays, err = getEnvAsInt("MAX_ADVANCE_DAYS", 14)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_ADVANCE_DAYS: %w", err)
	}

	// Notification transport (default: in-process memory hub)
	cfg.NotifyTransport = getEnv("NOTIFY_TRANSPORT", NotifyTransportMemory)
	switch cfg.NotifyTransport {
	case NotifyTransportMemory, NotifyTransportRedis:
	default:
		return nil, fmt.Errorf("invalid NOTIFY_TRANSPORT %q", cfg.NotifyTransport)
	}

	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisChannel = getEnv("REDIS_CHANNEL", "booking-events")
	if cfg.NotifyTransport == NotifyTransportRedis && cfg.RedisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR is required when NOTIFY_TRANSPORT=redis")
	}

	// Local storage for uploaded room photos (default: ./uploads)
	cfg.StoragePath = getEnv("STORAGE_PATH", "./uploads")

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		// Return 0 and a wrapped error to provide context
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}
