package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	authconstant "github.com/driveshare/auth-service/pkg/constant"
)

const (
	DefaultAccessTokenExpiryMin  = authconstant.DefaultAccessTokenExpiryMin
	DefaultRefreshTokenExpiryMin = authconstant.DefaultRefreshTokenExpiryMin
)

type Config struct {
	Env                string
	Port               string
	DBURL              string
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessExpiryMin    int
	RefreshExpiryMin   int

	OTPLength          int
	OTPExpiryMinutes   int
	OTPMaxAttempts     int
	OTPCooldownSeconds int
	LoginMaxAttempts   int
	LoginWindowMinutes int

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	NotifyQueueSize  int
	NotifyMaxRetries int
}

func Load() *Config {
	env := getEnv("ENV", "development")
	loadEnvFile(env)

	return &Config{
		Env:                env,
		Port:               getEnv("PORT", "8080"),
		DBURL:              mustGetEnv("DB_URL"),
		AccessTokenSecret:  mustGetEnv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: mustGetEnv("REFRESH_TOKEN_SECRET"),
		AccessExpiryMin:    getEnvAsInt("ACCESS_TOKEN_EXPIRY", DefaultAccessTokenExpiryMin),
		RefreshExpiryMin:   getEnvAsInt("REFRESH_TOKEN_EXPIRY", DefaultRefreshTokenExpiryMin),

		OTPLength:          getEnvAsInt("OTP_LENGTH", authconstant.DefaultOTPLength),
		OTPExpiryMinutes:   getEnvAsInt("OTP_EXPIRY_MINUTES", authconstant.DefaultOTPExpiryMinutes),
		OTPMaxAttempts:     getEnvAsInt("OTP_MAX_ATTEMPTS", authconstant.DefaultOTPMaxAttempts),
		OTPCooldownSeconds: getEnvAsInt("OTP_RESEND_COOLDOWN_SECONDS", authconstant.DefaultOTPCooldownSeconds),
		LoginMaxAttempts:   getEnvAsInt("LOGIN_MAX_ATTEMPTS", authconstant.DefaultLoginMaxAttempts),
		LoginWindowMinutes: getEnvAsInt("LOGIN_ATTEMPT_WINDOW_MINUTES", authconstant.DefaultLoginWindowMinutes),

		SMTPHost: getEnv("SMTP_HOST", ""),
		SMTPPort: getEnvAsInt("SMTP_PORT", 587),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),
		SMTPFrom: getEnv("SMTP_FROM", "no-reply@driveshare.app"),

		NotifyQueueSize:  getEnvAsInt("NOTIFY_QUEUE_SIZE", 64),
		NotifyMaxRetries: getEnvAsInt("NOTIFY_MAX_RETRIES", 3),
	}
}

// loadEnvFile overlays config/.env.<suffix> if present. Real environment
// variables always win over file values.
func loadEnvFile(env string) {
	suffix := env
	if env == "development" {
		suffix = "dev"
	}
	path := filepath.Join("config", fmt.Sprintf(".env.%s", suffix))
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("Failed to load env file %s: %v", path, err)
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
