package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultCBRURL is the central bank's DailyInfo SOAP endpoint.
const DefaultCBRURL = "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"

// AppConfig holds process settings read from the environment.
type AppConfig struct {
	Port            string
	LogLevel        string
	CBRURL          string
	KeyRateCacheTTL time.Duration
	KeyRateTimeout  time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	AllowedOrigins  string
}

// LoadAppConfig reads settings from the environment after loading an
// optional .env file. Invalid values fall back to their defaults.
func LoadAppConfig(envFiles ...string) *AppConfig {
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Debug("no .env file loaded, relying on OS environment", "error", err)
	}

	return &AppConfig{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CBRURL:          getEnv("CBR_URL", DefaultCBRURL),
		KeyRateCacheTTL: getEnvAsDuration("KEYRATE_CACHE_TTL", time.Hour),
		KeyRateTimeout:  getEnvAsDuration("KEYRATE_TIMEOUT", 15*time.Second),
		RateLimitRPS:    getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:  getEnvAsInt("RATE_LIMIT_BURST", 10),
		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", "*"),
	}
}

// Addr returns the listen address for Port.
func (c *AppConfig) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	slog.Warn("invalid integer value, using default", "key", key, "value", valueStr, "default", fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	slog.Warn("invalid float value, using default", "key", key, "value", valueStr, "default", fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	slog.Warn("invalid duration value, using default", "key", key, "value", valueStr, "default", fallback.String())
	return fallback
}
