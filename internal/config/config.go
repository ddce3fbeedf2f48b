package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOG_FILE"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// Safety Config
	EmergencyNumber         string        `env:"EMERGENCY_NUMBER" envDefault:"999"`
	CheckInAllowedMinutes   []int         `env:"CHECKIN_ALLOWED_MINUTES" envDefault:"15,30,60,120,240,480"`
	LocationTimeout         time.Duration `env:"LOCATION_TIMEOUT" envDefault:"10s"`
	LocationTTL             time.Duration `env:"LOCATION_TTL" envDefault:"5m"`
	TickInterval            time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
	LocationRefreshInterval time.Duration `env:"LOCATION_REFRESH_INTERVAL" envDefault:"30s"`
	ContactsCacheTTL        time.Duration `env:"CONTACTS_CACHE_TTL" envDefault:"5m"`
	ManagerIdleTTL          time.Duration `env:"MANAGER_IDLE_TTL" envDefault:"30m"`
	SOSRateLimit            string        `env:"SOS_RATE_LIMIT" envDefault:"5-M"`

	// History Config
	HistoryRetentionDays int    `env:"HISTORY_RETENTION_DAYS" envDefault:"90"`
	HistoryPurgeCron     string `env:"HISTORY_PURGE_CRON" envDefault:"@daily"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

// DefaultCheckInMinutes - допустимые длительности таймера, если не заданы в окружении
var DefaultCheckInMinutes = []int{15, 30, 60, 120, 240, 480}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		HTTPPort:                getEnv("HTTP_PORT", "8080"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFile:                 os.Getenv("LOG_FILE"),
		RedisAddr:               getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:               os.Getenv("REDIS_PASSWORD"),
		RedisDB:                 getEnvAsInt("REDIS_DB", 0),
		WebhookURL:              os.Getenv("WEBHOOK_URL"),
		WebhookSecret:           os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:          getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries:       getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:        getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		EmergencyNumber:         getEnv("EMERGENCY_NUMBER", "999"),
		CheckInAllowedMinutes:   getEnvAsIntSlice("CHECKIN_ALLOWED_MINUTES", DefaultCheckInMinutes),
		LocationTimeout:         getEnvAsDuration("LOCATION_TIMEOUT", 10*time.Second),
		LocationTTL:             getEnvAsDuration("LOCATION_TTL", 5*time.Minute),
		TickInterval:            getEnvAsDuration("TICK_INTERVAL", time.Second),
		LocationRefreshInterval: getEnvAsDuration("LOCATION_REFRESH_INTERVAL", 30*time.Second),
		ContactsCacheTTL:        getEnvAsDuration("CONTACTS_CACHE_TTL", 5*time.Minute),
		ManagerIdleTTL:          getEnvAsDuration("MANAGER_IDLE_TTL", 30*time.Minute),
		SOSRateLimit:            getEnv("SOS_RATE_LIMIT", "5-M"),
		HistoryRetentionDays:    getEnvAsInt("HISTORY_RETENTION_DAYS", 90),
		HistoryPurgeCron:        getEnv("HISTORY_PURGE_CRON", "@daily"),
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	for _, m := range cfg.CheckInAllowedMinutes {
		if m <= 0 || m > 24*60 {
			return nil, fmt.Errorf("CHECKIN_ALLOWED_MINUTES: duration %d is out of range (1..1440)", m)
		}
	}

	return cfg, nil
}

// CheckInAllowedSeconds возвращает допустимые длительности таймера в секундах
func (c *Config) CheckInAllowedSeconds() []int {
	seconds := make([]int, 0, len(c.CheckInAllowedMinutes))
	for _, m := range c.CheckInAllowedMinutes {
		seconds = append(seconds, m*60)
	}
	return seconds
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}

// getEnvAsIntSlice разбирает список чисел через запятую; при любой ошибке возвращает значение по умолчанию
func getEnvAsIntSlice(key string, defaultValue []int) []int {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return defaultValue
		}
		result = append(result, n)
	}
	return result
}
