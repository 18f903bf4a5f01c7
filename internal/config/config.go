package config

import (
	"os"
	"strconv"
	"time"

	"skydesk/internal/cache"
	"skydesk/internal/database"
	"skydesk/internal/messaging"
)

// Config содержит конфигурацию приложения
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// Размер страницы админского грида
	GridPageSize int

	Database database.Config
	NATS     messaging.Config
	Valkey   cache.Config
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8081"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		GridPageSize: getEnvInt("GRID_PAGE_SIZE", 7),

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "skydesk"),
			Password:           getEnv("DB_PASSWORD", "skydesk123"),
			DBName:             getEnv("DB_NAME", "skydesk"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "skydesk"),
			ClientID:  getEnv("NATS_CLIENT_ID", "skydesk-api"),
		},

		Valkey: cache.Config{
			Addr:          getEnv("VALKEY_ADDR", "localhost:6379"),
			Password:      getEnv("VALKEY_PASSWORD", ""),
			DB:            getEnvInt("VALKEY_DB", 0),
			OptionsTTLSec: getEnvInt("VALKEY_OPTIONS_TTL_SEC", 60),
		},
	}
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает целочисленное значение переменной окружения
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
