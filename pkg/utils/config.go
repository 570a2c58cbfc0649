package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Cache        CacheConfig
	Mongo        MongoConfig
	Compensation CompensationConfig
	Notification NotificationConfig
	Auth         AuthConfig
}

type AppConfig struct {
	Name             string
	PaymentPort      string
	NotificationPort string
	Debug            bool
	LogPath          string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type MongoConfig struct {
	URI      string
	Database string
}

type CompensationConfig struct {
	MaxAge           time.Duration
	RetryFailed      bool
	RefundSimulation string
}

type NotificationConfig struct {
	URL     string
	Timeout time.Duration
}

type AuthConfig struct {
	ServiceTokenHash string
}

// LoadConfig reads .env (if present) and the environment. Environment wins.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "polyglot-booking")
	v.SetDefault("PAYMENT_PORT", "5000")
	v.SetDefault("NOTIFICATION_PORT", "5001")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "payments_db")
	v.SetDefault("DB_USER", "payments_user")
	v.SetDefault("DB_PASS", "payments_password")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_ENABLED", true)
	v.SetDefault("CACHE_TTL_SECONDS", 3600)
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017/")
	v.SetDefault("MONGODB_DB", "notifications_db")
	v.SetDefault("COMPENSATION_MAX_AGE_DAYS", 30)
	v.SetDefault("COMPENSATION_RETRY_FAILED", false)
	v.SetDefault("REFUND_SIMULATION", "succeed")
	v.SetDefault("NOTIFICATION_URL", "")
	v.SetDefault("NOTIFICATION_TIMEOUT_SECONDS", 5)
	v.SetDefault("SERVICE_TOKEN_HASH", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:             v.GetString("APP_NAME"),
			PaymentPort:      v.GetString("PAYMENT_PORT"),
			NotificationPort: v.GetString("NOTIFICATION_PORT"),
			Debug:            v.GetBool("DEBUG"),
			LogPath:          v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			Enabled: v.GetBool("CACHE_ENABLED"),
			TTL:     time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DB"),
		},
		Compensation: CompensationConfig{
			MaxAge:           time.Duration(v.GetInt("COMPENSATION_MAX_AGE_DAYS")) * 24 * time.Hour,
			RetryFailed:      v.GetBool("COMPENSATION_RETRY_FAILED"),
			RefundSimulation: v.GetString("REFUND_SIMULATION"),
		},
		Notification: NotificationConfig{
			URL:     v.GetString("NOTIFICATION_URL"),
			Timeout: time.Duration(v.GetInt("NOTIFICATION_TIMEOUT_SECONDS")) * time.Second,
		},
		Auth: AuthConfig{
			ServiceTokenHash: v.GetString("SERVICE_TOKEN_HASH"),
		},
	}

	return config, nil
}
