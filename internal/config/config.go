package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Environment string `mapstructure:"ENV"`
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`
	DBDSN       string `mapstructure:"DB_DSN"`
	AutoMigrate bool   `mapstructure:"AUTO_MIGRATE"`
	LogFile     string `mapstructure:"LOG_FILE"`

	CORSOrigins       string `mapstructure:"CORS_ORIGINS"`
	ReserveRatePerMin int    `mapstructure:"RESERVE_RATE_PER_MIN"`

	JWTSecret     string        `mapstructure:"JWT_SECRET"`
	TokenTTL      time.Duration `mapstructure:"TOKEN_TTL"`
	AdminUsername string        `mapstructure:"ADMIN_USERNAME"`
	AdminPassword string        `mapstructure:"ADMIN_PASSWORD"`

	// Ёмкость LRU отозванных токенов без Redis
	RevokedCacheSize int `mapstructure:"REVOKED_CACHE_SIZE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	AdminChatID   int64  `mapstructure:"ADMIN_CHAT_ID"`

	// Cron выражение для автоматического закрытия всех слотов, пусто - выключено
	ResetCron string `mapstructure:"RESET_CRON"`
}

var keys = []string{
	"ENV", "HTTP_ADDR", "DB_DSN", "AUTO_MIGRATE", "LOG_FILE",
	"CORS_ORIGINS", "RESERVE_RATE_PER_MIN",
	"JWT_SECRET", "TOKEN_TTL", "ADMIN_USERNAME", "ADMIN_PASSWORD", "REVOKED_CACHE_SIZE",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"TELEGRAM_TOKEN", "ADMIN_CHAT_ID",
	"RESET_CRON",
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromViper(viper.New())
}

// FromViper читает конфиг из переменных окружения через переданный экземпляр viper
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("ENV", "development")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RESERVE_RATE_PER_MIN", 10)
	v.SetDefault("TOKEN_TTL", 12*time.Hour)
	v.SetDefault("REVOKED_CACHE_SIZE", 10000)
	v.SetDefault("REDIS_DB", 0)

	// Unmarshal видит только ключи, о которых viper знает
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required but not set")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	if c.TelegramToken != "" && c.AdminChatID == 0 {
		return fmt.Errorf("ADMIN_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.RevokedCacheSize <= 0 {
		return fmt.Errorf("REVOKED_CACHE_SIZE must be positive")
	}
	if c.ReserveRatePerMin <= 0 {
		return fmt.Errorf("RESERVE_RATE_PER_MIN must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins разбирает CORS_ORIGINS через запятую
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}
