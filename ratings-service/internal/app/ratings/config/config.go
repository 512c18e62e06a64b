package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config содержит все настройки Ratings Service
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Log      LogConfig
	Cron     CronConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string
	Port string
}

// DatabaseConfig - настройки подключения к PostgreSQL.
// Хранит рестораны, отзывы и аспекты; уникальные ограничения
// (имя ресторана, активный отзыв на пару) живут в схеме БД.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig - настройки Redis для кеша сводок ресторанов
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// KafkaConfig - настройки Kafka для событий отзывов и ресторанов
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// JWTConfig - секрет для проверки токенов внешнего identity provider
type JWTConfig struct {
	Secret string
}

// LogConfig - уровень логирования
type LogConfig struct {
	Level string
}

// CronConfig - расписание прогрева кеша сводок
type CronConfig struct {
	SummaryRefreshSchedule string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8084"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ratings_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:   getEnv("KAFKA_TOPIC", "review_events"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Cron: CronConfig{
			// По умолчанию прогреваем кеш сводок каждые 15 минут
			SummaryRefreshSchedule: getEnv("SUMMARY_REFRESH_SCHEDULE", "*/15 * * * *"),
		},
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес HTTP сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
