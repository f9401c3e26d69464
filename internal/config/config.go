package config

import (
	"fmt"
	"log"
	"time"

	"story-engine/internal/utils"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию сервиса Story Engine.
type Config struct {
	// Настройки сервера
	Port     string `envconfig:"SERVER_PORT" default:"8080"`
	Env      string `envconfig:"APP_ENV" default:"production"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Настройки PostgreSQL
	DBHost        string        `envconfig:"DB_HOST" required:"true"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" required:"true"`
	DBName        string        `envconfig:"DB_NAME" required:"true"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`
	// Секретное поле: сначала DB_PASSWORD, иначе Docker secret "db_password"
	DBPassword string `envconfig:"DB_PASSWORD"`

	// Путь к миграциям (применяются на старте)
	MigrationsDir string `envconfig:"MIGRATIONS_DIR" default:"migrations"`

	// Настройки RabbitMQ
	RabbitMQURL       string `envconfig:"RABBITMQ_URL" required:"true"`
	WorldUpdatesQueue string `envconfig:"WORLD_UPDATES_QUEUE" default:"world_updates"`

	// Настройки AI
	AIClientType string        `envconfig:"AI_CLIENT_TYPE" default:"openai"`
	AIBaseURL    string        `envconfig:"AI_BASE_URL" default:"https://api.openai.com/v1"`
	AIModel      string        `envconfig:"AI_MODEL" default:"gpt-4o-mini"`
	AITimeout    time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`
	// Секретное поле: сначала AI_API_KEY, иначе Docker secret "ai_api_key"
	AIAPIKey string `envconfig:"AI_API_KEY"`

	// CORS
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`
}

// GetDSN возвращает строку подключения (DSN) для PostgreSQL.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// LoadConfig загружает конфигурацию из переменных окружения и секретов.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации story-engine: %w", err)
	}

	// Секреты: env имеет приоритет, файл секрета - фолбэк
	if cfg.DBPassword == "" {
		secret, err := utils.ReadSecret("db_password")
		if err != nil {
			return nil, err
		}
		cfg.DBPassword = secret
	}
	if cfg.AIAPIKey == "" {
		secret, err := utils.ReadSecret("ai_api_key")
		if err != nil {
			// Для локального ollama ключ не обязателен
			if cfg.AIClientType != "ollama" {
				return nil, err
			}
			log.Printf("AI API key не задан, продолжаем без него (клиент: %s)", cfg.AIClientType)
		} else {
			cfg.AIAPIKey = secret
		}
	}

	log.Printf("Конфигурация Story Engine загружена:")
	log.Printf("  Port: %s", cfg.Port)
	log.Printf("  LogLevel: %s", cfg.LogLevel)
	log.Printf("  DB DSN: postgres://%s:***@%s:%s/%s?sslmode=%s", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)
	log.Printf("  RabbitMQ URL: %s", cfg.RabbitMQURL)
	log.Printf("  World Updates Queue: %s", cfg.WorldUpdatesQueue)
	log.Printf("  AI Client: %s, Model: %s, Timeout: %v", cfg.AIClientType, cfg.AIModel, cfg.AITimeout)

	return &cfg, nil
}
