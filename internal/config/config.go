package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Драйверы хранилища ключ-значение
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config хранит все настройки приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Reward   RewardConfig
	Storage  StorageConfig
	Email    EmailConfig
	LLM      LLMConfig
	Rollbar  RollbarConfig
	CORS     CORSConfig
	Cluster  ClusterConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int // секунды
	WriteTimeout int // секунды
}

// DatabaseConfig содержит настройки подключения к PostgreSQL.
// Пустой Host означает работу без удаленной таблицы профилей (демо-режим).
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Для 'single' используется первый адрес.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Адрес для режима 'single', если Addrs пустой.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"` // мс
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"` // мс
}

// IsConfigured возвращает true, если задан хотя бы один адрес
func (r *RedisConfig) IsConfigured() bool {
	return len(r.Addrs) > 0 || r.Addr != ""
}

// JWTConfig содержит настройки JWT
type JWTConfig struct {
	Secret            string `mapstructure:"secret"`
	ExpirationHrs     int    `mapstructure:"expirationHrs"`
	WSTicketExpirySec int    `mapstructure:"wsTicketExpirySec"`
}

// RewardConfig содержит настройки начисления наград
type RewardConfig struct {
	DelayMs int `mapstructure:"delay_ms"`
}

// Delay возвращает задержку имитации реестра наград
func (r RewardConfig) Delay() time.Duration {
	return time.Duration(r.DelayMs) * time.Millisecond
}

// StorageConfig выбирает хранилище ключ-значение
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Prefix string `mapstructure:"prefix"`
}

// EmailConfig содержит настройки приветственных писем
type EmailConfig struct {
	Provider     string `mapstructure:"provider"` // resend | sendgrid | noop
	ResendAPIKey string `mapstructure:"resend_api_key"`
	SendgridKey  string `mapstructure:"sendgrid_api_key"`
	FromName     string `mapstructure:"from_name"`
	FromEmail    string `mapstructure:"from_email"`
}

// LLMConfig содержит настройки генерации викторин
type LLMConfig struct {
	Provider        string `mapstructure:"provider"` // template | openai
	APIKey          string `mapstructure:"api_key"`
	BaseURL         string `mapstructure:"base_url"`
	Model           string `mapstructure:"model"`
	TemplateDelayMs int    `mapstructure:"template_delay_ms"`
}

// RollbarConfig содержит настройки отправки ошибок
type RollbarConfig struct {
	Token       string `mapstructure:"token"`
	Environment string `mapstructure:"environment"`
}

// CORSConfig содержит разрешенные origin для CORS и WebSocket
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// ClusterConfig включает рассылку уведомлений между инстансами через Redis Pub/Sub
type ClusterConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// PostgresURL формирует URL для golang-migrate
func (d *DatabaseConfig) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

// IsConfigured возвращает true, если задано подключение к PostgreSQL
func (d *DatabaseConfig) IsConfigured() bool {
	return d.Host != ""
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readtimeout", 15)
	vip.SetDefault("server.writetimeout", 30)
	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("jwt.expirationHrs", 24)
	vip.SetDefault("jwt.wsTicketExpirySec", 60)
	vip.SetDefault("reward.delay_ms", 1500)
	vip.SetDefault("storage.driver", StorageMemory)
	vip.SetDefault("storage.prefix", "tutorconnect:")
	vip.SetDefault("email.provider", "noop")
	vip.SetDefault("email.from_name", "TutorConnect")
	vip.SetDefault("llm.provider", "template")
	vip.SetDefault("llm.template_delay_ms", 2000)
	vip.SetDefault("rollbar.environment", "development")
	vip.SetDefault("cors.allow_origins", []string{"http://localhost:5173", "http://localhost:3000"})
}

// Load загружает конфигурацию из файла, .env и переменных окружения
func Load(configPath string) (*Config, error) {
	// .env не обязателен
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Предупреждение: не удалось прочитать .env: %v", err)
	}

	vip := viper.New() // Новый экземпляр, без глобального состояния
	setDefaults(vip)

	// Привязываем переменные окружения ЯВНО
	bindings := map[string]string{
		"server.port":            "SERVER_PORT",
		"database.host":          "DATABASE_HOST",
		"database.port":          "DATABASE_PORT",
		"database.user":          "DATABASE_USER",
		"database.password":      "DATABASE_PASSWORD",
		"database.dbname":        "DATABASE_DBNAME",
		"database.sslmode":       "DATABASE_SSLMODE",
		"redis.mode":             "REDIS_MODE",
		"redis.addrs":            "REDIS_ADDRS",
		"redis.addr":             "REDIS_ADDR",
		"redis.password":         "REDIS_PASSWORD",
		"redis.db":               "REDIS_DB",
		"redis.master_name":      "REDIS_MASTER_NAME",
		"jwt.secret":             "JWT_SECRET",
		"jwt.expirationHrs":      "JWT_EXPIRATIONHRS",
		"jwt.wsTicketExpirySec":  "JWT_WSTICKETEXPIRYSEC",
		"reward.delay_ms":        "REWARD_DELAY_MS",
		"storage.driver":         "STORAGE_DRIVER",
		"storage.prefix":         "STORAGE_PREFIX",
		"email.provider":         "EMAIL_PROVIDER",
		"email.resend_api_key":   "RESEND_API_KEY",
		"email.sendgrid_api_key": "SENDGRID_API_KEY",
		"email.from_name":        "EMAIL_FROM_NAME",
		"email.from_email":       "EMAIL_FROM",
		"llm.provider":           "LLM_PROVIDER",
		"llm.api_key":            "OPENAI_API_KEY",
		"llm.base_url":           "OPENAI_BASE_URL",
		"llm.model":              "LLM_MODEL",
		"llm.template_delay_ms":  "LLM_TEMPLATE_DELAY_MS",
		"rollbar.token":          "ROLLBAR_TOKEN",
		"rollbar.environment":    "ROLLBAR_ENV",
		"cors.allow_origins":     "CORS_ALLOW_ORIGINS",
		"cluster.enabled":        "CLUSTER_ENABLED",
	}
	for key, env := range bindings {
		if err := vip.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	if configPath != "" {
		vip.SetConfigFile(configPath)
		// Файла может не быть, тогда работаем на переменных окружения
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Списки из переменных окружения приходят одной строкой через запятую
	cfg.Redis.Addrs = splitList(cfg.Redis.Addrs)
	cfg.CORS.AllowOrigins = splitList(cfg.CORS.AllowOrigins)

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Redis Addr: %s %v", cfg.Redis.Addr, cfg.Redis.Addrs)
		log.Printf("Storage Driver: %s", cfg.Storage.Driver)
		log.Printf("Email Provider: %s", cfg.Email.Provider)
		log.Printf("LLM Provider: %s", cfg.LLM.Provider)
		log.Printf("Reward Delay: %s", cfg.Reward.Delay())
		log.Printf("Rollbar Enabled: %t", cfg.Rollbar.Token != "")
		log.Printf("-----------------------------------------")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет обязательные параметры и согласованность секций
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required (check JWT_SECRET env var)")
	}
	if c.JWT.ExpirationHrs <= 0 {
		return fmt.Errorf("jwt.expirationHrs must be positive")
	}
	if c.Reward.DelayMs < 0 {
		return fmt.Errorf("reward.delay_ms must be non-negative")
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StorageRedis:
		if !c.Redis.IsConfigured() {
			return fmt.Errorf("storage driver redis requires redis addr (check REDIS_ADDR env var)")
		}
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}

	if c.Cluster.Enabled && !c.Redis.IsConfigured() {
		return fmt.Errorf("cluster notifications require redis")
	}

	if c.Database.IsConfigured() && (c.Database.DBName == "" || c.Database.User == "") {
		return fmt.Errorf("database configuration (dbname, user) is incomplete (check DATABASE_DBNAME, DATABASE_USER env vars)")
	}

	switch c.Email.Provider {
	case "noop", "":
	case "resend":
		if c.Email.ResendAPIKey == "" || c.Email.FromEmail == "" {
			return fmt.Errorf("resend email provider requires RESEND_API_KEY and EMAIL_FROM")
		}
	case "sendgrid":
		if c.Email.SendgridKey == "" || c.Email.FromEmail == "" {
			return fmt.Errorf("sendgrid email provider requires SENDGRID_API_KEY and EMAIL_FROM")
		}
	default:
		return fmt.Errorf("unsupported email provider %q", c.Email.Provider)
	}

	switch c.LLM.Provider {
	case "template", "":
	case "openai":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("openai provider requires OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unsupported llm provider %q", c.LLM.Provider)
	}
	return nil
}

func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
