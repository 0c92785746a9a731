// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Драйверы хранилища записей.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	Storage         `yaml:"storage"`
	RedisConnection `yaml:"redis_connection"`
	HTTPServer      `yaml:"http_server"`
	JWTToken        `yaml:"jwttoken"`
	Registry        `yaml:"registry"`
	Auth            `yaml:"auth"`
	RabbitMQ        `yaml:"rabbitmq"`
	Tracing         `yaml:"tracing"`
	RateLimit       `yaml:"rate_limit"`
}

// Storage структура для выбора и настройки хранилища записей
type Storage struct {
	Driver                  string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	FilePath                string `yaml:"file_path" env-default:"./data"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Registry настройки реестра доноров
type Registry struct {
	RecentWindow time.Duration `yaml:"recent_window" env-default:"720h"`
	PhonePrefix  string        `yaml:"phone_prefix" env-default:"01"`
	StrictPhone  bool          `yaml:"strict_phone"`
}

// Credential учётные данные одной учётной записи.
// PasswordHash — bcrypt-хеш; Password допускается только для демо-окружений и хешируется при старте.
type Credential struct {
	Email        string `yaml:"email"`
	PasswordHash string `yaml:"password_hash"`
	Password     string `yaml:"password"`
}

// Auth настройки проверки учётных данных
type Auth struct {
	Credentials []Credential `yaml:"credentials"`
}

// RabbitMQ настройки публикации событий
type RabbitMQ struct {
	Enabled    bool          `yaml:"enabled" env:"RABBITMQ_ENABLED"`
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange   string        `yaml:"exchange" env-default:"lifeflow.events"`
	Retries    int           `yaml:"retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// Tracing настройки экспорта трейсов OpenTelemetry
type Tracing struct {
	Enabled      bool    `yaml:"enabled" env:"TRACING_ENABLED"`
	ServiceName  string  `yaml:"service_name" env-default:"lifeflow"`
	OTLPEndpoint string  `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Insecure     bool    `yaml:"insecure"`
	SampleRatio  float64 `yaml:"sample_ratio" env-default:"1"`
}

// RateLimit ограничение частоты публичной регистрации
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"1"`
	Burst int     `yaml:"burst" env-default:"3"`
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH (в том числе из .env)
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// Load читает конфиг без завершения процесса.
func Load() (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		return nil, errors.New("CONFIG_PATH is not set")
	}
	return LoadFile(configPath)
}

// LoadFile читает и проверяет конфиг из файла.
func LoadFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverMemory, DriverFile:
	case DriverRedis:
		if c.AddressRedis == "" {
			return errors.New("redis_connection.addressredis is required for redis storage")
		}
	case DriverPostgres:
		if c.StorageConnectionString == "" {
			return errors.New("storage.storage_connection_string is required for postgres storage")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Driver)
	}
	if c.RecentWindow <= 0 {
		return errors.New("registry.recent_window must be positive")
	}
	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		return errors.New("rabbitmq.url is required when rabbitmq is enabled")
	}
	for _, cr := range c.Credentials {
		if cr.Email == "" || (cr.PasswordHash == "" && cr.Password == "") {
			return fmt.Errorf("credential %q needs email and password_hash or password", cr.Email)
		}
	}
	if c.JWTSecretKey == "" {
		return errors.New("jwttoken.jwt_secret_key is required")
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Storage:\n"+
			"  Driver: %s\n"+
			"  FilePath: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n"+
			"Registry:\n"+
			"  RecentWindow: %s\n"+
			"  StrictPhone: %t\n"+
			"Credentials: %d\n"+
			"RabbitMQ: %t\n"+
			"Tracing: %t\n",
		c.Env,
		c.Driver,
		c.FilePath,
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.TokenTTL,
		c.RecentWindow,
		c.StrictPhone,
		len(c.Credentials),
		c.RabbitMQ.Enabled,
		c.Tracing.Enabled,
	)
}
