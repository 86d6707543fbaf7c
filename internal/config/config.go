// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	PlatformDomain          string `yaml:"platform_domain" env-default:"aboutwebsite.in"`
	AppURL                  string `yaml:"app_url" env-default:"https://aboutwebsite.in"`
	WebsiteLimit            int    `yaml:"website_limit" env-default:"1"`
	BasePrice               int    `yaml:"base_price" env-default:"199"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Razorpay                `yaml:"razorpay"`
	Vercel                  `yaml:"vercel"`
	MSG91                   `yaml:"msg91"`
	OpenAI                  `yaml:"openai"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env-default:"localhost:6379"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"5s"`
}

// RabbitMQ структура для настройки подключения к брокеру сообщений.
// Пустой URL отключает очередь писем — API продолжает работать без неё.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"168h"`
}

// Razorpay данные доступа к платёжному шлюзу.
type Razorpay struct {
	RazorpayKeyID     string `yaml:"key_id" env:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string `yaml:"key_secret" env:"RAZORPAY_KEY_SECRET"`
}

// Vercel данные доступа к DNS/edge провайдеру.
type Vercel struct {
	VercelAPIToken  string `yaml:"api_token" env:"VERCEL_API_TOKEN"`
	VercelProjectID string `yaml:"project_id" env:"VERCEL_PROJECT_ID"`
}

// MSG91 данные доступа к почтовому провайдеру.
type MSG91 struct {
	MSG91AuthKey   string `yaml:"auth_key" env:"MSG91_AUTH_KEY"`
	MSG91FromEmail string `yaml:"from_email" env-default:"noreply@aboutwebsite.in"`
	MSG91FromName  string `yaml:"from_name" env-default:"AboutWebsite Team"`
	MSG91Domain    string `yaml:"domain" env-default:"aboutwebsite.in"`
}

// OpenAI данные доступа к провайдеру генерации контента.
type OpenAI struct {
	OpenAIAPIKey string `yaml:"api_key" env:"OPENAI_API_KEY"`
	OpenAIModel  string `yaml:"model" env-default:"gpt-3.5-turbo"`
}

// MustLoad функция для загрузки конфига, путь берётся из переменной окружения CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
