package config

import (
	"log"

	"github.com/caarlos0/env/v11"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                int    `env:"PORT" envDefault:"8080"`
	BackendBaseURL      string `env:"BACKEND_BASE_URL" envDefault:"http://localhost:9000"`
	BackendTimeout      int    `env:"BACKEND_TIMEOUT_SECONDS" envDefault:"15"`
	BackendRetries      int    `env:"BACKEND_RETRIES" envDefault:"2"`
	StorageBackend      string `env:"STORAGE_BACKEND" envDefault:"memory"`
	RedisAddr           string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword       string `env:"REDIS_PASSWORD"`
	RedisDB             int    `env:"REDIS_DB" envDefault:"0"`
	PostgresDSN         string `env:"POSTGRES_DSN"`
	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
	LogLevel            string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string `env:"LOG_FORMAT" envDefault:"json"`
}

func New() *Config {
	if loadErr := godotenv.Load(".env"); loadErr != nil {
		log.Printf("[Env]: unable to load .env file %v", loadErr)
	}

	var cfg Config

	if parseErr := env.Parse(&cfg); parseErr != nil {
		log.Printf("[Env]: failed to parse environment variables: %v", parseErr)
	}

	return &cfg
}
