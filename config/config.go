package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv     string
	Port       string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string
	Timezone   string // clinic timezone deciding when the queue day rolls over, e.g. Asia/Jakarta
}

var (
	cfg  *Config
	once sync.Once
)

func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Warn().Msg(".env file not found, relying on environment variables")
		}
		cfg = &Config{
			AppEnv:     os.Getenv("APP_ENV"),
			Port:       getEnv("PORT", "8080"),
			DBUser:     os.Getenv("DB_USER"),
			DBPassword: os.Getenv("DB_PASSWORD"),
			DBHost:     os.Getenv("DB_HOST"),
			DBPort:     getEnv("DB_PORT", "3306"),
			DBName:     os.Getenv("DB_NAME"),
			JWTSecret:  os.Getenv("JWT_SECRET_KEY"),
			Timezone:   getEnv("QUEUE_TIMEZONE", "Asia/Jakarta"),
		}
	})
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
