package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	DB         DB         `yaml:"db"`
	Cache      Cache      `yaml:"cache"`
	HTTPServer HTTPServer `yaml:"http_server"`
}

type DB struct {
	Addr     string `yaml:"addr" env:"DB_ADDR" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-required:"true"`
	Password string `yaml:"password" env:"DB_PASSWORD" env-required:"true"`
	DB       string `yaml:"name" env:"DB_NAME" env-required:"true"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
}

type Cache struct {
	Addr     string        `yaml:"addr" env:"CACHE_ADDR" env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"CACHE_PASSWORD" env-default:""`
	DB       int           `yaml:"db" env:"CACHE_DB" env-default:"0"`
	MetaTTL  time.Duration `yaml:"meta_ttl" env:"CACHE_META_TTL" env-default:"5m"`
}

type HTTPServer struct {
	Address            string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout            time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"4s"`
	IdleTimeout        time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	RateLimitPerSecond int           `yaml:"rate_limit_per_second" env:"HTTP_RATE_LIMIT_PER_SECOND" env-default:"50"`
	RateLimitBurst     int           `yaml:"rate_limit_burst" env:"HTTP_RATE_LIMIT_BURST" env-default:"100"`
}

// MustLoad reads the config file named by CONFIG_PATH plus env overrides and
// panics on any problem; the service cannot run half-configured.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		panic("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("failed to read config: " + err.Error())
	}

	return &cfg
}
