package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config структура
type Config struct {
	HTTPServer `yaml:"http_server"`
	Redis      `yaml:"redis"`
	Broker     `yaml:"broker"`
	Worker     `yaml:"worker"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:1245"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"5s"`
}

type Redis struct {
	Addr           string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password       string `yaml:"password" env:"REDIS_PASSWORD"`
	DB             int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	ControlChannel string `yaml:"control_channel" env-default:"stock notifier channel"`
}

type Broker struct {
	URL      string `yaml:"url" env:"BROKER_URL" env-required:"true"`
	Exchange string `yaml:"exchange" env-default:"notificationsExchange"`
}

type Worker struct {
	Concurrency  int           `yaml:"concurrency" env-default:"2"`
	TotalSteps   int           `yaml:"total_steps" env-default:"2"`
	StepInterval time.Duration `yaml:"step_interval" env-default:"1s"`
	Blacklist    []string      `yaml:"blacklist" env-default:"4153518780,4153518781"`
}

func MustLoad() *Config {
	// Load .env file if it exists (optional for Docker environments)
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatalf("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file %s does not exist", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}
