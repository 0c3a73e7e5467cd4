package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load() // .env file is optional

	return env.Parse(cfg)
}

// Config holds the configuration for the application
type Config struct {
	Symbol      string               `env:"SYMBOL,required"` // Traded instrument, e.g. BTC-USD
	KafkaConfig `envPrefix:"KAFKA_"` // Order stream configuration
	FillsConfig `envPrefix:"FILLS_"` // Fill publication configuration
	RedisConfig `envPrefix:"REDIS_"` // Redis configuration
}

// KafkaConfig holds the configuration for the Kafka order consumer.
type KafkaConfig struct {
	Topic   string   `env:"TOPIC,required"`
	GroupID string   `env:"GROUP_ID" envDefault:"default_group"`
	Brokers []string `env:"BROKER,required"`
}

// FillsConfig holds the configuration for the Kafka fill publisher.
type FillsConfig struct {
	Topic   string   `env:"TOPIC,required"`
	Brokers []string `env:"BROKER,required"`
}

// RedisConfig holds the configuration for the Redis client.
type RedisConfig struct {
	Addrs    string `env:"ADDRESS,required"` // Comma-separated list of Redis addresses
	Password string `env:"PASSWORD" envDefault:""`
	Username string `env:"USERNAME" envDefault:""`
	DB       int    `env:"DB" envDefault:"0"`
}
