// Package config builds runtime configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strings"
	"time"
)

// Config captures everything the server process needs.
type Config struct {
	Addr            string
	DatabaseURL     string
	Redis           RedisConfig
	Kafka           KafkaConfig
	JWTSigningKey   string
	ShutdownTimeout time.Duration
}

// RedisConfig configures the optional Redis connection.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// NotifyStream is the stream status-change notices are appended to.
	NotifyStream string
}

// KafkaConfig configures the optional Kafka producer.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv reads configuration from GUARDPOST_* environment variables,
// falling back to development defaults.
func FromEnv() Config {
	addr := os.Getenv("GUARDPOST_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("GUARDPOST_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("GUARDPOST_KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}
	topic := os.Getenv("GUARDPOST_KAFKA_TOPIC")
	if topic == "" {
		topic = "guardpost.status-changes"
	}

	stream := os.Getenv("GUARDPOST_REDIS_NOTIFY_STREAM")
	if stream == "" {
		stream = "guardpost:notifications"
	}

	return Config{
		Addr:        addr,
		DatabaseURL: os.Getenv("GUARDPOST_DB_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("GUARDPOST_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			NotifyStream: stream,
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   topic,
		},
		JWTSigningKey:   jwtSigningKey,
		ShutdownTimeout: 10 * time.Second,
	}
}
