package config

import (
	"time"

	"messaging_service/pkg"
)

// Chat definition chat_service YAML structure
type Chat struct {
	Port     string `mapstructure:"port"`
	GRPCPort string `mapstructure:"grpc_port"`

	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	MongoSQL   DatabaseConfig `mapstructure:"mongo"`
	Redis      RedisConfig    `mapstructure:"redis"`
	Kafka      KafkaConfig    `mapstructure:"kafka"`
	RabbitMQ   RabbitMQConfig `mapstructure:"rabbitmq"`

	Push PushConfig `mapstructure:"push"`
}

// PushConfig select push-delivery transports
type PushConfig struct {
	// Transports enabled publishers: redis, kafka, rabbitmq
	Transports []string `mapstructure:"transports"`
	// Journal store published events in mongo for replay
	Journal bool `mapstructure:"journal"`
	// ChannelPrefix per-user redis channel prefix
	ChannelPrefix string `mapstructure:"channel_prefix"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	RedisDB int `mapstructure:"redis_db"`
}

// KafkaConfig definition kafka setting
type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	Topic         string   `mapstructure:"topic"`
	RetryInterval int      `mapstructure:"retry_interval"`
	RetryCount    int      `mapstructure:"retry_count"`
}

// RabbitMQConfig definition rabbitmq setting
type RabbitMQConfig struct {
	URL           string `mapstructure:"url"`
	Exchange      string `mapstructure:"exchange"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	Database      string        `mapstructure:"database"`
	SSLMode       string        `mapstructure:"sslmode"`
	RetryInterval int           `mapstructure:"retry_interval"`
	RetryCount    int           `mapstructure:"retry_count"`
	MaxIdleTime   time.Duration `mapstructure:"max_idle_time"`
}

// Enabled report whether transport name is configured
func (p PushConfig) Enabled(name string) bool {
	return pkg.ContainsFold(p.Transports, name)
}

// Defaults values used when chat_service.yaml leaves a key out
func (Chat) Defaults() map[string]interface{} {
	return map[string]interface{}{
		"port":                 "8083",
		"pg.sslmode":           "disable",
		"pg.retry_count":       5,
		"pg.retry_interval":    3,
		"mongo.retry_count":    5,
		"mongo.retry_interval": 3,
		"kafka.topic":          "chat-events",
		"rabbitmq.exchange":    "chat.events",
		"push.transports":      []string{"redis"},
		"push.channel_prefix":  "chat:user:",
	}
}
