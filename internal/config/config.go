package config

import (
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Env  string `mapstructure:"env"`
	Port int    `mapstructure:"port"`
}

type CassandraConfig struct {
	Hosts          []string `mapstructure:"hosts"`
	Port           int      `mapstructure:"port"`
	Keyspace       string   `mapstructure:"keyspace"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
}

type RedisConfig struct {
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
}

type KafkaConfig struct {
	Brokers          []string `mapstructure:"brokers"`
	TopicMessageSent string   `mapstructure:"topic_message_sent"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Cassandra CassandraConfig `mapstructure:"cassandra"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	// derived values
	CassandraTimeout time.Duration
	CacheTTL         time.Duration
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	// sensible defaults
	if c.App.Port == 0 {
		c.App.Port = 8084
	}
	if len(c.Cassandra.Hosts) == 0 {
		c.Cassandra.Hosts = []string{"localhost"}
	}
	if c.Cassandra.Port == 0 {
		c.Cassandra.Port = 9042
	}
	if c.Cassandra.Keyspace == "" {
		c.Cassandra.Keyspace = "messenger"
	}
	if c.Cassandra.TimeoutSeconds == 0 {
		c.Cassandra.TimeoutSeconds = 10
	}
	if c.Redis.TTLSeconds == 0 {
		c.Redis.TTLSeconds = 300
	}
	if c.Kafka.TopicMessageSent == "" {
		c.Kafka.TopicMessageSent = "message.sent"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9104"
	}
	c.CassandraTimeout = time.Duration(c.Cassandra.TimeoutSeconds) * time.Second
	c.CacheTTL = time.Duration(c.Redis.TTLSeconds) * time.Second
	return &c, nil
}
