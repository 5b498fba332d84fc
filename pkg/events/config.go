package events

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvKafkaBrokers          = "KAFKA_BROKERS"
	EnvKafkaEnabled          = "KAFKA_ENABLED"
	EnvKafkaBatchTimeout     = "KAFKA_BATCH_TIMEOUT"
	EnvKafkaMaxAttempts      = "KAFKA_MAX_ATTEMPTS"
	EnvKafkaConsumerGroup    = "KAFKA_CONSUMER_GROUP"
	EnvKafkaConsumerMinBytes = "KAFKA_CONSUMER_MIN_BYTES"
	EnvKafkaConsumerMaxBytes = "KAFKA_CONSUMER_MAX_BYTES"
	EnvKafkaConsumerMaxWait  = "KAFKA_CONSUMER_MAX_WAIT"

	DefaultKafkaBrokers          = "localhost:9092"
	DefaultKafkaBatchTimeout     = 100 * time.Millisecond
	DefaultKafkaMaxAttempts      = 3
	DefaultKafkaConsumerGroup    = "hostelhub-notifier"
	DefaultKafkaConsumerMinBytes = 1
	DefaultKafkaConsumerMaxBytes = 10 * 1024 * 1024
	DefaultKafkaConsumerMaxWait  = 500 * time.Millisecond
)

type Config struct {
	Brokers       []string
	Enabled       bool
	BatchTimeout  time.Duration
	MaxAttempts   int
	ConsumerGroup string
	MinBytes      int
	MaxBytes      int
	MaxWait       time.Duration
}

func LoadConfig() *Config {
	brokers := strings.Split(getEnvStr(EnvKafkaBrokers, DefaultKafkaBrokers), ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}

	return &Config{
		Brokers:       brokers,
		Enabled:       getEnvBool(EnvKafkaEnabled, true),
		BatchTimeout:  getEnvDuration(EnvKafkaBatchTimeout, DefaultKafkaBatchTimeout),
		MaxAttempts:   getEnvNum(EnvKafkaMaxAttempts, DefaultKafkaMaxAttempts),
		ConsumerGroup: getEnvStr(EnvKafkaConsumerGroup, DefaultKafkaConsumerGroup),
		MinBytes:      getEnvNum(EnvKafkaConsumerMinBytes, DefaultKafkaConsumerMinBytes),
		MaxBytes:      getEnvNum(EnvKafkaConsumerMaxBytes, DefaultKafkaConsumerMaxBytes),
		MaxWait:       getEnvDuration(EnvKafkaConsumerMaxWait, DefaultKafkaConsumerMaxWait),
	}
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
