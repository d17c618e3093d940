// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ServiceConfig identifies the service and its HTTP surface.
type ServiceConfig struct {
	Principal string
	HTTPPort  string
	// ObservabilityPort serves /metrics and health endpoints.
	ObservabilityPort string
}

// AWSConfig holds the shared cloud client settings.
type AWSConfig struct {
	Region      string
	MediaBucket string
}

// QueueConfig holds dispatch queue settings.
type QueueConfig struct {
	URL string
	// MaxRetries is the redelivery ceiling for the dispatch consumer.
	MaxRetries int
	// BatchSize bounds how many messages one invocation receives.
	BatchSize int
	// WaitTime is the long-poll duration per receive.
	WaitTime time.Duration
}

// KafkaConfig holds event publishing settings.
type KafkaConfig struct {
	Enabled          bool
	Brokers          []string
	TopicJobs        string
	TopicTranscripts string
	Principal        string
}

// SpeechConfig selects and tunes the speech provider.
type SpeechConfig struct {
	// Provider is "aws" or "mock".
	Provider string
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string
}

// Config is the full service configuration.
type Config struct {
	Service       ServiceConfig
	AWS           AWSConfig
	Queue         QueueConfig
	Kafka         KafkaConfig
	Speech        SpeechConfig
	Observability ObservabilityConfig
}

// Load reads configuration from the environment, falling back to
// defaults for anything unset or unparseable.
func Load() *Config {
	principal := envOrDefault("SERVICE_PRINCIPAL", "media-transcription-service")

	cfg := &Config{
		Service: ServiceConfig{
			Principal:         principal,
			HTTPPort:          envOrDefault("HTTP_PORT", "8080"),
			ObservabilityPort: envOrDefault("OBSERVABILITY_PORT", "9090"),
		},
		AWS: AWSConfig{
			Region:      envOrDefault("AWS_REGION", "eu-central-1"),
			MediaBucket: envOrDefault("MEDIA_BUCKET", ""),
		},
		Queue: QueueConfig{
			URL:        envOrDefault("DISPATCH_QUEUE_URL", ""),
			MaxRetries: envOrDefaultInt("DISPATCH_MAX_RETRIES", 1),
			BatchSize:  envOrDefaultInt("DISPATCH_BATCH_SIZE", 10),
			WaitTime:   envOrDefaultDuration("DISPATCH_WAIT_TIME", 20*time.Second),
		},
		Kafka: KafkaConfig{
			Enabled:          envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:          splitNonEmpty(envOrDefault("KAFKA_BROKERS", "")),
			TopicJobs:        envOrDefault("KAFKA_TOPIC_JOBS", "transcription.jobs"),
			TopicTranscripts: envOrDefault("KAFKA_TOPIC_TRANSCRIPTS", "transcription.transcripts"),
			Principal:        envOrDefault("KAFKA_PRINCIPAL", principal),
		},
		Speech: SpeechConfig{
			Provider: envOrDefault("SPEECH_PROVIDER", "aws"),
		},
		Observability: ObservabilityConfig{
			LogLevel:  envOrDefault("LOG_LEVEL", "info"),
			LogFormat: envOrDefault("LOG_FORMAT", "json"),
		},
	}

	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envOrDefaultBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// splitNonEmpty splits a comma-separated list, dropping empty entries.
func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
