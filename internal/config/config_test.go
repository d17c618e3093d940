package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear relevant env vars
	envVars := []string{
		"SERVICE_PRINCIPAL", "HTTP_PORT", "OBSERVABILITY_PORT", "LOG_LEVEL", "LOG_FORMAT",
		"AWS_REGION", "MEDIA_BUCKET",
		"DISPATCH_QUEUE_URL", "DISPATCH_MAX_RETRIES", "DISPATCH_BATCH_SIZE", "DISPATCH_WAIT_TIME",
		"KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_TOPIC_JOBS", "KAFKA_TOPIC_TRANSCRIPTS", "KAFKA_PRINCIPAL",
		"SPEECH_PROVIDER",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}

	cfg := Load()

	// Service defaults
	if cfg.Service.Principal != "media-transcription-service" {
		t.Errorf("expected default principal 'media-transcription-service', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "8080" {
		t.Errorf("expected default port '8080', got %s", cfg.Service.HTTPPort)
	}
	if cfg.Service.ObservabilityPort != "9090" {
		t.Errorf("expected default observability port '9090', got %s", cfg.Service.ObservabilityPort)
	}

	// AWS defaults
	if cfg.AWS.Region != "eu-central-1" {
		t.Errorf("expected default region 'eu-central-1', got %s", cfg.AWS.Region)
	}

	// Queue defaults
	if cfg.Queue.MaxRetries != 1 {
		t.Errorf("expected default max retries 1, got %d", cfg.Queue.MaxRetries)
	}
	if cfg.Queue.BatchSize != 10 {
		t.Errorf("expected default batch size 10, got %d", cfg.Queue.BatchSize)
	}
	if cfg.Queue.WaitTime != 20*time.Second {
		t.Errorf("expected default wait time 20s, got %v", cfg.Queue.WaitTime)
	}

	// Kafka defaults
	if cfg.Kafka.Enabled != false {
		t.Errorf("expected kafka disabled by default, got %v", cfg.Kafka.Enabled)
	}
	if cfg.Kafka.TopicJobs != "transcription.jobs" {
		t.Errorf("expected default jobs topic 'transcription.jobs', got %s", cfg.Kafka.TopicJobs)
	}
	if cfg.Kafka.TopicTranscripts != "transcription.transcripts" {
		t.Errorf("expected default transcripts topic 'transcription.transcripts', got %s", cfg.Kafka.TopicTranscripts)
	}

	// Speech defaults
	if cfg.Speech.Provider != "aws" {
		t.Errorf("expected default speech provider 'aws', got %s", cfg.Speech.Provider)
	}

	// Observability defaults
	if cfg.Observability.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Observability.LogLevel)
	}
	if cfg.Observability.LogFormat != "json" {
		t.Errorf("expected default log format 'json', got %s", cfg.Observability.LogFormat)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	// Set custom env vars
	os.Setenv("SERVICE_PRINCIPAL", "custom-principal")
	os.Setenv("HTTP_PORT", "9999")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("AWS_REGION", "us-east-1")
	os.Setenv("MEDIA_BUCKET", "media-bucket-test")
	os.Setenv("DISPATCH_QUEUE_URL", "https://sqs.us-east-1.amazonaws.com/123456789012/dispatch")
	os.Setenv("DISPATCH_MAX_RETRIES", "3")
	os.Setenv("DISPATCH_BATCH_SIZE", "5")
	os.Setenv("DISPATCH_WAIT_TIME", "10s")
	os.Setenv("KAFKA_ENABLED", "true")
	os.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	os.Setenv("SPEECH_PROVIDER", "mock")

	defer func() {
		// Clean up
		os.Unsetenv("SERVICE_PRINCIPAL")
		os.Unsetenv("HTTP_PORT")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("AWS_REGION")
		os.Unsetenv("MEDIA_BUCKET")
		os.Unsetenv("DISPATCH_QUEUE_URL")
		os.Unsetenv("DISPATCH_MAX_RETRIES")
		os.Unsetenv("DISPATCH_BATCH_SIZE")
		os.Unsetenv("DISPATCH_WAIT_TIME")
		os.Unsetenv("KAFKA_ENABLED")
		os.Unsetenv("KAFKA_BROKERS")
		os.Unsetenv("SPEECH_PROVIDER")
	}()

	cfg := Load()

	if cfg.Service.Principal != "custom-principal" {
		t.Errorf("expected principal 'custom-principal', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "9999" {
		t.Errorf("expected port '9999', got %s", cfg.Service.HTTPPort)
	}
	if cfg.AWS.Region != "us-east-1" {
		t.Errorf("expected region 'us-east-1', got %s", cfg.AWS.Region)
	}
	if cfg.AWS.MediaBucket != "media-bucket-test" {
		t.Errorf("expected bucket 'media-bucket-test', got %s", cfg.AWS.MediaBucket)
	}
	if cfg.Queue.URL != "https://sqs.us-east-1.amazonaws.com/123456789012/dispatch" {
		t.Errorf("expected custom queue URL, got %s", cfg.Queue.URL)
	}
	if cfg.Queue.MaxRetries != 3 {
		t.Errorf("expected max retries 3, got %d", cfg.Queue.MaxRetries)
	}
	if cfg.Queue.BatchSize != 5 {
		t.Errorf("expected batch size 5, got %d", cfg.Queue.BatchSize)
	}
	if cfg.Queue.WaitTime != 10*time.Second {
		t.Errorf("expected wait time 10s, got %v", cfg.Queue.WaitTime)
	}
	if cfg.Kafka.Enabled != true {
		t.Errorf("expected kafka enabled, got %v", cfg.Kafka.Enabled)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "broker1:9092" || cfg.Kafka.Brokers[1] != "broker2:9092" {
		t.Errorf("expected two trimmed brokers, got %v", cfg.Kafka.Brokers)
	}
	if cfg.Speech.Provider != "mock" {
		t.Errorf("expected speech provider 'mock', got %s", cfg.Speech.Provider)
	}
	if cfg.Observability.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_InvalidValues_FallbackToDefaults(t *testing.T) {
	// Set invalid env vars
	os.Setenv("DISPATCH_MAX_RETRIES", "not-a-number")
	os.Setenv("DISPATCH_BATCH_SIZE", "invalid")
	os.Setenv("DISPATCH_WAIT_TIME", "invalid")
	os.Setenv("KAFKA_ENABLED", "invalid")

	defer func() {
		os.Unsetenv("DISPATCH_MAX_RETRIES")
		os.Unsetenv("DISPATCH_BATCH_SIZE")
		os.Unsetenv("DISPATCH_WAIT_TIME")
		os.Unsetenv("KAFKA_ENABLED")
	}()

	cfg := Load()

	// Should fall back to defaults on parse errors
	if cfg.Queue.MaxRetries != 1 {
		t.Errorf("expected default max retries on invalid input, got %d", cfg.Queue.MaxRetries)
	}
	if cfg.Queue.BatchSize != 10 {
		t.Errorf("expected default batch size on invalid input, got %d", cfg.Queue.BatchSize)
	}
	if cfg.Queue.WaitTime != 20*time.Second {
		t.Errorf("expected default wait time on invalid input, got %v", cfg.Queue.WaitTime)
	}
	if cfg.Kafka.Enabled != false {
		t.Errorf("expected kafka disabled on invalid input, got %v", cfg.Kafka.Enabled)
	}
}

func TestLoad_KafkaPrincipal_FallsBackToServicePrincipal(t *testing.T) {
	os.Setenv("SERVICE_PRINCIPAL", "my-service")
	os.Unsetenv("KAFKA_PRINCIPAL")

	defer os.Unsetenv("SERVICE_PRINCIPAL")

	cfg := Load()

	if cfg.Kafka.Principal != "my-service" {
		t.Errorf("expected Kafka principal to fall back to service principal, got %s", cfg.Kafka.Principal)
	}
}

func TestEnvOrDefaultBool(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		def      bool
		expected bool
	}{
		{"true string", "true", false, true},
		{"false string", "false", true, false},
		{"1", "1", false, true},
		{"0", "0", true, false},
		{"TRUE uppercase", "TRUE", false, true},
		{"invalid", "invalid", true, true},
		{"empty", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_BOOL_VAR"
			if tt.envValue != "" {
				os.Setenv(key, tt.envValue)
			} else {
				os.Unsetenv(key)
			}
			defer os.Unsetenv(key)

			got := envOrDefaultBool(key, tt.def)
			if got != tt.expected {
				t.Errorf("envOrDefaultBool(%s, %v) = %v, want %v", tt.envValue, tt.def, got, tt.expected)
			}
		})
	}
}

func TestSplitNonEmpty(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"empty", "", 0},
		{"single", "broker:9092", 1},
		{"two with spaces", "a:9092, b:9092", 2},
		{"trailing comma", "a:9092,", 1},
		{"only commas", ",,,", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitNonEmpty(tt.input)
			if len(got) != tt.expected {
				t.Errorf("splitNonEmpty(%q) = %v entries, want %d", tt.input, got, tt.expected)
			}
		})
	}
}
