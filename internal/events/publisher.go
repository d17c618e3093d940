// Package events provides event publishing functionality.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"media-transcription-service/internal/models"
	"media-transcription-service/internal/observability/metrics"
)

// JobSubmitted is published when a transcription job has been accepted
// by the speech service.
type JobSubmitted struct {
	EventType string           `json:"eventType"`
	JobID     string           `json:"jobId"`
	Language  string           `json:"language"`
	MediaKind models.MediaKind `json:"mediaKind"`
	Status    models.JobStatus `json:"status"`
	Timestamp int64            `json:"timestamp"`
}

// TranscriptReady is published when a completed transcript has been
// fetched and segmented.
type TranscriptReady struct {
	EventType      string `json:"eventType"`
	JobID          string `json:"jobId"`
	SentenceCount  int    `json:"sentenceCount"`
	TranscriptLink string `json:"transcriptLink"`
	Timestamp      int64  `json:"timestamp"`
}

// Publisher publishes job lifecycle events to separate Kafka topics.
type Publisher struct {
	writerJobs        *kafka.Writer
	writerTranscripts *kafka.Writer
	principal         string
	topicJobs         string
	topicTranscripts  string
	enabled           bool
	metrics           *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers          []string
	TopicJobs        string
	TopicTranscripts string
	Principal        string
	Enabled          bool
}

// New creates a new Kafka event publisher with separate topics for job
// submissions and ready transcripts.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	// Handle nil config case
	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{
			enabled: false,
			metrics: m,
		}
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal:        cfg.Principal,
			topicJobs:        cfg.TopicJobs,
			topicTranscripts: cfg.TopicTranscripts,
			enabled:          false,
			metrics:          m,
		}
	}

	// Create a custom dialer with longer timeouts for DNS resolution in Kubernetes
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	// Writer for job submission events
	writerJobs := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicJobs,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	// Writer for ready transcripts
	writerTranscripts := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicTranscripts,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicJobs", cfg.TopicJobs).
		Str("topicTranscripts", cfg.TopicTranscripts).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerJobs:        writerJobs,
		writerTranscripts: writerTranscripts,
		principal:         cfg.Principal,
		topicJobs:         cfg.TopicJobs,
		topicTranscripts:  cfg.TopicTranscripts,
		enabled:           true,
		metrics:           m,
	}
}

// PublishJobSubmitted publishes a job submission event to the jobs topic.
func (p *Publisher) PublishJobSubmitted(ctx context.Context, event JobSubmitted) error {
	event.EventType = "job.submitted"
	return p.publish(ctx, p.writerJobs, p.topicJobs, event.EventType, event.JobID, event)
}

// PublishTranscriptReady publishes a ready-transcript event to the transcripts topic.
func (p *Publisher) PublishTranscriptReady(ctx context.Context, event TranscriptReady) error {
	event.EventType = "transcript.ready"
	return p.publish(ctx, p.writerTranscripts, p.topicTranscripts, event.EventType, event.JobID, event)
}

// publish is the internal method that writes to a specific Kafka writer.
func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	// Log the event
	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	// If Kafka is disabled, just log
	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	// Publish to Kafka
	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(eventType)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerJobs != nil {
		if e := p.writerJobs.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing jobs writer")
			err = e
		}
	}
	if p.writerTranscripts != nil {
		if e := p.writerTranscripts.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing transcripts writer")
			err = e
		}
	}
	return err
}
