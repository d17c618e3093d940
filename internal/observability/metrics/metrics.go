// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "media_transcription"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Dispatch batch metrics
	BatchesReceived prometheus.Counter
	BatchesAborted  *prometheus.CounterVec
	BatchDuration   prometheus.Histogram

	// Job submission metrics
	JobsSubmitted       prometheus.Counter
	JobSubmissionErrors *prometheus.CounterVec
	RequestsEnqueued    prometheus.Counter

	// Transcript metrics
	TranscriptsFetched     prometheus.Counter
	TranscriptFetchLatency prometheus.Histogram
	SentencesEmitted       prometheus.Counter

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		// Dispatch batch metrics
		BatchesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_batches_total",
			Help:      "Total number of dispatch batches received",
		}),
		BatchesAborted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_batches_aborted_total",
			Help:      "Total number of dispatch batches aborted before submission",
		}, []string{"reason"}),
		BatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_batch_duration_seconds",
			Help:      "Duration of dispatch batch processing in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),

		// Job submission metrics
		JobsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_submitted_total",
			Help:      "Total number of transcription jobs submitted to the speech service",
		}),
		JobSubmissionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_submission_errors_total",
			Help:      "Total number of failed per-request job submissions",
		}, []string{"reason"}),
		RequestsEnqueued: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_enqueued_total",
			Help:      "Total number of transcription requests placed on the dispatch queue",
		}),

		// Transcript metrics
		TranscriptsFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_fetched_total",
			Help:      "Total number of transcript documents fetched and segmented",
		}),
		TranscriptFetchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcript_fetch_latency_seconds",
			Help:      "Latency of transcript document fetches in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}),
		SentencesEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentences_emitted_total",
			Help:      "Total number of sentences produced by the segmenter",
		}),

		// Kafka publish metrics
		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),

		// HTTP metrics
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled",
		}, []string{"method", "route", "status"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request handling duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
	}
}

// RecordBatch records one received dispatch batch and its outcome.
func (m *Metrics) RecordBatch(abortReason string, durationSeconds float64) {
	m.BatchesReceived.Inc()
	m.BatchDuration.Observe(durationSeconds)
	if abortReason != "" {
		m.BatchesAborted.WithLabelValues(abortReason).Inc()
	}
}

// RecordJobSubmitted records one successful job submission.
func (m *Metrics) RecordJobSubmitted() {
	m.JobsSubmitted.Inc()
}

// RecordJobSubmissionError records one failed per-request submission.
func (m *Metrics) RecordJobSubmissionError(reason string) {
	m.JobSubmissionErrors.WithLabelValues(reason).Inc()
}

// RecordRequestEnqueued records a request placed on the dispatch queue.
func (m *Metrics) RecordRequestEnqueued() {
	m.RequestsEnqueued.Inc()
}

// RecordTranscriptFetched records a transcript fetch and its sentence yield.
func (m *Metrics) RecordTranscriptFetched(sentences int, latencySeconds float64) {
	m.TranscriptsFetched.Inc()
	m.TranscriptFetchLatency.Observe(latencySeconds)
	m.SentencesEmitted.Add(float64(sentences))
}

// RecordHTTPRequest records one handled HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route, status string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
