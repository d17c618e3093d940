package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"media-transcription-service/internal/apperr"
	"media-transcription-service/internal/events"
	"media-transcription-service/internal/models"
	"media-transcription-service/internal/observability/metrics"
	"media-transcription-service/internal/schema"
	"media-transcription-service/internal/service/speech"
	"media-transcription-service/internal/service/transcript"
)

// Reader answers status queries for a single job and, once the job has
// completed, fetches and segments its transcript.
type Reader struct {
	adapter   speech.Adapter
	validator *schema.Validator
	client    *http.Client
	publisher *events.Publisher
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewReader constructs a Reader. The HTTP client is used to fetch
// transcript documents from the speech service's result URIs.
func NewReader(adapter speech.Adapter, validator *schema.Validator, client *http.Client, publisher *events.Publisher) *Reader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Reader{
		adapter:   adapter,
		validator: validator,
		client:    client,
		publisher: publisher,
		metrics:   metrics.DefaultMetrics,
		logger:    log.With().Str("component", "jobs.reader").Logger(),
	}
}

// Get returns one job's status. For completed jobs the result carries
// the segmented transcript and its source link; anything else comes
// back as status and start time only.
func (r *Reader) Get(ctx context.Context, id string) (*models.JobResult, error) {
	job, err := r.adapter.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, speech.ErrJobNotFound) {
			return nil, apperr.Newf(apperr.CodeNotFound, "no transcription job named %q", id)
		}
		return nil, fmt.Errorf("get job %q: %w", id, err)
	}

	if job.Status != models.JobStatusCompleted {
		return &models.JobResult{
			Status:  job.Status,
			Started: job.Started,
		}, nil
	}

	// A completed job with no transcript reference is an upstream
	// defect: surface it, do not retry.
	if job.TranscriptURI == "" {
		return nil, apperr.Newf(apperr.CodeInconsistentState, "job %q completed without a transcript", id)
	}

	start := time.Now()
	doc, err := r.fetchTranscript(ctx, job.TranscriptURI)
	if err != nil {
		return nil, err
	}

	sentences, err := transcript.Segment(doc.Results.Items)
	if err != nil {
		return nil, err
	}
	r.metrics.RecordTranscriptFetched(len(sentences), time.Since(start).Seconds())

	if err := r.publisher.PublishTranscriptReady(ctx, events.TranscriptReady{
		JobID:          id,
		SentenceCount:  len(sentences),
		TranscriptLink: job.TranscriptURI,
		Timestamp:      time.Now().UnixMilli(),
	}); err != nil {
		r.logger.Warn().Err(err).Str("id", id).Msg("failed to publish transcript event")
	}

	return &models.JobResult{
		Status:         job.Status,
		Started:        job.Started,
		Completed:      job.Completed,
		Transcript:     sentences,
		TranscriptLink: job.TranscriptURI,
	}, nil
}

// fetchTranscript downloads and validates the raw transcript document.
func (r *Reader) fetchTranscript(ctx context.Context, uri string) (*models.TranscriptDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("build transcript request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch transcript: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	return r.validator.ParseTranscript(body)
}
