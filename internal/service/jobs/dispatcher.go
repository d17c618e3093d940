// Package jobs orchestrates transcription jobs against the external
// speech service: dispatching queued requests, reading job status, and
// listing known jobs.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"media-transcription-service/internal/apperr"
	"media-transcription-service/internal/events"
	"media-transcription-service/internal/models"
	"media-transcription-service/internal/observability/metrics"
	"media-transcription-service/internal/queue"
	"media-transcription-service/internal/schema"
	"media-transcription-service/internal/service/speech"
)

// DefaultMaxRetries is the redelivery ceiling: a message seen more times
// than this aborts its whole batch.
const DefaultMaxRetries = 1

// Dispatcher consumes dispatch batches and submits transcription jobs.
type Dispatcher struct {
	adapter    speech.Adapter
	validator  *schema.Validator
	publisher  *events.Publisher
	metrics    *metrics.Metrics
	bucket     string
	maxRetries int
	logger     zerolog.Logger
}

// NewDispatcher constructs the batch consumer. The bucket names the
// object store holding media under the media/ prefix.
func NewDispatcher(adapter speech.Adapter, validator *schema.Validator, publisher *events.Publisher, bucket string, maxRetries int) *Dispatcher {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Dispatcher{
		adapter:    adapter,
		validator:  validator,
		publisher:  publisher,
		metrics:    metrics.DefaultMetrics,
		bucket:     bucket,
		maxRetries: maxRetries,
		logger:     log.With().Str("component", "jobs.dispatcher").Logger(),
	}
}

// HandleBatch adapts ProcessBatch to the queue's batch handler contract.
// Per-request submission failures do not reject the batch; only the
// batch-level gates do.
func (d *Dispatcher) HandleBatch(ctx context.Context, messages []queue.Message) error {
	results, err := d.ProcessBatch(ctx, messages)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			d.logger.Error().Err(r.Err).Str("id", r.ID).Msg("job submission failed")
		}
	}
	return nil
}

// ProcessBatch runs the dispatch state machine over one batch:
// retry gate, batch validation, duplicate check, then concurrent
// per-request submission. The first three are all-or-nothing; the
// returned error means nothing was submitted and the batch must not be
// acknowledged.
func (d *Dispatcher) ProcessBatch(ctx context.Context, messages []queue.Message) ([]models.SubmissionResult, error) {
	start := time.Now()
	abortReason := ""
	defer func() {
		d.metrics.RecordBatch(abortReason, time.Since(start).Seconds())
	}()

	if err := d.retryGate(messages); err != nil {
		abortReason = "max_retries"
		return nil, err
	}

	bodies := make([][]byte, 0, len(messages))
	for _, m := range messages {
		bodies = append(bodies, m.Body)
	}
	requests, err := d.validator.ParseBatch(bodies)
	if err != nil {
		abortReason = "invalid_batch"
		return nil, err
	}

	collisions, err := d.findCollisions(ctx, requests)
	if err != nil {
		abortReason = "duplicate_check_failed"
		return nil, err
	}
	if err := duplicateAbortPolicy(collisions); err != nil {
		abortReason = "duplicate_job"
		return nil, err
	}

	return d.submitAll(ctx, requests), nil
}

// retryGate aborts the batch when any message has been delivered more
// often than the ceiling allows.
func (d *Dispatcher) retryGate(messages []queue.Message) error {
	for _, m := range messages {
		if m.ReceiveCount > d.maxRetries {
			return apperr.Newf(apperr.CodeMaxRetriesExceeded,
				"message %s delivered %d times (ceiling %d)", m.ID, m.ReceiveCount, d.maxRetries)
		}
	}
	return nil
}

// findCollisions asks the speech service, per request, whether a job
// whose name contains the request id already exists. This is a fast
// path only: check-then-act is not atomic against the service, so the
// job-name uniqueness constraint remains the real guarantee.
func (d *Dispatcher) findCollisions(ctx context.Context, requests []models.TranscriptionRequest) ([]string, error) {
	var collisions []string
	for _, req := range requests {
		summaries, err := d.adapter.ListJobs(ctx, req.ID)
		if err != nil {
			return nil, fmt.Errorf("duplicate check for %q: %w", req.ID, err)
		}
		if len(summaries) > 0 {
			collisions = append(collisions, req.ID)
		}
	}
	return collisions, nil
}

// duplicateAbortPolicy decides how detected collisions affect the
// batch. Current policy: one collision rejects the entire batch. Kept
// as a standalone function so a per-request rejection policy can be
// swapped in without touching the dispatch flow.
func duplicateAbortPolicy(collisions []string) error {
	if len(collisions) == 0 {
		return nil
	}
	return apperr.Newf(apperr.CodeDuplicateJob, "job already exists for: %s", strings.Join(collisions, ", "))
}

// submitAll starts one job per request, concurrently. A failed
// submission only fails its own slot.
func (d *Dispatcher) submitAll(ctx context.Context, requests []models.TranscriptionRequest) []models.SubmissionResult {
	results := make([]models.SubmissionResult, len(requests))

	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func(i int, req models.TranscriptionRequest) {
			defer wg.Done()
			results[i] = d.submit(ctx, req)
		}(i, req)
	}
	wg.Wait()

	return results
}

func (d *Dispatcher) submit(ctx context.Context, req models.TranscriptionRequest) models.SubmissionResult {
	format, err := mediaFormat(req.ID)
	if err != nil {
		d.metrics.RecordJobSubmissionError("invalid_format")
		return models.SubmissionResult{ID: req.ID, Err: err}
	}

	job, err := d.adapter.StartJob(ctx, speech.StartJobInput{
		Name:        req.ID,
		Language:    req.Language,
		MediaURI:    fmt.Sprintf("s3://%s/media/%s", d.bucket, req.ID),
		MediaFormat: format,
	})
	if err != nil {
		d.metrics.RecordJobSubmissionError("start_job")
		return models.SubmissionResult{ID: req.ID, Err: err}
	}

	d.metrics.RecordJobSubmitted()
	d.logger.Info().
		Str("id", req.ID).
		Str("language", req.Language).
		Str("format", format).
		Msg("transcription job submitted")

	if err := d.publisher.PublishJobSubmitted(ctx, events.JobSubmitted{
		JobID:     req.ID,
		Language:  req.Language,
		MediaKind: req.Type,
		Status:    job.Status,
		Timestamp: time.Now().UnixMilli(),
	}); err != nil {
		d.logger.Warn().Err(err).Str("id", req.ID).Msg("failed to publish job event")
	}

	return models.SubmissionResult{
		ID: req.ID,
		Result: &models.JobResult{
			Status:  job.Status,
			Started: job.Started,
		},
	}
}

// mediaFormat derives the container format from the media key's
// trailing extension.
func mediaFormat(id string) (string, error) {
	i := strings.LastIndex(id, ".")
	if i < 0 || i == len(id)-1 {
		return "", apperr.Newf(apperr.CodeInvalidFormat, "no file extension on %q", id)
	}
	return id[i+1:], nil
}
