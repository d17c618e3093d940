package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"media-transcription-service/internal/models"
	"media-transcription-service/internal/observability/metrics"
)

// Enqueuer is the producer side of the dispatch queue.
type Enqueuer interface {
	Send(ctx context.Context, body []byte) (string, error)
}

// Submitter places validated transcription requests on the dispatch
// queue. No format or duplicate checking happens here: the queue is the
// sole admission point and the dispatcher is the sole authority on
// acceptance.
type Submitter struct {
	queue   Enqueuer
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewSubmitter constructs a Submitter over the given queue producer.
func NewSubmitter(queue Enqueuer) *Submitter {
	return &Submitter{
		queue:   queue,
		metrics: metrics.DefaultMetrics,
		logger:  log.With().Str("component", "jobs.submitter").Logger(),
	}
}

// Submit serializes the request, enqueues it, and returns the queue's
// assigned message identifier.
func (s *Submitter) Submit(ctx context.Context, req models.TranscriptionRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("serialize request: %w", err)
	}

	messageID, err := s.queue.Send(ctx, body)
	if err != nil {
		return "", fmt.Errorf("enqueue request %q: %w", req.ID, err)
	}

	s.metrics.RecordRequestEnqueued()
	s.logger.Info().
		Str("id", req.ID).
		Str("messageId", messageID).
		Msg("transcription request enqueued")

	return messageID, nil
}
