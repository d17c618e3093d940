// Package speech defines the interface to the external
// speech-recognition service. Jobs are identified by a caller-supplied
// name; the service owns all job state.
package speech

import (
	"context"
	"errors"
	"time"

	"media-transcription-service/internal/models"
)

// ErrJobNotFound is returned when the service knows no job by the
// requested name.
var ErrJobNotFound = errors.New("speech: job not found")

// ErrJobNameConflict is returned when the service rejects a job name
// that is already in use. This uniqueness constraint is the real
// idempotency guarantee; the dispatcher's duplicate check is only a
// fast path in front of it.
var ErrJobNameConflict = errors.New("speech: job name already in use")

// StartJobInput describes one job submission.
type StartJobInput struct {
	Name        string
	Language    string
	MediaURI    string
	MediaFormat string
}

// Job is the service's view of one transcription job.
type Job struct {
	Name          string
	Status        models.JobStatus
	Started       *time.Time
	Completed     *time.Time
	TranscriptURI string
}

// Summary is one entry of the service's job listing.
type Summary struct {
	Name      string
	Status    models.JobStatus
	Started   *time.Time
	Completed *time.Time
}

// Adapter is the interface speech providers implement (AWS, mock, ...).
type Adapter interface {
	// StartJob submits a new job under in.Name.
	StartJob(ctx context.Context, in StartJobInput) (*Job, error)

	// GetJob fetches one job's current state.
	GetJob(ctx context.Context, name string) (*Job, error)

	// ListJobs returns summaries of known jobs. A non-empty nameContains
	// restricts the listing to jobs whose name contains the substring.
	ListJobs(ctx context.Context, nameContains string) ([]Summary, error)
}
