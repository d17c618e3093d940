// Package mock provides an in-memory speech adapter for tests and local
// runs without cloud credentials. It enforces the same job-name
// uniqueness constraint as the real service.
package mock

import (
	"context"
	"strings"
	"sync"
	"time"

	"media-transcription-service/internal/models"
	"media-transcription-service/internal/service/speech"
)

// Adapter implements speech.Adapter against an in-memory job table.
type Adapter struct {
	mu   sync.Mutex
	jobs map[string]*speech.Job

	// StartErr, when set, is returned by every StartJob call.
	StartErr error
	// ListErr, when set, is returned by every ListJobs call.
	ListErr error
}

var _ speech.Adapter = (*Adapter)(nil)

// New creates an empty mock adapter.
func New() *Adapter {
	return &Adapter{jobs: make(map[string]*speech.Job)}
}

// StartJob registers a new queued job, rejecting duplicate names the way
// the real service does.
func (a *Adapter) StartJob(_ context.Context, in speech.StartJobInput) (*speech.Job, error) {
	if a.StartErr != nil {
		return nil, a.StartErr
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.jobs[in.Name]; exists {
		return nil, speech.ErrJobNameConflict
	}

	now := time.Now().UTC()
	job := &speech.Job{
		Name:    in.Name,
		Status:  models.JobStatusQueued,
		Started: &now,
	}
	a.jobs[in.Name] = job

	out := *job
	return &out, nil
}

// GetJob returns a copy of the named job.
func (a *Adapter) GetJob(_ context.Context, name string) (*speech.Job, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	job, ok := a.jobs[name]
	if !ok {
		return nil, speech.ErrJobNotFound
	}
	out := *job
	return &out, nil
}

// ListJobs returns summaries of jobs whose name contains the filter.
func (a *Adapter) ListJobs(_ context.Context, nameContains string) ([]speech.Summary, error) {
	if a.ListErr != nil {
		return nil, a.ListErr
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	summaries := []speech.Summary{}
	for _, job := range a.jobs {
		if nameContains != "" && !strings.Contains(job.Name, nameContains) {
			continue
		}
		summaries = append(summaries, speech.Summary{
			Name:      job.Name,
			Status:    job.Status,
			Started:   job.Started,
			Completed: job.Completed,
		})
	}
	return summaries, nil
}

// Seed inserts a job directly, bypassing StartJob. Test helper.
func (a *Adapter) Seed(job *speech.Job) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.jobs[job.Name] = job
}

// Complete marks a job finished and points it at a transcript URI.
func (a *Adapter) Complete(name, transcriptURI string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	job, ok := a.jobs[name]
	if !ok {
		return
	}
	now := time.Now().UTC()
	job.Status = models.JobStatusCompleted
	job.Completed = &now
	job.TranscriptURI = transcriptURI
}

// JobCount returns the number of registered jobs.
func (a *Adapter) JobCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.jobs)
}
