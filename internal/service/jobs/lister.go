package jobs

import (
	"context"
	"fmt"

	"media-transcription-service/internal/models"
	"media-transcription-service/internal/service/speech"
)

// Lister answers listings of all known transcription jobs.
type Lister struct {
	adapter speech.Adapter
}

// NewLister constructs a Lister.
func NewLister(adapter speech.Adapter) *Lister {
	return &Lister{adapter: adapter}
}

// All lists all jobs the speech service knows about. A service with no
// jobs yields an empty listing, not an error.
func (l *Lister) All(ctx context.Context) ([]models.JobSummary, error) {
	summaries, err := l.adapter.ListJobs(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	out := make([]models.JobSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, models.JobSummary{
			ID:        s.Name,
			Status:    s.Status,
			Started:   s.Started,
			Completed: s.Completed,
		})
	}
	return out, nil
}
