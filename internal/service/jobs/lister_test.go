package jobs

import (
	"context"
	"errors"
	"testing"

	"media-transcription-service/internal/models"
	"media-transcription-service/internal/service/speech"
	"media-transcription-service/internal/service/speech/mock"
)

func TestAll_EmptyServiceYieldsEmptyListing(t *testing.T) {
	l := NewLister(mock.New())

	summaries, err := l.All(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summaries == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(summaries) != 0 {
		t.Errorf("expected no summaries, got %d", len(summaries))
	}
}

func TestAll_MapsSummaries(t *testing.T) {
	adapter := mock.New()
	ctx := context.Background()
	for _, name := range []string{"a.mp3", "b.mp4"} {
		if _, err := adapter.StartJob(ctx, speech.StartJobInput{Name: name}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	adapter.Complete("a.mp3", "https://results.example/a.json")

	summaries, err := NewLister(adapter).All(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}

	byID := map[string]models.JobSummary{}
	for _, s := range summaries {
		byID[s.ID] = s
	}
	if byID["a.mp3"].Status != models.JobStatusCompleted {
		t.Errorf("a.mp3 status = %q", byID["a.mp3"].Status)
	}
	if byID["a.mp3"].Completed == nil {
		t.Error("a.mp3 missing completion time")
	}
	if byID["b.mp4"].Status != models.JobStatusQueued {
		t.Errorf("b.mp4 status = %q", byID["b.mp4"].Status)
	}
}

func TestAll_PropagatesServiceError(t *testing.T) {
	adapter := mock.New()
	adapter.ListErr = errors.New("throttled")

	if _, err := NewLister(adapter).All(context.Background()); err == nil {
		t.Error("expected error")
	}
}
