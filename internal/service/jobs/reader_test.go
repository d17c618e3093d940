package jobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"media-transcription-service/internal/apperr"
	"media-transcription-service/internal/events"
	"media-transcription-service/internal/models"
	"media-transcription-service/internal/schema"
	"media-transcription-service/internal/service/speech"
	"media-transcription-service/internal/service/speech/mock"
)

func newReader(adapter speech.Adapter) *Reader {
	return NewReader(adapter, schema.New(), nil, events.New(&events.Config{Enabled: false}))
}

const sampleTranscript = `{
	"jobName": "talk.mp3",
	"accountId": "123456789012",
	"results": {
		"transcripts": [{"transcript": "Hello world. Goodbye"}],
		"items": [
			{"start_time": "0.0", "end_time": "0.4", "alternatives": [{"confidence": "0.95", "content": "Hello"}]},
			{"start_time": "0.4", "end_time": "0.9", "alternatives": [{"confidence": "0.91", "content": "world"}]},
			{"alternatives": [{"confidence": "0.0", "content": "."}]},
			{"start_time": "1.0", "end_time": "1.4", "alternatives": [{"confidence": "0.88", "content": "Goodbye"}]}
		]
	}
}`

func TestGet_NotFound(t *testing.T) {
	r := newReader(mock.New())

	_, err := r.Get(context.Background(), "missing.mp3")
	if !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestGet_InProgressSkipsTranscriptFetch(t *testing.T) {
	started := time.Now().UTC()
	adapter := mock.New()
	adapter.Seed(&speech.Job{
		Name:    "talk.mp3",
		Status:  models.JobStatusInProgress,
		Started: &started,
	})
	r := newReader(adapter)

	result, err := r.Get(context.Background(), "talk.mp3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != models.JobStatusInProgress {
		t.Errorf("status = %q", result.Status)
	}
	if result.Started == nil || !result.Started.Equal(started) {
		t.Errorf("started = %v, want %v", result.Started, started)
	}
	if result.Transcript != nil || result.TranscriptLink != "" || result.Completed != nil {
		t.Errorf("non-completed result must carry status and start only: %+v", result)
	}
}

func TestGet_CompletedWithoutTranscriptIsInconsistent(t *testing.T) {
	adapter := mock.New()
	adapter.Seed(&speech.Job{Name: "talk.mp3", Status: models.JobStatusCompleted})
	r := newReader(adapter)

	_, err := r.Get(context.Background(), "talk.mp3")
	if !apperr.Is(err, apperr.CodeInconsistentState) {
		t.Errorf("expected INCONSISTENT_STATE, got %v", err)
	}
}

func TestGet_CompletedFetchesAndSegments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(sampleTranscript))
	}))
	defer server.Close()

	started := time.Now().UTC().Add(-time.Minute)
	completed := time.Now().UTC()
	adapter := mock.New()
	adapter.Seed(&speech.Job{
		Name:          "talk.mp3",
		Status:        models.JobStatusCompleted,
		Started:       &started,
		Completed:     &completed,
		TranscriptURI: server.URL,
	})
	r := newReader(adapter)

	result, err := r.Get(context.Background(), "talk.mp3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != models.JobStatusCompleted {
		t.Errorf("status = %q", result.Status)
	}
	if result.TranscriptLink != server.URL {
		t.Errorf("transcript link = %q", result.TranscriptLink)
	}
	// One sentence; the trailing "Goodbye" has no closing punctuation
	// and is dropped.
	if len(result.Transcript) != 1 {
		t.Fatalf("expected 1 sentence, got %d", len(result.Transcript))
	}
	s := result.Transcript[0]
	if len(s.Words) != 3 {
		t.Errorf("expected 3 words, got %d", len(s.Words))
	}
	if s.StartTime != "0.0" || s.EndTime != "0.9" {
		t.Errorf("sentence times = %q..%q, want 0.0..0.9", s.StartTime, s.EndTime)
	}
}

func TestGet_MalformedTranscriptIsSchemaViolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"results": {"items": []}}`))
	}))
	defer server.Close()

	adapter := mock.New()
	adapter.Seed(&speech.Job{
		Name:          "talk.mp3",
		Status:        models.JobStatusCompleted,
		TranscriptURI: server.URL,
	})
	r := newReader(adapter)

	_, err := r.Get(context.Background(), "talk.mp3")
	if !apperr.Is(err, apperr.CodeSchemaViolation) {
		t.Errorf("expected SCHEMA_VIOLATION, got %v", err)
	}
}

func TestGet_TranscriptFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	adapter := mock.New()
	adapter.Seed(&speech.Job{
		Name:          "talk.mp3",
		Status:        models.JobStatusCompleted,
		TranscriptURI: server.URL,
	})
	r := newReader(adapter)

	if _, err := r.Get(context.Background(), "talk.mp3"); err == nil {
		t.Error("expected error on non-200 transcript fetch")
	}
}
