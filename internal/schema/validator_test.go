package schema

import (
	"testing"

	"media-transcription-service/internal/apperr"
	"media-transcription-service/internal/models"
)

func TestRequest_Valid(t *testing.T) {
	v := New()
	req := models.TranscriptionRequest{ID: "talk.mp3", Language: "en-US", Type: models.MediaKindAudio}
	if err := v.Request(req); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRequest_Invalid(t *testing.T) {
	v := New()
	tests := []struct {
		name string
		req  models.TranscriptionRequest
	}{
		{"missing id", models.TranscriptionRequest{Language: "en-US", Type: models.MediaKindAudio}},
		{"bad media type", models.TranscriptionRequest{ID: "a.mp3", Language: "en-US", Type: "image"}},
		{"unsupported language", models.TranscriptionRequest{ID: "a.mp3", Language: "xx-XX", Type: models.MediaKindAudio}},
		{"empty language", models.TranscriptionRequest{ID: "a.mp3", Type: models.MediaKindVideo}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Request(tt.req)
			if !apperr.Is(err, apperr.CodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func TestParseRequest(t *testing.T) {
	v := New()

	req, err := v.ParseRequest([]byte(`{"id":"talk.mp4","language":"de-DE","type":"video"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.ID != "talk.mp4" || req.Language != "de-DE" || req.Type != models.MediaKindVideo {
		t.Errorf("unexpected request: %+v", req)
	}

	if _, err := v.ParseRequest([]byte(`not json`)); !apperr.Is(err, apperr.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for malformed JSON, got %v", err)
	}
}

func TestParseBatch_AllOrNothing(t *testing.T) {
	v := New()

	good := []byte(`{"id":"a.mp3","language":"en-US","type":"audio"}`)
	bad := []byte(`{"id":"b.mp3","language":"en-US","type":"hologram"}`)

	if _, err := v.ParseBatch([][]byte{good, bad, good}); !apperr.Is(err, apperr.CodeInvalidBatch) {
		t.Errorf("expected INVALID_BATCH, got %v", err)
	}

	requests, err := v.ParseBatch([][]byte{good, good})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(requests) != 2 {
		t.Errorf("expected 2 requests, got %d", len(requests))
	}
}

func TestParseTranscript(t *testing.T) {
	v := New()

	valid := []byte(`{
		"jobName": "talk.mp3",
		"accountId": "123456789012",
		"results": {
			"transcripts": [{"transcript": "Hello world."}],
			"items": [
				{"start_time": "0.0", "end_time": "0.5", "alternatives": [{"confidence": "0.99", "content": "Hello"}]},
				{"alternatives": [{"confidence": "0.0", "content": "."}]}
			]
		}
	}`)

	doc, err := v.ParseTranscript(valid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.JobName != "talk.mp3" {
		t.Errorf("jobName = %q, want talk.mp3", doc.JobName)
	}
	if len(doc.Results.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(doc.Results.Items))
	}

	tests := []struct {
		name string
		body string
	}{
		{"not json", `<xml/>`},
		{"missing jobName", `{"accountId":"1","results":{"transcripts":[],"items":[]}}`},
		{"missing accountId", `{"jobName":"a","results":{"transcripts":[],"items":[]}}`},
		{"item without alternatives", `{"jobName":"a","accountId":"1","results":{"transcripts":[],"items":[{"start_time":"0"}]}}`},
		{"alternative without confidence", `{"jobName":"a","accountId":"1","results":{"transcripts":[],"items":[{"alternatives":[{"content":"hi"}]}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.ParseTranscript([]byte(tt.body)); !apperr.Is(err, apperr.CodeSchemaViolation) {
				t.Errorf("expected SCHEMA_VIOLATION, got %v", err)
			}
		})
	}
}
