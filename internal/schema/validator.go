// Package schema validates payloads at the service boundary: queued
// transcription requests and transcript documents fetched from the
// speech service. Shape mismatches come back as structured errors, not
// panics.
package schema

import (
	"encoding/json"

	"media-transcription-service/internal/apperr"
	"media-transcription-service/internal/models"
)

// SupportedLanguages is the set of language codes the speech service
// accepts for batch jobs.
var SupportedLanguages = map[string]bool{
	"en-US": true,
	"en-GB": true,
	"de-DE": true,
	"fr-FR": true,
	"es-ES": true,
	"it-IT": true,
	"pt-BR": true,
	"ja-JP": true,
}

// Validator checks request and transcript payloads against their
// expected shapes.
type Validator struct{}

// New constructs a Validator.
func New() *Validator {
	return &Validator{}
}

// Request validates one already-decoded transcription request.
func (v *Validator) Request(req models.TranscriptionRequest) error {
	if req.ID == "" {
		return apperr.New(apperr.CodeInvalidInput, "request id is required")
	}
	if req.Type != models.MediaKindAudio && req.Type != models.MediaKindVideo {
		return apperr.Newf(apperr.CodeInvalidInput, "unknown media type %q", req.Type)
	}
	if !SupportedLanguages[req.Language] {
		return apperr.Newf(apperr.CodeInvalidInput, "unsupported language %q", req.Language)
	}
	return nil
}

// ParseRequest decodes and validates a single request payload.
func (v *Validator) ParseRequest(body []byte) (models.TranscriptionRequest, error) {
	var req models.TranscriptionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return models.TranscriptionRequest{}, apperr.Wrap(apperr.CodeInvalidInput, "malformed request payload", err)
	}
	if err := v.Request(req); err != nil {
		return models.TranscriptionRequest{}, err
	}
	return req, nil
}

// ParseBatch decodes and validates a set of queue message bodies as one
// dispatch batch. Validation is all-or-nothing: any bad message rejects
// the whole batch.
func (v *Validator) ParseBatch(bodies [][]byte) ([]models.TranscriptionRequest, error) {
	requests := make([]models.TranscriptionRequest, 0, len(bodies))
	for i, body := range bodies {
		var req models.TranscriptionRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, apperr.Wrap(apperr.CodeInvalidBatch, "malformed message body in batch", err)
		}
		if err := v.Request(req); err != nil {
			return nil, apperr.Newf(apperr.CodeInvalidBatch, "message %d failed validation: %v", i, err)
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// ParseTranscript decodes and validates a raw transcript document.
func (v *Validator) ParseTranscript(body []byte) (*models.TranscriptDocument, error) {
	var doc models.TranscriptDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, apperr.Wrap(apperr.CodeSchemaViolation, "transcript document is not valid JSON", err)
	}
	if doc.JobName == "" {
		return nil, apperr.New(apperr.CodeSchemaViolation, "transcript document missing jobName")
	}
	if doc.AccountID == "" {
		return nil, apperr.New(apperr.CodeSchemaViolation, "transcript document missing accountId")
	}
	for i, item := range doc.Results.Items {
		if len(item.Alternatives) == 0 {
			return nil, apperr.Newf(apperr.CodeSchemaViolation, "transcript item %d has no alternatives", i)
		}
		for j, alt := range item.Alternatives {
			if alt.Confidence == "" {
				return nil, apperr.Newf(apperr.CodeSchemaViolation, "transcript item %d alternative %d missing confidence", i, j)
			}
		}
	}
	return &doc, nil
}
