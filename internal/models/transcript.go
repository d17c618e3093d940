// Package models defines the data structures shared across the
// transcription service.
package models

import "time"

// MediaKind distinguishes the two supported media categories.
type MediaKind string

const (
	MediaKindAudio MediaKind = "audio"
	MediaKindVideo MediaKind = "video"
)

// TranscriptionRequest is one queued transcription order. The ID is the
// media object key and doubles as the speech job name, so it must be
// unique. Immutable once enqueued.
type TranscriptionRequest struct {
	ID       string    `json:"id"`
	Language string    `json:"language"`
	Type     MediaKind `json:"type"`
}

// JobStatus mirrors the speech service's job lifecycle.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "QUEUED"
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// JobSummary is one entry in the job listing.
type JobSummary struct {
	ID        string     `json:"id"`
	Status    JobStatus  `json:"status"`
	Started   *time.Time `json:"started,omitempty"`
	Completed *time.Time `json:"completed,omitempty"`
}

// JobResult is the status query response for a single job. Transcript and
// TranscriptLink are only present once the job has completed.
type JobResult struct {
	Status         JobStatus  `json:"status"`
	Started        *time.Time `json:"started,omitempty"`
	Completed      *time.Time `json:"completed,omitempty"`
	Transcript     []Sentence `json:"transcript,omitempty"`
	TranscriptLink string     `json:"transcriptLink,omitempty"`
}

// SubmissionResult is the per-request outcome of one dispatch batch entry.
type SubmissionResult struct {
	ID     string     `json:"id"`
	Result *JobResult `json:"result,omitempty"`
	Err    error      `json:"-"`
}

// TranscriptDocument is the raw transcript payload fetched from the
// speech service's result URI.
type TranscriptDocument struct {
	JobName   string            `json:"jobName"`
	AccountID string            `json:"accountId"`
	Results   TranscriptResults `json:"results"`
}

// TranscriptResults holds the full-text transcripts and the timed items.
type TranscriptResults struct {
	Transcripts []TranscriptText `json:"transcripts"`
	Items       []RecognizedItem `json:"items"`
}

// TranscriptText is one full-text rendering of the transcript.
type TranscriptText struct {
	Transcript string `json:"transcript"`
}

// RecognizedItem is one timed token with competing hypotheses. Start and
// end times are decimal-second strings and may be absent (punctuation
// items carry no timing).
type RecognizedItem struct {
	StartTime    string        `json:"start_time,omitempty"`
	EndTime      string        `json:"end_time,omitempty"`
	Alternatives []Alternative `json:"alternatives"`
}

// Alternative is one candidate hypothesis for a recognized item. The
// confidence is a decimal string as delivered by the speech service.
type Alternative struct {
	Confidence string `json:"confidence"`
	Content    string `json:"content"`
}

// Word is the winning alternative for one item, with confidence
// materialized as a number.
type Word struct {
	Content    string  `json:"content"`
	Confidence float64 `json:"confidence"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
}

// Sentence is a punctuation-bounded group of words. StartTime is the
// first word's start; EndTime is the end time of the second-to-last word
// at the moment the sentence closed (the closing punctuation itself
// carries no timing).
type Sentence struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Words     []Word `json:"words"`
}

// MediaObject is one stored media file.
type MediaObject struct {
	ID           string    `json:"id"`
	LastModified time.Time `json:"lastModified"`
	Size         int64     `json:"size"`
}
