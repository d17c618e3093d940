// Package aws implements the speech.Adapter interface on top of the
// managed transcription service's batch job API.
package aws

import (
	"context"
	"errors"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"
	"github.com/rs/zerolog/log"

	"media-transcription-service/internal/models"
	"media-transcription-service/internal/service/speech"
)

// api is the slice of the transcribe client this adapter uses.
type api interface {
	StartTranscriptionJob(ctx context.Context, params *transcribe.StartTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.StartTranscriptionJobOutput, error)
	GetTranscriptionJob(ctx context.Context, params *transcribe.GetTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.GetTranscriptionJobOutput, error)
	ListTranscriptionJobs(ctx context.Context, params *transcribe.ListTranscriptionJobsInput, optFns ...func(*transcribe.Options)) (*transcribe.ListTranscriptionJobsOutput, error)
}

// Adapter implements speech.Adapter against the managed service.
type Adapter struct {
	client api
}

var _ speech.Adapter = (*Adapter)(nil)

// New creates an adapter around an injected transcribe client. The
// client is scoped to the process lifetime; adapters never construct
// their own.
func New(client *transcribe.Client) *Adapter {
	return &Adapter{client: client}
}

// StartJob submits a new transcription job named in.Name.
func (a *Adapter) StartJob(ctx context.Context, in speech.StartJobInput) (*speech.Job, error) {
	out, err := a.client.StartTranscriptionJob(ctx, &transcribe.StartTranscriptionJobInput{
		TranscriptionJobName: awssdk.String(in.Name),
		LanguageCode:         types.LanguageCode(in.Language),
		MediaFormat:          types.MediaFormat(in.MediaFormat),
		Media: &types.Media{
			MediaFileUri: awssdk.String(in.MediaURI),
		},
	})
	if err != nil {
		return nil, translateError(err)
	}
	if out.TranscriptionJob == nil {
		return nil, speech.ErrJobNotFound
	}

	log.Debug().
		Str("component", "speech.aws").
		Str("job", in.Name).
		Msg("transcription job started")

	return fromJob(out.TranscriptionJob), nil
}

// GetJob fetches one job by name.
func (a *Adapter) GetJob(ctx context.Context, name string) (*speech.Job, error) {
	out, err := a.client.GetTranscriptionJob(ctx, &transcribe.GetTranscriptionJobInput{
		TranscriptionJobName: awssdk.String(name),
	})
	if err != nil {
		return nil, translateError(err)
	}
	if out.TranscriptionJob == nil {
		return nil, speech.ErrJobNotFound
	}
	return fromJob(out.TranscriptionJob), nil
}

// ListJobs lists job summaries, optionally filtered by name substring.
func (a *Adapter) ListJobs(ctx context.Context, nameContains string) ([]speech.Summary, error) {
	in := &transcribe.ListTranscriptionJobsInput{}
	if nameContains != "" {
		in.JobNameContains = awssdk.String(nameContains)
	}
	out, err := a.client.ListTranscriptionJobs(ctx, in)
	if err != nil {
		return nil, translateError(err)
	}

	summaries := make([]speech.Summary, 0, len(out.TranscriptionJobSummaries))
	for _, s := range out.TranscriptionJobSummaries {
		summaries = append(summaries, speech.Summary{
			Name:      awssdk.ToString(s.TranscriptionJobName),
			Status:    models.JobStatus(s.TranscriptionJobStatus),
			Started:   s.CreationTime,
			Completed: s.CompletionTime,
		})
	}
	return summaries, nil
}

func fromJob(j *types.TranscriptionJob) *speech.Job {
	job := &speech.Job{
		Name:      awssdk.ToString(j.TranscriptionJobName),
		Status:    models.JobStatus(j.TranscriptionJobStatus),
		Started:   j.CreationTime,
		Completed: j.CompletionTime,
	}
	if j.Transcript != nil {
		job.TranscriptURI = awssdk.ToString(j.Transcript.TranscriptFileUri)
	}
	return job
}

// translateError maps service exceptions to the package sentinels. The
// service answers a lookup of an unknown job name with a bad-request
// exception, not a not-found one.
func translateError(err error) error {
	var notFound *types.NotFoundException
	if errors.As(err, &notFound) {
		return speech.ErrJobNotFound
	}
	var badRequest *types.BadRequestException
	if errors.As(err, &badRequest) {
		return speech.ErrJobNotFound
	}
	var conflict *types.ConflictException
	if errors.As(err, &conflict) {
		return speech.ErrJobNameConflict
	}
	return err
}
