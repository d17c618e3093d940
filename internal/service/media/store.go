// Package media manages stored media files: listing, link resolution,
// signed upload URLs, and deletion. Media lives in the object store
// under the media/ prefix; the object key doubles as the transcription
// job identifier.
package media

import (
	"context"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"media-transcription-service/internal/apperr"
	"media-transcription-service/internal/models"
)

// Prefix is the object-store prefix all media keys share.
const Prefix = "media"

// signedURLTTL bounds how long an issued upload URL stays valid.
const signedURLTTL = time.Hour

// Link is a resolvable reference to one stored media file.
type Link struct {
	Link        string `json:"link"`
	ContentType string `json:"contentType"`
}

// s3API is the slice of the S3 client the store uses.
type s3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// presignAPI issues presigned upload requests.
type presignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Store provides media operations over one bucket.
type Store struct {
	api       s3API
	presigner presignAPI
	bucket    string
	region    string
	logger    zerolog.Logger
}

// New wraps an injected S3 client for the given bucket.
func New(client *s3.Client, bucket, region string) *Store {
	return newStore(client, s3.NewPresignClient(client), bucket, region)
}

func newStore(api s3API, presigner presignAPI, bucket, region string) *Store {
	return &Store{
		api:       api,
		presigner: presigner,
		bucket:    bucket,
		region:    region,
		logger:    log.With().Str("component", "media.store").Logger(),
	}
}

// List returns all stored media files.
func (s *Store) List(ctx context.Context) ([]models.MediaObject, error) {
	out, err := s.api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: awssdk.String(s.bucket),
		Prefix: awssdk.String(Prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}

	media := make([]models.MediaObject, 0, len(out.Contents))
	for _, content := range out.Contents {
		key := awssdk.ToString(content.Key)
		if key == "" || content.LastModified == nil {
			continue
		}
		media = append(media, models.MediaObject{
			ID:           key,
			LastModified: *content.LastModified,
			Size:         awssdk.ToInt64(content.Size),
		})
	}
	return media, nil
}

// Get resolves one media file to a public link and its content type.
func (s *Store) Get(ctx context.Context, id string) (*Link, error) {
	out, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: awssdk.String(s.bucket),
		Key:    awssdk.String(s.key(id)),
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeNotFound, fmt.Sprintf("no media named %q", id), err)
	}

	return &Link{
		Link:        fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s/%s", s.bucket, s.region, Prefix, id),
		ContentType: awssdk.ToString(out.ContentType),
	}, nil
}

// SignedUploadURL issues a presigned upload URL for a new media file.
func (s *Store) SignedUploadURL(ctx context.Context, id string) (string, error) {
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: awssdk.String(s.bucket),
		Key:    awssdk.String(s.key(id)),
	}, s3.WithPresignExpires(signedURLTTL))
	if err != nil {
		return "", fmt.Errorf("presign upload for %q: %w", id, err)
	}

	s.logger.Debug().Str("id", id).Msg("issued signed upload url")
	return req.URL, nil
}

// Remove deletes one media file.
func (s *Store) Remove(ctx context.Context, id string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: awssdk.String(s.bucket),
		Key:    awssdk.String(s.key(id)),
	})
	if err != nil {
		return fmt.Errorf("delete media %q: %w", id, err)
	}

	s.logger.Info().Str("id", id).Msg("media deleted")
	return nil
}

func (s *Store) key(id string) string {
	return Prefix + "/" + id
}
