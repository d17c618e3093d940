// Package http exposes the service's REST surface.
package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"media-transcription-service/internal/apperr"
	"media-transcription-service/internal/models"
	"media-transcription-service/internal/observability"
	"media-transcription-service/internal/observability/logging"
	"media-transcription-service/internal/observability/metrics"
	"media-transcription-service/internal/schema"
	"media-transcription-service/internal/service/jobs"
	"media-transcription-service/internal/service/media"
)

// JobReader answers single-job status queries.
type JobReader interface {
	Get(ctx context.Context, id string) (*models.JobResult, error)
}

// JobLister answers job listings.
type JobLister interface {
	All(ctx context.Context) ([]models.JobSummary, error)
}

// RequestSubmitter places transcription requests on the dispatch queue.
type RequestSubmitter interface {
	Submit(ctx context.Context, req models.TranscriptionRequest) (string, error)
}

// MediaStore manages stored media files.
type MediaStore interface {
	List(ctx context.Context) ([]models.MediaObject, error)
	Get(ctx context.Context, id string) (*media.Link, error)
	SignedUploadURL(ctx context.Context, id string) (string, error)
	Remove(ctx context.Context, id string) error
}

// Services bundles everything the router serves.
type Services struct {
	Validator *schema.Validator
	Submitter RequestSubmitter
	Reader    JobReader
	Lister    JobLister
	Media     MediaStore
}

var _ RequestSubmitter = (*jobs.Submitter)(nil)
var _ JobReader = (*jobs.Reader)(nil)
var _ JobLister = (*jobs.Lister)(nil)
var _ MediaStore = (*media.Store)(nil)

// NewRouter constructs the HTTP router for the service.
func NewRouter(svc Services) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(observability.RequestLogger(metrics.DefaultMetrics))

	// Health endpoints
	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	h := &handlers{svc: svc}

	// API routes
	r.Route("/v1", func(r chi.Router) {
		r.Route("/transcripts", func(r chi.Router) {
			r.Post("/", h.submitTranscript)
			r.Get("/", h.listTranscripts)
			r.Get("/{id}", h.getTranscript)
		})
		r.Route("/media", func(r chi.Router) {
			r.Get("/", h.listMedia)
			r.Post("/signed", h.signedUploadURL)
			r.Get("/{id}", h.getMedia)
			r.Delete("/{id}", h.deleteMedia)
		})
	})

	return r
}

type handlers struct {
	svc Services
}

func (h *handlers) submitTranscript(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, apperr.Wrap(apperr.CodeInvalidInput, "unreadable request body", err))
		return
	}

	req, err := h.svc.Validator.ParseRequest(body)
	if err != nil {
		writeError(w, err)
		return
	}

	messageID, err := h.svc.Submitter.Submit(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	reqLog := logging.WithRequest(req.ID, req.Language)
	reqLog.Info().Msg("transcription request accepted")
	writeJSON(w, http.StatusAccepted, map[string]string{
		"id":        req.ID,
		"messageId": messageID,
	})
}

func (h *handlers) listTranscripts(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.svc.Lister.All(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *handlers) getTranscript(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.svc.Reader.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	jobLog := logging.WithJob(id, string(result.Status))
	jobLog.Debug().Msg("job status served")
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) listMedia(w http.ResponseWriter, r *http.Request) {
	objects, err := h.svc.Media.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, objects)
}

func (h *handlers) getMedia(w http.ResponseWriter, r *http.Request) {
	link, err := h.svc.Media.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

func (h *handlers) signedUploadURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperr.Wrap(apperr.CodeInvalidInput, "malformed request payload", err))
		return
	}
	if payload.ID == "" {
		writeError(w, apperr.New(apperr.CodeInvalidInput, "media id is required"))
		return
	}

	url, err := h.svc.Media.SignedUploadURL(r.Context(), payload.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *handlers) deleteMedia(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Media.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	code := apperr.CodeOf(err)
	if code == "" {
		code = "INTERNAL"
	}
	writeJSON(w, status, map[string]string{
		"code":  string(code),
		"error": err.Error(),
	})
}
