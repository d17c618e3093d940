package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"

	"media-transcription-service/internal/app"
	"media-transcription-service/internal/config"
	"media-transcription-service/internal/events"
	httpapi "media-transcription-service/internal/http"
	"media-transcription-service/internal/observability"
	"media-transcription-service/internal/queue"
	"media-transcription-service/internal/schema"
	"media-transcription-service/internal/service/jobs"
	"media-transcription-service/internal/service/media"
	"media-transcription-service/internal/service/speech"
	speechaws "media-transcription-service/internal/service/speech/aws"
	speechmock "media-transcription-service/internal/service/speech/mock"
)

func main() {
	cfg := config.Load()

	application := app.New(cfg)
	logger := application.Logger
	if err := application.Start(); err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}
	defer application.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load cloud configuration")
	}

	var adapter speech.Adapter
	switch cfg.Speech.Provider {
	case "mock":
		adapter = speechmock.New()
	default:
		adapter = speechaws.New(transcribe.NewFromConfig(awsCfg))
	}

	// Kafka publisher with separate topics for submissions and results
	publisher := events.New(&events.Config{
		Enabled:          cfg.Kafka.Enabled,
		Brokers:          cfg.Kafka.Brokers,
		TopicJobs:        cfg.Kafka.TopicJobs,
		TopicTranscripts: cfg.Kafka.TopicTranscripts,
		Principal:        cfg.Kafka.Principal,
	})
	defer publisher.Close()

	validator := schema.New()
	queueClient := queue.NewClient(sqs.NewFromConfig(awsCfg), cfg.Queue.URL)

	// Dispatch consumer: drains the queue and submits transcription jobs
	dispatcher := jobs.NewDispatcher(adapter, validator, publisher, cfg.AWS.MediaBucket, cfg.Queue.MaxRetries)
	poller := queue.NewPoller(queueClient, dispatcher.HandleBatch, int32(cfg.Queue.BatchSize), cfg.Queue.WaitTime)
	go func() {
		if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("dispatch poll loop stopped")
		}
	}()

	router := httpapi.NewRouter(httpapi.Services{
		Validator: validator,
		Submitter: jobs.NewSubmitter(queueClient),
		Reader:    jobs.NewReader(adapter, validator, nil, publisher),
		Lister:    jobs.NewLister(adapter),
		Media:     media.New(s3.NewFromConfig(awsCfg), cfg.AWS.MediaBucket, cfg.AWS.Region),
	})

	obsServer := observability.NewServer(":" + cfg.Service.ObservabilityPort)
	obsServer.Start()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Service.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("Media transcription service started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http serve failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
	if err := obsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("observability shutdown failed")
	}
}
