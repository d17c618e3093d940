package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// BatchHandler processes one delivered batch. A nil return acknowledges
// the batch; an error leaves it on the queue for redelivery (and
// eventually the queue's redrive policy).
type BatchHandler func(ctx context.Context, messages []Message) error

// Poller drives the consume loop: receive a batch, hand it to the
// handler, acknowledge on success.
type Poller struct {
	client    *Client
	handler   BatchHandler
	batchSize int32
	wait      time.Duration
	logger    zerolog.Logger
}

// NewPoller creates a poller over the given client.
func NewPoller(client *Client, handler BatchHandler, batchSize int32, wait time.Duration) *Poller {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Poller{
		client:    client,
		handler:   handler,
		batchSize: batchSize,
		wait:      wait,
		logger:    log.With().Str("component", "queue.poller").Logger(),
	}
}

// Run blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info().Int32("batchSize", p.batchSize).Msg("starting poll loop")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		messages, err := p.client.Receive(ctx, p.batchSize, p.wait)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Error().Err(err).Msg("receive failed")
			time.Sleep(time.Second)
			continue
		}
		if len(messages) == 0 {
			continue
		}

		if err := p.handler(ctx, messages); err != nil {
			// Not acknowledged: the queue redelivers the batch and its
			// redrive policy decides when to give up.
			p.logger.Warn().Err(err).Int("messages", len(messages)).Msg("batch rejected")
			continue
		}

		if err := p.client.Acknowledge(ctx, messages); err != nil {
			p.logger.Error().Err(err).Msg("acknowledge failed")
		}
	}
}
