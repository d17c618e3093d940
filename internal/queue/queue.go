// Package queue wraps the dispatch queue. The producer side enqueues
// serialized transcription requests; the consumer side receives them in
// batches with their delivery-attempt counts, and only acknowledged
// batches are removed. Unacknowledged messages come back via the
// queue's own redelivery and redrive policy.
package queue

import (
	"context"
	"strconv"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Message is one delivered queue message.
type Message struct {
	ID            string
	Body          []byte
	ReceiptHandle string
	// ReceiveCount is how many times the queue has delivered this
	// message, this delivery included.
	ReceiveCount int
}

// sqsAPI is the slice of the SQS client the queue uses.
type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Client is a producer/consumer handle for one queue.
type Client struct {
	api      sqsAPI
	queueURL string
	logger   zerolog.Logger
}

// NewClient wraps an injected SQS client for the given queue URL.
func NewClient(api *sqs.Client, queueURL string) *Client {
	return newClient(api, queueURL)
}

func newClient(api sqsAPI, queueURL string) *Client {
	return &Client{
		api:      api,
		queueURL: queueURL,
		logger:   log.With().Str("component", "queue").Logger(),
	}
}

// Send enqueues one message body and returns the assigned message id.
func (c *Client) Send(ctx context.Context, body []byte) (string, error) {
	out, err := c.api.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    awssdk.String(c.queueURL),
		MessageBody: awssdk.String(string(body)),
	})
	if err != nil {
		return "", err
	}
	id := awssdk.ToString(out.MessageId)
	c.logger.Debug().Str("messageId", id).Msg("message enqueued")
	return id, nil
}

// Receive fetches up to max messages, long-polling for wait.
func (c *Client) Receive(ctx context.Context, max int32, wait time.Duration) ([]Message, error) {
	out, err := c.api.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            awssdk.String(c.queueURL),
		MaxNumberOfMessages: max,
		WaitTimeSeconds:     int32(wait / time.Second),
		MessageSystemAttributeNames: []types.MessageSystemAttributeName{
			types.MessageSystemAttributeNameApproximateReceiveCount,
		},
	})
	if err != nil {
		return nil, err
	}

	messages := make([]Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		messages = append(messages, Message{
			ID:            awssdk.ToString(m.MessageId),
			Body:          []byte(awssdk.ToString(m.Body)),
			ReceiptHandle: awssdk.ToString(m.ReceiptHandle),
			ReceiveCount:  receiveCount(m.Attributes),
		})
	}
	return messages, nil
}

// Acknowledge deletes processed messages. A failed delete is logged and
// reported; the message will simply be redelivered.
func (c *Client) Acknowledge(ctx context.Context, messages []Message) error {
	var firstErr error
	for _, m := range messages {
		_, err := c.api.DeleteMessage(ctx, &sqs.DeleteMessageInput{
			QueueUrl:      awssdk.String(c.queueURL),
			ReceiptHandle: awssdk.String(m.ReceiptHandle),
		})
		if err != nil {
			c.logger.Error().Err(err).Str("messageId", m.ID).Msg("failed to delete message")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// receiveCount parses the delivery-attempt attribute. A missing or
// malformed attribute counts as a first delivery.
func receiveCount(attributes map[string]string) int {
	raw, ok := attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)]
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
