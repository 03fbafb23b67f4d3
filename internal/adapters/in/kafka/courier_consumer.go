// Package kafka consumes courier tracking events from a Kafka topic.
// Delivery is at least once; redelivered events are absorbed by the
// tracking log. Messages that can never be applied are copied to a dead
// letter topic and committed.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/adapters/in/payload"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/application/usecases/commands"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/metrics"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
	"github.com/segmentio/kafka-go"
)

type DeliveryEventRecorder interface {
	Handle(ctx context.Context, cmd commands.RecordDeliveryEventCommand) (order.TrackingResult, error)
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Config struct {
	Brokers []string
	Topic   string
	GroupID string
	// MaxRetryElapsed bounds how long a message is retried on transient
	// errors before it goes to the dead letter topic.
	MaxRetryElapsed time.Duration
}

type CourierConsumer struct {
	reader     messageReader
	dlq        messageWriter
	dlqTopic   string
	validate   *validator.Validate
	recorder   DeliveryEventRecorder
	logger     *slog.Logger
	maxElapsed time.Duration
}

func NewCourierConsumer(cfg Config, recorder DeliveryEventRecorder, logger *slog.Logger) *CourierConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})
	dlq := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	return newCourierConsumer(reader, dlq, cfg.Topic+"-dlq", recorder, logger, cfg.MaxRetryElapsed)
}

func newCourierConsumer(
	reader messageReader,
	dlq messageWriter,
	dlqTopic string,
	recorder DeliveryEventRecorder,
	logger *slog.Logger,
	maxElapsed time.Duration,
) *CourierConsumer {
	if maxElapsed <= 0 {
		maxElapsed = 30 * time.Second
	}
	return &CourierConsumer{
		reader:     reader,
		dlq:        dlq,
		dlqTopic:   dlqTopic,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		recorder:   recorder,
		logger:     logger.With("component", "courier_consumer"),
		maxElapsed: maxElapsed,
	}
}

// Consume processes messages until ctx is cancelled or the reader is
// closed. A message is committed only after it was applied or copied to the
// dead letter topic. If the dead letter write keeps failing Consume returns
// the error, so a restarted consumer resumes from the last committed offset.
func (c *CourierConsumer) Consume(ctx context.Context) error {
	fetchBackOff := c.newBackOff(0)
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			wait := fetchBackOff.NextBackOff()
			c.logger.ErrorContext(ctx, "failed to fetch message", "wait", wait, "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
			continue
		}
		fetchBackOff.Reset()

		if err = c.handle(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.ErrorContext(ctx, "courier event rejected",
				"partition", m.Partition, "offset", m.Offset, "error", err)
			if dlqErr := c.writeToDLQ(ctx, m, err); dlqErr != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("dead letter partition %d offset %d: %w", m.Partition, m.Offset, dlqErr)
			}
		}

		if err = c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.ErrorContext(ctx, "failed to commit message", "offset", m.Offset, "error", err)
		}
	}
}

// newBackOff returns the retry schedule shared by fetches, handling and dead
// letter writes. A zero maxElapsed retries forever.
func (c *CourierConsumer) newBackOff(maxElapsed time.Duration) *backoff.ExponentialBackOff {
	return backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(100*time.Millisecond),
		backoff.WithMaxInterval(5*time.Second),
		backoff.WithMaxElapsedTime(maxElapsed),
	)
}

func (c *CourierConsumer) handle(ctx context.Context, m kafka.Message) error {
	cmd, err := c.decode(m.Value)
	if err != nil {
		return err
	}

	policy := backoff.WithContext(c.newBackOff(c.maxElapsed), ctx)

	var result order.TrackingResult
	err = backoff.RetryNotify(func() error {
		var handleErr error
		result, handleErr = c.recorder.Handle(ctx, cmd)
		if handleErr != nil && isPermanent(handleErr) {
			return backoff.Permanent(handleErr)
		}
		return handleErr
	}, policy, func(err error, wait time.Duration) {
		c.logger.WarnContext(ctx, "retrying courier event", "offset", m.Offset, "wait", wait, "error", err)
	})
	if err != nil {
		return err
	}

	if result.ReviewRequired != nil {
		c.logger.WarnContext(ctx, "courier event flagged order for review",
			"order_id", result.ReviewRequired.OrderID, "reason", result.ReviewRequired.Reason)
	}
	c.logger.DebugContext(ctx, "courier event processed",
		"offset", m.Offset, "outcome", payload.TrackingOutcome(result))
	return nil
}

func (c *CourierConsumer) decode(value []byte) (commands.RecordDeliveryEventCommand, error) {
	var event payload.CourierEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return commands.RecordDeliveryEventCommand{}, errs.NewValueIsInvalidErrorWithCause("message",
			fmt.Errorf("unmarshal courier event: %w", err))
	}
	if err := c.validate.Struct(event); err != nil {
		return commands.RecordDeliveryEventCommand{}, errs.NewValueIsInvalidErrorWithCause("message", err)
	}
	return event.ToCommand()
}

// isPermanent reports errors that a redelivery cannot fix.
func isPermanent(err error) bool {
	return errors.Is(err, errs.ErrObjectNotFound) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsOutOfRange) ||
		errors.Is(err, order.ErrInvariantViolated)
}

func (c *CourierConsumer) writeToDLQ(ctx context.Context, m kafka.Message, cause error) error {
	dead := kafka.Message{
		Topic: c.dlqTopic,
		Key:   m.Key,
		Value: m.Value,
		Headers: append(append([]kafka.Header(nil), m.Headers...),
			kafka.Header{Key: "error", Value: []byte(cause.Error())},
			kafka.Header{Key: "source-topic", Value: []byte(m.Topic)},
		),
	}
	policy := backoff.WithContext(c.newBackOff(c.maxElapsed), ctx)
	err := backoff.RetryNotify(func() error {
		return c.dlq.WriteMessages(ctx, dead)
	}, policy, func(err error, wait time.Duration) {
		c.logger.WarnContext(ctx, "retrying DLQ write", "offset", m.Offset, "wait", wait, "error", err)
	})
	if err != nil {
		return err
	}
	metrics.CourierMessagesDLQ.Inc()
	return nil
}

func (c *CourierConsumer) Close() error {
	return errors.Join(c.reader.Close(), c.dlq.Close())
}
