package events

import (
	"context"
	"errors"

	"github.com/segmentio/kafka-go"

	"hostelhub/pkg/logger"
)

// Handler processes one booking event. Returning an error skips the commit
// so the event is redelivered.
type Handler func(ctx context.Context, event BookingEvent) error

type Consumer struct {
	reader *kafka.Reader
	log    *logger.Logger
}

func NewConsumer(cfg *Config, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.ConsumerGroup,
		Topic:    TopicBookings,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
		MaxWait:  cfg.MaxWait,
	})

	return &Consumer{
		reader: reader,
		log:    log,
	}
}

// Run consumes until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		event, err := UnmarshalBookingEvent(msg.Value)
		if err != nil {
			// Malformed payloads are committed and dropped; redelivery
			// cannot fix them.
			c.log.Error("Dropping malformed booking event",
				"offset", msg.Offset,
				"partition", msg.Partition,
				"error", err,
			)
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return err
			}
			continue
		}

		if err := handle(ctx, event); err != nil {
			c.log.Error("Booking event handler failed",
				"event_id", event.ID,
				"event_type", event.Type,
				"booking_id", event.BookingID,
				"error", err,
			)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
