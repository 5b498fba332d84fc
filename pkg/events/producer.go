package events

import (
	"context"
	"errors"
	"sync"

	"github.com/segmentio/kafka-go"

	"hostelhub/pkg/logger"
)

var ErrProducerClosed = errors.New("event producer is closed")

// Publisher is what the booking service depends on; NopPublisher satisfies
// it when Kafka is disabled.
type Publisher interface {
	Publish(ctx context.Context, event BookingEvent) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
	log    *logger.Logger
	mu     sync.RWMutex
	closed bool
}

func NewProducer(cfg *Config, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        TopicBookings,
		Balancer:     &kafka.Hash{}, // key by booking ID for per-booking ordering
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		MaxAttempts:  cfg.MaxAttempts,
		BatchTimeout: cfg.BatchTimeout,
		Logger:       kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error("kafka writer error", "message", msg, "args", args)
		}),
	}

	return &Producer{
		writer: writer,
		log:    log,
	}
}

func (p *Producer) Publish(ctx context.Context, event BookingEvent) error {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return ErrProducerClosed
	}

	value, err := event.Marshal()
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.BookingID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(event.ID)},
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}

// NopPublisher drops every event. Used when Kafka is disabled and in tests.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event BookingEvent) error { return nil }
func (NopPublisher) Close() error                                          { return nil }
