package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"hostelhub/pkg/events"
	"hostelhub/pkg/logger"
)

const ServiceName = "notifier"

// The notifier consumes booking events and records the notification intent.
// Delivery channels (email, SMS) hang off this loop; for now each intent is
// logged with enough context to wire a real sender.
func main() {
	_ = godotenv.Load()

	log := logger.New(logger.Config{
		Level:   getEnv("LOG_LEVEL", "info"),
		Format:  logger.JSON,
		Service: ServiceName,
	})

	eventsCfg := events.LoadConfig()
	if !eventsCfg.Enabled {
		log.Fatal("Kafka is disabled; the notifier has nothing to consume")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	consumer := events.NewConsumer(eventsCfg, log)
	defer consumer.Close()

	log.Info("Notifier started",
		"brokers", eventsCfg.Brokers,
		"topic", events.TopicBookings,
		"group", eventsCfg.ConsumerGroup,
	)

	if err := consumer.Run(ctx, notify(log)); err != nil {
		log.Fatal("Consumer stopped", "error", err)
	}

	log.Info("Notifier stopped gracefully")
}

func notify(log *logger.Logger) events.Handler {
	return func(ctx context.Context, event events.BookingEvent) error {
		switch event.Type {
		case events.TypeBookingCreated:
			log.Info("Notify guest: booking received",
				"booking_id", event.BookingID,
				"user_id", event.UserID,
				"listing_id", event.ListingID,
			)
		case events.TypeBookingStatusChanged:
			log.Info("Notify guest: booking status changed",
				"booking_id", event.BookingID,
				"user_id", event.UserID,
				"status", event.Status,
			)
		case events.TypeBookingCancelled:
			log.Info("Notify guest: booking cancelled",
				"booking_id", event.BookingID,
				"user_id", event.UserID,
			)
		default:
			log.Warn("Unknown booking event type",
				"event_id", event.ID,
				"event_type", event.Type,
			)
		}
		return nil
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
