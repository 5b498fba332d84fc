package main

import (
	"github.com/joho/godotenv"

	bookingshandler "hostelhub/internal/bookings/handler"
	bookingsrepo "hostelhub/internal/bookings/repository"
	bookingssvc "hostelhub/internal/bookings/service"
	bookingsvalidator "hostelhub/internal/bookings/validator"
	listingshandler "hostelhub/internal/listings/handler"
	listingsrepo "hostelhub/internal/listings/repository"
	listingssvc "hostelhub/internal/listings/service"
	listingsvalidator "hostelhub/internal/listings/validator"
	usershandler "hostelhub/internal/users/handler"
	usersrepo "hostelhub/internal/users/repository"
	userssvc "hostelhub/internal/users/service"
	usersvalidator "hostelhub/internal/users/validator"
	"hostelhub/pkg/app"
	"hostelhub/pkg/config"
	"hostelhub/pkg/contracts"
	"hostelhub/pkg/events"
)

const ServiceName = "server"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	publisher := initPublisher(cfg)
	defer publisher.Close()

	cfg.Log.Info("Starting HostelHub server")

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(initHandlers(cfg, publisher)...)
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	eventsCfg := events.LoadConfig()
	if !eventsCfg.Enabled {
		cfg.Log.Info("Kafka disabled, booking events will be dropped")
		return events.NopPublisher{}
	}

	cfg.Log.Info("Kafka producer configured",
		"brokers", eventsCfg.Brokers,
		"topic", events.TopicBookings,
	)
	return events.NewProducer(eventsCfg, cfg.Log)
}

func initHandlers(cfg *config.Config, publisher events.Publisher) []contracts.Handler {
	listingRepo := listingsrepo.NewMongoListingRepository(cfg)
	listingService := listingssvc.NewListingService(
		listingRepo,
		listingsvalidator.NewListingValidator(),
		cfg,
	)

	bookingService := bookingssvc.NewBookingService(
		bookingsrepo.NewMongoBookingRepository(cfg),
		bookingsrepo.NewMongoBookingLockRepository(cfg),
		listingRepo,
		bookingsvalidator.NewBookingValidator(),
		publisher,
		cfg,
	)

	userService := userssvc.NewUserService(
		usersrepo.NewMongoUserRepository(cfg),
		usersvalidator.NewUserValidator(),
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		listingshandler.NewListingHandler(listingService, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
		usershandler.NewUserHandler(userService, cfg.Log),
	}
}
