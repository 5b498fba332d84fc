package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "hostelhub/internal/bookings/errors"
	"hostelhub/internal/bookings/repository"
	"hostelhub/internal/bookings/validator"
	listingserrors "hostelhub/internal/listings/errors"
	listingsrepo "hostelhub/internal/listings/repository"
	"hostelhub/pkg/config"
	apperrors "hostelhub/pkg/errors"
	"hostelhub/pkg/events"
	"hostelhub/pkg/model"
	"hostelhub/pkg/policy"
	"hostelhub/pkg/sanitizer"
)

type BookingService interface {
	Create(ctx context.Context, actor model.Actor, booking *model.Booking) error
	GetByID(ctx context.Context, actor model.Actor, id string) (*model.Booking, error)
	List(ctx context.Context, actor model.Actor, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	Cancel(ctx context.Context, actor model.Actor, id string, reason string) (*model.Booking, error)
	ChangeStatus(ctx context.Context, actor model.Actor, id string, change *model.BookingStatusChange) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	locks     repository.BookingLockRepository
	listings  listingsrepo.ListingRepository
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config

	// now is swappable for the cancellation-window tests.
	now func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	locks repository.BookingLockRepository,
	listings listingsrepo.ListingRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		locks:     locks,
		listings:  listings,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Create books a room. The total price is always computed server-side from
// the room's nightly rate; client-supplied prices are ignored. An advisory
// per-room lock plus a transactional overlap check keep two racing requests
// from double-booking the same dates.
func (s *bookingService) Create(ctx context.Context, actor model.Actor, booking *model.Booking) error {
	if err := policy.Authorize(actor, policy.BookingCreate, policy.Target{}); err != nil {
		return err
	}

	booking.UserID = actor.ID
	booking.Status = model.BookingStatusPending
	booking.PaymentStatus = model.PaymentStatusPending
	booking.CancellationReason = ""
	booking.RefundAmount = 0
	booking.SpecialRequests = sanitizer.SanitizeText(booking.SpecialRequests)

	room, err := s.resolveRoom(ctx, booking.ListingID, booking.RoomID)
	if err != nil {
		return err
	}

	booking.TotalPrice = booking.PriceFor(room.Price)

	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed",
			"user_id", booking.UserID,
			"listing_id", booking.ListingID,
			"error", err,
		)
		return apperrors.Validation("Booking validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	release, err := s.locks.Acquire(ctx, booking.RoomID, booking.CheckIn, booking.CheckOut)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrRoomLocked) {
			return apperrors.Conflict("Room is being booked by another request, try again")
		}
		s.cfg.Log.Error("Failed to acquire booking lock",
			"room_id", booking.RoomID,
			"error", err,
		)
		return apperrors.Internal("Failed to create booking", err)
	}
	defer release()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		overlapping, err := s.repo.FindOverlapping(sessCtx, booking.RoomID, booking.CheckIn, booking.CheckOut)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return apperrors.Conflict("Room already booked for an overlapping date range")
		}

		return s.repo.Create(sessCtx, booking)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		s.cfg.Log.Error("Failed to create booking",
			"user_id", booking.UserID,
			"room_id", booking.RoomID,
			"error", err,
		)
		return apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"user_id", booking.UserID,
		"listing_id", booking.ListingID,
		"room_id", booking.RoomID,
		"nights", booking.Nights(),
		"total_price", booking.TotalPrice,
	)

	s.publish(ctx, events.TypeBookingCreated, booking)

	return nil
}

func (s *bookingService) GetByID(ctx context.Context, actor model.Actor, id string) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(actor, policy.BookingRead, policy.Target{OwnerID: booking.UserID}); err != nil {
		return nil, err
	}

	return booking, nil
}

// List returns bookings visible to the actor. Regular users only ever see
// their own bookings; the UserID filter is admin-only.
func (s *bookingService) List(ctx context.Context, actor model.Actor, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if err := policy.Authorize(actor, policy.BookingList, policy.Target{}); err != nil {
		return nil, 0, err
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	if filter == nil {
		filter = &model.BookingFilter{}
	}
	if filter.Status != "" && !model.IsBookingStatus(filter.Status) {
		return nil, 0, apperrors.InvalidInput("Unknown booking status: " + filter.Status)
	}
	if !actor.IsAdmin() {
		filter.UserID = actor.ID
	}

	bookings, err := s.repo.FindAll(ctx, filter, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, 0, apperrors.Internal("Failed to list bookings", err)
	}

	count, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to count bookings", "error", err)
		return nil, 0, apperrors.Internal("Failed to count bookings", err)
	}

	return bookings, count, nil
}

// Cancel applies the guest cancellation rule: only confirmed bookings, and
// only up to 24 hours before check-in. Paid bookings are refunded in full.
// Admins needing other transitions use ChangeStatus instead.
func (s *bookingService) Cancel(ctx context.Context, actor model.Actor, id string, reason string) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(actor, policy.BookingCancel, policy.Target{OwnerID: booking.UserID}); err != nil {
		return nil, err
	}

	now := s.now()
	if !booking.CanCancelAt(now) {
		if booking.Status != model.BookingStatusConfirmed {
			return nil, apperrors.InvalidState("Only confirmed bookings can be cancelled")
		}
		return nil, apperrors.InvalidState("Bookings can only be cancelled at least 24 hours before check-in")
	}

	change := &model.BookingStatusChange{
		Status:             model.BookingStatusCancelled,
		CancellationReason: sanitizer.SanitizeText(reason),
	}
	if booking.PaymentStatus == model.PaymentStatusPaid {
		refund := booking.TotalPrice
		change.PaymentStatus = model.PaymentStatusRefunded
		change.RefundAmount = &refund
	}

	if err := s.repo.UpdateStatus(ctx, id, change); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to cancel booking",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}

	booking.Status = change.Status
	booking.CancellationReason = change.CancellationReason
	if change.PaymentStatus != "" {
		booking.PaymentStatus = change.PaymentStatus
	}
	if change.RefundAmount != nil {
		booking.RefundAmount = *change.RefundAmount
	}

	s.cfg.Log.Info("Booking cancelled",
		"id", id,
		"user_id", booking.UserID,
		"refund_amount", booking.RefundAmount,
	)

	s.publish(ctx, events.TypeBookingCancelled, booking)

	return booking, nil
}

// ChangeStatus is the admin override: any status may be set regardless of the
// current one, including resurrecting cancelled bookings.
func (s *bookingService) ChangeStatus(ctx context.Context, actor model.Actor, id string, change *model.BookingStatusChange) (*model.Booking, error) {
	if err := policy.Authorize(actor, policy.BookingChangeStatus, policy.Target{}); err != nil {
		return nil, err
	}

	if err := s.validator.ValidateStatusChange(change); err != nil {
		return nil, apperrors.Validation("Status change validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	change.CancellationReason = sanitizer.SanitizeText(change.CancellationReason)

	if err := s.repo.UpdateStatus(ctx, id, change); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to change booking status",
			"id", id,
			"status", change.Status,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to change booking status", err)
	}

	previous := booking.Status
	booking.Status = change.Status
	if change.PaymentStatus != "" {
		booking.PaymentStatus = change.PaymentStatus
	}
	if change.CancellationReason != "" {
		booking.CancellationReason = change.CancellationReason
	}
	if change.RefundAmount != nil {
		booking.RefundAmount = *change.RefundAmount
	}

	s.cfg.Log.Info("Booking status changed",
		"id", id,
		"from", previous,
		"to", booking.Status,
		"actor_id", actor.ID,
	)

	s.publish(ctx, events.TypeBookingStatusChanged, booking)

	return booking, nil
}

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		s.cfg.Log.Error("Failed to get booking by ID",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

// publish is best-effort: the booking is already committed, so a broker
// failure is logged and swallowed rather than surfaced to the caller.
func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	event := events.NewBookingEvent(
		eventType,
		booking.ID,
		booking.UserID,
		booking.ListingID,
		booking.RoomID,
		booking.Status,
	)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

// resolveRoom loads the listing and checks the room can be booked at all.
func (s *bookingService) resolveRoom(ctx context.Context, listingID, roomID string) (*model.Room, error) {
	if listingID == "" || roomID == "" {
		return nil, apperrors.InvalidInput("Listing ID and room ID are required")
	}

	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Listing", listingID)
		}
		if errors.Is(err, listingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid listing ID format")
		}
		s.cfg.Log.Error("Failed to resolve listing for booking",
			"listing_id", listingID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve listing", err)
	}

	if !listing.IsActive {
		return nil, apperrors.InvalidState("Listing is not active")
	}

	room := listing.Room(roomID)
	if room == nil {
		return nil, apperrors.NotFoundWithID("Room", roomID)
	}
	if !room.IsAvailable {
		return nil, apperrors.InvalidState("Room is not available for booking")
	}

	return room, nil
}
