package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TopicBookings = "hostelhub.bookings"

	TypeBookingCreated       = "booking.created"
	TypeBookingStatusChanged = "booking.status_changed"
	TypeBookingCancelled     = "booking.cancelled"
)

// BookingEvent is the envelope published for every booking state change.
// Events for the same booking share a partition key, so consumers observe
// them in order.
type BookingEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	UserID     string    `json:"user_id"`
	ListingID  string    `json:"listing_id"`
	RoomID     string    `json:"room_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType, bookingID, userID, listingID, roomID, status string) BookingEvent {
	return BookingEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		BookingID:  bookingID,
		UserID:     userID,
		ListingID:  listingID,
		RoomID:     roomID,
		Status:     status,
		OccurredAt: time.Now().UTC(),
	}
}

func (e BookingEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func UnmarshalBookingEvent(data []byte) (BookingEvent, error) {
	var e BookingEvent
	err := json.Unmarshal(data, &e)
	return e, err
}
