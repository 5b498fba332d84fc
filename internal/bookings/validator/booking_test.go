package validator

import (
	"testing"
	"time"

	"hostelhub/pkg/model"
)

func fixedNow() time.Time {
	return time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
}

func validBooking() *model.Booking {
	checkIn := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	return &model.Booking{
		UserID:        "656f1e6a2c94f8a3b4d1e222",
		ListingID:     "656f1e6a2c94f8a3b4d1e9f0",
		RoomID:        "0d4f7a36-9a7e-4d76-9f4e-1f2a3b4c5d6e",
		CheckIn:       checkIn,
		CheckOut:      checkIn.Add(2 * 24 * time.Hour),
		Guests:        model.Guests{Adults: 2, Children: 1},
		TotalPrice:    110,
		Status:        model.BookingStatusPending,
		PaymentStatus: model.PaymentStatusPending,
		PaymentMethod: "credit_card",
	}
}

func newTestValidator() *BookingValidator {
	v := NewBookingValidator()
	v.now = fixedNow
	return v
}

func TestValidate_AcceptsValidBooking(t *testing.T) {
	if err := newTestValidator().Validate(validBooking()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_RejectsInvalidBookings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *model.Booking)
	}{
		{"missing user", func(b *model.Booking) { b.UserID = "" }},
		{"non-uuid room", func(b *model.Booking) { b.RoomID = "room-1" }},
		{"check-out before check-in", func(b *model.Booking) { b.CheckOut = b.CheckIn.Add(-24 * time.Hour) }},
		{"check-out equals check-in", func(b *model.Booking) { b.CheckOut = b.CheckIn }},
		{"zero adults", func(b *model.Booking) { b.Guests.Adults = 0 }},
		{"unknown status", func(b *model.Booking) { b.Status = "parked" }},
		{"unknown payment method", func(b *model.Booking) { b.PaymentMethod = "barter" }},
		{"negative price", func(b *model.Booking) { b.TotalPrice = -5 }},
		{"check-in in the past", func(b *model.Booking) {
			b.CheckIn = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
			b.CheckOut = b.CheckIn.Add(24 * time.Hour)
		}},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)
			if err := v.Validate(b); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidate_AllowsSameDayCheckIn(t *testing.T) {
	b := validBooking()
	b.CheckIn = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	b.CheckOut = b.CheckIn.Add(24 * time.Hour)

	if err := newTestValidator().Validate(b); err != nil {
		t.Fatalf("same-day check-in must be allowed, got %v", err)
	}
}

func TestValidateStatusChange(t *testing.T) {
	v := newTestValidator()

	refund := 50.0
	if err := v.ValidateStatusChange(&model.BookingStatusChange{
		Status:        model.BookingStatusCancelled,
		PaymentStatus: model.PaymentStatusRefunded,
		RefundAmount:  &refund,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := v.ValidateStatusChange(&model.BookingStatusChange{Status: "levitating"}); err == nil {
		t.Error("expected validation error for unknown status")
	}
}
