package model

import (
	"math"
	"time"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"

	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
	PaymentStatusFailed   = "failed"
)

// CancellationNotice is the minimum time before check-in at which a confirmed
// booking may still be cancelled.
const CancellationNotice = 24 * time.Hour

type Guests struct {
	Adults   int `json:"adults" bson:"adults" validate:"required,min=1,max=50"`
	Children int `json:"children" bson:"children" validate:"min=0,max=50"`
}

type Booking struct {
	ID                 string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID             string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	ListingID          string    `json:"listing_id" bson:"listing_id" validate:"required,mongodb"`
	RoomID             string    `json:"room_id" bson:"room_id" validate:"required,uuid4"`
	CheckIn            time.Time `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut           time.Time `json:"check_out" bson:"check_out" validate:"required,gtfield=CheckIn"`
	Guests             Guests    `json:"guests" bson:"guests" validate:"required"`
	TotalPrice         float64   `json:"total_price" bson:"total_price" validate:"min=0"`
	Status             string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	PaymentStatus      string    `json:"payment_status" bson:"payment_status" validate:"required,oneof=pending paid refunded failed"`
	PaymentMethod      string    `json:"payment_method" bson:"payment_method" validate:"required,oneof=credit_card debit_card paypal bank_transfer"`
	SpecialRequests    string    `json:"special_requests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=2000"`
	CancellationReason string    `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty" validate:"omitempty,max=2000"`
	RefundAmount       float64   `json:"refund_amount" bson:"refund_amount" validate:"min=0"`
	CreatedAt          time.Time `json:"created_at,omitempty" bson:"created_at"`
}

// BookingStatusChange carries the writable fields of a status transition.
// Empty / nil fields are left untouched.
type BookingStatusChange struct {
	Status             string   `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	PaymentStatus      string   `json:"payment_status,omitempty" validate:"omitempty,oneof=pending paid refunded failed"`
	CancellationReason string   `json:"cancellation_reason,omitempty" validate:"omitempty,max=2000"`
	RefundAmount       *float64 `json:"refund_amount,omitempty" validate:"omitempty,min=0"`
}

// BookingFilter narrows admin booking listings. Regular users are always
// scoped to their own bookings regardless of the filter.
type BookingFilter struct {
	Status string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	UserID string `json:"user_id,omitempty" validate:"omitempty,mongodb"`
}

// Nights returns the number of nights charged for the stay, the ceiling of
// the check-in/check-out difference in days.
func (b *Booking) Nights() int {
	return int(math.Ceil(b.CheckOut.Sub(b.CheckIn).Hours() / 24))
}

// PriceFor computes the total price for the stay at the given nightly rate.
func (b *Booking) PriceFor(nightlyPrice float64) float64 {
	return nightlyPrice * float64(b.Nights())
}

// CanCancelAt reports whether the booking may be cancelled at the given
// instant: only confirmed bookings, and only up to CancellationNotice before
// check-in.
func (b *Booking) CanCancelAt(now time.Time) bool {
	if b.Status != BookingStatusConfirmed {
		return false
	}
	return b.CheckIn.Sub(now) >= CancellationNotice
}

func IsBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}
