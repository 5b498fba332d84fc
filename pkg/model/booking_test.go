package model

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBooking_Nights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"single night", date(2024, 3, 20), date(2024, 3, 21), 1},
		{"five nights", date(2024, 3, 20), date(2024, 3, 25), 5},
		{"partial day rounds up", date(2024, 3, 20), date(2024, 3, 21).Add(6 * time.Hour), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{CheckIn: tt.checkIn, CheckOut: tt.checkOut}
			if got := b.Nights(); got != tt.want {
				t.Errorf("Nights() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBooking_PriceFor(t *testing.T) {
	b := &Booking{
		CheckIn:  date(2024, 3, 20),
		CheckOut: date(2024, 3, 25),
	}

	if got := b.PriceFor(1200); got != 6000 {
		t.Errorf("PriceFor(1200) = %v, want 6000", got)
	}
}

func TestBooking_CanCancelAt(t *testing.T) {
	now := date(2024, 3, 18)

	tests := []struct {
		name    string
		status  string
		checkIn time.Time
		want    bool
	}{
		{"confirmed well before check-in", BookingStatusConfirmed, now.Add(48 * time.Hour), true},
		{"confirmed exactly at the notice boundary", BookingStatusConfirmed, now.Add(24 * time.Hour), true},
		{"confirmed two hours before check-in", BookingStatusConfirmed, now.Add(2 * time.Hour), false},
		{"pending booking", BookingStatusPending, now.Add(48 * time.Hour), false},
		{"cancelled booking", BookingStatusCancelled, now.Add(48 * time.Hour), false},
		{"completed booking", BookingStatusCompleted, now.Add(48 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{Status: tt.status, CheckIn: tt.checkIn}
			if got := b.CanCancelAt(now); got != tt.want {
				t.Errorf("CanCancelAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListing_RecomputeRating(t *testing.T) {
	l := &Listing{}

	l.RecomputeRating()
	if l.Rating != 0 {
		t.Errorf("empty review set should yield rating 0, got %v", l.Rating)
	}

	l.Reviews = append(l.Reviews, Review{Rating: 4})
	l.RecomputeRating()
	if l.Rating != 4 {
		t.Errorf("single review of 4 should yield rating 4, got %v", l.Rating)
	}

	l.Reviews = []Review{{Rating: 3}, {Rating: 5}}
	l.RecomputeRating()
	if l.Rating != 4 {
		t.Errorf("reviews [3,5] should yield rating 4, got %v", l.Rating)
	}
}

func TestListing_Room(t *testing.T) {
	l := &Listing{
		Rooms: []Room{
			{ID: "a", Type: RoomTypeSingle},
			{ID: "b", Type: RoomTypeDormitory},
		},
	}

	if room := l.Room("b"); room == nil || room.Type != RoomTypeDormitory {
		t.Errorf("expected dormitory room for id b, got %+v", room)
	}
	if room := l.Room("missing"); room != nil {
		t.Errorf("expected nil for unknown room id, got %+v", room)
	}
}

func TestActor(t *testing.T) {
	if !Anonymous().IsAnonymous() {
		t.Error("Anonymous() should be anonymous")
	}
	if (Actor{ID: "u1", Role: RoleUser}).IsAdmin() {
		t.Error("regular user must not be admin")
	}
	if !(Actor{ID: "a1", Role: RoleAdmin}).IsAdmin() {
		t.Error("admin actor should be admin")
	}
}
