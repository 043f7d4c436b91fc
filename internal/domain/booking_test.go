package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stayseek/venue-bookings/internal/domain"
)

func TestStayDates(t *testing.T) {
	from := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	days := domain.StayDates(from, to)
	if len(days) != 3 {
		t.Fatalf("expected 3 days across the leap rollover, got %d", len(days))
	}
	if days[1].Day() != 29 || days[1].Month() != time.February {
		t.Errorf("expected leap day in the middle, got %v", days[1])
	}
	if days[2].Month() != time.March || days[2].Day() != 1 {
		t.Errorf("expected march 1 last, got %v", days[2])
	}
}

func TestNewBooking(t *testing.T) {
	venueID := uuid.New()
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC)

	b := domain.NewBooking(venueID, from, to, 2, "alice")
	if b.Status != domain.BookingConfirmed {
		t.Errorf("new booking status = %s, want %s", b.Status, domain.BookingConfirmed)
	}
	if b.VenueID != venueID || b.Customer != "alice" || b.Guests != 2 {
		t.Errorf("unexpected booking %+v", b)
	}
	if len(b.Days()) != 4 {
		t.Errorf("expected 4 occupied days, got %d", len(b.Days()))
	}
}

func TestNewHold(t *testing.T) {
	h := domain.NewHold(uuid.New(), time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), "bob", 5*time.Minute)
	if time.Until(h.ExpiresAt) > 5*time.Minute {
		t.Errorf("expiry too far in the future: %v", h.ExpiresAt)
	}
	if h.ID == uuid.Nil {
		t.Error("hold id not assigned")
	}
}
