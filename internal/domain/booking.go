package domain

import (
	"time"

	"github.com/google/uuid"
)

func NewBooking(venueID uuid.UUID, from, to time.Time, guests int, customer string) Booking {
	return Booking{
		ID:        uuid.New(),
		VenueID:   venueID,
		DateFrom:  from,
		DateTo:    to,
		Guests:    guests,
		Customer:  customer,
		Status:    BookingConfirmed,
		CreatedAt: time.Now().UTC(),
	}
}

func NewHold(venueID uuid.UUID, from, to time.Time, customer string, ttl time.Duration) Hold {
	return Hold{
		ID:        uuid.New(),
		VenueID:   venueID,
		DateFrom:  from,
		DateTo:    to,
		Customer:  customer,
		ExpiresAt: time.Now().Add(ttl),
	}
}

// StayDates lists every calendar date the stay occupies, checkout day
// included. These are the rows written to booked_dates and the keys of the
// per-day redis locks.
func StayDates(from, to time.Time) []time.Time {
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Days is StayDates for this booking's interval.
func (b Booking) Days() []time.Time {
	return StayDates(b.DateFrom, b.DateTo)
}

// Days is StayDates for this hold's interval.
func (h Hold) Days() []time.Time {
	return StayDates(h.DateFrom, h.DateTo)
}
