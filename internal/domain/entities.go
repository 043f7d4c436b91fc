package domain

import (
	"time"

	"github.com/google/uuid"
)

// Booking statuses. Holds carry the in-flight state, so a booking is
// confirmed the moment it is created and only ever moves to cancelled.
const (
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// Venue is the bookable unit of the marketplace. The authoritative document
// lives in the catalog; this is the shape the booking flow works with.
type Venue struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       float64 // nightly rate, excluding VAT
	MaxGuests   int
	Rating      float64
	Owner       string // profile name of the venue manager
}

// Booking is one customer's stay at a venue. DateFrom and DateTo are
// calendar dates, both occupied per the same-day turnover policy.
type Booking struct {
	ID        uuid.UUID
	VenueID   uuid.UUID
	DateFrom  time.Time
	DateTo    time.Time
	Guests    int
	Customer  string
	Status    string
	CreatedAt time.Time
}

// Hold reserves a venue's dates while a customer completes checkout. Expired
// holds are released by the expiry worker.
type Hold struct {
	ID        uuid.UUID
	VenueID   uuid.UUID
	DateFrom  time.Time
	DateTo    time.Time
	Customer  string
	ExpiresAt time.Time
}

// Profile is a registered user. VenueManager gates venue CRUD.
type Profile struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	VenueManager bool
	CreatedAt    time.Time
}
