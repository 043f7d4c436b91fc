package crdb

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stayseek/venue-bookings/internal/domain"
	"github.com/stayseek/venue-bookings/internal/observability"
)

const (
	SerializationFailureCode = "40001"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	started := time.Now()
	defer func() {
		observability.DBTxDuration.Observe(time.Since(started).Seconds())
	}()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "SET TRANSACTION ISOLATION LEVEL SERIALIZABLE")
	if err != nil {
		return err
	}

	err = fn(tx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == SerializationFailureCode {
			return domain.ErrSerializationFailure
		}
		return err
	}

	return tx.Commit(ctx)
}

// CreateHold writes the hold and claims one booked_dates row per occupied
// day. The partial unique index on (venue_id, day) for ACTIVE rows is the
// authoritative conflict check; a zero-row insert means somebody else holds
// or booked that day.
func (r *Repository) CreateHold(ctx context.Context, tx pgx.Tx, hold domain.Hold) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO holds (id, venue_id, date_from, date_to, customer, expires_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'ACTIVE')
	`, hold.ID, hold.VenueID, hold.DateFrom, hold.DateTo, hold.Customer, hold.ExpiresAt)
	if err != nil {
		return err
	}

	for _, day := range hold.Days() {
		result, err := tx.Exec(ctx, `
			INSERT INTO booked_dates (venue_id, day, ref_id, ref_type, status)
			VALUES ($1, $2, $3, 'HOLD', 'ACTIVE')
			ON CONFLICT (venue_id, day) WHERE status = 'ACTIVE' DO NOTHING
			RETURNING venue_id
		`, hold.VenueID, day, hold.ID)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return domain.ErrConflict
		}
	}
	return nil
}

// CreateBooking inserts the booking row and claims its days. When holdID is
// non-nil the customer's hold is converted: its day rows are reassigned to
// the booking instead of being re-inserted, so the booking cannot lose a
// race for dates the customer already held. The hold must cover exactly the
// booking's dates; otherwise the reassigned rows would not back the stay
// being confirmed.
func (r *Repository) CreateBooking(ctx context.Context, tx pgx.Tx, booking domain.Booking, holdID *uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO bookings (id, venue_id, date_from, date_to, guests, customer, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, booking.ID, booking.VenueID, booking.DateFrom, booking.DateTo, booking.Guests, booking.Customer, booking.Status, booking.CreatedAt)
	if err != nil {
		return err
	}

	if holdID != nil {
		result, err := tx.Exec(ctx, `
			UPDATE holds SET status = 'CONVERTED'
			WHERE id = $1 AND customer = $2 AND venue_id = $3
				AND date_from = $4 AND date_to = $5 AND status = 'ACTIVE'
		`, *holdID, booking.Customer, booking.VenueID, booking.DateFrom, booking.DateTo)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		_, err = tx.Exec(ctx, `
			UPDATE booked_dates SET ref_id = $2, ref_type = 'BOOKING'
			WHERE ref_id = $1 AND status = 'ACTIVE'
		`, *holdID, booking.ID)
		return err
	}

	for _, day := range booking.Days() {
		result, err := tx.Exec(ctx, `
			INSERT INTO booked_dates (venue_id, day, ref_id, ref_type, status)
			VALUES ($1, $2, $3, 'BOOKING', 'ACTIVE')
			ON CONFLICT (venue_id, day) WHERE status = 'ACTIVE' DO NOTHING
			RETURNING venue_id
		`, booking.VenueID, day, booking.ID)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return domain.ErrConflict
		}
	}
	return nil
}

// GetVenueBookings returns the bookings that still occupy dates for a venue.
func (r *Repository) GetVenueBookings(ctx context.Context, venueID uuid.UUID) ([]domain.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, venue_id, date_from, date_to, guests, customer, status, created_at
		FROM bookings
		WHERE venue_id = $1 AND status = 'CONFIRMED'
		ORDER BY date_from ASC
	`, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.VenueID, &b.DateFrom, &b.DateTo, &b.Guests, &b.Customer, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// GetActiveHolds returns unexpired holds still occupying dates for a venue.
func (r *Repository) GetActiveHolds(ctx context.Context, venueID uuid.UUID, now time.Time) ([]domain.Hold, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, venue_id, date_from, date_to, customer, expires_at
		FROM holds
		WHERE venue_id = $1 AND status = 'ACTIVE' AND expires_at > $2
	`, venueID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holds []domain.Hold
	for rows.Next() {
		var h domain.Hold
		if err := rows.Scan(&h.ID, &h.VenueID, &h.DateFrom, &h.DateTo, &h.Customer, &h.ExpiresAt); err != nil {
			return nil, err
		}
		holds = append(holds, h)
	}
	return holds, rows.Err()
}

func (r *Repository) GetBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var b domain.Booking
	err := r.pool.QueryRow(ctx, `
		SELECT id, venue_id, date_from, date_to, guests, customer, status, created_at
		FROM bookings WHERE id = $1
	`, id).Scan(&b.ID, &b.VenueID, &b.DateFrom, &b.DateTo, &b.Guests, &b.Customer, &b.Status, &b.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) GetBookingsByCustomer(ctx context.Context, customer string) ([]domain.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, venue_id, date_from, date_to, guests, customer, status, created_at
		FROM bookings WHERE customer = $1 ORDER BY date_from DESC
	`, customer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.VenueID, &b.DateFrom, &b.DateTo, &b.Guests, &b.Customer, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// CancelBooking releases the booking's day rows along with the status change
// so the dates become sellable again.
func (r *Repository) CancelBooking(ctx context.Context, tx pgx.Tx, bookingID uuid.UUID) error {
	result, err := tx.Exec(ctx, `
		UPDATE bookings SET status = 'CANCELLED'
		WHERE id = $1 AND status = 'CONFIRMED'
	`, bookingID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	_, err = tx.Exec(ctx, `
		UPDATE booked_dates SET status = 'RELEASED'
		WHERE ref_id = $1 AND status = 'ACTIVE'
	`, bookingID)
	return err
}

func (r *Repository) GetExpiredHolds(ctx context.Context, now time.Time) ([]domain.Hold, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, venue_id, date_from, date_to, customer, expires_at
		FROM holds WHERE status = 'ACTIVE' AND expires_at <= $1
	`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holds []domain.Hold
	for rows.Next() {
		var h domain.Hold
		if err := rows.Scan(&h.ID, &h.VenueID, &h.DateFrom, &h.DateTo, &h.Customer, &h.ExpiresAt); err != nil {
			return nil, err
		}
		holds = append(holds, h)
	}
	return holds, rows.Err()
}

// ReleaseHold frees an expired hold and its day rows.
func (r *Repository) ReleaseHold(ctx context.Context, holdID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE holds SET status = 'EXPIRED' WHERE id = $1 AND status = 'ACTIVE'
	`, holdID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE booked_dates SET status = 'RELEASED'
		WHERE ref_id = $1 AND status = 'ACTIVE'
	`, holdID)
	return err
}
