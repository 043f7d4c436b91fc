package crdb_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stayseek/venue-bookings/internal/adapters/crdb"
	"github.com/stayseek/venue-bookings/internal/domain"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const schema = `
	CREATE DATABASE IF NOT EXISTS venues;
	CREATE TABLE IF NOT EXISTS venues.bookings (
		id UUID PRIMARY KEY,
		venue_id UUID,
		date_from DATE,
		date_to DATE,
		guests INT,
		customer TEXT,
		status TEXT CHECK (status IN ('CONFIRMED', 'CANCELLED')),
		created_at TIMESTAMPTZ
	);
	CREATE TABLE IF NOT EXISTS venues.holds (
		id UUID PRIMARY KEY,
		venue_id UUID,
		date_from DATE,
		date_to DATE,
		customer TEXT,
		expires_at TIMESTAMPTZ,
		status TEXT CHECK (status IN ('ACTIVE', 'CONVERTED', 'EXPIRED'))
	);
	CREATE TABLE IF NOT EXISTS venues.booked_dates (
		venue_id UUID,
		day DATE,
		ref_id UUID,
		ref_type TEXT CHECK (ref_type IN ('HOLD', 'BOOKING')),
		status TEXT CHECK (status IN ('ACTIVE', 'RELEASED')),
		UNIQUE (venue_id, day) WHERE status = 'ACTIVE'
	);
	CREATE TABLE IF NOT EXISTS venues.profiles (
		id UUID PRIMARY KEY,
		name TEXT UNIQUE,
		email TEXT UNIQUE,
		password_hash TEXT,
		venue_manager BOOL,
		created_at TIMESTAMPTZ
	);
	CREATE TABLE IF NOT EXISTS venues.outbox (
		id UUID PRIMARY KEY,
		aggregate_type TEXT,
		aggregate_id UUID,
		event_type TEXT,
		payload_json BYTES,
		created_at TIMESTAMPTZ DEFAULT now(),
		published_at TIMESTAMPTZ,
		status TEXT,
		dedupe_key TEXT
	);
`

func setupRepo(t *testing.T, ctx context.Context) *crdb.Repository {
	t.Helper()

	crdbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "cockroachdb/cockroach:v24.1.1",
			Cmd:          []string{"start-single-node", "--insecure"},
			ExposedPorts: []string{"26257/tcp", "8080/tcp"},
			WaitingFor:   wait.ForHTTP("/health?ready=1").WithPort("8080"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { crdbContainer.Terminate(ctx) })

	host, err := crdbContainer.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := crdbContainer.MappedPort(ctx, "26257")
	if err != nil {
		t.Fatal(err)
	}

	pool, err := pgxpool.New(ctx, "postgresql://root@"+host+":"+port.Port()+"/venues?sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, schema); err != nil {
		t.Fatal(err)
	}

	return crdb.NewRepository(pool)
}

func TestRepository_CreateHold(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t, ctx)

	venueID := uuid.New()
	hold := domain.NewHold(venueID,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		"alice", 15*time.Minute)

	err := repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateHold(ctx, tx, hold)
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// overlapping the first hold's checkout day must conflict
	conflictHold := domain.NewHold(venueID,
		time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		"bob", 15*time.Minute)
	err = repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateHold(ctx, tx, conflictHold)
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestRepository_CreateBooking(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t, ctx)

	venueID := uuid.New()
	booking := domain.NewBooking(venueID,
		time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		2, "alice")

	err := repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateBooking(ctx, tx, booking, nil)
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	fetched, err := repo.GetBooking(ctx, booking.ID)
	if err != nil {
		t.Fatal(err)
	}
	if fetched.Status != domain.BookingConfirmed || fetched.Guests != 2 {
		t.Errorf("unexpected booking %+v", fetched)
	}

	overlapping := domain.NewBooking(venueID,
		time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 5, 6, 0, 0, 0, 0, time.UTC),
		1, "bob")
	err = repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateBooking(ctx, tx, overlapping, nil)
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected conflict on checkout-day overlap, got %v", err)
	}

	ranges, err := repo.GetVenueBookings(ctx, venueID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranges) != 1 {
		t.Errorf("expected 1 booking, got %d", len(ranges))
	}
}

func TestRepository_ConvertHoldToBooking(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t, ctx)

	venueID := uuid.New()
	from := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 7, 12, 0, 0, 0, 0, time.UTC)

	hold := domain.NewHold(venueID, from, to, "alice", 15*time.Minute)
	err := repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateHold(ctx, tx, hold)
	})
	if err != nil {
		t.Fatal(err)
	}

	booking := domain.NewBooking(venueID, from, to, 2, "alice")
	err = repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateBooking(ctx, tx, booking, &hold.ID)
	})
	if err != nil {
		t.Fatalf("converting own hold should succeed, got %v", err)
	}

	// the converted hold no longer blocks anything beyond the booking itself
	holds, err := repo.GetActiveHolds(ctx, venueID, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(holds) != 0 {
		t.Errorf("expected no active holds after conversion, got %d", len(holds))
	}

	// somebody else's hold cannot be converted
	otherHold := domain.NewHold(venueID,
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		"bob", 15*time.Minute)
	err = repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateHold(ctx, tx, otherHold)
	})
	if err != nil {
		t.Fatal(err)
	}
	stolen := domain.NewBooking(venueID,
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		1, "alice")
	err = repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateBooking(ctx, tx, stolen, &otherHold.ID)
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found converting another customer's hold, got %v", err)
	}
}

func TestRepository_ConvertHold_DateMismatch(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t, ctx)

	venueID := uuid.New()
	hold := domain.NewHold(venueID,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		"alice", 15*time.Minute)
	err := repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateHold(ctx, tx, hold)
	})
	if err != nil {
		t.Fatal(err)
	}

	// a hold only backs the dates it covers; converting it for a different
	// stay would confirm a booking with no day rows behind it
	julyFrom := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	julyTo := time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC)
	mismatched := domain.NewBooking(venueID, julyFrom, julyTo, 2, "alice")
	err = repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateBooking(ctx, tx, mismatched, &hold.ID)
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found converting a hold for different dates, got %v", err)
	}

	// the hold survives the failed conversion and keeps its dates claimed
	holds, err := repo.GetActiveHolds(ctx, venueID, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(holds) != 1 || holds[0].ID != hold.ID {
		t.Fatalf("expected the hold to remain active, got %v", holds)
	}

	// and the july dates stay open for a direct booking
	july := domain.NewBooking(venueID, julyFrom, julyTo, 1, "bob")
	err = repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateBooking(ctx, tx, july, nil)
	})
	if err != nil {
		t.Errorf("expected direct booking on unheld dates to succeed, got %v", err)
	}
}

func TestRepository_ReleaseExpiredHold(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t, ctx)

	venueID := uuid.New()
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)

	hold := domain.NewHold(venueID, from, to, "alice", -time.Minute) // already expired
	err := repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateHold(ctx, tx, hold)
	})
	if err != nil {
		t.Fatal(err)
	}

	expired, err := repo.GetExpiredHolds(ctx, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(expired) != 1 || expired[0].ID != hold.ID {
		t.Fatalf("expected the expired hold, got %v", expired)
	}

	if err := repo.ReleaseHold(ctx, hold.ID); err != nil {
		t.Fatal(err)
	}

	// released dates are sellable again
	booking := domain.NewBooking(venueID, from, to, 1, "bob")
	err = repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateBooking(ctx, tx, booking, nil)
	})
	if err != nil {
		t.Errorf("expected booking on released dates to succeed, got %v", err)
	}
}

func TestRepository_CancelBookingFreesDates(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t, ctx)

	venueID := uuid.New()
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC)

	booking := domain.NewBooking(venueID, from, to, 2, "alice")
	err := repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateBooking(ctx, tx, booking, nil)
	})
	if err != nil {
		t.Fatal(err)
	}

	err = repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CancelBooking(ctx, tx, booking.ID)
	})
	if err != nil {
		t.Fatal(err)
	}

	rebooked := domain.NewBooking(venueID, from, to, 1, "bob")
	err = repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateBooking(ctx, tx, rebooked, nil)
	})
	if err != nil {
		t.Errorf("expected rebooking cancelled dates to succeed, got %v", err)
	}
}

func TestRepository_Profiles(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t, ctx)

	p := domain.Profile{
		ID:           uuid.New(),
		Name:         "alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
		VenueManager: true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.CreateProfile(ctx, p); err != nil {
		t.Fatal(err)
	}

	dupe := p
	dupe.ID = uuid.New()
	dupe.Email = "other@example.com"
	if err := repo.CreateProfile(ctx, dupe); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected conflict on duplicate name, got %v", err)
	}

	fetched, err := repo.GetProfileByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if fetched.Name != "alice" || !fetched.VenueManager {
		t.Errorf("unexpected profile %+v", fetched)
	}

	if _, err := repo.GetProfileByName(ctx, "nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
