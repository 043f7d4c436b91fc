package crdb

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stayseek/venue-bookings/internal/domain"
)

func (r *Repository) CreateProfile(ctx context.Context, p domain.Profile) error {
	result, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (id, name, email, password_hash, venue_manager, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO NOTHING
	`, p.ID, p.Name, p.Email, p.PasswordHash, p.VenueManager, p.CreatedAt)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *Repository) GetProfileByName(ctx context.Context, name string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, venue_manager, created_at
		FROM profiles WHERE name = $1
	`, name).Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.VenueManager, &p.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) GetProfileByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, venue_manager, created_at
		FROM profiles WHERE email = $1
	`, email).Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.VenueManager, &p.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
