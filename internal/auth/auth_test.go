package auth_test

import (
	"testing"

	"github.com/stayseek/venue-bookings/internal/auth"
	"github.com/stayseek/venue-bookings/internal/domain"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	p := domain.Profile{Name: "alice", VenueManager: true}

	token, err := auth.NewAccessToken(secret, p)
	if err != nil {
		t.Fatal(err)
	}

	id, err := auth.ParseAccessToken(secret, token)
	if err != nil {
		t.Fatal(err)
	}
	if id.Name != "alice" || !id.VenueManager {
		t.Errorf("unexpected identity %+v", id)
	}
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	token, err := auth.NewAccessToken("secret-a", domain.Profile{Name: "alice"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := auth.ParseAccessToken("secret-b", token); err != domain.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestParseAccessToken_Garbage(t *testing.T) {
	if _, err := auth.ParseAccessToken("secret", "not.a.token"); err != domain.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if !auth.VerifyPassword(hash, "hunter22") {
		t.Error("correct password rejected")
	}
	if auth.VerifyPassword(hash, "hunter23") {
		t.Error("wrong password accepted")
	}
}
