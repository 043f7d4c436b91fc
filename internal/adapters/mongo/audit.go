package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stayseek/venue-bookings/internal/domain"
	"github.com/stayseek/venue-bookings/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AuditLogger struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewAuditLogger(db *mongo.Database, logger observability.Logger) *AuditLogger {
	return &AuditLogger{
		coll:   db.Collection("audit_logs"),
		logger: logger,
	}
}

type AuditLog struct {
	ID        uuid.UUID `bson:"_id"`
	Action    string    `bson:"action"`
	Customer  string    `bson:"customer"`
	Timestamp time.Time `bson:"timestamp"`
	Data      bson.M    `bson:"data"`
}

func (a *AuditLogger) LogEvent(ctx context.Context, action, customer string, data map[string]interface{}) error {
	log := AuditLog{
		ID:        uuid.New(),
		Action:    action,
		Customer:  customer,
		Timestamp: time.Now(),
		Data:      bson.M(data),
	}
	_, err := a.coll.InsertOne(ctx, log)
	if err != nil {
		a.logger.WithError(err).Error("failed to insert audit log")
		return err
	}
	return nil
}

func (a *AuditLogger) LogBooking(ctx context.Context, booking domain.Booking) error {
	data := map[string]interface{}{
		"booking_id": booking.ID,
		"venue_id":   booking.VenueID,
		"date_from":  booking.DateFrom.Format("2006-01-02"),
		"date_to":    booking.DateTo.Format("2006-01-02"),
		"guests":     booking.Guests,
	}
	return a.LogEvent(ctx, "booking.created", booking.Customer, data)
}

func (a *AuditLogger) LogHold(ctx context.Context, hold domain.Hold) error {
	data := map[string]interface{}{
		"hold_id":    hold.ID,
		"venue_id":   hold.VenueID,
		"date_from":  hold.DateFrom.Format("2006-01-02"),
		"date_to":    hold.DateTo.Format("2006-01-02"),
		"expires_at": hold.ExpiresAt.Format(time.RFC3339),
	}
	return a.LogEvent(ctx, "hold.created", hold.Customer, data)
}
