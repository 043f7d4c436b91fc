package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stayseek/venue-bookings/internal/adapters/crdb"
	"github.com/stayseek/venue-bookings/internal/adapters/mongo"
	redisadapter "github.com/stayseek/venue-bookings/internal/adapters/redis"
	"github.com/stayseek/venue-bookings/internal/availability"
	"github.com/stayseek/venue-bookings/internal/config"
	"github.com/stayseek/venue-bookings/internal/idempotency"
	"github.com/stayseek/venue-bookings/internal/observability"
)

type Handlers struct {
	cfg     *config.Config
	repo    *crdb.Repository
	redis   *redisadapter.Cache
	idemp   *idempotency.Idempotency
	catalog *mongo.CatalogRepository
	audit   *mongo.AuditLogger
	logger  observability.Logger
}

func NewHandlers(cfg *config.Config, repo *crdb.Repository, redis *redisadapter.Cache, idemp *idempotency.Idempotency, catalog *mongo.CatalogRepository, audit *mongo.AuditLogger, logger observability.Logger) *Handlers {
	return &Handlers{
		cfg:     cfg,
		repo:    repo,
		redis:   redis,
		idemp:   idemp,
		catalog: catalog,
		audit:   audit,
		logger:  logger,
	}
}

func crdbOutboxRecord(aggregateID uuid.UUID, eventType string, payload []byte) crdb.OutboxRecord {
	return crdb.OutboxRecord{
		ID:            uuid.New(),
		AggregateType: "booking",
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       payload,
		DedupeKey:     uuid.New().String(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) []byte {
	data, _ := json.Marshal(v)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
	return data
}

// venueRanges collects the intervals currently occupying a venue's calendar:
// confirmed bookings plus unexpired holds.
func (h *Handlers) venueRanges(ctx context.Context, venueID uuid.UUID) ([]availability.Range, error) {
	bookings, err := h.repo.GetVenueBookings(ctx, venueID)
	if err != nil {
		return nil, err
	}
	holds, err := h.repo.GetActiveHolds(ctx, venueID, time.Now())
	if err != nil {
		return nil, err
	}

	ranges := make([]availability.Range, 0, len(bookings)+len(holds))
	for _, b := range bookings {
		ranges = append(ranges, availability.Range{Start: availability.DateOnly(b.DateFrom), End: availability.DateOnly(b.DateTo)})
	}
	for _, hold := range holds {
		ranges = append(ranges, availability.Range{Start: availability.DateOnly(hold.DateFrom), End: availability.DateOnly(hold.DateTo)})
	}
	return ranges, nil
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
