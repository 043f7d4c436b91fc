package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stayseek/venue-bookings/internal/availability"
	"github.com/stayseek/venue-bookings/internal/domain"
	"github.com/stayseek/venue-bookings/internal/idempotency"
	"github.com/stayseek/venue-bookings/internal/observability"
)

// CreateHold reserves a venue's dates while the customer finishes checkout.
// The dates are locked in redis and claimed in the database; either step
// failing means somebody else got there first.
func (h *Handlers) CreateHold(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("Idempotency-Key")
	existing, err := h.idemp.Get(r.Context(), key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if existing != nil {
		w.WriteHeader(existing.Status)
		w.Write(existing.Result)
		return
	}

	var req struct {
		VenueID  uuid.UUID `json:"venue_id"`
		DateFrom string    `json:"date_from"`
		DateTo   string    `json:"date_to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	venue, err := h.catalog.GetVenue(r.Context(), req.VenueID)
	if err != nil {
		http.Error(w, "venue not found", http.StatusNotFound)
		return
	}

	from, err := parseDayParam(req.DateFrom)
	if err != nil {
		http.Error(w, "invalid date_from", http.StatusBadRequest)
		return
	}
	to, err := parseDayParam(req.DateTo)
	if err != nil {
		http.Error(w, "invalid date_to", http.StatusBadRequest)
		return
	}
	if err := availability.ValidateSelection(from, to, 1, venue.MaxGuests, time.Now()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ranges, err := h.venueRanges(r.Context(), req.VenueID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if conflict, ok := availability.FirstConflict(*from, *to, ranges); ok {
		observability.BookingConflicts.Inc()
		http.Error(w, fmt.Sprintf("dates %s to %s are already taken", conflict.Start.Format(dayFormat), conflict.End.Format(dayFormat)), http.StatusConflict)
		return
	}

	customer := identityFrom(r.Context()).Name
	hold := domain.NewHold(req.VenueID, availability.DateOnly(*from), availability.DateOnly(*to), customer, h.cfg.HoldTTL)

	err = h.repo.WithTx(r.Context(), func(tx pgx.Tx) error {
		for _, day := range hold.Days() {
			ok, err := h.redis.SetDateLock(r.Context(), hold.VenueID.String(), day, customer, h.cfg.HoldTTL)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrConflict
			}
		}
		return h.repo.CreateHold(r.Context(), tx, hold)
	})
	if errors.Is(err, domain.ErrSerializationFailure) {
		http.Error(w, "conflict, try again", http.StatusConflict)
		return
	}
	if errors.Is(err, domain.ErrConflict) {
		observability.BookingConflicts.Inc()
		http.Error(w, "dates already held", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.audit.LogHold(r.Context(), hold)

	data := writeJSON(w, http.StatusCreated, map[string]interface{}{
		"hold_id":    hold.ID,
		"expires_at": hold.ExpiresAt.Format(time.RFC3339),
	})
	h.idemp.Set(r.Context(), key, idempotency.Response{Status: http.StatusCreated, Result: data})
}

// CreateBooking books a stay, either converting the customer's hold or
// claiming the dates directly. The booked_dates constraint inside the
// transaction is the authority on conflicts; the predicate check up front
// only exists to answer with the conflicting range.
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("Idempotency-Key")
	existing, err := h.idemp.Get(r.Context(), key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if existing != nil {
		w.WriteHeader(existing.Status)
		w.Write(existing.Result)
		return
	}

	var req struct {
		VenueID  uuid.UUID  `json:"venue_id"`
		DateFrom string     `json:"date_from"`
		DateTo   string     `json:"date_to"`
		Guests   int        `json:"guests"`
		HoldID   *uuid.UUID `json:"hold_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	venue, err := h.catalog.GetVenue(r.Context(), req.VenueID)
	if err != nil {
		http.Error(w, "venue not found", http.StatusNotFound)
		return
	}

	from, err := parseDayParam(req.DateFrom)
	if err != nil {
		http.Error(w, "invalid date_from", http.StatusBadRequest)
		return
	}
	to, err := parseDayParam(req.DateTo)
	if err != nil {
		http.Error(w, "invalid date_to", http.StatusBadRequest)
		return
	}
	if err := availability.ValidateSelection(from, to, req.Guests, venue.MaxGuests, time.Now()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	customer := identityFrom(r.Context()).Name

	if req.HoldID == nil {
		ranges, err := h.venueRanges(r.Context(), req.VenueID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if conflict, ok := availability.FirstConflict(*from, *to, ranges); ok {
			observability.BookingConflicts.Inc()
			http.Error(w, fmt.Sprintf("dates %s to %s are already taken", conflict.Start.Format(dayFormat), conflict.End.Format(dayFormat)), http.StatusConflict)
			return
		}
	}

	booking := domain.NewBooking(req.VenueID, availability.DateOnly(*from), availability.DateOnly(*to), req.Guests, customer)

	err = h.repo.WithTx(r.Context(), func(tx pgx.Tx) error {
		if req.HoldID == nil {
			for _, day := range booking.Days() {
				ok, err := h.redis.SetDateLock(r.Context(), booking.VenueID.String(), day, customer, h.cfg.HoldTTL)
				if err != nil {
					return err
				}
				if !ok {
					return domain.ErrConflict
				}
			}
		}
		if err := h.repo.CreateBooking(r.Context(), tx, booking, req.HoldID); err != nil {
			return err
		}
		payload, _ := json.Marshal(map[string]interface{}{
			"booking_id": booking.ID,
			"venue_id":   booking.VenueID,
			"date_from":  booking.DateFrom.Format(dayFormat),
			"date_to":    booking.DateTo.Format(dayFormat),
		})
		return h.repo.InsertOutbox(r.Context(), tx, crdbOutboxRecord(booking.ID, "booking.created", payload))
	})
	if errors.Is(err, domain.ErrSerializationFailure) {
		http.Error(w, "conflict, try again", http.StatusConflict)
		return
	}
	if errors.Is(err, domain.ErrConflict) {
		observability.BookingConflicts.Inc()
		http.Error(w, "dates already booked", http.StatusConflict)
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "hold not found, expired, or does not match the booking", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.audit.LogBooking(r.Context(), booking)

	quote := availability.NewQuote(availability.Nights(from, to), venue.Price, h.cfg.VATRate)
	data := writeJSON(w, http.StatusCreated, map[string]interface{}{
		"booking_id": booking.ID,
		"status":     booking.Status,
		"quote":      quote,
	})
	h.idemp.Set(r.Context(), key, idempotency.Response{Status: http.StatusCreated, Result: data})
}

func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	booking, err := h.repo.GetBooking(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "booking not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if booking.Customer != identityFrom(r.Context()).Name {
		http.Error(w, "booking not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":        booking.ID,
		"venue_id":  booking.VenueID,
		"date_from": booking.DateFrom.Format(dayFormat),
		"date_to":   booking.DateTo.Format(dayFormat),
		"guests":    booking.Guests,
		"status":    booking.Status,
	})
}

func (h *Handlers) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	booking, err := h.repo.GetBooking(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "booking not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if booking.Customer != identityFrom(r.Context()).Name {
		http.Error(w, "booking not found", http.StatusNotFound)
		return
	}

	err = h.repo.WithTx(r.Context(), func(tx pgx.Tx) error {
		if err := h.repo.CancelBooking(r.Context(), tx, id); err != nil {
			return err
		}
		payload, _ := json.Marshal(map[string]interface{}{"booking_id": id})
		return h.repo.InsertOutbox(r.Context(), tx, crdbOutboxRecord(id, "booking.cancelled", payload))
	})
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "booking already cancelled", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListProfileBookings(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name != identityFrom(r.Context()).Name {
		http.Error(w, "not your profile", http.StatusForbidden)
		return
	}

	bookings, err := h.repo.GetBookingsByCustomer(r.Context(), name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]map[string]interface{}, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, map[string]interface{}{
			"id":        b.ID,
			"venue_id":  b.VenueID,
			"date_from": b.DateFrom.Format(dayFormat),
			"date_to":   b.DateTo.Format(dayFormat),
			"guests":    b.Guests,
			"status":    b.Status,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": out})
}

// ImportBookings bulk-loads bookings from an external channel, e.g. a
// manager syncing reservations taken elsewhere. Records with bad dates or
// conflicting ranges are skipped and reported; one dirty record never sinks
// the batch.
func (h *Handlers) ImportBookings(w http.ResponseWriter, r *http.Request) {
	venueID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	venue, err := h.catalog.GetVenue(r.Context(), venueID)
	if err != nil {
		http.Error(w, "venue not found", http.StatusNotFound)
		return
	}
	id := identityFrom(r.Context())
	if venue.Owner != id.Name {
		http.Error(w, "not the venue owner", http.StatusForbidden)
		return
	}

	var req struct {
		Bookings []availability.RawBooking `json:"bookings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ranges, rangeErrs := availability.BuildRanges(req.Bookings)

	var warnings []string
	for _, re := range rangeErrs {
		observability.SkippedBookingRecords.Inc()
		h.logger.WithField("venue_id", venueID).Warn(re.Error())
		warnings = append(warnings, re.Error())
	}

	imported := 0
	for _, rng := range ranges {
		booking := domain.NewBooking(venueID, rng.Start, rng.End, 1, id.Name)
		err := h.repo.WithTx(r.Context(), func(tx pgx.Tx) error {
			return h.repo.CreateBooking(r.Context(), tx, booking, nil)
		})
		if errors.Is(err, domain.ErrConflict) {
			observability.BookingConflicts.Inc()
			warnings = append(warnings, fmt.Sprintf("range %s to %s skipped: dates already booked", rng.Start.Format(dayFormat), rng.End.Format(dayFormat)))
			continue
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		imported++
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"imported": imported,
		"warnings": warnings,
	})
}
