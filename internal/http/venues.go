package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stayseek/venue-bookings/internal/adapters/mongo"
	"github.com/stayseek/venue-bookings/internal/availability"
)

const dayFormat = "2006-01-02"

// defaultAvailabilityWindowDays bounds how far ahead exclusion dates are
// materialized when the caller does not pass a window.
const defaultAvailabilityWindowDays = 180

func parseDayParam(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dayFormat, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *Handlers) ListVenues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)
	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)

	venues, err := h.catalog.ListVenues(r.Context(), mongo.ListParams{
		Query:     q.Get("q"),
		SortBy:    q.Get("sort"),
		SortOrder: q.Get("order"),
		Limit:     limit,
		Page:      page,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": venues})
}

func (h *Handlers) GetVenue(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	venue, err := h.catalog.GetVenue(r.Context(), id)
	if err != nil {
		http.Error(w, "venue not found", http.StatusNotFound)
		return
	}

	resp := map[string]interface{}{"data": venue}
	if r.URL.Query().Get("_bookings") == "true" {
		bookings, err := h.repo.GetVenueBookings(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		raw := make([]availability.RawBooking, 0, len(bookings))
		for _, b := range bookings {
			raw = append(raw, availability.RawBooking{
				DateFrom: b.DateFrom.Format(dayFormat),
				DateTo:   b.DateTo.Format(dayFormat),
			})
		}
		resp["bookings"] = raw
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetAvailability returns the venue's exclusion dates inside a window, the
// flat list a date picker disables. Intervals stay the source of truth;
// only the requested window is materialized.
func (h *Handlers) GetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	from, err := parseDayParam(r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "invalid from date", http.StatusBadRequest)
		return
	}
	to, err := parseDayParam(r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "invalid to date", http.StatusBadRequest)
		return
	}

	start := availability.DateOnly(time.Now())
	if from != nil {
		start = availability.DateOnly(*from)
	}
	end := start.AddDate(0, 0, defaultAvailabilityWindowDays)
	if to != nil {
		end = availability.DateOnly(*to)
	}
	if end.Before(start) {
		http.Error(w, "to must not be before from", http.StatusBadRequest)
		return
	}

	ranges, err := h.venueRanges(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	excluded := availability.ExcludedDatesWithin(ranges, start, end)
	dates := make([]string, 0, len(excluded))
	for _, d := range excluded {
		dates = append(dates, d.Format(dayFormat))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"venue_id":       id,
		"from":           start.Format(dayFormat),
		"to":             end.Format(dayFormat),
		"excluded_dates": dates,
	})
}

// GetQuote prices a stay. Missing dates yield a zero quote so a price
// summary can render before the selection is complete.
func (h *Handlers) GetQuote(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	from, err := parseDayParam(r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "invalid from date", http.StatusBadRequest)
		return
	}
	to, err := parseDayParam(r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "invalid to date", http.StatusBadRequest)
		return
	}

	venue, err := h.catalog.GetVenue(r.Context(), id)
	if err != nil {
		http.Error(w, "venue not found", http.StatusNotFound)
		return
	}

	quote := availability.NewQuote(availability.Nights(from, to), venue.Price, h.cfg.VATRate)
	writeJSON(w, http.StatusOK, quote)
}

func (h *Handlers) CreateVenue(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())
	if !id.VenueManager {
		http.Error(w, "venue manager role required", http.StatusForbidden)
		return
	}

	var doc mongo.VenueDoc
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if doc.Name == "" || doc.Price <= 0 || doc.MaxGuests < 1 {
		http.Error(w, "name, positive price and max_guests are required", http.StatusBadRequest)
		return
	}

	doc.ID = uuid.New()
	doc.Owner = id.Name
	if err := h.catalog.CreateVenue(r.Context(), doc); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": doc})
}

func (h *Handlers) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	venueID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	existing, err := h.catalog.GetVenue(r.Context(), venueID)
	if err != nil {
		http.Error(w, "venue not found", http.StatusNotFound)
		return
	}
	id := identityFrom(r.Context())
	if existing.Owner != id.Name {
		http.Error(w, "not the venue owner", http.StatusForbidden)
		return
	}

	var doc mongo.VenueDoc
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc.ID = venueID
	doc.Owner = existing.Owner
	doc.CreatedAt = existing.CreatedAt
	if err := h.catalog.UpdateVenue(r.Context(), doc); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": doc})
}

func (h *Handlers) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	venueID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	existing, err := h.catalog.GetVenue(r.Context(), venueID)
	if err != nil {
		http.Error(w, "venue not found", http.StatusNotFound)
		return
	}
	if existing.Owner != identityFrom(r.Context()).Name {
		http.Error(w, "not the venue owner", http.StatusForbidden)
		return
	}

	if err := h.catalog.DeleteVenue(r.Context(), venueID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
