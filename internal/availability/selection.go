package availability

import (
	"fmt"
	"time"
)

// SelectionError accumulates per-field problems with a stay selection so the
// caller can report all of them at once.
type SelectionError struct {
	fields map[string][]string
}

func newSelectionError() *SelectionError {
	return &SelectionError{fields: make(map[string][]string)}
}

func (e *SelectionError) add(field, msg string) {
	e.fields[field] = append(e.fields[field], msg)
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("%+v", e.fields)
}

// Fields returns the accumulated problems keyed by field name.
func (e *SelectionError) Fields() map[string][]string {
	return e.fields
}

// ValidateSelection checks a candidate stay before it is priced or booked:
// both dates set, at least one night, check-in not in the past, and guests
// within the venue's capacity. now supplies the current time so the check is
// deterministic in tests.
func ValidateSelection(start, end *time.Time, guests, maxGuests int, now time.Time) error {
	selErr := newSelectionError()

	if start == nil {
		selErr.add("date_from", "provide a check-in date")
	}
	if end == nil {
		selErr.add("date_to", "provide a checkout date")
	}
	if start != nil && end != nil {
		s, e := DateOnly(*start), DateOnly(*end)
		if !s.Before(e) {
			selErr.add("date_to", "stay must be at least one night")
		}
		if s.Before(DateOnly(now)) {
			selErr.add("date_from", "check-in must not be in the past")
		}
	}
	if guests < 1 {
		selErr.add("guests", "at least one guest is required")
	}
	if maxGuests > 0 && guests > maxGuests {
		selErr.add("guests", fmt.Sprintf("venue sleeps at most %d guests", maxGuests))
	}

	if len(selErr.fields) > 0 {
		return selErr
	}
	return nil
}
