package availability

import (
	"fmt"
	"time"
)

// Range is one reserved interval for a venue. Both endpoints are calendar
// dates (UTC midnight) and both are inclusive: the checkout day cannot be
// resold as a check-in day on the same date.
type Range struct {
	Start time.Time
	End   time.Time
}

// RawBooking is a booking record as returned by the catalog or bookings
// endpoint, before date normalization.
type RawBooking struct {
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}

// RangeError reports a record that was skipped during range building.
type RangeError struct {
	Index  int
	Reason string
}

func (e RangeError) Error() string {
	return fmt.Sprintf("booking record %d skipped: %s", e.Index, e.Reason)
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return DateOnly(t), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// DateOnly discards the time-of-day component, keeping the calendar date in
// UTC.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BuildRanges converts raw booking records into normalized ranges. Records
// with unparseable dates or with end before start are skipped and reported
// through the returned errors; one bad record never aborts the batch, so a
// partially dirty booking list still yields a usable calendar.
func BuildRanges(bookings []RawBooking) ([]Range, []RangeError) {
	ranges := make([]Range, 0, len(bookings))
	var errs []RangeError

	for i, b := range bookings {
		start, err := parseDate(b.DateFrom)
		if err != nil {
			errs = append(errs, RangeError{Index: i, Reason: fmt.Sprintf("bad date_from %q: %v", b.DateFrom, err)})
			continue
		}
		end, err := parseDate(b.DateTo)
		if err != nil {
			errs = append(errs, RangeError{Index: i, Reason: fmt.Sprintf("bad date_to %q: %v", b.DateTo, err)})
			continue
		}
		if end.Before(start) {
			// Rejected rather than swapped: an inverted range means the
			// upstream data is wrong and swapping would hide that.
			errs = append(errs, RangeError{Index: i, Reason: fmt.Sprintf("date_to %s before date_from %s", b.DateTo, b.DateFrom)})
			continue
		}
		ranges = append(ranges, Range{Start: start, End: end})
	}

	return ranges, errs
}
