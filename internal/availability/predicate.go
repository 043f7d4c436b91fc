package availability

import "time"

// IsDateBooked reports whether d falls inside any of the given ranges,
// endpoints included. A date equal to an existing booking's checkout day
// counts as booked (same-day turnover is not allowed).
func IsDateBooked(d time.Time, ranges []Range) bool {
	d = DateOnly(d)
	for _, r := range ranges {
		if !d.Before(r.Start) && !d.After(r.End) {
			return true
		}
	}
	return false
}

// FirstConflict returns the first range that overlaps the candidate stay
// [start, end], or false when the stay is free. Overlap uses the same
// inclusive-endpoint semantics as IsDateBooked.
func FirstConflict(start, end time.Time, ranges []Range) (Range, bool) {
	start, end = DateOnly(start), DateOnly(end)
	for _, r := range ranges {
		if !start.After(r.End) && !r.Start.After(end) {
			return r, true
		}
	}
	return Range{}, false
}
