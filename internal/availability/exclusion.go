package availability

import "time"

// ExcludedDates expands every range into the discrete calendar dates it
// covers, one entry per day from Start to End inclusive. Month and year
// rollover come from time.AddDate, so leap days are handled.
//
// The result grows with total booked nights; callers serving long-lived
// venues should prefer ExcludedDatesWithin and keep ranges as the source of
// truth.
func ExcludedDates(ranges []Range) []time.Time {
	var dates []time.Time
	for _, r := range ranges {
		for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
			dates = append(dates, d)
		}
	}
	return dates
}

// ExcludedDatesWithin is ExcludedDates clipped to the window [from, to]
// inclusive. Ranges entirely outside the window contribute nothing, so the
// output is bounded by the window size regardless of booking history.
func ExcludedDatesWithin(ranges []Range, from, to time.Time) []time.Time {
	from, to = DateOnly(from), DateOnly(to)
	var dates []time.Time
	for _, r := range ranges {
		start, end := r.Start, r.End
		if start.Before(from) {
			start = from
		}
		if end.After(to) {
			end = to
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			dates = append(dates, d)
		}
	}
	return dates
}
