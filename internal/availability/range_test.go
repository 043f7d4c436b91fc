package availability_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stayseek/venue-bookings/internal/availability"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildRanges(t *testing.T) {
	bookings := []availability.RawBooking{
		{DateFrom: "2024-03-01", DateTo: "2024-03-03"},
		{DateFrom: "2024-05-10T14:30:00Z", DateTo: "2024-05-12T09:00:00Z"},
	}

	ranges, errs := availability.BuildRanges(bookings)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	want := []availability.Range{
		{Start: day(2024, 3, 1), End: day(2024, 3, 3)},
		{Start: day(2024, 5, 10), End: day(2024, 5, 12)},
	}
	if !reflect.DeepEqual(ranges, want) {
		t.Errorf("got %v, want %v", ranges, want)
	}
}

func TestBuildRanges_SkipsBadRecords(t *testing.T) {
	bookings := []availability.RawBooking{
		{DateFrom: "not-a-date", DateTo: "2024-03-03"},
		{DateFrom: "2024-03-05", DateTo: "2024-03-01"}, // inverted
		{DateFrom: "2024-04-01", DateTo: "2024-04-02"},
	}

	ranges, errs := availability.BuildRanges(bookings)
	if len(ranges) != 1 {
		t.Fatalf("expected 1 valid range, got %d", len(ranges))
	}
	if ranges[0].Start != day(2024, 4, 1) {
		t.Errorf("unexpected surviving range %v", ranges[0])
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 skipped records, got %d: %v", len(errs), errs)
	}
	if errs[0].Index != 0 || errs[1].Index != 1 {
		t.Errorf("wrong indices in errors: %v", errs)
	}
}

func TestBuildRanges_Idempotent(t *testing.T) {
	bookings := []availability.RawBooking{
		{DateFrom: "2024-03-01", DateTo: "2024-03-03"},
		{DateFrom: "bad", DateTo: "2024-03-03"},
	}

	first, firstErrs := availability.BuildRanges(bookings)
	second, secondErrs := availability.BuildRanges(bookings)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("ranges differ between runs: %v vs %v", first, second)
	}
	if !reflect.DeepEqual(firstErrs, secondErrs) {
		t.Errorf("errors differ between runs: %v vs %v", firstErrs, secondErrs)
	}
}

func TestIsDateBooked(t *testing.T) {
	ranges := []availability.Range{
		{Start: day(2024, 3, 1), End: day(2024, 3, 3)},
		{Start: day(2024, 3, 10), End: day(2024, 3, 12)},
	}

	tests := []struct {
		name string
		d    time.Time
		want bool
	}{
		{"before all ranges", day(2024, 2, 28), false},
		{"on check-in day", day(2024, 3, 1), true},
		{"mid range", day(2024, 3, 2), true},
		{"on checkout day", day(2024, 3, 3), true},
		{"gap between ranges", day(2024, 3, 5), false},
		{"second range", day(2024, 3, 11), true},
		{"after all ranges", day(2024, 3, 13), false},
		{"time of day ignored", time.Date(2024, 3, 2, 23, 59, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := availability.IsDateBooked(tt.d, ranges); got != tt.want {
				t.Errorf("IsDateBooked(%v) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestIsDateBooked_NoRanges(t *testing.T) {
	if availability.IsDateBooked(day(2024, 3, 1), nil) {
		t.Error("no ranges should mean no date is booked")
	}
}

func TestFirstConflict(t *testing.T) {
	ranges := []availability.Range{
		{Start: day(2024, 3, 10), End: day(2024, 3, 12)},
	}

	if _, ok := availability.FirstConflict(day(2024, 3, 1), day(2024, 3, 5), ranges); ok {
		t.Error("disjoint stay reported as conflicting")
	}
	if r, ok := availability.FirstConflict(day(2024, 3, 5), day(2024, 3, 10), ranges); !ok {
		t.Error("stay ending on an existing check-in day must conflict")
	} else if r.Start != day(2024, 3, 10) {
		t.Errorf("wrong conflicting range %v", r)
	}
	if _, ok := availability.FirstConflict(day(2024, 3, 12), day(2024, 3, 14), ranges); !ok {
		t.Error("stay starting on an existing checkout day must conflict")
	}
	if _, ok := availability.FirstConflict(day(2024, 3, 13), day(2024, 3, 15), ranges); ok {
		t.Error("stay after checkout day reported as conflicting")
	}
}

func TestExcludedDates_Inclusive(t *testing.T) {
	ranges := []availability.Range{{Start: day(2024, 3, 1), End: day(2024, 3, 3)}}

	got := availability.ExcludedDates(ranges)
	want := []time.Time{day(2024, 3, 1), day(2024, 3, 2), day(2024, 3, 3)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExcludedDates_LeapRollover(t *testing.T) {
	ranges := []availability.Range{{Start: day(2024, 2, 28), End: day(2024, 3, 1)}}

	got := availability.ExcludedDates(ranges)
	want := []time.Time{day(2024, 2, 28), day(2024, 2, 29), day(2024, 3, 1)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExcludedDates_YearRollover(t *testing.T) {
	ranges := []availability.Range{{Start: day(2023, 12, 31), End: day(2024, 1, 1)}}

	got := availability.ExcludedDates(ranges)
	want := []time.Time{day(2023, 12, 31), day(2024, 1, 1)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExcludedDatesWithin(t *testing.T) {
	ranges := []availability.Range{
		{Start: day(2024, 3, 1), End: day(2024, 3, 31)},
		{Start: day(2024, 6, 1), End: day(2024, 6, 2)}, // outside window
	}

	got := availability.ExcludedDatesWithin(ranges, day(2024, 3, 30), day(2024, 4, 5))
	want := []time.Time{day(2024, 3, 30), day(2024, 3, 31)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
