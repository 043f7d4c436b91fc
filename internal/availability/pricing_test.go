package availability_test

import (
	"testing"
	"time"

	"github.com/stayseek/venue-bookings/internal/availability"
)

func TestNights(t *testing.T) {
	may1 := day(2024, 5, 1)
	may4 := day(2024, 5, 4)

	tests := []struct {
		name       string
		start, end *time.Time
		want       int
	}{
		{"three nights", &may1, &may4, 3},
		{"nil start", nil, &may4, 0},
		{"nil end", &may1, nil, 0},
		{"both nil", nil, nil, 0},
		{"same day", &may1, &may1, 0},
		{"end before start", &may4, &may1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := availability.Nights(tt.start, tt.end); got != tt.want {
				t.Errorf("Nights() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNights_IgnoresTimeOfDay(t *testing.T) {
	lateCheckIn := time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)
	earlyCheckout := time.Date(2024, 5, 4, 1, 0, 0, 0, time.UTC)
	if got := availability.Nights(&lateCheckIn, &earlyCheckout); got != 3 {
		t.Errorf("Nights() = %d, want 3", got)
	}
}

func TestNewQuote(t *testing.T) {
	q := availability.NewQuote(3, 100, availability.DefaultVATRate)
	if q.Subtotal != 300 || q.VAT != 75 || q.Total != 375 {
		t.Errorf("unexpected quote %+v", q)
	}
	if q.Nights != 3 {
		t.Errorf("nights = %d, want 3", q.Nights)
	}
}

func TestNewQuote_ZeroNights(t *testing.T) {
	q := availability.NewQuote(0, 100, availability.DefaultVATRate)
	if q.Subtotal != 0 || q.VAT != 0 || q.Total != 0 {
		t.Errorf("expected zero quote, got %+v", q)
	}
}

func TestNewQuote_NegativeNightsClamped(t *testing.T) {
	q := availability.NewQuote(-2, 100, availability.DefaultVATRate)
	if q.Nights != 0 || q.Total != 0 {
		t.Errorf("expected zero quote, got %+v", q)
	}
}

func TestNewQuote_CustomRate(t *testing.T) {
	q := availability.NewQuote(2, 50, 0.1)
	if q.Subtotal != 100 || q.VAT != 100*0.1 || q.Total != 100+100*0.1 {
		t.Errorf("unexpected quote %+v", q)
	}
}

func TestValidateSelection(t *testing.T) {
	now := day(2024, 5, 1)
	in := day(2024, 5, 2)
	out := day(2024, 5, 5)

	if err := availability.ValidateSelection(&in, &out, 2, 4, now); err != nil {
		t.Fatalf("valid selection rejected: %v", err)
	}

	var selErr *availability.SelectionError

	err := availability.ValidateSelection(nil, &out, 2, 4, now)
	if err == nil {
		t.Fatal("missing check-in accepted")
	}

	past := day(2024, 4, 20)
	err = availability.ValidateSelection(&past, &out, 2, 4, now)
	if err == nil {
		t.Fatal("past check-in accepted")
	}
	selErr = err.(*availability.SelectionError)
	if _, ok := selErr.Fields()["date_from"]; !ok {
		t.Errorf("expected date_from error, got %v", selErr.Fields())
	}

	err = availability.ValidateSelection(&in, &in, 2, 4, now)
	if err == nil {
		t.Fatal("zero-night stay accepted")
	}

	err = availability.ValidateSelection(&in, &out, 5, 4, now)
	if err == nil {
		t.Fatal("over-capacity guests accepted")
	}
	selErr = err.(*availability.SelectionError)
	if _, ok := selErr.Fields()["guests"]; !ok {
		t.Errorf("expected guests error, got %v", selErr.Fields())
	}

	if err := availability.ValidateSelection(&in, &out, 0, 4, now); err == nil {
		t.Fatal("zero guests accepted")
	}
}
