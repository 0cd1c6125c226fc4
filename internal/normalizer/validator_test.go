package normalizer

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"hotelstar/internal/models"
)

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()
	rate := func(s string) decimal.NullDecimal {
		return decimal.NewNullDecimal(decimal.RequireFromString(s))
	}

	tests := []struct {
		wantErr error
		booking models.Booking
		name    string
	}{
		{name: "Valid", booking: models.Booking{DailyRate: rate("120"), Nights: 2}},
		{name: "Missing rate", booking: models.Booking{Nights: 2}, wantErr: ErrNonPositiveRate},
		{name: "Zero rate", booking: models.Booking{DailyRate: rate("0"), Nights: 2}, wantErr: ErrNonPositiveRate},
		{name: "Negative rate", booking: models.Booking{DailyRate: rate("-5"), Nights: 2}, wantErr: ErrNonPositiveRate},
		{name: "Zero nights", booking: models.Booking{DailyRate: rate("120")}, wantErr: ErrNonPositiveNights},
		{name: "Negative nights", booking: models.Booking{DailyRate: rate("120"), Nights: -1}, wantErr: ErrNonPositiveNights},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.booking)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidator_Filter(t *testing.T) {
	v := NewValidator()
	ok := decimal.NewNullDecimal(decimal.RequireFromString("99.5"))

	in := []models.Booking{
		{Row: 1, DailyRate: ok, Nights: 1},
		{Row: 2, DailyRate: ok},
		{Row: 3, Nights: 3},
		{Row: 4, DailyRate: ok, Nights: 4},
	}

	kept, rejected := v.Filter(in)
	if rejected != 2 {
		t.Errorf("rejected = %d, want 2", rejected)
	}

	if len(kept) != 2 || kept[0].Row != 1 || kept[1].Row != 4 {
		t.Errorf("kept = %+v, want rows 1 and 4 in order", kept)
	}
}
