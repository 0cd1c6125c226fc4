package normalizer

import (
	"errors"

	"hotelstar/internal/models"
)

// Validation errors.
var (
	ErrNonPositiveRate   = errors.New("daily rate missing or not positive")
	ErrNonPositiveNights = errors.New("nights not positive")
)

// Validator applies the positivity checks every clean booking must pass.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks a single booking.
func (v *Validator) Validate(b *models.Booking) error {
	if !b.DailyRate.Valid || !b.DailyRate.Decimal.IsPositive() {
		return ErrNonPositiveRate
	}

	if b.Nights <= 0 {
		return ErrNonPositiveNights
	}

	return nil
}

// Filter keeps the bookings that pass Validate, preserving order.
func (v *Validator) Filter(records []models.Booking) (kept []models.Booking, rejected int) {
	kept = make([]models.Booking, 0, len(records))

	for i := range records {
		if err := v.Validate(&records[i]); err != nil {
			rejected++
			continue
		}

		kept = append(kept, records[i])
	}

	return kept, rejected
}
