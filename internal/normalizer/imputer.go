package normalizer

import (
	"database/sql"
	"math"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"hotelstar/internal/ingest"
	"hotelstar/internal/models"
	"hotelstar/internal/quality"
	"hotelstar/internal/reference"
)

// DefaultLoyaltyTier fills a missing loyalty tier.
const DefaultLoyaltyTier = "None"

// Imputer fills missing values using fixed rules. Rule order matters:
// revenue is recomputed from the night count derived from the dates.
type Imputer struct {
	tables reference.Tables
}

// NewImputer creates an imputer bound to the given reference tables.
func NewImputer(tables reference.Tables) *Imputer {
	return &Imputer{tables: tables}
}

// Impute returns a filled copy of records. Rows whose rate cannot be looked
// up keep a missing rate and are reported.
func (im *Imputer) Impute(records []models.Booking) ([]models.Booking, []quality.Issue) {
	out := slices.Clone(records)

	fillLoyaltyTier(out)
	fillNumGuests(out)
	recomputeNights(out)
	issues := im.fillDailyRate(out)
	fillTotalRevenue(out)

	return out, issues
}

func fillLoyaltyTier(records []models.Booking) {
	for i := range records {
		if !records[i].LoyaltyTier.Valid {
			records[i].LoyaltyTier = sql.NullString{String: DefaultLoyaltyTier, Valid: true}
			records[i].Imputed.LoyaltyTier = true
		}
	}
}

// fillNumGuests uses the median of the values present before any filling.
func fillNumGuests(records []models.Booking) {
	var present []int64

	for i := range records {
		if records[i].NumGuests.Valid {
			present = append(present, records[i].NumGuests.Int64)
		}
	}

	median, ok := Median(present)
	if !ok {
		return
	}

	for i := range records {
		if !records[i].NumGuests.Valid {
			records[i].NumGuests = sql.NullInt64{Int64: median, Valid: true}
			records[i].Imputed.NumGuests = true
		}
	}
}

// recomputeNights always overrides the stated nights with the date difference.
func recomputeNights(records []models.Booking) {
	for i := range records {
		records[i].Nights = StayNights(records[i].CheckIn, records[i].CheckOut)
	}
}

func (im *Imputer) fillDailyRate(records []models.Booking) []quality.Issue {
	var issues []quality.Issue

	for i := range records {
		b := &records[i]
		if b.DailyRate.Valid {
			continue
		}

		rate, ok := im.tables.ImputedRate(b.RoomType, b.RateCode)
		if !ok {
			issues = append(issues, quality.Issue{
				Row:              b.Row,
				ConfirmationCode: b.ConfirmationCode,
				Kind:             quality.KindUnknownRateKey,
				Field:            ingest.ColDailyRate,
				Value:            b.RoomType + "/" + b.RateCode,
			})

			continue
		}

		b.DailyRate = decimal.NullDecimal{Decimal: rate, Valid: true}
		b.Imputed.DailyRate = true
	}

	return issues
}

// fillTotalRevenue needs a known rate and known dates; otherwise revenue stays missing.
func fillTotalRevenue(records []models.Booking) {
	for i := range records {
		b := &records[i]
		if b.TotalRevenue.Valid || !b.DailyRate.Valid || !b.HasDates() {
			continue
		}

		b.TotalRevenue = decimal.NullDecimal{
			Decimal: b.DailyRate.Decimal.Mul(decimal.NewFromInt(int64(b.Nights))).Round(2),
			Valid:   true,
		}
		b.Imputed.TotalRevenue = true
	}
}

// StayNights returns whole days between check-in and check-out, or 0 when
// either date is missing.
func StayNights(checkIn, checkOut time.Time) int {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 0
	}

	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// Median returns the median of values rounded half away from zero to an
// integer. ok is false for an empty input.
func Median(values []int64) (median int64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}

	return int64(math.Round(float64(sorted[mid-1]+sorted[mid]) / 2)), true
}
