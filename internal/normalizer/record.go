package normalizer

import (
	"database/sql"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"hotelstar/internal/ingest"
	"hotelstar/internal/models"
	"hotelstar/internal/quality"
)

// Accepted check-in/check-out layouts, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
}

var (
	cancelledTrue  = map[string]bool{"y": true, "yes": true, "1": true}
	cancelledFalse = map[string]bool{"n": true, "no": true, "0": true}
)

// RecordNormalizer cleans the text of a single raw booking.
type RecordNormalizer struct {
	titler cases.Caser
}

// NewRecordNormalizer creates a new record normalizer.
func NewRecordNormalizer() *RecordNormalizer {
	return &RecordNormalizer{
		titler: cases.Title(language.Und),
	}
}

// Normalize trims and cases text fields, parses dates, numbers and the
// cancellation flag. Values that cannot be interpreted become missing (or
// false for the cancellation flag) and are reported as issues.
func (n *RecordNormalizer) Normalize(raw models.RawBooking) (models.Booking, []quality.Issue) {
	var issues []quality.Issue

	code := strings.TrimSpace(raw.ConfirmationCode)

	report := func(kind quality.Kind, field, value string) {
		issues = append(issues, quality.Issue{
			Row:              raw.Row,
			ConfirmationCode: code,
			Kind:             kind,
			Field:            field,
			Value:            value,
		})
	}

	b := models.Booking{
		Row:              raw.Row,
		ConfirmationCode: code,
		GuestName:        n.titler.String(strings.TrimSpace(raw.GuestName)),
		RoomType:         strings.ToUpper(strings.TrimSpace(raw.RoomType)),
		RateCode:         strings.ToUpper(strings.TrimSpace(raw.RateCode)),
		BookingChannel:   strings.TrimSpace(raw.BookingChannel),
		GuestType:        strings.TrimSpace(raw.GuestType),
	}

	if tier := strings.TrimSpace(raw.LoyaltyTier); !IsMissing(tier) {
		b.LoyaltyTier = sql.NullString{String: tier, Valid: true}
	}

	cancelled, known := ParseCancellation(raw.IsCancelled)
	b.IsCancelled = cancelled

	if !known {
		report(quality.KindUnknownCancellation, ingest.ColIsCancelled, raw.IsCancelled)
	}

	var ok bool
	if b.CheckIn, ok = ParseDate(raw.CheckInDate); !ok {
		report(quality.KindUnparsedDate, ingest.ColCheckInDate, raw.CheckInDate)
	}

	if b.CheckOut, ok = ParseDate(raw.CheckOutDate); !ok {
		report(quality.KindUnparsedDate, ingest.ColCheckOutDate, raw.CheckOutDate)
	}

	ints := []struct {
		dst   *sql.NullInt64
		field string
		value string
	}{
		{&b.RawNights, ingest.ColNights, raw.Nights},
		{&b.NumGuests, ingest.ColNumGuests, raw.NumGuests},
		{&b.LeadDays, ingest.ColLeadDays, raw.LeadDays},
	}

	for _, f := range ints {
		v, present, valid := parseInt(f.value)
		if present && !valid {
			report(quality.KindUnparsedNumber, f.field, f.value)
		}

		*f.dst = v
	}

	decimals := []struct {
		dst   *decimal.NullDecimal
		field string
		value string
	}{
		{&b.DailyRate, ingest.ColDailyRate, raw.DailyRate},
		{&b.TotalRevenue, ingest.ColTotalRevenue, raw.TotalRevenue},
	}

	for _, f := range decimals {
		v, present, valid := parseDecimal(f.value)
		if present && !valid {
			report(quality.KindUnparsedNumber, f.field, f.value)
		}

		*f.dst = v
	}

	return b, issues
}

// IsMissing reports whether a trimmed cell denotes an absent value.
func IsMissing(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "na", "n/a", "nan", "null":
		return true
	}

	return false
}

// ParseDate parses s as YYYY-MM-DD, then MM/DD/YYYY. The first layout that
// matches the whole string wins. ok is false when neither matches.
func ParseDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseCancellation maps the cancellation indicator to a boolean. Unrecognised
// encodings return false with known set to false.
func ParseCancellation(s string) (cancelled, known bool) {
	v := strings.ToLower(strings.TrimSpace(s))

	switch {
	case cancelledTrue[v]:
		return true, true
	case cancelledFalse[v]:
		return false, true
	default:
		return false, false
	}
}

// parseInt accepts integers and integral floats such as "2.0".
func parseInt(s string) (v sql.NullInt64, present, valid bool) {
	s = strings.TrimSpace(s)
	if IsMissing(s) {
		return sql.NullInt64{}, false, false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return sql.NullInt64{Int64: i, Valid: true}, true, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return sql.NullInt64{}, true, false
	}

	return sql.NullInt64{Int64: int64(f), Valid: true}, true, true
}

// parseDecimal reads a money value rounded half away from zero to cents.
func parseDecimal(s string) (v decimal.NullDecimal, present, valid bool) {
	s = strings.TrimSpace(s)
	if IsMissing(s) {
		return decimal.NullDecimal{}, false, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, true, false
	}

	return decimal.NullDecimal{Decimal: d.Round(2), Valid: true}, true, true
}
