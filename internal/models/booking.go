// Package models defines the booking records and star-schema rows produced by the ETL pipeline.
package models

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical calendar-date format used in output tables.
const DateLayout = "2006-01-02"

// RawBooking is one row of the property-management export exactly as read.
// Every field is the untouched cell text; Row is the 1-based data row number.
type RawBooking struct {
	Row              int
	ConfirmationCode string
	GuestName        string
	LoyaltyTier      string
	RoomType         string
	RateCode         string
	CheckInDate      string
	CheckOutDate     string
	Nights           string
	DailyRate        string
	TotalRevenue     string
	BookingChannel   string
	IsCancelled      string
	GuestType        string
	NumGuests        string
	LeadDays         string
}

// Imputation records which fields were filled by the imputation engine.
type Imputation struct {
	LoyaltyTier  bool
	NumGuests    bool
	DailyRate    bool
	TotalRevenue bool
}

// Booking is a normalized booking. Dates are zero when the source text could
// not be parsed; Nights is zero until recomputed from valid dates.
type Booking struct {
	CheckIn          time.Time
	CheckOut         time.Time
	ConfirmationCode string
	GuestName        string
	RoomType         string
	RateCode         string
	BookingChannel   string
	GuestType        string
	LoyaltyTier      sql.NullString
	DailyRate        decimal.NullDecimal
	TotalRevenue     decimal.NullDecimal
	RawNights        sql.NullInt64
	NumGuests        sql.NullInt64
	LeadDays         sql.NullInt64
	Row              int
	Nights           int
	IsCancelled      bool
	Imputed          Imputation
}

// HasDates reports whether both stay dates were parsed.
func (b *Booking) HasDates() bool {
	return !b.CheckIn.IsZero() && !b.CheckOut.IsZero()
}

// Key returns a value identifying the booking by every normalized field.
// Row and imputation flags are bookkeeping and not part of the identity.
func (b *Booking) Key() string {
	fields := []string{
		b.ConfirmationCode,
		b.GuestName,
		nullString(b.LoyaltyTier),
		b.RoomType,
		b.RateCode,
		formatDate(b.CheckIn),
		formatDate(b.CheckOut),
		nullInt(b.RawNights),
		nullDecimal(b.DailyRate),
		nullDecimal(b.TotalRevenue),
		b.BookingChannel,
		fmt.Sprintf("%t", b.IsCancelled),
		b.GuestType,
		nullInt(b.NumGuests),
		nullInt(b.LeadDays),
	}

	return strings.Join(fields, "\x1f")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "\x00"
	}

	return t.Format(DateLayout)
}

func nullString(s sql.NullString) string {
	if !s.Valid {
		return "\x00"
	}

	return s.String
}

func nullInt(n sql.NullInt64) string {
	if !n.Valid {
		return "\x00"
	}

	return fmt.Sprintf("%d", n.Int64)
}

func nullDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return "\x00"
	}

	// String() drops trailing zeros, so 120.5 and 120.50 collapse.
	return d.Decimal.String()
}

// WithoutRows returns the bookings whose source row is not in drop, in order.
func WithoutRows(records []Booking, drop map[int]bool) []Booking {
	if len(drop) == 0 {
		return records
	}

	kept := make([]Booking, 0, len(records))

	for i := range records {
		if !drop[records[i].Row] {
			kept = append(kept, records[i])
		}
	}

	return kept
}
